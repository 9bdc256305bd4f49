package accountsdomain

import (
	"math"
	"strings"
)

// GlyphSet is the three segment glyphs of one bar state.
type GlyphSet struct {
	Left, Mid, Right string
}

// ProgressBar renders a fixed-width segmented bar.
type ProgressBar struct {
	On     GlyphSet
	Off    GlyphSet
	Length int
}

// DefaultProgressBar uses the bot's custom bar emojis.
var DefaultProgressBar = ProgressBar{
	On: GlyphSet{
		Left:  "<:mbarlefton:391971424442646534>",
		Mid:   "<:mbarmidon:391971424920797185>",
		Right: "<:mbarrighton:391971424488783875>",
	},
	Off: GlyphSet{
		Left:  "<:mbarleftoff:391971424824459265>",
		Mid:   "<:mbarmidoff:391971424824197123>",
		Right: "<:mbarrightoff:391971424862208000>",
	},
	Length: 6,
}

// OnSegments returns round(length * value / span) with value clamped to [0, span].
// A non-positive span lights nothing.
func OnSegments(value, span int64, length int) int {
	if span <= 0 || length <= 0 {
		return 0
	}
	value = min(max(value, 0), span)

	on := int(math.Round(float64(length) * float64(value) / float64(span)))
	return min(max(on, 0), length)
}

// Render returns exactly Length glyphs.
func (b ProgressBar) Render(value, span int64) string {
	if b.Length <= 0 {
		return ""
	}
	on := OnSegments(value, span, b.Length)

	var sb strings.Builder
	for i := 0; i < b.Length; i++ {
		set := b.Off
		if i < on {
			set = b.On
		}
		switch {
		case i == 0:
			sb.WriteString(set.Left)
		case i == b.Length-1:
			sb.WriteString(set.Right)
		default:
			sb.WriteString(set.Mid)
		}
	}
	return sb.String()
}
