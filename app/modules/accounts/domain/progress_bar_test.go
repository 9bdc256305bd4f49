package accountsdomain

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testBar = ProgressBar{
	On:     GlyphSet{Left: "[", Mid: "#", Right: "]"},
	Off:    GlyphSet{Left: "(", Mid: "-", Right: ")"},
	Length: 6,
}

func TestOnSegments(t *testing.T) {
	tests := []struct {
		name        string
		value, span int64
		want        int
	}{
		{"empty", 0, 100, 0},
		{"full", 100, 100, 6},
		{"half", 50, 100, 3},
		{"rounds half up", 25, 100, 2},
		{"rounds down", 10, 100, 1},
		{"negative value clamps", -40, 100, 0},
		{"overflowing value clamps", 400, 100, 6},
		{"zero span", 5, 0, 0},
		{"negative span", 5, -10, 0},
		{"huge values", math.MaxInt64 / 2, math.MaxInt64, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OnSegments(tt.value, tt.span, 6))
		})
	}
}

func TestRenderLength(t *testing.T) {
	edges := [][2]int64{
		{0, 0}, {1, 0}, {-1, 0}, {0, -1}, {math.MaxInt64, 1}, {math.MinInt64, 1},
		{3, 10}, {10, 10}, {11, 10}, {math.MaxInt64, math.MaxInt64},
	}
	for _, e := range edges {
		out := testBar.Render(e[0], e[1])
		assert.Equal(t, 6, len(out), "value=%d span=%d out=%q", e[0], e[1], out)
	}

	for _, e := range edges {
		out := DefaultProgressBar.Render(e[0], e[1])
		assert.Equal(t, 6, strings.Count(out, "<:"), "default bar glyph count for %v", e)
	}
}

func TestRenderGlyphPositions(t *testing.T) {
	assert.Equal(t, "(----)", testBar.Render(0, 10))
	assert.Equal(t, "[##--)", testBar.Render(5, 10))
	assert.Equal(t, "[####]", testBar.Render(10, 10))
	assert.Equal(t, "[----)", testBar.Render(1, 10))
	assert.Equal(t, "(----)", testBar.Render(7, 0))
	assert.Equal(t, "", ProgressBar{}.Render(1, 2))
}
