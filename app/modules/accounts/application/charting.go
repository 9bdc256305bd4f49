package accountsservice

import (
	"bytes"
	"fmt"
	"math"

	accountsdomain "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain"
	"github.com/Black-And-White-Club/accounts-bot/internal/mikiapi"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette is the colour scheme of rendered charts.
type ChartPalette struct {
	Background drawing.Color
	Bar        drawing.Color
	TextColor  drawing.Color
}

// DefaultChartPalette matches the dark chat client theme.
var DefaultChartPalette = ChartPalette{
	Background: drawing.ColorFromHex("2f3136"),
	Bar:        drawing.ColorFromHex("ff8c00"),
	TextColor:  drawing.ColorFromHex("dcddde"),
}

// maxLabelRunes keeps bar labels from overlapping.
const maxLabelRunes = 10

// GenerateLeaderboardChart produces a PNG bar chart of one leaderboard page.
func GenerateLeaderboardChart(q accountsdomain.LeaderboardQuery, page mikiapi.LeaderboardPage, palette ChartPalette) ([]byte, error) {
	if len(page.Items) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	// Bars grow from zero; an explicit range also keeps a page of equal
	// values from collapsing the axis.
	top := 1.0
	bars := make([]chart.Value, len(page.Items))
	for i, item := range page.Items {
		top = math.Max(top, float64(item.Value))
		bars[i] = chart.Value{
			Value: float64(item.Value),
			Label: fmt.Sprintf("#%d %s", accountsdomain.EntryRank(page.CurrentPage, i), truncateLabel(item.Name)),
			Style: chart.Style{
				FillColor:   palette.Bar,
				StrokeColor: palette.Bar,
			},
		}
	}

	graph := chart.BarChart{
		Title:  q.Type.Title(),
		Width:  1024,
		Height: 400,
		TitleStyle: chart.Style{
			FontColor: palette.TextColor,
		},
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.Style{
			FontColor: palette.TextColor,
			FontSize:  8,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
			Range: &chart.ContinuousRange{Min: 0, Max: top},
		},
		BarWidth:   60,
		BarSpacing: 20,
		Bars:       bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func truncateLabel(name string) string {
	runes := []rune(name)
	if len(runes) <= maxLabelRunes {
		return name
	}
	return string(runes[:maxLabelRunes-1]) + "…"
}

// renderNoDataPlaceholder draws directly on a PNG renderer since go-chart
// refuses to render a chart without series.
func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No entries on this page"
	)

	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}

	chart.Draw.Box(r, chart.Box{Right: width, Bottom: height}, chart.Style{
		FillColor:   palette.Background,
		StrokeColor: palette.Background,
	})

	textStyle := chart.Style{
		Font:      font,
		FontSize:  12,
		FontColor: palette.TextColor,
	}
	tb := chart.Draw.MeasureText(r, msg, textStyle)
	chart.Draw.Text(r, msg, (width-tb.Width())/2, (height+tb.Height())/2, textStyle)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
