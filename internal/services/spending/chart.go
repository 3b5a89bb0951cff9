package spending

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/fintrack/internal/models"
)

// RenderBreakdownChart renders a PNG pie chart with one slice per category,
// coloured with the category colours. Returns raw PNG bytes.
func RenderBreakdownChart(breakdown []models.CategorySpend, title string) ([]byte, error) {
	if len(breakdown) == 0 {
		return nil, fmt.Errorf("no spending to chart for %s", title)
	}

	values := make([]chart.Value, len(breakdown))
	for i, c := range breakdown {
		values[i] = chart.Value{
			Value: c.Amount,
			Label: fmt.Sprintf("%s %.0f%%", c.Label, c.Percentage),
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex(strings.TrimPrefix(c.Color, "#")),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
			},
		}
	}

	pie := chart.PieChart{
		Title:  "Spending by Category (" + title + ")",
		Width:  512,
		Height: 512,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
