package portfolio

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/fintrack/internal/models"
)

// chartDateLayout picks the x-axis label layout for a range.
func chartDateLayout(rng models.TimeRange) string {
	switch rng {
	case models.TimeRangeWeek:
		return "Mon"
	case models.TimeRangeMonth, models.TimeRangeThreeMonths:
		return "Jan 2"
	default:
		return "Jan 06"
	}
}

// RenderHistoryChart renders a PNG line chart of portfolio value.
// The line is green when the range ends above where it started, red otherwise.
// Returns raw PNG bytes.
func RenderHistoryChart(points []models.ChartDataPoint, rng models.TimeRange) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(points))
	}

	xValues := make([]time.Time, len(points))
	yValues := make([]float64, len(points))
	for i, p := range points {
		xValues[i] = p.Date.Time()
		yValues[i] = p.Value
	}

	color := "22c55e" // green-500
	if yValues[len(yValues)-1] < yValues[0] {
		color = "ef4444" // red-500
	}

	valueSeries := chart.TimeSeries{
		Name: "Portfolio Value",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex(color),
			FillColor:   drawing.ColorFromHex(color).WithAlpha(40),
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: yValues,
	}

	layout := chartDateLayout(rng)
	graph := chart.Chart{
		Title:  fmt.Sprintf("Portfolio Value (%s)", rng),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format(layout)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0fk", f/1000)
				}
				return ""
			},
		},
		Series: []chart.Series{valueSeries},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
