package analytics

import "github.com/bobmcallan/fintrack/internal/models"

// RangeStart returns the first calendar day included by rng relative to today.
// The second result is false for ALL, which has no lower bound.
func RangeStart(rng models.TimeRange, today models.Date) (models.Date, bool) {
	switch rng {
	case models.TimeRangeWeek:
		return today.AddDays(-7), true
	case models.TimeRangeMonth:
		return today.AddMonths(-1), true
	case models.TimeRangeThreeMonths:
		return today.AddMonths(-3), true
	case models.TimeRangeYear:
		return today.AddYears(-1), true
	}
	return models.Date{}, false
}

// FilterHistory keeps the points dated on or after the range cutoff. ALL returns
// the input series itself.
func FilterHistory(points []models.ChartDataPoint, rng models.TimeRange, today models.Date) []models.ChartDataPoint {
	cutoff, bounded := RangeStart(rng, today)
	if !bounded {
		return points
	}

	out := make([]models.ChartDataPoint, 0, len(points))
	for _, p := range points {
		if !p.Date.Before(cutoff) {
			out = append(out, p)
		}
	}
	return out
}
