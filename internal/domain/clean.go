package domain

import (
	"cmp"
	"slices"
)

// FillStats counts what ForwardFill did per measurement column.
type FillStats struct {
	TemperatureImputed    int `json:"temperature_imputed"`
	TemperatureUnresolved int `json:"temperature_unresolved"`
	UncertaintyImputed    int `json:"uncertainty_imputed"`
	UncertaintyUnresolved int `json:"uncertainty_unresolved"`
}

// SortObservations orders rows by city, then time, keeping the input order of ties.
func SortObservations(rows []Observation) {
	slices.SortStableFunc(rows, func(a, b Observation) int {
		return cmp.Or(
			cmp.Compare(a.City, b.City),
			a.Time.Compare(b.Time),
		)
	})
}

// ForwardFill replaces each missing temperature and uncertainty with the last
// present value of the same city, scanning rows in order. The table must already
// be sorted by (city, time). A value is never carried across a city boundary, so
// rows before the first present value of a city remain nil (counted as unresolved).
// Rows are mutated in place; the row count and other columns are unchanged.
func ForwardFill(rows []Observation) FillStats {
	var stats FillStats
	var city string
	var lastTemp, lastUnc *float64

	for i := range rows {
		row := &rows[i]
		if i == 0 || row.City != city {
			city = row.City
			lastTemp, lastUnc = nil, nil
		}

		lastTemp = fill(&row.AverageTemperature, lastTemp, &stats.TemperatureImputed, &stats.TemperatureUnresolved)
		lastUnc = fill(&row.AverageTemperatureUncertainty, lastUnc, &stats.UncertaintyImputed, &stats.UncertaintyUnresolved)
	}
	return stats
}

// fill imputes *field from last when missing and returns the value to carry forward.
func fill(field **float64, last *float64, imputed, unresolved *int) *float64 {
	if *field != nil {
		return *field
	}
	if last == nil {
		*unresolved++
		return nil
	}
	v := *last
	*field = &v
	*imputed++
	return last
}
