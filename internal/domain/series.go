package domain

import "slices"

// SeriesPoint is one year of a series.
type SeriesPoint struct {
	Year                          int      `json:"year"`
	AverageTemperature            *float64 `json:"average_temperature"`
	AverageTemperatureUncertainty *float64 `json:"average_temperature_uncertainty"`
}

// Series is the yearly values of one entity, ready for charting.
type Series struct {
	Dimension Dimension     `json:"dimension"`
	Entity    string        `json:"entity"`
	Points    []SeriesPoint `json:"points"`
}

// BuildSeries splits a regional table into one series per region, in the order
// regions first appear. Points keep the row order, which is ascending year for
// tables produced by AggregateRegions.
func BuildSeries(d Dimension, rows []RegionObservation) []Series {
	index := make(map[string]int)
	var out []Series
	for _, row := range rows {
		i, ok := index[row.Region]
		if !ok {
			i = len(out)
			index[row.Region] = i
			out = append(out, Series{Dimension: d, Entity: row.Region})
		}
		out[i].Points = append(out[i].Points, pointOf(row))
	}
	return out
}

// Select extracts the series of each named entity, in the order given.
// A name with no rows yields a series with no points.
func Select(d Dimension, rows []RegionObservation, names []string) []Series {
	out := make([]Series, len(names))
	index := make(map[string]int, len(names))
	for i, name := range names {
		out[i] = Series{Dimension: d, Entity: name, Points: []SeriesPoint{}}
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, row := range rows {
		if i, ok := index[row.Region]; ok {
			out[i].Points = append(out[i].Points, pointOf(row))
		}
	}
	// Repeated names get their own copy of the first occurrence's points.
	for i, name := range names {
		if first := index[name]; first != i {
			out[i].Points = slices.Clone(out[first].Points)
		}
	}
	return out
}

func pointOf(row RegionObservation) SeriesPoint {
	return SeriesPoint{
		Year:                          row.Year,
		AverageTemperature:            row.AverageTemperature,
		AverageTemperatureUncertainty: row.AverageTemperatureUncertainty,
	}
}
