package domain

import "time"

// DatasetSummary describes a loaded table before any cleaning.
type DatasetSummary struct {
	Rows               int       `json:"rows"`
	From               time.Time `json:"from"`
	To                 time.Time `json:"to"`
	Cities             []string  `json:"cities"`
	Countries          []string  `json:"countries"`
	MissingTemperature int       `json:"missing_temperature"`
	MissingUncertainty int       `json:"missing_uncertainty"`
}

// Summarize reports the date range, the distinct cities and countries in order
// of first appearance, and the missing measurement counts.
func Summarize(rows []Observation) DatasetSummary {
	s := DatasetSummary{Rows: len(rows)}
	cities := make(map[string]struct{})
	countries := make(map[string]struct{})

	for i, row := range rows {
		if i == 0 || row.Time.Before(s.From) {
			s.From = row.Time
		}
		if i == 0 || row.Time.After(s.To) {
			s.To = row.Time
		}
		if _, ok := cities[row.City]; !ok {
			cities[row.City] = struct{}{}
			s.Cities = append(s.Cities, row.City)
		}
		if _, ok := countries[row.Country]; !ok {
			countries[row.Country] = struct{}{}
			s.Countries = append(s.Countries, row.Country)
		}
		if row.AverageTemperature == nil {
			s.MissingTemperature++
		}
		if row.AverageTemperatureUncertainty == nil {
			s.MissingUncertainty++
		}
	}
	return s
}
