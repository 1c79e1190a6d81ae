package domain

import "time"

// Report is everything one pipeline run produces. It is not modified after the
// pipeline hands it to sinks.
type Report struct {
	RunID       string                            `json:"run_id"`
	GeneratedAt time.Time                         `json:"generated_at"`
	TopN        int                               `json:"top_n"`
	Summary     DatasetSummary                    `json:"summary"`
	Fill        FillStats                         `json:"fill"`
	Annual      []AnnualObservation               `json:"annual"`
	Regions     map[Dimension][]RegionObservation `json:"regions"`
	Variability map[Dimension]VarianceReport      `json:"-"`
	Rankings    map[Dimension]Ranking             `json:"rankings"`
	Selections  []Series                          `json:"selections"`
}

// NewReport starts an empty report stamped with the current time.
func NewReport(runID string, topN int) *Report {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Report{
		RunID:       runID,
		GeneratedAt: clock.Now().UTC(),
		TopN:        topN,
		Regions:     make(map[Dimension][]RegionObservation, len(Dimensions)),
		Variability: make(map[Dimension]VarianceReport, 2),
		Rankings:    make(map[Dimension]Ranking, 2),
	}
}

// Series returns every series of a dimension, or false if it was not aggregated.
func (r *Report) Series(d Dimension) ([]Series, bool) {
	rows, ok := r.Regions[d]
	if !ok {
		return nil, false
	}
	return BuildSeries(d, rows), true
}

// AllSeries returns the series of every aggregated dimension in report order.
func (r *Report) AllSeries() []Series {
	var out []Series
	for _, d := range Dimensions {
		if s, ok := r.Series(d); ok {
			out = append(out, s...)
		}
	}
	return out
}
