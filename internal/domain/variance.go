package domain

import (
	"cmp"
	"slices"
)

// DefaultTopN is the size of the most and least affected views.
const DefaultTopN = 5

// Delta is the annual temperature range of one entity.
type Delta struct {
	Entity string  `json:"entity"`
	Delta  float64 `json:"delta"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// VarianceReport holds one Delta per entity, sorted by descending delta.
// Entities with equal deltas keep the order in which they were first seen.
type VarianceReport struct {
	Deltas []Delta `json:"deltas"`
}

// AnalyzeVariability computes max minus min of the annual temperature of every
// entity, treating the region label as the entity. Missing temperatures are
// skipped; an entity with no temperature at all is left out of the report.
func AnalyzeVariability(rows []RegionObservation) VarianceReport {
	index := make(map[string]int)
	var deltas []Delta

	for _, row := range rows {
		if row.AverageTemperature == nil {
			continue
		}
		v := *row.AverageTemperature
		i, ok := index[row.Region]
		if !ok {
			index[row.Region] = len(deltas)
			deltas = append(deltas, Delta{Entity: row.Region, Min: v, Max: v})
			continue
		}
		d := &deltas[i]
		d.Min = min(d.Min, v)
		d.Max = max(d.Max, v)
	}

	for i := range deltas {
		deltas[i].Delta = deltas[i].Max - deltas[i].Min
	}
	slices.SortStableFunc(deltas, func(a, b Delta) int {
		return cmp.Compare(b.Delta, a.Delta)
	})
	return VarianceReport{Deltas: deltas}
}

// MostAffected returns the n entities with the widest range, widest first.
// A non-positive n means DefaultTopN.
func (r VarianceReport) MostAffected(n int) []Delta {
	return head(r.Deltas, n)
}

// LeastAffected returns the n entities with the narrowest range, narrowest first.
// A non-positive n means DefaultTopN.
func (r VarianceReport) LeastAffected(n int) []Delta {
	asc := slices.Clone(r.Deltas)
	// Stable over the descending order, so ties stay in first-seen order.
	slices.SortStableFunc(asc, func(a, b Delta) int {
		return cmp.Compare(a.Delta, b.Delta)
	})
	return head(asc, n)
}

func head(deltas []Delta, n int) []Delta {
	if n <= 0 {
		n = DefaultTopN
	}
	n = min(n, len(deltas))
	return slices.Clone(deltas[:n])
}

// Ranking is the pair of user-facing views over a VarianceReport.
type Ranking struct {
	MostAffected  []Delta `json:"most_affected"`
	LeastAffected []Delta `json:"least_affected"`
}

// Rank builds both views of size n.
func (r VarianceReport) Rank(n int) Ranking {
	return Ranking{
		MostAffected:  r.MostAffected(n),
		LeastAffected: r.LeastAffected(n),
	}
}
