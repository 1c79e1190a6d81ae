package domain

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/dolthub/swiss"
)

// Projection derives the region label an annual row is grouped under.
type Projection func(AnnualObservation) (string, error)

// WorldRegion is the single label used by the world projection.
const WorldRegion = "world"

// ByCity groups rows by city name.
func ByCity(row AnnualObservation) (string, error) { return row.City, nil }

// ByCountry groups rows by country name.
func ByCountry(row AnnualObservation) (string, error) { return row.Country, nil }

// ByContinent groups rows by the continent of their country. Countries absent
// from the continent table keep their own name as the label.
func ByContinent(row AnnualObservation) (string, error) { return Continent(row.Country), nil }

// ByLatitudeBand groups rows into North, Equator and South.
func ByLatitudeBand(row AnnualObservation) (string, error) {
	band, err := ClassifyLatitude(row.Latitude)
	if err != nil {
		return "", err
	}
	return string(band), nil
}

// World puts every row under one label, reducing the key to the year alone.
func World(AnnualObservation) (string, error) { return WorldRegion, nil }

// ProjectionFor returns the projection behind a dimension.
func ProjectionFor(d Dimension) (Projection, error) {
	switch d {
	case DimensionCity:
		return ByCity, nil
	case DimensionCountry:
		return ByCountry, nil
	case DimensionContinent:
		return ByContinent, nil
	case DimensionLatitude:
		return ByLatitudeBand, nil
	case DimensionWorld:
		return World, nil
	default:
		return nil, fmt.Errorf("unknown dimension %q", d)
	}
}

// mean accumulates the arithmetic mean of present values.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v *float64) {
	if v == nil {
		return
	}
	m.sum += *v
	m.n++
}

// value returns nil when no present value was added.
func (m *mean) value() *float64 {
	if m.n == 0 {
		return nil
	}
	v := m.sum / float64(m.n)
	return &v
}

type annualKey struct {
	year      int
	city      string
	country   string
	latitude  string
	longitude string
}

type annualGroup struct {
	key         annualKey
	temperature mean
	uncertainty mean
}

// AggregateAnnual truncates each observation to its calendar year and averages
// temperature and uncertainty per (year, city, country, latitude, longitude).
// The result is sorted by city, then year.
func AggregateAnnual(rows []Observation) []AnnualObservation {
	index := swiss.NewMap[annualKey, int](uint32(len(rows)/12 + 1))
	groups := make([]annualGroup, 0, len(rows)/12+1)

	for i := range rows {
		row := &rows[i]
		key := annualKey{
			year:      row.Time.Year(),
			city:      row.City,
			country:   row.Country,
			latitude:  row.Latitude,
			longitude: row.Longitude,
		}
		idx, ok := index.Get(key)
		if !ok {
			idx = len(groups)
			groups = append(groups, annualGroup{key: key})
			index.Put(key, idx)
		}
		groups[idx].temperature.add(row.AverageTemperature)
		groups[idx].uncertainty.add(row.AverageTemperatureUncertainty)
	}

	out := make([]AnnualObservation, len(groups))
	for i := range groups {
		g := &groups[i]
		out[i] = AnnualObservation{
			Year:                          g.key.year,
			City:                          g.key.city,
			Country:                       g.key.country,
			Latitude:                      g.key.latitude,
			Longitude:                     g.key.longitude,
			AverageTemperature:            g.temperature.value(),
			AverageTemperatureUncertainty: g.uncertainty.value(),
		}
	}

	slices.SortStableFunc(out, func(a, b AnnualObservation) int {
		return cmp.Or(
			cmp.Compare(a.City, b.City),
			cmp.Compare(a.Year, b.Year),
			cmp.Compare(a.Country, b.Country),
			cmp.Compare(a.Latitude, b.Latitude),
			cmp.Compare(a.Longitude, b.Longitude),
		)
	})
	return out
}

type regionKey struct {
	year   int
	region string
}

type regionGroup struct {
	key         regionKey
	temperature mean
	uncertainty mean
}

// AggregateRegions averages annual rows per (year, label) where the label comes
// from project. The result is sorted by region, then year. A projection error
// aborts the aggregation.
func AggregateRegions(rows []AnnualObservation, project Projection) ([]RegionObservation, error) {
	index := swiss.NewMap[regionKey, int](64)
	var groups []regionGroup

	for i := range rows {
		row := rows[i]
		label, err := project(row)
		if err != nil {
			return nil, err
		}
		key := regionKey{year: row.Year, region: label}
		idx, ok := index.Get(key)
		if !ok {
			idx = len(groups)
			groups = append(groups, regionGroup{key: key})
			index.Put(key, idx)
		}
		groups[idx].temperature.add(row.AverageTemperature)
		groups[idx].uncertainty.add(row.AverageTemperatureUncertainty)
	}

	out := make([]RegionObservation, len(groups))
	for i := range groups {
		g := &groups[i]
		out[i] = RegionObservation{
			Year:                          g.key.year,
			Region:                        g.key.region,
			AverageTemperature:            g.temperature.value(),
			AverageTemperatureUncertainty: g.uncertainty.value(),
		}
	}

	slices.SortFunc(out, func(a, b RegionObservation) int {
		return cmp.Or(
			cmp.Compare(a.Region, b.Region),
			cmp.Compare(a.Year, b.Year),
		)
	})
	return out, nil
}
