package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func annual(year int, city, country, lat string, temp, unc *float64) AnnualObservation {
	return AnnualObservation{
		Year:                          year,
		City:                          city,
		Country:                       country,
		Latitude:                      lat,
		Longitude:                     "0.00E",
		AverageTemperature:            temp,
		AverageTemperatureUncertainty: unc,
	}
}

func TestAggregateAnnual(t *testing.T) {
	rows := []Observation{
		obs("Paris", month(1851, 1), f(1), f(0.5)),
		obs("Paris", month(1850, 1), f(2), f(1)),
		obs("Paris", month(1850, 2), f(4), f(2)),
		obs("Paris", month(1850, 3), nil, f(3)),
		obs("Abidjan", month(1850, 6), f(26), nil),
	}

	got := AggregateAnnual(rows)

	want := []AnnualObservation{
		{Year: 1850, City: "Abidjan", Country: "France", Latitude: "49.03N", Longitude: "2.45E", AverageTemperature: f(26)},
		{Year: 1850, City: "Paris", Country: "France", Latitude: "49.03N", Longitude: "2.45E", AverageTemperature: f(3), AverageTemperatureUncertainty: f(2)},
		{Year: 1851, City: "Paris", Country: "France", Latitude: "49.03N", Longitude: "2.45E", AverageTemperature: f(1), AverageTemperatureUncertainty: f(0.5)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("annual mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateAnnual_AllMissingYieldsMissingMean(t *testing.T) {
	rows := []Observation{
		obs("Paris", month(1850, 1), nil, nil),
		obs("Paris", month(1850, 2), nil, nil),
	}

	got := AggregateAnnual(rows)

	require.Len(t, got, 1)
	assert.Nil(t, got[0].AverageTemperature)
	assert.Nil(t, got[0].AverageTemperatureUncertainty)
}

func TestAggregateAnnual_IdempotentOnAnnualData(t *testing.T) {
	rows := []Observation{
		obs("Paris", month(1850, 1), f(10.25), f(0.5)),
		obs("Paris", month(1851, 1), f(11.5), nil),
		obs("Rome", month(1850, 1), f(15.75), f(0.25)),
	}

	first := AggregateAnnual(rows)

	again := make([]Observation, len(first))
	for i, a := range first {
		again[i] = Observation{
			Time:                          time.Date(a.Year, time.January, 1, 0, 0, 0, 0, time.UTC),
			City:                          a.City,
			Country:                       a.Country,
			Latitude:                      a.Latitude,
			Longitude:                     a.Longitude,
			AverageTemperature:            a.AverageTemperature,
			AverageTemperatureUncertainty: a.AverageTemperatureUncertainty,
		}
	}

	if diff := cmp.Diff(first, AggregateAnnual(again)); diff != "" {
		t.Fatalf("re-aggregation changed values (-first +second):\n%s", diff)
	}
}

func TestAggregateAnnual_KeepsCitiesWithDifferentCoordinatesApart(t *testing.T) {
	a := obs("Santiago", month(1900, 1), f(10), nil)
	a.Country, a.Latitude = "Chile", "32.95S"
	b := obs("Santiago", month(1900, 1), f(25), nil)
	b.Country, b.Latitude = "Dominican Republic", "18.48N"

	got := AggregateAnnual([]Observation{a, b})

	require.Len(t, got, 2)
	assert.Equal(t, "Chile", got[0].Country)
	assert.Equal(t, "Dominican Republic", got[1].Country)
}

func TestAggregateRegions_ByCountry(t *testing.T) {
	rows := []AnnualObservation{
		annual(1900, "Paris", "France", "49.03N", f(10), f(1)),
		annual(1900, "Lyon", "France", "45.81N", f(12), f(3)),
		annual(1899, "Paris", "France", "49.03N", f(9), nil),
		annual(1900, "Berlin", "Germany", "52.24N", f(8), f(0.5)),
	}

	got, err := AggregateRegions(rows, ByCountry)
	require.NoError(t, err)

	want := []RegionObservation{
		{Year: 1899, Region: "France", AverageTemperature: f(9)},
		{Year: 1900, Region: "France", AverageTemperature: f(11), AverageTemperatureUncertainty: f(2)},
		{Year: 1900, Region: "Germany", AverageTemperature: f(8), AverageTemperatureUncertainty: f(0.5)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("country mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateRegions_ByContinentPassesThroughUnknownCountries(t *testing.T) {
	rows := []AnnualObservation{
		annual(1900, "Paris", "France", "49.03N", f(10), nil),
		annual(1900, "Berlin", "Germany", "52.24N", f(8), nil),
		annual(1900, "Poseidonia", "Atlantis", "31.35N", f(20), nil),
	}

	got, err := AggregateRegions(rows, ByContinent)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Atlantis", got[0].Region)
	assert.InDelta(t, 20.0, *got[0].AverageTemperature, 1e-9)
	assert.Equal(t, ContinentEurope, got[1].Region)
	assert.InDelta(t, 9.0, *got[1].AverageTemperature, 1e-9)
}

func TestAggregateRegions_ByLatitudeBand(t *testing.T) {
	rows := []AnnualObservation{
		annual(1900, "Paris", "France", "49.03N", f(10), nil),
		annual(1900, "Abidjan", "Côte D'Ivoire", "5.63N", f(26), nil),
		annual(1900, "Lima", "Peru", "12.05S", f(18), nil),
		annual(1900, "Sydney", "Australia", "34.56S", f(17), nil),
	}

	got, err := AggregateRegions(rows, ByLatitudeBand)
	require.NoError(t, err)

	labels := make(map[string]float64)
	for _, r := range got {
		labels[r.Region] = *r.AverageTemperature
	}
	assert.Equal(t, map[string]float64{"Equator": 22, "North": 10, "South": 17}, labels)
}

func TestAggregateRegions_ByLatitudeBandRejectsMalformedLabel(t *testing.T) {
	rows := []AnnualObservation{
		annual(1900, "Paris", "France", "north-ish", f(10), nil),
	}

	_, err := AggregateRegions(rows, ByLatitudeBand)

	var malformed *MalformedLatitudeError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "north-ish", malformed.Label)
}

func TestAggregateRegions_World(t *testing.T) {
	rows := []AnnualObservation{
		annual(1900, "Paris", "France", "49.03N", f(10), f(1)),
		annual(1900, "Lima", "Peru", "12.05S", f(20), nil),
		annual(1900, "Rome", "Italy", "42.59N", nil, f(3)),
		annual(1901, "Paris", "France", "49.03N", f(11), nil),
	}

	got, err := AggregateRegions(rows, World)
	require.NoError(t, err)

	want := []RegionObservation{
		{Year: 1900, Region: WorldRegion, AverageTemperature: f(15), AverageTemperatureUncertainty: f(2)},
		{Year: 1901, Region: WorldRegion, AverageTemperature: f(11)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("world mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectionFor(t *testing.T) {
	row := annual(1900, "Paris", "France", "49.03N", nil, nil)
	tests := []struct {
		dim  Dimension
		want string
	}{
		{DimensionCity, "Paris"},
		{DimensionCountry, "France"},
		{DimensionContinent, ContinentEurope},
		{DimensionLatitude, "North"},
		{DimensionWorld, WorldRegion},
	}
	for _, tt := range tests {
		t.Run(string(tt.dim), func(t *testing.T) {
			p, err := ProjectionFor(tt.dim)
			require.NoError(t, err)
			got, err := p(row)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ProjectionFor("galaxy")
	assert.Error(t, err)
}
