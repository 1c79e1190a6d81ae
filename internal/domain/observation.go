package domain

import (
	"fmt"
	"time"
)

// Observation is one month's reading for one city. Missing measurements are nil.
type Observation struct {
	Time                          time.Time `json:"dt"`
	City                          string    `json:"city"`
	Country                       string    `json:"country"`
	Latitude                      string    `json:"latitude"`
	Longitude                     string    `json:"longitude"`
	AverageTemperature            *float64  `json:"average_temperature"`
	AverageTemperatureUncertainty *float64  `json:"average_temperature_uncertainty"`
}

// AnnualObservation is the yearly mean of a city's monthly observations.
type AnnualObservation struct {
	Year                          int      `json:"year"`
	City                          string   `json:"city"`
	Country                       string   `json:"country"`
	Latitude                      string   `json:"latitude"`
	Longitude                     string   `json:"longitude"`
	AverageTemperature            *float64 `json:"average_temperature"`
	AverageTemperatureUncertainty *float64 `json:"average_temperature_uncertainty"`
}

// RegionObservation is the yearly mean over every annual row sharing a region label.
type RegionObservation struct {
	Year                          int      `json:"year"`
	Region                        string   `json:"region"`
	AverageTemperature            *float64 `json:"average_temperature"`
	AverageTemperatureUncertainty *float64 `json:"average_temperature_uncertainty"`
}

// Dimension names a grouping used for regional aggregation and series.
type Dimension string

const (
	DimensionCity      Dimension = "city"
	DimensionCountry   Dimension = "country"
	DimensionContinent Dimension = "continent"
	DimensionLatitude  Dimension = "latitude"
	DimensionWorld     Dimension = "world"
)

// Dimensions lists every supported dimension in report order.
var Dimensions = []Dimension{
	DimensionCity,
	DimensionCountry,
	DimensionContinent,
	DimensionLatitude,
	DimensionWorld,
}

// ParseDimension validates a dimension name.
func ParseDimension(s string) (Dimension, error) {
	for _, d := range Dimensions {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown dimension %q", s)
}

// Selection names the entities of one dimension whose series should be extracted.
type Selection struct {
	Dimension Dimension `json:"dimension"`
	Names     []string  `json:"names"`
}

// RequiredColumns are the CSV header names every input must carry.
var RequiredColumns = []string{
	"dt",
	"City",
	"Country",
	"Latitude",
	"Longitude",
	"AverageTemperature",
	"AverageTemperatureUncertainty",
}
