// Package domain models monthly land temperature observations per major city
// and the transformations that turn them into annual and regional series.
//
// # Data Source
//
// Observations come from the Berkeley Earth "GlobalLandTemperaturesByMajorCity"
// CSV. Each row is one month for one city:
//
//	dt,AverageTemperature,AverageTemperatureUncertainty,City,Country,Latitude,Longitude
//	1849-01-01,26.704,1.435,Abidjan,Côte D'Ivoire,5.63N,3.23W
//
// Dates are always the first of the month. Temperatures are degrees Celsius and
// may be empty, which is treated as missing.
//
// # Coordinate Labels
//
// Latitude and longitude are labels, not signed numbers: a non-negative magnitude
// followed by a hemisphere letter ("45.2N", "0.5S", "3.23W"). Only latitude is
// interpreted, by [ClassifyLatitude]:
//
//	magnitude < 30             Equator (hemisphere letter ignored, may be absent)
//	magnitude >= 30, suffix N  North
//	magnitude >= 30, suffix S  South
//
// Anything else, including a bare magnitude of 30 or more, is rejected with a
// [MalformedLatitudeError].
//
// # Pipeline
//
// The transformations run in a fixed order. Steps 1 and 2 work in place; the
// later steps each return a fresh table:
//
//  1. [SortObservations] orders rows by (city, time), the precondition of step 2.
//  2. [ForwardFill] imputes missing values from the previous row of the same city.
//     The leading rows of a city stay missing if nothing precedes them.
//  3. [AggregateAnnual] averages months into (year, city, country, lat, lon) rows.
//  4. [AggregateRegions] averages annual rows per (year, label), where the label
//     comes from a [Projection]: city, country, continent, latitude band or world.
//  5. [AnalyzeVariability] ranks entities by max minus min annual temperature.
//
// Means ignore missing values. A group with no values at all yields a missing
// (nil) mean rather than an error.
package domain
