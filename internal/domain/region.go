package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// LatitudeBand is the coarse latitude classification of a city.
type LatitudeBand string

const (
	BandNorth   LatitudeBand = "North"
	BandEquator LatitudeBand = "Equator"
	BandSouth   LatitudeBand = "South"
)

// equatorLimit is the magnitude, in degrees, at which North and South begin.
const equatorLimit = 30.0

// latitudeRe matches "<magnitude>" optionally followed by a hemisphere letter,
// e.g. "45.2N", "0.5S", "15.3".
var latitudeRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)([NS]?)$`)

// ClassifyLatitude maps a latitude label to its band. Magnitudes below 30 are
// Equator whatever the suffix; from 30 up the N or S suffix decides. Labels that
// do not match, exceed 90 degrees, or have no suffix at 30 or more are rejected.
func ClassifyLatitude(label string) (LatitudeBand, error) {
	s := strings.ToUpper(strings.TrimSpace(label))
	m := latitudeRe.FindStringSubmatch(s)
	if m == nil {
		return "", &MalformedLatitudeError{Label: label}
	}
	magnitude, err := strconv.ParseFloat(m[1], 64)
	if err != nil || magnitude > 90 {
		return "", &MalformedLatitudeError{Label: label}
	}

	switch {
	case magnitude < equatorLimit:
		return BandEquator, nil
	case m[2] == "N":
		return BandNorth, nil
	case m[2] == "S":
		return BandSouth, nil
	default:
		return "", &MalformedLatitudeError{Label: label}
	}
}

// Continent names. Anything else returned by Continent is a pass-through country.
const (
	ContinentAfrica  = "Africa"
	ContinentAmerica = "America"
	ContinentAsia    = "Asia"
	ContinentEurope  = "Europe"
	ContinentOceania = "Oceania"
)

// continents covers the countries of the major-city dataset. It is read-only.
var continents = map[string]string{
	"Afghanistan":                      ContinentAsia,
	"Angola":                           ContinentAfrica,
	"Australia":                        ContinentOceania,
	"Bangladesh":                       ContinentAsia,
	"Brazil":                           ContinentAmerica,
	"Burma":                            ContinentAsia,
	"Canada":                           ContinentAmerica,
	"Chile":                            ContinentAmerica,
	"China":                            ContinentAsia,
	"Colombia":                         ContinentAmerica,
	"Côte D'Ivoire":                    ContinentAfrica,
	"Democratic Republic Of The Congo": ContinentAfrica,
	"Dominican Republic":               ContinentAmerica,
	"Egypt":                            ContinentAfrica,
	"Ethiopia":                         ContinentAfrica,
	"France":                           ContinentEurope,
	"Germany":                          ContinentEurope,
	"India":                            ContinentAsia,
	"Indonesia":                        ContinentAsia,
	"Iran":                             ContinentAsia,
	"Iraq":                             ContinentAsia,
	"Italy":                            ContinentEurope,
	"Japan":                            ContinentAsia,
	"Kenya":                            ContinentAfrica,
	"Mexico":                           ContinentAmerica,
	"Morocco":                          ContinentAfrica,
	"New Zealand":                      ContinentOceania,
	"Nigeria":                          ContinentAfrica,
	"Pakistan":                         ContinentAsia,
	"Peru":                             ContinentAmerica,
	"Philippines":                      ContinentAsia,
	"Russia":                           ContinentEurope,
	"Saudi Arabia":                     ContinentAsia,
	"Senegal":                          ContinentAfrica,
	"Singapore":                        ContinentAsia,
	"Somalia":                          ContinentAfrica,
	"South Africa":                     ContinentAfrica,
	"South Korea":                      ContinentAsia,
	"Spain":                            ContinentEurope,
	"Sudan":                            ContinentAfrica,
	"Syria":                            ContinentAsia,
	"Taiwan":                           ContinentAsia,
	"Tanzania":                         ContinentAfrica,
	"Thailand":                         ContinentAsia,
	"Turkey":                           ContinentAsia,
	"Ukraine":                          ContinentEurope,
	"United Kingdom":                   ContinentEurope,
	"United States":                    ContinentAmerica,
	"Vietnam":                          ContinentAsia,
	"Zimbabwe":                         ContinentAfrica,
}

// Continent returns the continent of a country, or the country itself when it
// is not in the table.
func Continent(country string) string {
	if c, ok := continents[country]; ok {
		return c
	}
	return country
}
