// Command validate runs the cleaning and aggregation stages over a real or mock
// dataset and re-checks their invariants independently: forward fill stays
// within a city, annual aggregation is idempotent, continent mapping passes
// unknown countries through, latitude bands follow the magnitude rule,
// variability deltas are ordered, and the world series is the plain yearly mean.
//
// Usage:
//
//	go run ./cmd/validate -input data/mock/cities.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/land-temperature-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/land-temperature-etl/internal/domain"
	"github.com/google/go-cmp/cmp"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	// Cap the detail so one systematic failure does not flood the output.
	if len(p.errors) < 50 {
		p.errors = append(p.errors, fmt.Sprintf(format, args...))
	}
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	input := flag.String("input", "", "path to the monthly city temperature CSV")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*input); code != 0 {
		os.Exit(code)
	}
}

func run(input string) int {
	fmt.Println("=== Land Temperature Integrity Validation ===")
	fmt.Println()

	start := time.Now()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	raw, err := csvfile.NewReader(input, logger).Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load dataset: %v\n", err)
		return 1
	}
	if len(raw) == 0 {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", domain.ErrEmptyDataset)
		return 1
	}

	domain.SortObservations(raw)
	before := slices.Clone(raw)
	cleaned := raw
	domain.ForwardFill(cleaned)
	annual := domain.AggregateAnnual(cleaned)

	phases := []*phase{
		validateForwardFill(before, cleaned),
		validateAnnualIdempotence(annual),
		validateContinents(annual),
		validateLatitudeBands(annual),
		validateVariability(annual),
		validateWorld(annual),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-46s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d monthly, %d annual (%s)\n", len(cleaned), len(annual), time.Since(start).Round(time.Millisecond))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Forward Fill ──
// A value may only be missing after cleaning if nothing earlier in the same
// city was present, and present values are never changed.

func validateForwardFill(before, after []domain.Observation) *phase {
	p := &phase{name: "Phase 1: Forward Fill (per city)"}

	seen := false
	for i := range after {
		if i == 0 || after[i].City != after[i-1].City {
			seen = false
			if before[i].AverageTemperature == nil && after[i].AverageTemperature != nil {
				p.errorf("%s %s: first row filled across city boundary", after[i].City, after[i].Time.Format("2006-01"))
			}
		}
		b, a := before[i].AverageTemperature, after[i].AverageTemperature
		switch {
		case b != nil && (a == nil || *a != *b):
			p.errorf("%s %s: present value changed", after[i].City, after[i].Time.Format("2006-01"))
		case a == nil && seen:
			p.errorf("%s %s: still missing after an earlier present value", after[i].City, after[i].Time.Format("2006-01"))
		}
		if b != nil {
			seen = true
		}
	}
	return p
}

// ── Phase 2: Annual Idempotence ──
// Re-aggregating one row per (year, city) must reproduce the same table.

func validateAnnualIdempotence(annual []domain.AnnualObservation) *phase {
	p := &phase{name: "Phase 2: Annual Aggregation (idempotent)"}

	again := make([]domain.Observation, len(annual))
	for i, a := range annual {
		again[i] = domain.Observation{
			Time:                          time.Date(a.Year, time.January, 1, 0, 0, 0, 0, time.UTC),
			City:                          a.City,
			Country:                       a.Country,
			Latitude:                      a.Latitude,
			Longitude:                     a.Longitude,
			AverageTemperature:            a.AverageTemperature,
			AverageTemperatureUncertainty: a.AverageTemperatureUncertainty,
		}
	}
	if diff := cmp.Diff(annual, domain.AggregateAnnual(again)); diff != "" {
		p.errorf("re-aggregation differs (-first +second):\n%s", diff)
	}
	return p
}

// ── Phase 3: Continents ──
// Every country maps to a known continent or appears unchanged as its own label.

var knownContinents = []string{
	domain.ContinentAfrica, domain.ContinentAmerica, domain.ContinentAsia,
	domain.ContinentEurope, domain.ContinentOceania,
}

func validateContinents(annual []domain.AnnualObservation) *phase {
	p := &phase{name: "Phase 3: Continent Mapping (pass-through)"}

	rows, err := domain.AggregateRegions(annual, domain.ByContinent)
	if err != nil {
		p.errorf("aggregate: %v", err)
		return p
	}
	labels := map[string]bool{}
	for _, r := range rows {
		labels[r.Region] = true
	}

	var unmapped []string
	for _, a := range annual {
		label := domain.Continent(a.Country)
		if !slices.Contains(knownContinents, label) {
			if label != a.Country {
				p.errorf("country %q mapped to unknown label %q", a.Country, label)
			}
			if !slices.Contains(unmapped, label) {
				unmapped = append(unmapped, label)
			}
		}
		if !labels[label] {
			p.errorf("country %q: label %q missing from continent table", a.Country, label)
		}
	}
	if len(unmapped) > 0 {
		fmt.Printf("  Note: %d countries passed through unmapped: %s\n", len(unmapped), strings.Join(unmapped, ", "))
	}
	return p
}

// ── Phase 4: Latitude Bands ──
// Below 30 degrees is Equator whatever the suffix; otherwise N is North and S is South.

func validateLatitudeBands(annual []domain.AnnualObservation) *phase {
	p := &phase{name: "Phase 4: Latitude Bands (magnitude rule)"}

	fixed := map[string]domain.LatitudeBand{
		"29.9S": domain.BandEquator,
		"30.0N": domain.BandNorth,
		"0.0N":  domain.BandEquator,
		"15.3":  domain.BandEquator,
		"30.0S": domain.BandSouth,
	}
	for label, want := range fixed {
		if got, err := domain.ClassifyLatitude(label); err != nil || got != want {
			p.errorf("fixed case %q: got %q (%v), want %q", label, got, err, want)
		}
	}

	checked := map[string]bool{}
	for _, a := range annual {
		if checked[a.Latitude] {
			continue
		}
		checked[a.Latitude] = true

		got, err := domain.ClassifyLatitude(a.Latitude)
		if err != nil {
			p.errorf("%s: %v", a.City, err)
			continue
		}
		if want := expectedBand(a.Latitude); got != want {
			p.errorf("%s latitude %q: got %q, want %q", a.City, a.Latitude, got, want)
		}
	}
	return p
}

func expectedBand(label string) domain.LatitudeBand {
	num := strings.TrimRight(label, "NS")
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || v < 30 {
		return domain.BandEquator
	}
	if strings.HasSuffix(label, "S") {
		return domain.BandSouth
	}
	return domain.BandNorth
}

// ── Phase 5: Variability ──
// Deltas equal max minus min per city, are non-negative, and sort descending.

func validateVariability(annual []domain.AnnualObservation) *phase {
	p := &phase{name: "Phase 5: Variability (ordered deltas)"}

	f := func(v float64) *float64 { return &v }
	sample := domain.AnalyzeVariability([]domain.RegionObservation{
		{Year: 1, Region: "A", AverageTemperature: f(10)},
		{Year: 2, Region: "A", AverageTemperature: f(12)},
		{Year: 3, Region: "A", AverageTemperature: f(8)},
		{Year: 1, Region: "B", AverageTemperature: f(5)},
		{Year: 2, Region: "B", AverageTemperature: f(5.5)},
		{Year: 3, Region: "B", AverageTemperature: f(5.2)},
	})
	if most := sample.MostAffected(2); len(most) != 2 || most[0].Entity != "A" || !floatEq(most[0].Delta, 4) || !floatEq(most[1].Delta, 0.5) {
		p.errorf("reference ranking: got %+v", most)
	}

	rows, err := domain.AggregateRegions(annual, domain.ByCity)
	if err != nil {
		p.errorf("aggregate: %v", err)
		return p
	}
	report := domain.AnalyzeVariability(rows)

	lo, hi := map[string]float64{}, map[string]float64{}
	for _, r := range rows {
		if r.AverageTemperature == nil {
			continue
		}
		v := *r.AverageTemperature
		if cur, ok := lo[r.Region]; !ok || v < cur {
			lo[r.Region] = v
		}
		if cur, ok := hi[r.Region]; !ok || v > cur {
			hi[r.Region] = v
		}
	}
	if len(report.Deltas) != len(lo) {
		p.errorf("report has %d entities, expected %d", len(report.Deltas), len(lo))
	}
	for i, d := range report.Deltas {
		if d.Delta < 0 {
			p.errorf("%s: negative delta %g", d.Entity, d.Delta)
		}
		if !floatEq(d.Delta, hi[d.Entity]-lo[d.Entity]) {
			p.errorf("%s: delta %g, expected %g", d.Entity, d.Delta, hi[d.Entity]-lo[d.Entity])
		}
		if i > 0 && d.Delta > report.Deltas[i-1].Delta {
			p.errorf("%s ranks below %s with a larger delta", d.Entity, report.Deltas[i-1].Entity)
		}
	}
	return p
}

// ── Phase 6: World ──
// The world value of a year is the mean of that year's present annual values.

func validateWorld(annual []domain.AnnualObservation) *phase {
	p := &phase{name: "Phase 6: World Series (yearly mean)"}

	rows, err := domain.AggregateRegions(annual, domain.World)
	if err != nil {
		p.errorf("aggregate: %v", err)
		return p
	}

	sums, counts := map[int]float64{}, map[int]int{}
	for _, a := range annual {
		if a.AverageTemperature != nil {
			sums[a.Year] += *a.AverageTemperature
			counts[a.Year]++
		}
	}
	for _, r := range rows {
		if r.Region != domain.WorldRegion {
			p.errorf("year %d: unexpected region %q", r.Year, r.Region)
		}
		n := counts[r.Year]
		switch {
		case n == 0 && r.AverageTemperature != nil:
			p.errorf("year %d: expected missing mean, got %g", r.Year, *r.AverageTemperature)
		case n > 0 && (r.AverageTemperature == nil || !floatEq(*r.AverageTemperature, sums[r.Year]/float64(n))):
			p.errorf("year %d: mean mismatch, expected %g", r.Year, sums[r.Year]/float64(n))
		}
	}
	return p
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
