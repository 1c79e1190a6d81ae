package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func obs(city string, t time.Time, temp, unc *float64) Observation {
	return Observation{
		Time:                          t,
		City:                          city,
		Country:                       "France",
		Latitude:                      "49.03N",
		Longitude:                     "2.45E",
		AverageTemperature:            temp,
		AverageTemperatureUncertainty: unc,
	}
}

func TestSortObservations(t *testing.T) {
	rows := []Observation{
		obs("Paris", month(1850, 2), f(3), nil),
		obs("Abidjan", month(1850, 1), f(26), nil),
		obs("Paris", month(1850, 1), f(2), nil),
		obs("Abidjan", month(1849, 12), f(25), nil),
	}

	SortObservations(rows)

	got := make([]string, len(rows))
	for i, r := range rows {
		got[i] = r.City + " " + r.Time.Format("2006-01")
	}
	assert.Equal(t, []string{
		"Abidjan 1849-12",
		"Abidjan 1850-01",
		"Paris 1850-01",
		"Paris 1850-02",
	}, got)
}

func TestForwardFill(t *testing.T) {
	t.Run("fills gaps from previous row of the same city", func(t *testing.T) {
		rows := []Observation{
			obs("Paris", month(1850, 1), f(2.5), f(0.5)),
			obs("Paris", month(1850, 2), nil, nil),
			obs("Paris", month(1850, 3), nil, f(0.7)),
			obs("Paris", month(1850, 4), f(9), nil),
		}

		stats := ForwardFill(rows)

		require.NotNil(t, rows[1].AverageTemperature)
		require.NotNil(t, rows[2].AverageTemperature)
		assert.InDelta(t, 2.5, *rows[1].AverageTemperature, 1e-9)
		assert.InDelta(t, 2.5, *rows[2].AverageTemperature, 1e-9)
		assert.InDelta(t, 0.5, *rows[1].AverageTemperatureUncertainty, 1e-9)
		assert.InDelta(t, 0.7, *rows[3].AverageTemperatureUncertainty, 1e-9)
		assert.Equal(t, FillStats{TemperatureImputed: 2, UncertaintyImputed: 2}, stats)
	})

	t.Run("leading missing rows stay missing", func(t *testing.T) {
		rows := []Observation{
			obs("Paris", month(1850, 1), nil, nil),
			obs("Paris", month(1850, 2), nil, f(0.4)),
			obs("Paris", month(1850, 3), f(4), nil),
		}

		stats := ForwardFill(rows)

		assert.Nil(t, rows[0].AverageTemperature)
		assert.Nil(t, rows[1].AverageTemperature)
		assert.Nil(t, rows[0].AverageTemperatureUncertainty)
		assert.InDelta(t, 0.4, *rows[2].AverageTemperatureUncertainty, 1e-9)
		assert.Equal(t, 2, stats.TemperatureUnresolved)
		assert.Equal(t, 1, stats.UncertaintyUnresolved)
	})

	t.Run("never crosses a city boundary", func(t *testing.T) {
		rows := []Observation{
			obs("Abidjan", month(1850, 1), f(26), f(1)),
			obs("Abidjan", month(1850, 2), f(27), f(1)),
			obs("Paris", month(1850, 1), nil, nil),
			obs("Paris", month(1850, 2), f(3), f(0.3)),
		}

		ForwardFill(rows)

		assert.Nil(t, rows[2].AverageTemperature)
		assert.Nil(t, rows[2].AverageTemperatureUncertainty)
	})

	t.Run("last row of a city is not filled from the next city", func(t *testing.T) {
		rows := []Observation{
			obs("Abidjan", month(1850, 1), nil, nil),
			obs("Paris", month(1850, 1), f(3), f(0.3)),
		}

		ForwardFill(rows)

		assert.Nil(t, rows[0].AverageTemperature)
		assert.InDelta(t, 3.0, *rows[1].AverageTemperature, 1e-9)
	})

	t.Run("imputed values are copies", func(t *testing.T) {
		rows := []Observation{
			obs("Paris", month(1850, 1), f(1), f(1)),
			obs("Paris", month(1850, 2), nil, nil),
		}

		ForwardFill(rows)
		*rows[1].AverageTemperature = 42

		assert.InDelta(t, 1.0, *rows[0].AverageTemperature, 1e-9)
	})

	t.Run("keeps row count and other columns", func(t *testing.T) {
		rows := []Observation{
			obs("Paris", month(1850, 1), f(1), f(1)),
			obs("Paris", month(1850, 2), nil, nil),
		}
		before := []Observation{rows[0], rows[1]}

		ForwardFill(rows)

		require.Len(t, rows, 2)
		for i := range rows {
			assert.Equal(t, before[i].Time, rows[i].Time)
			assert.Equal(t, before[i].City, rows[i].City)
			assert.Equal(t, before[i].Latitude, rows[i].Latitude)
		}
	})

	t.Run("empty table", func(t *testing.T) {
		assert.Equal(t, FillStats{}, ForwardFill(nil))
	})
}

func TestForwardFill_OnlyLeadingRowsRemainMissing(t *testing.T) {
	rows := []Observation{
		obs("Berlin", month(1850, 1), nil, nil),
		obs("Berlin", month(1850, 2), f(1), nil),
		obs("Berlin", month(1850, 3), nil, f(0.2)),
		obs("Lima", month(1850, 1), f(20), f(0.1)),
		obs("Lima", month(1850, 2), nil, nil),
		obs("Rome", month(1850, 1), nil, nil),
	}
	SortObservations(rows)
	ForwardFill(rows)

	seen := map[string]bool{}
	for _, r := range rows {
		if r.AverageTemperature == nil {
			assert.False(t, seen[r.City], "%s %s missing after a present value", r.City, r.Time.Format("2006-01"))
			continue
		}
		seen[r.City] = true
	}
}
