package jsonfile

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/land-temperature-etl/internal/domain"
	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport(t *testing.T) *domain.Report {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	temp := 12.5
	r := domain.NewReport("run-1", 3)
	r.Regions[domain.DimensionCity] = []domain.RegionObservation{
		{Year: 1900, Region: "Paris", AverageTemperature: &temp},
		{Year: 1901, Region: "Paris"},
	}
	r.Variability[domain.DimensionCity] = domain.VarianceReport{Deltas: []domain.Delta{{Entity: "Paris"}}}
	return r
}

func TestWriter_Publish(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "report.json")
	w := NewWriter(path, slog.Default())
	assert.Equal(t, "jsonfile", w.Name())

	require.NoError(t, w.Publish(context.Background(), testReport(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "run-1", doc["run_id"])
	assert.Equal(t, "2026-03-02T08:00:00Z", doc["generated_at"])
	assert.InDelta(t, 3, doc["top_n"], 0)
	assert.NotContains(t, doc, "Variability")

	regions := doc["regions"].(map[string]any)
	city := regions["city"].([]any)
	require.Len(t, city, 2)
	assert.Nil(t, city[1].(map[string]any)["average_temperature"])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestWriter_PublishOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o600))

	require.NoError(t, NewWriter(path, slog.Default()).Publish(context.Background(), testReport(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id": "run-1"`)
}

func TestWriter_PublishCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewWriter(path, slog.Default()).Publish(ctx, testReport(t))
	require.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}
