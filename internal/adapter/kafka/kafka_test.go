package kafka

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/land-temperature-etl/internal/domain"
	"github.com/goccy/go-json"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func testReport() *domain.Report {
	temp := 11.2
	return &domain.Report{
		RunID:       "run-7",
		GeneratedAt: time.Date(2026, 4, 26, 15, 10, 0, 0, time.UTC),
		Regions: map[domain.Dimension][]domain.RegionObservation{
			domain.DimensionCity: {
				{Year: 1900, Region: "Lyon", AverageTemperature: &temp},
				{Year: 1900, Region: "Paris"},
				{Year: 1901, Region: "Paris", AverageTemperature: &temp},
			},
			domain.DimensionWorld: {
				{Year: 1900, Region: domain.WorldRegion, AverageTemperature: &temp},
			},
		},
	}
}

func TestSerializeToMessage(t *testing.T) {
	report := testReport()
	s := domain.Series{
		Dimension: domain.DimensionCountry,
		Entity:    "France",
		Points:    []domain.SeriesPoint{{Year: 1900}},
	}

	msg, err := serializeToMessage(report, s)
	require.NoError(t, err)

	assert.Equal(t, []byte("country:France"), msg.Key)
	assert.JSONEq(t, `{"dimension":"country","entity":"France","points":[{"year":1900,"average_temperature":null,"average_temperature_uncertainty":null}]}`, string(msg.Value))
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "run_id", msg.Headers[0].Key)
	assert.Equal(t, []byte("run-7"), msg.Headers[0].Value)
	assert.Equal(t, "dimension", msg.Headers[1].Key)
	assert.Equal(t, []byte("country"), msg.Headers[1].Value)
	assert.Equal(t, "generated_at", msg.Headers[2].Key)
	assert.Equal(t, []byte("2026-04-26T15:10:00Z"), msg.Headers[2].Value)
}

func TestWriter_Publish(t *testing.T) {
	fw := &fakeWriter{}
	w := &Writer{writer: fw, logger: slog.Default()}
	assert.Equal(t, "kafka", w.Name())

	require.NoError(t, w.Publish(context.Background(), testReport()))

	keys := make([]string, len(fw.msgs))
	for i, m := range fw.msgs {
		keys[i] = string(m.Key)
	}
	assert.Equal(t, []string{"city:Lyon", "city:Paris", "world:world"}, keys)

	var paris domain.Series
	require.NoError(t, json.Unmarshal(fw.msgs[1].Value, &paris))
	assert.Len(t, paris.Points, 2)

	require.NoError(t, w.Close())
	assert.True(t, fw.closed)
}

func TestWriter_PublishEmptyReport(t *testing.T) {
	fw := &fakeWriter{err: errors.New("must not be called")}
	w := &Writer{writer: fw, logger: slog.Default()}
	require.NoError(t, w.Publish(context.Background(), &domain.Report{}))
}

func TestWriter_PublishError(t *testing.T) {
	fw := &fakeWriter{err: errors.New("broker unavailable")}
	w := &Writer{writer: fw, logger: slog.Default()}
	err := w.Publish(context.Background(), testReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
}
