package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/land-temperature-etl/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	OutputPath      string
	PlanPath        string
	TopN            int
	MetricsTextfile string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka series sink configuration.
	KafkaBrokers   []string
	KafkaSinkTopic string
	KafkaEnabled   bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	topN, err := parseTopN()
	if err != nil {
		return nil, err
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	// An explicitly empty OUTPUT_PATH disables the JSON file sink.
	outputPath, ok := os.LookupEnv("OUTPUT_PATH")
	if !ok {
		outputPath = "out/report.json"
	}

	cfg := &Config{
		OutputPath:      outputPath,
		PlanPath:        os.Getenv("PLAN_PATH"),
		TopN:            topN,
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers:   brokers,
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "land-temperature-series"),
		KafkaEnabled:   kafkaEnabled,
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}

	return cfg, nil
}

func parseTopN() (int, error) {
	s := os.Getenv("TOP_N")
	if s == "" {
		return domain.DefaultTopN, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 100 {
		return 0, errors.New("invalid TOP_N: must be an integer between 1 and 100")
	}
	return n, nil
}
