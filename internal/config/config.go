package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Published locations of the yearly MODIS exports.
const (
	defaultCSV2021URL = "https://drive.google.com/uc?id=17UZzdC-UiKiDhgDYTz-S211nJ708s_U0"
	defaultCSV2022URL = "https://drive.google.com/uc?id=1ZFMx-GieGBHP9Sabe4Nr1kz1UQzCKzY-"
	defaultCSV2023URL = "https://drive.google.com/uc?id=1xwFXLlsiDJo7ID0FUvN94tmq7hgaViDQ"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// CORSOrigins lists the origins allowed to call the API.
	CORSOrigins []string
	// PredictRateLimit caps prediction requests per client per minute; 0
	// disables the limit.
	PredictRateLimit int

	// Artifact locations. Paths are relative to DataDir unless absolute.
	DataDir      string
	ModelFile    string
	ScalerFile   string
	ModelURL     string
	ScalerURL    string
	DatasetURLs  map[int]string
	FetchTimeout time.Duration
	FetchRetries int

	// ONNX Runtime settings for the classifier.
	ONNXLibraryPath string
	ONNXInputName   string
	ONNXOutputName  string

	// ReleaseAfterPredict drops the model handles after every prediction.
	ReleaseAfterPredict bool
	DatasetCacheSize    int

	KafkaBrokers         []string
	KafkaPredictionTopic string
	KafkaEnabled         bool
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is honoured when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FETCH_TIMEOUT", "5m"))
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	fetchRetries, err := parseNonNegativeInt("FETCH_RETRIES", 2)
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseNonNegativeInt("DATASET_CACHE_SIZE", 32)
	if err != nil {
		return nil, err
	}

	releaseAfter, err := parseBool("MODEL_RELEASE_AFTER_PREDICT", false)
	if err != nil {
		return nil, err
	}

	rateLimit, err := parseNonNegativeInt("PREDICT_RATE_LIMIT", 60)
	if err != nil {
		return nil, err
	}

	brokers := sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled, err := parseBool("KAFKA_ENABLED", len(brokers) > 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CORSOrigins:      sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		PredictRateLimit: rateLimit,

		DataDir:    sharedcfg.EnvOrDefault("DATA_DIR", "."),
		ModelFile:  sharedcfg.EnvOrDefault("MODEL_FILE", "best_fire_detection_model.onnx"),
		ScalerFile: sharedcfg.EnvOrDefault("SCALER_FILE", "scaler.json"),
		// No default: the published model and scaler are Python pickles, not
		// the ONNX and JSON exports loaded here.
		ModelURL:   os.Getenv("MODEL_URL"),
		ScalerURL:  os.Getenv("SCALER_URL"),
		DatasetURLs: map[int]string{
			2021: sharedcfg.EnvOrDefault("CSV_2021_URL", defaultCSV2021URL),
			2022: sharedcfg.EnvOrDefault("CSV_2022_URL", defaultCSV2022URL),
			2023: sharedcfg.EnvOrDefault("CSV_2023_URL", defaultCSV2023URL),
		},
		FetchTimeout: fetchTimeout,
		FetchRetries: fetchRetries,

		ONNXLibraryPath: os.Getenv("ONNX_LIBRARY_PATH"),
		ONNXInputName:   sharedcfg.EnvOrDefault("ONNX_INPUT_NAME", "float_input"),
		ONNXOutputName:  sharedcfg.EnvOrDefault("ONNX_OUTPUT_NAME", "label"),

		ReleaseAfterPredict: releaseAfter,
		DatasetCacheSize:    cacheSize,

		KafkaBrokers:         brokers,
		KafkaPredictionTopic: sharedcfg.EnvOrDefault("KAFKA_PREDICTION_TOPIC", "fire-predictions"),
		KafkaEnabled:         kafkaEnabled,
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

// ModelPath returns the classifier location on disk.
func (c *Config) ModelPath() string { return c.resolve(c.ModelFile) }

// ScalerPath returns the scaler location on disk.
func (c *Config) ScalerPath() string { return c.resolve(c.ScalerFile) }

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

func parseNonNegativeInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: must be a non-negative integer", key)
	}
	return n, nil
}

func parseBool(key string, fallback bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
