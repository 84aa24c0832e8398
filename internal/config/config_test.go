package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 60, cfg.PredictRateLimit)
	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, "best_fire_detection_model.onnx", cfg.ModelFile)
	assert.Equal(t, "scaler.json", cfg.ScalerFile)
	assert.Empty(t, cfg.ModelURL, "pickled model link is not loadable")
	assert.Empty(t, cfg.ScalerURL)
	assert.Equal(t, 5*time.Minute, cfg.FetchTimeout)
	assert.Equal(t, 2, cfg.FetchRetries)
	assert.Equal(t, "float_input", cfg.ONNXInputName)
	assert.Equal(t, "label", cfg.ONNXOutputName)
	assert.False(t, cfg.ReleaseAfterPredict)
	assert.Equal(t, 32, cfg.DatasetCacheSize)
	assert.Len(t, cfg.DatasetURLs, 3)
	assert.Equal(t, defaultCSV2022URL, cfg.DatasetURLs[2022])
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, "fire-predictions", cfg.KafkaPredictionTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DATA_DIR", "/srv/modis")
	t.Setenv("MODEL_URL", "https://example.com/model.onnx")
	t.Setenv("CSV_2023_URL", "https://example.com/2023.csv")
	t.Setenv("FETCH_TIMEOUT", "30s")
	t.Setenv("FETCH_RETRIES", "0")
	t.Setenv("MODEL_RELEASE_AFTER_PREDICT", "true")
	t.Setenv("DATASET_CACHE_SIZE", "4")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_PREDICTION_TOPIC", "custom-topic")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("PREDICT_RATE_LIMIT", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "https://example.com/model.onnx", cfg.ModelURL)
	assert.Equal(t, "https://example.com/2023.csv", cfg.DatasetURLs[2023])
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 0, cfg.FetchRetries)
	assert.True(t, cfg.ReleaseAfterPredict)
	assert.Equal(t, 4, cfg.DatasetCacheSize)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, "custom-topic", cfg.KafkaPredictionTopic)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Zero(t, cfg.PredictRateLimit)
	assert.Equal(t, filepath.Join("/srv/modis", "best_fire_detection_model.onnx"), cfg.ModelPath())
}

func TestLoad_AbsoluteArtifactPath(t *testing.T) {
	t.Setenv("SCALER_FILE", "/opt/scaler.json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/opt/scaler.json", cfg.ScalerPath())
}

func TestLoad_KafkaDisabledExplicitly(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092")
	t.Setenv("KAFKA_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"shutdown timeout", "SHUTDOWN_TIMEOUT", "soon"},
		{"fetch timeout", "FETCH_TIMEOUT", "-1s"},
		{"fetch retries", "FETCH_RETRIES", "-2"},
		{"cache size", "DATASET_CACHE_SIZE", "lots"},
		{"rate limit", "PREDICT_RATE_LIMIT", "-5"},
		{"release flag", "MODEL_RELEASE_AFTER_PREDICT", "sometimes"},
		{"kafka without brokers", "KAFKA_ENABLED", "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
