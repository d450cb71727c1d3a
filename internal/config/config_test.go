package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"estatecore/internal/blob"
	"estatecore/internal/core"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(map[string]string{})
	require.NoError(t, err)

	dataDir := filepath.Join(xdg.DataHome, AppName)
	assert.Equal(t, core.StorageSQLite, cfg.Storage)
	assert.Equal(t, filepath.Join(dataDir, "estatecore.db"), cfg.SQLitePath)
	assert.Equal(t, filepath.Join(dataDir, "badger"), cfg.BadgerDir)
	assert.Equal(t, blob.DriverFilesystem, cfg.Blob.Driver)
	assert.Equal(t, filepath.Join(dataDir, "blobs"), cfg.Blob.Root)
	assert.Equal(t, 5, cfg.Blob.Retain)
	assert.Equal(t, "us-east-1", cfg.Blob.S3.Region)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.False(t, cfg.Seed)
	tag, err := cfg.Language()
	require.NoError(t, err)
	assert.Equal(t, language.English, tag)
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"ESTATECORE_STORAGE_DRIVER":        "blob",
		"ESTATECORE_SNAPSHOT_KEY":          "crm",
		"ESTATECORE_BLOB_DRIVER":           "s3",
		"ESTATECORE_BLOB_RETAIN":           "9",
		"ESTATECORE_BLOB_S3_BUCKET":        "estate-snapshots",
		"ESTATECORE_BLOB_S3_ENDPOINT":      "http://minio:9000",
		"ESTATECORE_BLOB_S3_PATH_STYLE":    "true",
		"ESTATECORE_BLOB_S3_ACCESS_KEY_ID": "key",
		"ESTATECORE_SEED":                  "true",
		"ESTATECORE_LOG_LEVEL":             "debug",
		"ESTATECORE_LOG_FORMAT":            "json",
		"STORAGE_DRIVER":                   "postgres",
	})
	require.NoError(t, err)

	storage := cfg.StorageConfig()
	assert.Equal(t, core.StorageBlob, storage.Driver)
	assert.Equal(t, "crm", storage.SnapshotKey)
	assert.Equal(t, 9, storage.BlobRetain)
	assert.Equal(t, blob.DriverS3, storage.Blob.Driver)
	assert.Equal(t, "estate-snapshots", storage.Blob.S3.Bucket)
	assert.Equal(t, "http://minio:9000", storage.Blob.S3.Endpoint)
	assert.True(t, storage.Blob.S3.PathStyle)
	assert.Equal(t, "key", storage.Blob.S3.AccessKeyID)
	assert.True(t, cfg.Seed)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"storage driver":  {"ESTATECORE_STORAGE_DRIVER": "mongo"},
		"postgres dsn":    {"ESTATECORE_STORAGE_DRIVER": "postgres"},
		"blob driver":     {"ESTATECORE_BLOB_DRIVER": "ftp"},
		"s3 bucket":       {"ESTATECORE_BLOB_DRIVER": "s3"},
		"log level":       {"ESTATECORE_LOG_LEVEL": "loud"},
		"log format":      {"ESTATECORE_LOG_FORMAT": "xml"},
		"locale":          {"ESTATECORE_LOCALE": "not a tag!"},
		"malformed bool":  {"ESTATECORE_SEED": "maybe"},
		"malformed count": {"ESTATECORE_BLOB_RETAIN": "many"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(vars)
			assert.Error(t, err)
		})
	}
}

func TestLoadMergesEnvFiles(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ESTATECORE_STORAGE_DRIVER=memory\nESTATECORE_METRICS_ADDR=:7000\n"), 0o600))
	t.Setenv("ESTATECORE_METRICS_ADDR", ":8000")

	cfg, err := Load(envFile, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, core.StorageMemory, cfg.Storage)
	assert.Equal(t, ":8000", cfg.MetricsAddr, "process environment wins over .env")
}

func TestNewLogger(t *testing.T) {
	cfg, err := Parse(map[string]string{"ESTATECORE_LOG_FORMAT": "json", "ESTATECORE_LOG_LEVEL": "warn"})
	require.NoError(t, err)
	var buf bytes.Buffer
	logger, err := cfg.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("rule warning", "rule", "payment_plan_allocation")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "rule warning", line["msg"])
	assert.Equal(t, "payment_plan_allocation", line["rule"])

	var _ core.Logger = logger
}
