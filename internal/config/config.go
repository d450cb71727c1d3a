// Package config reads estatecore settings from ESTATECORE_* environment
// variables, optionally seeded from .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"estatecore/internal/blob"
	"estatecore/internal/core"
)

const (
	// Prefix is prepended to every variable name.
	Prefix = "ESTATECORE_"
	// AppName names the data directory under XDG_DATA_HOME.
	AppName = "estatecore"
)

// Config holds process settings.
type Config struct {
	Storage     core.StorageDriver `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	SQLitePath  string             `env:"SQLITE_PATH"`
	PostgresDSN string             `env:"POSTGRES_DSN"`
	BadgerDir   string             `env:"BADGER_DIR"`
	SnapshotKey string             `env:"SNAPSHOT_KEY"`
	Blob        Blob               `envPrefix:"BLOB_"`

	Seed        bool   `env:"SEED"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`
	Locale      string `env:"LOCALE" envDefault:"en"`
}

// Blob configures the blob store used for exports and the blob snapshot driver.
type Blob struct {
	Driver blob.Driver `env:"DRIVER" envDefault:"fs"`
	Root   string      `env:"FS_ROOT"`
	Retain int         `env:"RETAIN" envDefault:"5"`
	S3     S3          `envPrefix:"S3_"`
}

// S3 configures the S3-compatible blob driver.
type S3 struct {
	Bucket          string `env:"BUCKET"`
	Region          string `env:"REGION" envDefault:"us-east-1"`
	Endpoint        string `env:"ENDPOINT"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	PathStyle       bool   `env:"PATH_STYLE"`
}

// Load reads the given .env files (".env" when none are named) and the
// process environment, which takes precedence. Missing files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	vars := make(map[string]string)
	for _, file := range files {
		fileVars, err := godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", file, err)
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}
	for k, v := range env.ToMap(os.Environ()) {
		vars[k] = v
	}
	return Parse(vars)
}

// Parse builds a Config from vars, filling unset paths under the XDG data directory.
func Parse(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars, Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	dataDir := filepath.Join(xdg.DataHome, AppName)
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = filepath.Join(dataDir, "estatecore.db")
	}
	if cfg.BadgerDir == "" {
		cfg.BadgerDir = filepath.Join(dataDir, "badger")
	}
	if cfg.Blob.Root == "" {
		cfg.Blob.Root = filepath.Join(dataDir, "blobs")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown drivers and logging settings.
func (c Config) Validate() error {
	switch c.Storage {
	case core.StorageMemory, core.StorageSQLite, core.StorageBadger, core.StorageBlob:
	case core.StoragePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("%sPOSTGRES_DSN is required for the postgres driver", Prefix)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage)
	}
	switch c.Blob.Driver {
	case blob.DriverFilesystem, blob.DriverMemory:
	case blob.DriverS3:
		if c.Blob.S3.Bucket == "" {
			return fmt.Errorf("%sBLOB_S3_BUCKET is required for the s3 blob driver", Prefix)
		}
	default:
		return fmt.Errorf("unknown blob driver %q", c.Blob.Driver)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if _, err := c.Language(); err != nil {
		return err
	}
	return nil
}

// Language parses Locale as a BCP 47 tag.
func (c Config) Language() (language.Tag, error) {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("locale %q: %w", c.Locale, err)
	}
	return tag, nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// BlobConfig converts the blob settings for blob.Open.
func (c Config) BlobConfig() blob.Config {
	return blob.Config{
		Driver: c.Blob.Driver,
		Root:   c.Blob.Root,
		S3: blob.S3Config{
			Region:          c.Blob.S3.Region,
			Bucket:          c.Blob.S3.Bucket,
			Endpoint:        c.Blob.S3.Endpoint,
			AccessKeyID:     c.Blob.S3.AccessKeyID,
			SecretAccessKey: c.Blob.S3.SecretAccessKey,
			PathStyle:       c.Blob.S3.PathStyle,
		},
	}
}

// StorageConfig converts the persistence settings for core.OpenPersistentStore.
func (c Config) StorageConfig() core.StorageConfig {
	return core.StorageConfig{
		Driver:      c.Storage,
		SQLitePath:  c.SQLitePath,
		PostgresDSN: c.PostgresDSN,
		BadgerDir:   c.BadgerDir,
		SnapshotKey: c.SnapshotKey,
		Blob:        c.BlobConfig(),
		BlobRetain:  c.Blob.Retain,
	}
}
