package config

import (
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

type Config struct {
	BotToken         string // Discord bot token. The bot is disabled without one.
	APIAddr          string
	DBDir            string
	SnapshotFile     string        // Ingestion file imported once at startup.
	SnapshotURL      string        // Endpoint polled for fresh snapshots.
	SnapshotInterval time.Duration // How often SnapshotURL is polled.
	Location         *time.Location
	LogLevel         log.Level
}

func (c Config) BotEnabled() bool {
	return c.BotToken != ""
}

// Reads the config from the environment, applying defaults for anything unset.
// Every malformed value is reported at once.
func Load() (Config, error) {
	errs := []error{}
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	cfg := Config{}
	var err error

	cfg.BotToken, _ = GetEnviroVarOr("BOT_TOKEN", "")

	cfg.APIAddr, err = GetEnviroVarOr("API_ADDR", ":7777")
	collect(err)

	cfg.DBDir, err = GetEnviroVarOr("DB_DIR", "./db")
	collect(err)

	cfg.SnapshotFile, err = GetEnviroVarOr("SNAPSHOT_FILE", "")
	collect(err)

	cfg.SnapshotURL, err = GetEnviroVarOr("SNAPSHOT_URL", "")
	collect(err)

	cfg.SnapshotInterval, err = GetEnviroVarOr("SNAPSHOT_INTERVAL", 10*time.Minute)
	collect(err)
	if cfg.SnapshotInterval <= 0 {
		errs = append(errs, errors.New(`environment variable "SNAPSHOT_INTERVAL" must be positive`))
	}

	tz, err := GetEnviroVarOr("TIMEZONE", "UTC")
	collect(err)

	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		errs = append(errs, err)
		cfg.Location = time.UTC
	}

	level, err := GetEnviroVarOr("LOG_LEVEL", "info")
	collect(err)

	cfg.LogLevel, err = log.ParseLevel(level)
	if err != nil {
		errs = append(errs, err)
		cfg.LogLevel = log.InfoLevel
	}

	return cfg, errors.Join(errs...)
}
