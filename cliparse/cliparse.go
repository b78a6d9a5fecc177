// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/land-draft/draft"
)

// Database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

// Log formats
const (
	LogAuto = "auto"
	LogText = "text"
	LogJSON = "json"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	Quorum    int
	MaxVoters int
	TieBreak  string
	Seed      int64
	Rerun     draft.RerunPolicy

	AllowOrigin string
	LogFormat   string
	LogLevel    slog.Level
	EnvFile     string
}

// DraftConfig returns the draft service settings
func (c Config) DraftConfig() draft.Config {
	return draft.Config{
		Options: draft.Options{TieBreak: c.TieBreak, Seed: c.Seed},
		Rerun:   c.Rerun,
	}
}

// ParseFlags reads flags, then environment (including an optional .env file),
// then defaults, and validates the result
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var seed, rerun, level string

	flags := flag.NewFlagSet("land-draft", flag.ContinueOnError)

	flags.IntVar(&cfg.Port, "p", 0, "Server port")
	flags.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	flags.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	flags.IntVar(&cfg.Quorum, "quorum", 0, "Registrations required before a draft can run")
	flags.IntVar(&cfg.MaxVoters, "max-voters", 0, "Registration cap")
	flags.StringVar(&cfg.TieBreak, "tiebreak", "", "Tie-break rule (registration or lottery)")
	flags.StringVar(&seed, "seed", "", "Lottery seed")
	flags.StringVar(&rerun, "rerun", "", "Re-run policy (replace or reject)")

	flags.StringVar(&cfg.AllowOrigin, "origin", "", "CORS allowed origin (default: echo request origin)")
	flags.StringVar(&cfg.LogFormat, "log-format", "", "Log format (auto, text or json)")
	flags.StringVar(&level, "log-level", "", "Log level (debug, info, warn or error)")
	flags.StringVar(&cfg.EnvFile, "env-file", ".env", "Optional env file")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	// Existing environment variables win over the file
	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", cfg.EnvFile, err)
		}
	}

	var err error
	if cfg.Port, err = intSetting(cfg.Port, "PORT", 8000); err != nil {
		return Config{}, err
	}
	if cfg.Quorum, err = intSetting(cfg.Quorum, "DRAFT_QUORUM", 10); err != nil {
		return Config{}, err
	}
	if cfg.MaxVoters, err = intSetting(cfg.MaxVoters, "MAX_VOTERS", draft.MaxVoters); err != nil {
		return Config{}, err
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	cfg.DatabaseType = stringSetting(cfg.DatabaseType, "DATABASE_TYPE", DatabaseSQLite)
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, fmt.Errorf("invalid database type %q (sqlite or postgres)", cfg.DatabaseType)
	}

	cfg.TieBreak = stringSetting(cfg.TieBreak, "DRAFT_TIEBREAK", draft.TieBreakRegistration)
	if cfg.TieBreak != draft.TieBreakRegistration && cfg.TieBreak != draft.TieBreakLottery {
		return Config{}, fmt.Errorf("invalid tie-break %q (registration or lottery)", cfg.TieBreak)
	}

	seed = stringSetting(seed, "DRAFT_SEED", "0")
	cfg.Seed, err = strconv.ParseInt(seed, 10, 64)
	if err != nil {
		return Config{}, errors.New("invalid DRAFT_SEED value")
	}

	cfg.Rerun = draft.RerunPolicy(stringSetting(rerun, "DRAFT_RERUN", string(draft.RerunReplace)))
	if cfg.Rerun != draft.RerunReplace && cfg.Rerun != draft.RerunReject {
		return Config{}, fmt.Errorf("invalid re-run policy %q (replace or reject)", cfg.Rerun)
	}

	cfg.AllowOrigin = stringSetting(cfg.AllowOrigin, "CORS_ORIGIN", "")

	cfg.LogFormat = stringSetting(cfg.LogFormat, "LOG_FORMAT", LogAuto)
	switch cfg.LogFormat {
	case LogAuto, LogText, LogJSON:
	default:
		return Config{}, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}

	level = stringSetting(level, "LOG_LEVEL", "info")
	if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
		return Config{}, fmt.Errorf("invalid log level %q", level)
	}

	if cfg.Quorum < 1 {
		return Config{}, errors.New("quorum must be at least 1")
	}
	if cfg.MaxVoters < 1 {
		return Config{}, errors.New("max voters must be at least 1")
	}

	return cfg, nil
}

// intSetting falls back from a flag value to an env variable to a default
func intSetting(flagVal int, env string, def int) (int, error) {
	if flagVal != 0 {
		return flagVal, nil
	}
	s := os.Getenv(env)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", env)
	}
	return v, nil
}

func stringSetting(flagVal, env, def string) string {
	if flagVal != "" {
		return flagVal
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}
