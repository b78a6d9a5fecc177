// cliparse/cliparse_test.go
package cliparse

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/land-draft/draft"
)

// clearEnv blanks every variable ParseFlags reads
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_URL", "DATABASE_TYPE", "DRAFT_QUORUM", "MAX_VOTERS",
		"DRAFT_TIEBREAK", "DRAFT_SEED", "DRAFT_RERUN", "CORS_ORIGIN", "LOG_FORMAT",
		"LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

// noEnvFile points -env-file at a path that does not exist
func noEnvFile(t *testing.T) string {
	return "-env-file=" + filepath.Join(t.TempDir(), "missing.env")
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("DRAFT_TIEBREAK", "lottery")
	t.Setenv("DRAFT_SEED", "42")
	t.Setenv("DRAFT_RERUN", "reject")

	cfg, err := ParseFlags([]string{noEnvFile(t)})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabasePostgres {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.TieBreak != draft.TieBreakLottery || cfg.Seed != 42 {
		t.Errorf("expected lottery seed 42, got %s seed %d", cfg.TieBreak, cfg.Seed)
	}
	if cfg.Rerun != draft.RerunReject {
		t.Errorf("expected reject, got %s", cfg.Rerun)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseFlags([]string{noEnvFile(t), "-d", "file:test.db"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabaseSQLite {
		t.Errorf("expected sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.Quorum != 10 {
		t.Errorf("expected quorum 10, got %d", cfg.Quorum)
	}
	if cfg.MaxVoters != draft.MaxVoters {
		t.Errorf("expected max voters %d, got %d", draft.MaxVoters, cfg.MaxVoters)
	}
	if cfg.TieBreak != draft.TieBreakRegistration {
		t.Errorf("expected registration tie-break, got %s", cfg.TieBreak)
	}
	if cfg.Rerun != draft.RerunReplace {
		t.Errorf("expected replace, got %s", cfg.Rerun)
	}
	if cfg.LogFormat != LogAuto {
		t.Errorf("expected auto log format, got %s", cfg.LogFormat)
	}

	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info log level, got %s", cfg.LogLevel)
	}

	dc := cfg.DraftConfig()
	if dc.TieBreak != cfg.TieBreak || dc.Rerun != cfg.Rerun {
		t.Errorf("draft config does not mirror config: %+v", dc)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DRAFT_QUORUM", "5")

	cfg, err := ParseFlags([]string{noEnvFile(t), "-p", "8080", "-d", "file:test.db", "-quorum", "2"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.Quorum != 2 {
		t.Errorf("CLI should override env: expected quorum 2, got %d", cfg.Quorum)
	}
}

func TestParseFlags_LogLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := ParseFlags([]string{noEnvFile(t), "-d", "file:test.db"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != slog.LevelWarn {
		t.Errorf("expected warn from env, got %s", cfg.LogLevel)
	}

	cfg, err = ParseFlags([]string{noEnvFile(t), "-d", "file:test.db", "-log-level", "debug"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("CLI should override env: expected debug, got %s", cfg.LogLevel)
	}
}

func TestParseFlags_EnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("MAX_VOTERS")

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("DATABASE_URL=file:from-env-file.db\nMAX_VOTERS=12\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("MAX_VOTERS")
	})

	cfg, err := ParseFlags([]string{"-env-file", path})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DatabaseURL != "file:from-env-file.db" {
		t.Errorf("expected database URL from env file, got %q", cfg.DatabaseURL)
	}
	if cfg.MaxVoters != 12 {
		t.Errorf("expected max voters 12 from env file, got %d", cfg.MaxVoters)
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing database", nil, nil},
		{"bad port", map[string]string{"PORT": "eighty"}, []string{"-d", "x"}},
		{"bad database type", nil, []string{"-d", "x", "-t", "mysql"}},
		{"bad tie-break", nil, []string{"-d", "x", "-tiebreak", "coin"}},
		{"bad seed", map[string]string{"DRAFT_SEED": "abc"}, []string{"-d", "x"}},
		{"bad rerun", nil, []string{"-d", "x", "-rerun", "sometimes"}},
		{"bad log format", nil, []string{"-d", "x", "-log-format", "xml"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}, []string{"-d", "x"}},
		{"zero quorum", map[string]string{"DRAFT_QUORUM": "0"}, []string{"-d", "x"}},
		{"negative cap", nil, []string{"-d", "x", "-max-voters", "-1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			args := append([]string{noEnvFile(t)}, tc.args...)
			if _, err := ParseFlags(args); err == nil {
				t.Errorf("expected error for %s", tc.name)
			}
		})
	}
}
