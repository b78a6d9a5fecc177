// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 8000)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - Quorum: Registrations needed before a draft can run (default: 10)
  - MaxVoters: Registration cap (default: 23)
  - TieBreak: registration or lottery (default: registration)
  - Seed: Lottery seed (default: 0)
  - Rerun: replace or reject (default: replace)
  - AllowOrigin: CORS origin override
  - LogFormat: auto, text or json (default: auto)
  - LogLevel: debug, info, warn or error (default: info)

# Precedence

CLI flags win over environment variables. Environment variables win over
the env file (-env-file, default .env), which is skipped if missing.

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	DRAFT_QUORUM   → -quorum
	MAX_VOTERS     → -max-voters
	DRAFT_TIEBREAK → -tiebreak
	DRAFT_SEED     → -seed
	DRAFT_RERUN    → -rerun
	CORS_ORIGIN    → -origin
	LOG_FORMAT     → -log-format
	LOG_LEVEL      → -log-level

# Validation

ParseFlags returns an error if DATABASE_URL is missing or any enum or
integer setting is malformed.

# Example

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	// ...
	svc := draft.NewService(db.NewDraftStore(conn), cfg.DraftConfig())
*/
package cliparse
