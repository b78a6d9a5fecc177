// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	seq := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if dbType == Postgres {
		seq = "BIGSERIAL PRIMARY KEY"
	}

	_, err := db.Exec(fmt.Sprintf(schema, seq))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Registered voters; seq is registration order
CREATE TABLE IF NOT EXISTS voter (
    seq %s,
    name TEXT NOT NULL UNIQUE,
    choice1 INTEGER NOT NULL CHECK (choice1 BETWEEN 1 AND 32),
    choice2 INTEGER NOT NULL CHECK (choice2 BETWEEN 1 AND 32),
    choice3 INTEGER NOT NULL CHECK (choice3 BETWEEN 1 AND 32),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Draft runs (at most one is kept)
CREATE TABLE IF NOT EXISTS draft_run (
    id TEXT PRIMARY KEY,
    tie_break TEXT NOT NULL,
    seed BIGINT NOT NULL DEFAULT 0,
    inputs_hash TEXT NOT NULL,
    voter_count INTEGER NOT NULL,
    computed_at TIMESTAMP NOT NULL,
    payload TEXT NOT NULL
);

-- Population frozen at run time
CREATE TABLE IF NOT EXISTS draft_entry (
    run_id TEXT NOT NULL REFERENCES draft_run(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    choice1 INTEGER NOT NULL,
    choice2 INTEGER NOT NULL,
    choice3 INTEGER NOT NULL,
    PRIMARY KEY (run_id, position)
);

-- Assignments
CREATE TABLE IF NOT EXISTS draft_assignment (
    run_id TEXT NOT NULL REFERENCES draft_run(id) ON DELETE CASCADE,
    voter_name TEXT NOT NULL,
    parcel INTEGER NOT NULL CHECK (parcel BETWEEN 1 AND 32),
    round INTEGER NOT NULL CHECK (round BETWEEN 1 AND 4),
    rank INTEGER NOT NULL CHECK (rank BETWEEN 1 AND 3),
    PRIMARY KEY (run_id, parcel),
    UNIQUE (run_id, voter_name)
);

CREATE INDEX IF NOT EXISTS idx_draft_entry_run_id ON draft_entry(run_id);
CREATE INDEX IF NOT EXISTS idx_draft_assignment_run_id ON draft_assignment(run_id);
`
