// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/land-draft/draft"
)

// DraftStore persists registrations and the latest draft run
type DraftStore struct {
	db *sql.DB
}

func NewDraftStore(db *sql.DB) *DraftStore {
	return &DraftStore{db: db}
}

var _ draft.Repository = (*DraftStore)(nil)

// runPayload holds the parts of a result that are only read back whole
type runPayload struct {
	Rounds []draft.RoundSummary `json:"rounds"`
	Skips  []draft.Skip         `json:"skips"`
}

// SnapshotVoters returns every registered voter in registration order
func (s *DraftStore) SnapshotVoters(ctx context.Context) ([]draft.Voter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, choice1, choice2, choice3
		FROM voter
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query voters: %w", err)
	}
	defer rows.Close()

	voters := []draft.Voter{}
	for rows.Next() {
		var v draft.Voter
		if err := rows.Scan(&v.Name, &v.Choices[0], &v.Choices[1], &v.Choices[2]); err != nil {
			return nil, fmt.Errorf("failed to scan voter: %w", err)
		}
		voters = append(voters, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read voters: %w", err)
	}

	return voters, nil
}

// ListVoterNames returns registered names in registration order
func (s *DraftStore) ListVoterNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM voter ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query voter names: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan voter name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read voter names: %w", err)
	}

	return names, nil
}

// SaveResult replaces any stored run with res in one transaction
func (s *DraftStore) SaveResult(ctx context.Context, res *draft.Result) error {
	payload, err := json.Marshal(runPayload{Rounds: res.Rounds[:], Skips: res.Skips})
	if err != nil {
		return fmt.Errorf("failed to encode run payload: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM draft_assignment",
		"DELETE FROM draft_entry",
		"DELETE FROM draft_run",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear previous run: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO draft_run (id, tie_break, seed, inputs_hash, voter_count, computed_at, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, res.RunID, res.TieBreak, res.Seed, res.InputsHash, len(res.Voters), res.ComputedAt, string(payload))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, v := range res.Voters {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO draft_entry (run_id, position, name, choice1, choice2, choice3)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, res.RunID, i, v.Name, v.Choices[0], v.Choices[1], v.Choices[2])
		if err != nil {
			return fmt.Errorf("failed to insert entry %q: %w", v.Name, err)
		}
	}

	for _, a := range res.Assignments {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO draft_assignment (run_id, voter_name, parcel, round, rank)
			VALUES ($1, $2, $3, $4, $5)
		`, res.RunID, a.Voter, a.Parcel, a.Round, a.Rank)
		if err != nil {
			return fmt.Errorf("failed to insert assignment of parcel %d: %w", a.Parcel, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// LoadResult returns the stored run, or nil if no draft has run
func (s *DraftStore) LoadResult(ctx context.Context) (*draft.Result, error) {
	var res draft.Result
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, tie_break, seed, inputs_hash, computed_at, payload
		FROM draft_run
		ORDER BY computed_at DESC
		LIMIT 1
	`).Scan(&res.RunID, &res.TieBreak, &res.Seed, &res.InputsHash, &res.ComputedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	res.ComputedAt = res.ComputedAt.UTC()

	var p runPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("failed to parse run payload: %w", err)
	}
	copy(res.Rounds[:], p.Rounds)
	res.Skips = p.Skips

	if res.Voters, err = s.loadEntries(ctx, res.RunID); err != nil {
		return nil, err
	}
	if res.Assignments, err = s.loadAssignments(ctx, res.RunID); err != nil {
		return nil, err
	}

	return &res, nil
}

func (s *DraftStore) loadEntries(ctx context.Context, runID string) ([]draft.Voter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, choice1, choice2, choice3
		FROM draft_entry
		WHERE run_id = $1
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var voters []draft.Voter
	for rows.Next() {
		var v draft.Voter
		if err := rows.Scan(&v.Name, &v.Choices[0], &v.Choices[1], &v.Choices[2]); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		voters = append(voters, v)
	}
	return voters, rows.Err()
}

// loadAssignments returns assignments in the order the resolver produced them
func (s *DraftStore) loadAssignments(ctx context.Context, runID string) ([]draft.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT voter_name, parcel, round, rank
		FROM draft_assignment
		WHERE run_id = $1
		ORDER BY round, parcel
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var out []draft.Assignment
	for rows.Next() {
		var a draft.Assignment
		if err := rows.Scan(&a.Voter, &a.Parcel, &a.Round, &a.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountVoters returns the number of registered voters
func (s *DraftStore) CountVoters(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM voter").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count voters: %w", err)
	}
	return n, nil
}

// RegisterVoter inserts a voter at the end of the registration order
func (s *DraftStore) RegisterVoter(ctx context.Context, v draft.Voter, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO voter (name, choice1, choice2, choice3, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, v.Name, v.Choices[0], v.Choices[1], v.Choices[2], at)
	return err
}
