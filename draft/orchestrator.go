// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package draft

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Rerun policies
type RerunPolicy string

const (
	RerunReplace RerunPolicy = "replace"
	RerunReject  RerunPolicy = "reject"
)

// Options select the tie-break rule for a run
type Options struct {
	TieBreak string
	Seed     int64
}

// Allocate runs the full draft over a population in registration order.
// It does not touch any shared state; the returned result has no run ID or
// timestamp yet.
func Allocate(voters []Voter, opts Options) (*Result, error) {
	if len(voters) == 0 {
		return nil, ErrInsufficientVoters
	}
	for _, v := range voters {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	tb, err := NewTieBreaker(opts.TieBreak, opts.Seed, len(voters))
	if err != nil {
		return nil, err
	}

	frozen := slices.Clone(voters)
	res := &Result{
		TieBreak:   tb.Name(),
		InputsHash: InputsHash(frozen),
		Voters:     frozen,
	}
	if tb.Name() == TieBreakLottery {
		res.Seed = opts.Seed
	}

	a := newAllocation(frozen)
	for round := 1; round <= RoundCount; round++ {
		if a.active() == 0 {
			res.Rounds[round-1] = RoundSummary{Round: round}
			continue
		}
		res.Rounds[round-1] = a.resolveRound(round, tb)
	}

	res.Assignments = a.assignments
	res.Skips = a.skips
	return res, nil
}

// Repository persists registrations and the latest draft result
type Repository interface {
	SnapshotVoters(ctx context.Context) ([]Voter, error)
	SaveResult(ctx context.Context, res *Result) error
	LoadResult(ctx context.Context) (*Result, error)
}

// Config configures a Service
type Config struct {
	Options
	Rerun RerunPolicy
}

// Service owns the published draft result. Runs are serialized; readers only
// ever see no result or a complete one.
type Service struct {
	repo Repository
	cfg  Config
	now  func() time.Time

	mu      sync.Mutex
	current atomic.Pointer[Result]
}

func NewService(repo Repository, cfg Config) *Service {
	if cfg.Rerun == "" {
		cfg.Rerun = RerunReplace
	}
	return &Service{repo: repo, cfg: cfg, now: time.Now}
}

// Load publishes the persisted result, if any
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.repo.LoadResult(ctx)
	if err != nil {
		return fmt.Errorf("failed to load draft result: %w", err)
	}
	if res != nil {
		s.current.Store(res)
		slog.Info("draft result loaded", "run_id", res.RunID, "voters", len(res.Voters))
	}
	return nil
}

// RunDraft freezes the registered population, allocates it and publishes
// the result. Under RerunReplace a new run discards the previous one; under
// RerunReject a second run fails with ErrDraftAlreadyRun.
func (s *Service) RunDraft(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev := s.current.Load(); prev != nil && s.cfg.Rerun == RerunReject {
		return nil, fmt.Errorf("%w: run %s", ErrDraftAlreadyRun, prev.RunID)
	}

	voters, err := s.repo.SnapshotVoters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot voters: %w", err)
	}

	res, err := Allocate(voters, s.cfg.Options)
	if err != nil {
		return nil, err
	}
	res.RunID = uuid.NewString()
	res.ComputedAt = s.now().UTC().Truncate(time.Microsecond)

	if err := s.repo.SaveResult(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to save draft result: %w", err)
	}
	s.current.Store(res)

	for _, sum := range res.Rounds {
		slog.Info("round summary",
			"run_id", res.RunID,
			"round", humanize.Ordinal(sum.Round),
			"resolved", sum.Resolved,
			"nominated", sum.Nominated,
			"contested", sum.Contested,
			"assigned", sum.Assigned,
			"skipped", sum.Skipped,
		)
	}
	for _, sk := range res.Skips {
		slog.Debug("preference skipped", "run_id", res.RunID, "reason", sk.Err())
	}
	slog.Info("draft completed",
		"run_id", res.RunID,
		"voters", len(res.Voters),
		"assigned", len(res.Assignments),
		"unassigned", len(res.Unassigned()),
		"tie_break", res.TieBreak,
	)

	return res, nil
}

// Current returns the published result, or nil before the first run
func (s *Service) Current() *Result {
	return s.current.Load()
}

// RoundResults returns every voter's standing at the end of round. Before
// any run it returns an empty slice.
func (s *Service) RoundResults(round int) ([]Standing, error) {
	if !ValidRound(round) {
		return nil, fmt.Errorf("%w: %d is outside 1-%d", ErrInvalidRound, round, RoundCount)
	}
	return s.current.Load().Round(round), nil
}
