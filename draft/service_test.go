// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package draft

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu      sync.Mutex
	voters  []Voter
	saved   *Result
	saves   int
	snapErr error
}

func (m *memRepo) register(v Voter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voters = append(m.voters, v)
}

func (m *memRepo) SnapshotVoters(ctx context.Context) ([]Voter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapErr != nil {
		return nil, m.snapErr
	}
	out := make([]Voter, len(m.voters))
	copy(out, m.voters)
	return out, nil
}

func (m *memRepo) SaveResult(ctx context.Context, res *Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = res
	m.saves++
	return nil
}

func (m *memRepo) LoadResult(ctx context.Context) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved, nil
}

func TestService_RunDraftWithoutVoters(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, Config{})

	_, err := svc.RunDraft(context.Background())
	require.ErrorIs(t, err, ErrInsufficientVoters)

	assert.Nil(t, svc.Current())
	assert.Nil(t, repo.saved)
	rows, err := svc.RoundResults(1)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestService_RunDraftPublishes(t *testing.T) {
	repo := &memRepo{}
	repo.register(voter("A", 1, 2, 3))
	repo.register(voter("B", 4, 5, 6))
	svc := NewService(repo, Config{})

	res, err := svc.RunDraft(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.False(t, res.ComputedAt.IsZero())
	assert.Equal(t, TieBreakRegistration, res.TieBreak)
	assert.Same(t, res, svc.Current())
	assert.Same(t, res, repo.saved)

	first, err := svc.RoundResults(4)
	require.NoError(t, err)
	second, err := svc.RoundResults(4)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	assert.Equal(t, 1, *first[0].AssignedLand)
	assert.Equal(t, 4, *first[1].AssignedLand)
}

func TestService_RerunReplaces(t *testing.T) {
	repo := &memRepo{}
	repo.register(voter("A", 1, 2, 3))
	svc := NewService(repo, Config{Rerun: RerunReplace})

	first, err := svc.RunDraft(context.Background())
	require.NoError(t, err)

	repo.register(voter("B", 1, 4, 5))
	second, err := svc.RunDraft(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Len(t, first.Voters, 1, "earlier result is never mutated")
	assert.Len(t, second.Voters, 2)
	assert.Same(t, second, svc.Current())
	assert.Equal(t, 2, repo.saves)
}

func TestService_RerunRejected(t *testing.T) {
	repo := &memRepo{}
	repo.register(voter("A", 1, 2, 3))
	svc := NewService(repo, Config{Rerun: RerunReject})

	first, err := svc.RunDraft(context.Background())
	require.NoError(t, err)

	_, err = svc.RunDraft(context.Background())
	require.ErrorIs(t, err, ErrDraftAlreadyRun)
	assert.Same(t, first, svc.Current())
	assert.Equal(t, 1, repo.saves)
}

func TestService_LoadPublishesPersistedResult(t *testing.T) {
	repo := &memRepo{}
	repo.register(voter("A", 1, 2, 3))
	res, err := NewService(repo, Config{}).RunDraft(context.Background())
	require.NoError(t, err)

	restarted := NewService(repo, Config{Rerun: RerunReject})
	require.NoError(t, restarted.Load(context.Background()))
	assert.Equal(t, res.RunID, restarted.Current().RunID)

	_, err = restarted.RunDraft(context.Background())
	assert.ErrorIs(t, err, ErrDraftAlreadyRun)
}

func TestService_SnapshotFailure(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&memRepo{snapErr: boom}, Config{})

	_, err := svc.RunDraft(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, svc.Current())
}

func TestService_RoundResultsRange(t *testing.T) {
	svc := NewService(&memRepo{}, Config{})

	for _, round := range []int{-1, 0, 5} {
		_, err := svc.RoundResults(round)
		assert.ErrorIs(t, err, ErrInvalidRound, "round %d", round)
	}
}

func TestService_ConcurrentReadsSeeCompleteRuns(t *testing.T) {
	repo := &memRepo{}
	for i, name := range []string{"A", "B", "C", "D", "E"} {
		repo.register(voter(name, 1+i%2, 3+i, 10+i))
	}
	svc := NewService(repo, Config{})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_, err := svc.RunDraft(context.Background())
				assert.NoError(t, err)
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				rows, err := svc.RoundResults(4)
				assert.NoError(t, err)
				if len(rows) != 0 && len(rows) != 5 {
					t.Errorf("observed partial result with %d rows", len(rows))
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 40, repo.saves)
}

func captureLogs(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestService_LogsRoundSummaries(t *testing.T) {
	repo := &memRepo{}
	repo.register(voter("voter1", 1, 2, 3))
	repo.register(voter("voter2", 1, 4, 5))
	repo.register(voter("voter3", 4, 6, 7))

	logs := captureLogs(t, slog.LevelInfo)
	_, err := NewService(repo, Config{}).RunDraft(context.Background())
	require.NoError(t, err)

	out := logs.String()
	assert.Equal(t, RoundCount, strings.Count(out, `msg="round summary"`))
	for _, ordinal := range []string{"round=1st", "round=2nd", "round=3rd", "round=4th"} {
		assert.Contains(t, out, ordinal)
	}
	assert.Contains(t, out, `msg="draft completed"`)
	assert.NotContains(t, out, "preference skipped", "skips log at debug")

	logs = captureLogs(t, slog.LevelDebug)
	_, err = NewService(repo, Config{}).RunDraft(context.Background())
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "preference skipped")
}
