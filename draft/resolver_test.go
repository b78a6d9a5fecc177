// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTieBreaker(t *testing.T) {
	cases := []struct {
		name    string
		rule    string
		want    string
		wantErr bool
	}{
		{"default", "", TieBreakRegistration, false},
		{"registration", TieBreakRegistration, TieBreakRegistration, false},
		{"lottery", TieBreakLottery, TieBreakLottery, false},
		{"unknown", "dice", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tb, err := NewTieBreaker(tc.rule, 42, 5)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, tb.Name())
		})
	}
}

func TestRegistrationOrderPicksEarliest(t *testing.T) {
	tb, err := NewTieBreaker(TieBreakRegistration, 0, 10)
	require.NoError(t, err)

	assert.Equal(t, 2, tb.Winner(1, []int{2, 5, 9}))
	assert.Equal(t, 3, tb.Winner(1, []int{7, 3}))
}

func TestLotteryIsReproducible(t *testing.T) {
	a, err := NewTieBreaker(TieBreakLottery, 1234, 23)
	require.NoError(t, err)
	b, err := NewTieBreaker(TieBreakLottery, 1234, 23)
	require.NoError(t, err)

	contenders := [][]int{{0, 1}, {3, 9, 22}, {5, 6, 7, 8}, {21, 2}}
	for _, c := range contenders {
		winner := a.Winner(1, c)
		assert.Equal(t, winner, b.Winner(1, c))
		assert.Contains(t, c, winner)
	}
}

func TestLotteryPriorityIsAPermutation(t *testing.T) {
	l := newLottery(99, 23)
	seen := make(map[int]bool)
	for _, p := range l.priority {
		assert.False(t, seen[p])
		seen[p] = true
	}
	assert.Len(t, seen, 23)
}

func TestLotteryDraftReproducible(t *testing.T) {
	voters := []Voter{
		voter("A", 1, 2, 3),
		voter("B", 1, 2, 3),
		voter("C", 1, 2, 3),
		voter("D", 1, 2, 3),
	}
	opts := Options{TieBreak: TieBreakLottery, Seed: 7}

	first, err := Allocate(voters, opts)
	require.NoError(t, err)
	second, err := Allocate(voters, opts)
	require.NoError(t, err)

	assert.Equal(t, first.Assignments, second.Assignments)
	assert.Equal(t, int64(7), first.Seed)
	assert.Len(t, first.Assignments, 3)
	assert.Equal(t, []int{1, 1, 1, 0}, []int{
		first.Rounds[0].Assigned, first.Rounds[1].Assigned, first.Rounds[2].Assigned, first.Rounds[3].Assigned,
	})
}

func TestResolveRoundSummary(t *testing.T) {
	a := newAllocation([]Voter{
		voter("A", 1, 2, 3),
		voter("B", 1, 2, 4),
		voter("C", 5, 6, 7),
	})
	tb, err := NewTieBreaker(TieBreakRegistration, 0, 3)
	require.NoError(t, err)

	sum := a.resolveRound(1, tb)
	assert.Equal(t, RoundSummary{Round: 1, Resolved: true, Nominated: 3, Contested: 1, Assigned: 2}, sum)
	assert.Equal(t, 2, a.rank[1], "loser advances to its second choice")
	assert.True(t, a.lost[1][1])
	assert.Equal(t, 1, a.active())

	sum = a.resolveRound(2, tb)
	assert.Equal(t, RoundSummary{Round: 2, Resolved: true, Nominated: 1, Assigned: 1}, sum)
	assert.Equal(t, 1, a.owner[2], "B holds its second choice")
	assert.Zero(t, a.active())
}
