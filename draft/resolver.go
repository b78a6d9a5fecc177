// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package draft

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
)

// Tie-break rules
const (
	TieBreakRegistration = "registration"
	TieBreakLottery      = "lottery"
)

// TieBreaker picks the winner among voters nominating the same parcel.
// contenders holds voter indexes in registration order and has at least two entries.
type TieBreaker interface {
	Name() string
	Winner(parcel int, contenders []int) int
}

// NewTieBreaker returns the named rule for a population of the given size
func NewTieBreaker(name string, seed int64, population int) (TieBreaker, error) {
	switch name {
	case "", TieBreakRegistration:
		return registrationOrder{}, nil
	case TieBreakLottery:
		return newLottery(seed, population), nil
	default:
		return nil, fmt.Errorf("unknown tie-break rule %q", name)
	}
}

// registrationOrder awards contested parcels to the earliest registered voter
type registrationOrder struct{}

func (registrationOrder) Name() string { return TieBreakRegistration }

func (registrationOrder) Winner(_ int, contenders []int) int {
	return slices.Min(contenders)
}

// lottery draws a single priority order over the whole population from the
// seed, then awards contested parcels by that order. The same seed and
// population always yield the same winners.
type lottery struct {
	priority []int
}

func newLottery(seed int64, population int) lottery {
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	draw := r.Perm(population)
	priority := make([]int, population)
	for pos, idx := range draw {
		priority[idx] = pos
	}
	return lottery{priority: priority}
}

func (lottery) Name() string { return TieBreakLottery }

func (l lottery) Winner(_ int, contenders []int) int {
	winner := contenders[0]
	for _, idx := range contenders[1:] {
		if l.priority[idx] < l.priority[winner] {
			winner = idx
		}
	}
	return winner
}

// resolveRound runs one round against the allocation:
//
//  1. each unfinished voter nominates the parcel at its current rank, or sits
//     the round out if that parcel is claimed or was already lost by it
//  2. a parcel with one nominator goes to it; a contested parcel goes to the
//     tie-break winner and is recorded as lost for the others
//  3. every voter still unassigned advances one rank; voters past their last
//     rank are finished without a parcel
func (a *allocation) resolveRound(round int, tb TieBreaker) RoundSummary {
	sum := RoundSummary{Round: round, Resolved: true}

	nominations := make(map[int][]int)
	for idx, v := range a.voters {
		if a.finished[idx] {
			continue
		}
		rank := a.rank[idx]
		parcel := v.Choice(rank)
		if reason, ok := a.blocked(idx, parcel); ok {
			a.skips = append(a.skips, Skip{
				Voter:  v.Name,
				Round:  round,
				Rank:   rank,
				Parcel: parcel,
				Reason: reason,
			})
			sum.Skipped++
			continue
		}
		nominations[parcel] = append(nominations[parcel], idx)
		sum.Nominated++
	}

	// Parcel order only affects the order assignments are recorded in
	for _, parcel := range slices.Sorted(maps.Keys(nominations)) {
		contenders := nominations[parcel]
		winner := contenders[0]
		if len(contenders) > 1 {
			sum.Contested++
			winner = tb.Winner(parcel, contenders)
		}
		a.assign(winner, parcel, round)
		sum.Assigned++

		for _, idx := range contenders {
			if idx != winner {
				a.lost[idx][parcel] = true
			}
		}
	}

	for idx := range a.voters {
		if a.finished[idx] {
			continue
		}
		a.rank[idx]++
		if a.rank[idx] > RankCount {
			a.finished[idx] = true
			sum.Exhausted++
		}
	}

	return sum
}
