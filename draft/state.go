// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package draft

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Skip reasons
const (
	SkipClaimed = "claimed" // parcel already awarded to another voter
	SkipLost    = "lost"    // voter already lost this parcel in an earlier round
)

// Assignment grants a parcel to a voter during a round.
// Rank is the preference rank the parcel was listed at.
type Assignment struct {
	Voter  string `json:"voter"`
	Parcel int    `json:"parcel"`
	Round  int    `json:"round"`
	Rank   int    `json:"rank"`
}

// Skip records a round a voter sat out because its ranked parcel could not be won
type Skip struct {
	Voter  string `json:"voter"`
	Round  int    `json:"round"`
	Rank   int    `json:"rank"`
	Parcel int    `json:"parcel"`
	Reason string `json:"reason"`
}

func (s Skip) Err() error {
	return fmt.Errorf("%w: voter %q parcel %d (%s) in round %d",
		ErrRepeatedOrUnavailablePreference, s.Voter, s.Parcel, s.Reason, s.Round)
}

// RoundSummary counts what happened in a single round.
// Resolved is false when no voter could still nominate and the round was not run.
type RoundSummary struct {
	Round     int  `json:"round"`
	Resolved  bool `json:"resolved"`
	Nominated int  `json:"nominated"`
	Contested int  `json:"contested"`
	Assigned  int  `json:"assigned"`
	Skipped   int  `json:"skipped"`
	Exhausted int  `json:"exhausted"`
}

// Result is the immutable outcome of a completed draft run.
// Voters is the population frozen when the run started, in registration order.
type Result struct {
	RunID       string
	ComputedAt  time.Time
	TieBreak    string
	Seed        int64
	InputsHash  string
	Voters      []Voter
	Assignments []Assignment
	Skips       []Skip
	Rounds      [RoundCount]RoundSummary
}

// Standing is one voter's row in a round's results
type Standing struct {
	Voter        Voter
	AssignedLand *int
	Round        int
	Rank         int
}

// Round projects the result as it stood at the end of round: every voter of
// the population, holding the parcel it won in that round or earlier.
// Rounds outside 1..RoundCount and a nil result yield an empty slice.
func (r *Result) Round(round int) []Standing {
	if r == nil || !ValidRound(round) {
		return []Standing{}
	}

	won := make(map[string]Assignment, len(r.Assignments))
	for _, a := range r.Assignments {
		if a.Round <= round {
			won[a.Voter] = a
		}
	}

	out := make([]Standing, 0, len(r.Voters))
	for _, v := range r.Voters {
		st := Standing{Voter: v}
		if a, ok := won[v.Name]; ok {
			land := a.Parcel
			st.AssignedLand = &land
			st.Round = a.Round
			st.Rank = a.Rank
		}
		out = append(out, st)
	}
	return out
}

// Unassigned lists voters finalized without a parcel, in registration order
func (r *Result) Unassigned() []string {
	if r == nil {
		return nil
	}
	assigned := make(map[string]bool, len(r.Assignments))
	for _, a := range r.Assignments {
		assigned[a.Voter] = true
	}
	var names []string
	for _, v := range r.Voters {
		if !assigned[v.Name] {
			names = append(names, v.Name)
		}
	}
	return names
}

// InputsHash fingerprints a frozen population so a stored run can be matched
// to the registrations it was computed from.
func InputsHash(voters []Voter) string {
	h := sha256.New()
	for _, v := range voters {
		fmt.Fprintf(h, "%s\x00%d,%d,%d\n", v.Name, v.Choices[0], v.Choices[1], v.Choices[2])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// allocation is the mutable state of a run in progress. Voters are addressed
// by their index in the frozen population.
type allocation struct {
	voters      []Voter
	owner       map[int]int
	rank        []int
	lost        []map[int]bool
	finished    []bool
	assignments []Assignment
	skips       []Skip
}

func newAllocation(voters []Voter) *allocation {
	a := &allocation{
		voters:   voters,
		owner:    make(map[int]int, ParcelCount),
		rank:     make([]int, len(voters)),
		lost:     make([]map[int]bool, len(voters)),
		finished: make([]bool, len(voters)),
	}
	for i := range voters {
		a.rank[i] = 1
		a.lost[i] = make(map[int]bool)
	}
	return a
}

// active counts voters that can still nominate
func (a *allocation) active() int {
	n := 0
	for _, done := range a.finished {
		if !done {
			n++
		}
	}
	return n
}

func (a *allocation) assign(idx, parcel, round int) {
	a.owner[parcel] = idx
	a.finished[idx] = true
	a.assignments = append(a.assignments, Assignment{
		Voter:  a.voters[idx].Name,
		Parcel: parcel,
		Round:  round,
		Rank:   a.rank[idx],
	})
}

// blocked reports why a voter cannot nominate parcel, if it cannot
func (a *allocation) blocked(idx, parcel int) (string, bool) {
	if a.lost[idx][parcel] {
		return SkipLost, true
	}
	if _, claimed := a.owner[parcel]; claimed {
		return SkipClaimed, true
	}
	return "", false
}
