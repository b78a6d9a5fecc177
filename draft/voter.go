// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package draft

import (
	"errors"
	"fmt"
)

// Fixed draft dimensions
const (
	ParcelCount = 32
	RoundCount  = 4
	RankCount   = 3
	MaxVoters   = 23
)

var (
	ErrInvalidPreference               = errors.New("invalid preference")
	ErrInsufficientVoters              = errors.New("insufficient voters")
	ErrRepeatedOrUnavailablePreference = errors.New("repeated or unavailable preference")
	ErrDraftAlreadyRun                 = errors.New("draft already run")
	ErrInvalidRound                    = errors.New("invalid round")
)

// PreferenceError reports a choice outside the parcel range
type PreferenceError struct {
	Voter  string
	Rank   int
	Parcel int
}

func (e *PreferenceError) Error() string {
	return fmt.Sprintf("voter %q choice%d: parcel %d is outside 1-%d", e.Voter, e.Rank, e.Parcel, ParcelCount)
}

func (e *PreferenceError) Unwrap() error { return ErrInvalidPreference }

// Voter is a registered participant and its ranked parcel choices.
// Choices[0] is the first choice.
type Voter struct {
	Name    string
	Choices [RankCount]int
}

// NewVoter builds a voter from its three choices and validates them
func NewVoter(name string, choice1, choice2, choice3 int) (Voter, error) {
	v := Voter{Name: name, Choices: [RankCount]int{choice1, choice2, choice3}}
	if err := v.Validate(); err != nil {
		return Voter{}, err
	}
	return v, nil
}

// Choice returns the parcel at the given 1-based rank
func (v Voter) Choice(rank int) int {
	return v.Choices[rank-1]
}

// Validate checks every choice lies within [1, ParcelCount].
// Repeated choices are allowed.
func (v Voter) Validate() error {
	for i, parcel := range v.Choices {
		if !ValidParcel(parcel) {
			return &PreferenceError{Voter: v.Name, Rank: i + 1, Parcel: parcel}
		}
	}
	return nil
}

func ValidParcel(parcel int) bool {
	return parcel >= 1 && parcel <= ParcelCount
}

func ValidRound(round int) bool {
	return round >= 1 && round <= RoundCount
}
