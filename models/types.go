package models

import (
	"time"

	"github.com/danielhkuo/land-draft/draft"
)

// Error codes
const (
	CodeInvalidRequest     = "invalid_request"
	CodeInvalidPreference  = "invalid_preference"
	CodeVoterExists        = "voter_exists"
	CodeRegistrationClosed = "registration_closed"
	CodeInsufficientVoters = "insufficient_voters"
	CodeDraftAlreadyRun    = "draft_already_run"
	CodeInvalidRound       = "invalid_round"
	CodeInternal           = "internal"
)

// Request types

type RegisterVoterRequest struct {
	Name    string `json:"name"`
	Choice1 int    `json:"choice1"`
	Choice2 int    `json:"choice2"`
	Choice3 int    `json:"choice3"`
}

// Response types

type VoterResponse struct {
	Name    string `json:"name"`
	Choice1 int    `json:"choice1"`
	Choice2 int    `json:"choice2"`
	Choice3 int    `json:"choice3"`
}

type VoterSummary struct {
	Name string `json:"name"`
}

// RoundEntry is one voter's row in a round's results.
// AssignedLand is null until the voter wins a parcel.
type RoundEntry struct {
	Name         string `json:"name"`
	Choice1      int    `json:"choice1"`
	Choice2      int    `json:"choice2"`
	Choice3      int    `json:"choice3"`
	AssignedLand *int   `json:"assigned_land"`
}

type DraftRunResponse struct {
	RunID      string               `json:"run_id"`
	ComputedAt time.Time            `json:"computed_at"`
	TieBreak   string               `json:"tie_break"`
	Seed       int64                `json:"seed,omitempty"`
	InputsHash string               `json:"inputs_hash"`
	Round1     []RoundEntry         `json:"round1"`
	Round2     []RoundEntry         `json:"round2"`
	Round3     []RoundEntry         `json:"round3"`
	Round4     []RoundEntry         `json:"round4"`
	Rounds     []draft.RoundSummary `json:"rounds"`
	Unassigned []string             `json:"unassigned"`
}

// NewRoundEntries converts standings to response rows; never nil
func NewRoundEntries(standings []draft.Standing) []RoundEntry {
	entries := make([]RoundEntry, 0, len(standings))
	for _, st := range standings {
		entries = append(entries, RoundEntry{
			Name:         st.Voter.Name,
			Choice1:      st.Voter.Choices[0],
			Choice2:      st.Voter.Choices[1],
			Choice3:      st.Voter.Choices[2],
			AssignedLand: st.AssignedLand,
		})
	}
	return entries
}

// NewDraftRunResponse renders a completed run
func NewDraftRunResponse(res *draft.Result) DraftRunResponse {
	unassigned := res.Unassigned()
	if unassigned == nil {
		unassigned = []string{}
	}
	return DraftRunResponse{
		RunID:      res.RunID,
		ComputedAt: res.ComputedAt,
		TieBreak:   res.TieBreak,
		Seed:       res.Seed,
		InputsHash: res.InputsHash,
		Round1:     NewRoundEntries(res.Round(1)),
		Round2:     NewRoundEntries(res.Round(2)),
		Round3:     NewRoundEntries(res.Round(3)),
		Round4:     NewRoundEntries(res.Round(4)),
		Rounds:     res.Rounds[:],
		Unassigned: unassigned,
	}
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
