// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the API.

# Request Types

  - RegisterVoterRequest: name, choice1, choice2, choice3

# Response Types

  - VoterResponse: name and the three choices
  - VoterSummary: name only
  - RoundEntry: name, choices, assigned_land (null when unassigned)
  - DraftRunResponse: run metadata, round1..round4 rows, round summaries
  - ErrorResponse: error, code, message

NewRoundEntries and NewDraftRunResponse convert draft results into these
shapes. Lists are never encoded as null.

# Error Codes

	invalid_request      400  malformed JSON or name
	invalid_preference   400  choice outside 1-32
	insufficient_voters  400  quorum not met
	invalid_round        400  round outside 1-4
	voter_exists         409  name already registered
	registration_closed  409  registration cap reached
	draft_already_run    409  re-run rejected
	internal             500
*/
package models
