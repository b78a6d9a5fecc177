// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the land draft API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - VoterHandler: registration, voter list and count
  - DraftHandler: running the draft and reading round results

Handlers are created via constructor functions:

	voterHandler := handlers.NewVoterHandler(db, cfg)
	draftHandler := handlers.NewDraftHandler(db, cfg, svc)

# Registration

	POST /voters       → Register (201, or 409 voter_exists / registration_closed)
	GET  /voters       → List
	GET  /voters/count → Count

Names are trimmed and limited to 50 characters. Choices must be parcels 1-32;
a voter may repeat a parcel. Registration stops at cfg.MaxVoters.

# Draft

	POST /draft/run     → Run (400 insufficient_voters below cfg.Quorum)
	GET  /draft/{round} → GetRound

Run returns all four rounds. GetRound returns every voter of the drafted
population in registration order with assigned_land null until won, or []
before the first run.
*/
package handlers
