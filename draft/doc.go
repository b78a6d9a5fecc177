// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package draft allocates land parcels to registered voters over four rounds.

# Inputs

Each Voter ranks three parcels (1-32). Repeated choices are allowed. The
population is frozen when a run starts; later registrations do not affect it.

# Rounds

Round N is played at rank N for every voter still unassigned:

	round 1 → first choice
	round 2 → second choice
	round 3 → third choice
	round 4 → finalization (everyone left has exhausted their ranks)

A parcel nominated by one voter goes to that voter. A contested parcel goes to
the tie-break winner; the others record it as lost. A voter whose parcel at the
current rank is already claimed, or already lost by them, sits the round out
and the skip is recorded (ErrRepeatedOrUnavailablePreference, never returned).

# Tie-break

	registration → earliest registered voter wins
	lottery      → seeded priority order over the frozen population

# Service

Service serializes runs and publishes each completed Result atomically:

	svc := draft.NewService(repo, draft.Config{Rerun: draft.RerunReplace})
	res, err := svc.RunDraft(ctx)
	rows, err := svc.RoundResults(2)

Readers never observe a partially allocated run.
*/
package draft
