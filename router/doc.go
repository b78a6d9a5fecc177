// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the land draft API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, svc)

# Endpoints

Health:

	GET /health

Registration:

	POST /voters       - Register a voter with three ranked parcels
	GET  /voters       - Registered names in registration order
	GET  /voters/count - Number of registered voters

Draft:

	POST /draft/run     - Run the draft over the current registrations
	GET  /draft/{round} - Standings at the end of round 1-4
*/
package router
