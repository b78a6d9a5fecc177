// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the land draft API server.

Voters register with three ranked land parcels (1-32). Once enough voters have
registered, an administrator runs the draft, which assigns parcels over four
rounds. The results of each round are then served to the front end.

# Starting the Server

	DATABASE_URL=land-draft.db go run .

Or with flags:

	go run . -p 8000 -t postgres -d "postgres://..."

Settings may also be placed in a .env file (see -env-file).

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite file path or PostgreSQL connection string

Optional settings:

  - PORT (-p): Server port (default: 8000)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DRAFT_QUORUM (-quorum): voters required to run the draft (default: 10)
  - MAX_VOTERS (-max-voters): registration cap (default: 23)
  - DRAFT_TIEBREAK (-tiebreak): registration or lottery
  - DRAFT_SEED (-seed): lottery seed
  - DRAFT_RERUN (-rerun): replace or reject
  - CORS_ORIGIN (-origin): allowed origin
  - LOG_FORMAT (-log-format): auto, text or json
  - LOG_LEVEL (-log-level): debug, info, warn or error

# Architecture

  - draft: allocation engine and draft service
  - handlers: HTTP request handlers (voters, draft)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - db: Connections, schema, draft persistence
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
