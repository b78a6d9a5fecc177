// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/land-draft/cliparse"
	"github.com/danielhkuo/land-draft/draft"
	"github.com/danielhkuo/land-draft/handlers"
	"github.com/danielhkuo/land-draft/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, svc *draft.Service) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	voterHandler := handlers.NewVoterHandler(db, cfg)
	draftHandler := handlers.NewDraftHandler(db, cfg, svc)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Registration
	mux.HandleFunc("POST /voters", middleware.WithLogging(voterHandler.Register))
	mux.HandleFunc("GET /voters", middleware.WithLogging(voterHandler.List))
	mux.HandleFunc("GET /voters/count", middleware.WithLogging(voterHandler.Count))

	// Draft
	mux.HandleFunc("POST /draft/run", middleware.WithLogging(draftHandler.Run))
	mux.HandleFunc("GET /draft/{round}", middleware.WithLogging(draftHandler.GetRound))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("land-draft API v1"))
	})

	return mux
}
