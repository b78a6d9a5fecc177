// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/land-draft/cliparse"
	"github.com/danielhkuo/land-draft/db"
	"github.com/danielhkuo/land-draft/draft"
	"github.com/danielhkuo/land-draft/middleware"
	"github.com/danielhkuo/land-draft/models"
)

type DraftHandler struct {
	cfg   cliparse.Config
	svc   *draft.Service
	store *db.DraftStore
}

func NewDraftHandler(conn *sql.DB, cfg cliparse.Config, svc *draft.Service) *DraftHandler {
	return &DraftHandler{cfg: cfg, svc: svc, store: db.NewDraftStore(conn)}
}

// Run handles POST /draft/run
func (h *DraftHandler) Run(w http.ResponseWriter, r *http.Request) {
	// Check quorum
	count, err := h.store.CountVoters(r.Context())
	if err != nil {
		slog.Error("failed to count voters", "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	if count < h.cfg.Quorum {
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInsufficientVoters,
			fmt.Sprintf("At least %d voters must register before the draft can run (have %d)", h.cfg.Quorum, count))
		return
	}

	res, err := h.svc.RunDraft(r.Context())
	switch {
	case errors.Is(err, draft.ErrInsufficientVoters):
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInsufficientVoters, err.Error())
		return
	case errors.Is(err, draft.ErrInvalidPreference):
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalidPreference, err.Error())
		return
	case errors.Is(err, draft.ErrDraftAlreadyRun):
		middleware.CodedErrorResponse(w, http.StatusConflict, models.CodeDraftAlreadyRun, "The draft has already been run")
		return
	case err != nil:
		slog.Error("draft run failed", "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to run draft")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.NewDraftRunResponse(res))
}

// GetRound handles GET /draft/{round}
func (h *DraftHandler) GetRound(w http.ResponseWriter, r *http.Request) {
	round, err := strconv.Atoi(r.PathValue("round"))
	if err != nil {
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalidRound, "round must be an integer")
		return
	}

	standings, err := h.svc.RoundResults(round)
	if err != nil {
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalidRound, err.Error())
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.NewRoundEntries(standings))
}
