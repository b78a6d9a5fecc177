// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/land-draft/cliparse"
	"github.com/danielhkuo/land-draft/db"
	"github.com/danielhkuo/land-draft/draft"
	"github.com/danielhkuo/land-draft/middleware"
	"github.com/danielhkuo/land-draft/models"
)

const maxNameLength = 50

type VoterHandler struct {
	cfg   cliparse.Config
	store *db.DraftStore

	// serializes the cap check with the insert
	regMu sync.Mutex
}

func NewVoterHandler(conn *sql.DB, cfg cliparse.Config) *VoterHandler {
	return &VoterHandler{cfg: cfg, store: db.NewDraftStore(conn)}
}

// Register handles POST /voters
func (h *VoterHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		if field, ok := malformedChoice(err); ok {
			middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalidPreference,
				field+" must be a whole parcel number 1-32")
			return
		}
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalidRequest, "Invalid JSON")
		return
	}

	// Validate input
	name := strings.TrimSpace(req.Name)
	if name == "" {
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalidRequest, "name is required")
		return
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalidRequest, "name must be at most 50 characters")
		return
	}

	voter, err := draft.NewVoter(name, req.Choice1, req.Choice2, req.Choice3)
	if err != nil {
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalidPreference, err.Error())
		return
	}

	h.regMu.Lock()
	defer h.regMu.Unlock()

	count, err := h.store.CountVoters(r.Context())
	if err != nil {
		slog.Error("failed to count voters", "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	if count >= h.cfg.MaxVoters {
		middleware.CodedErrorResponse(w, http.StatusConflict, models.CodeRegistrationClosed, "Registration is full")
		return
	}

	err = h.store.RegisterVoter(r.Context(), voter, time.Now())
	if db.IsUniqueViolation(err) {
		middleware.CodedErrorResponse(w, http.StatusConflict, models.CodeVoterExists, "name already registered")
		return
	}
	if err != nil {
		slog.Error("failed to insert voter", "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to register voter")
		return
	}

	slog.Info("voter registered", "name", name, "position", humanize.Ordinal(count+1))

	middleware.JSONResponse(w, http.StatusCreated, models.VoterResponse{
		Name:    voter.Name,
		Choice1: voter.Choices[0],
		Choice2: voter.Choices[1],
		Choice3: voter.Choices[2],
	})
}

// List handles GET /voters
func (h *VoterHandler) List(w http.ResponseWriter, r *http.Request) {
	names, err := h.store.ListVoterNames(r.Context())
	if err != nil {
		slog.Error("failed to list voters", "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	voters := make([]models.VoterSummary, 0, len(names))
	for _, name := range names {
		voters = append(voters, models.VoterSummary{Name: name})
	}

	middleware.JSONResponse(w, http.StatusOK, voters)
}

// Count handles GET /voters/count
func (h *VoterHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.CountVoters(r.Context())
	if err != nil {
		slog.Error("failed to count voters", "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, count)
}

// malformedChoice reports which choice field held a non-integer value
func malformedChoice(err error) (string, bool) {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return "", false
	}
	switch typeErr.Field {
	case "choice1", "choice2", "choice3":
		return typeErr.Field, true
	}
	return "", false
}
