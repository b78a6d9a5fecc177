// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/land-draft/cliparse"
	"github.com/danielhkuo/land-draft/db"
	"github.com/danielhkuo/land-draft/draft"
)

// SetupTestDB creates a fresh sqlite database file with the full schema.
// The database is removed with the test's temp dir.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.SQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn, db.SQLite); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "test.db",
		DatabaseType: cliparse.DatabaseSQLite,
		Quorum:       1,
		MaxVoters:    draft.MaxVoters,
		TieBreak:     draft.TieBreakRegistration,
		Rerun:        draft.RerunReplace,
		LogFormat:    cliparse.LogText,
	}
}

// NewTestService creates a draft service over the test database
func NewTestService(t *testing.T, conn *sql.DB, cfg cliparse.Config) *draft.Service {
	t.Helper()

	svc := draft.NewService(db.NewDraftStore(conn), cfg.DraftConfig())
	if err := svc.Load(t.Context()); err != nil {
		t.Fatalf("Failed to load draft service: %v", err)
	}
	return svc
}

// CreateTestVoter registers a voter directly in the database
func CreateTestVoter(t *testing.T, conn *sql.DB, name string, c1, c2, c3 int) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO voter (name, choice1, choice2, choice3, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, name, c1, c2, c3, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertErrorCode checks the code field of a JSON error response
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, code string) {
	t.Helper()
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Code != code {
		t.Errorf("Expected error code %q, got %q", code, resp.Code)
	}
}
