package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/markbrown88/pickleball-app-sub002/services"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"match not found", services.ErrMatchNotFound, http.StatusNotFound},
		{"game not found", services.ErrGameNotFound, http.StatusNotFound},
		{"duplicate submission", services.ErrDuplicateSubmission, http.StatusConflict},
		{"already scheduled", services.ErrAlreadyScheduled, http.StatusConflict},
		{"game already complete", services.ErrGameAlreadyComplete, http.StatusConflict},
		{"lineup locked", services.ErrLineupLocked, http.StatusLocked},
		{"match finished", services.ErrMatchFinished, http.StatusLocked},
		{"invalid lineup", services.ErrLineupInvalid, http.StatusUnprocessableEntity},
		{"bye match", services.ErrByeMatch, http.StatusUnprocessableEntity},
		{"roster unavailable", services.ErrRosterUnavailable, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			mapServiceErrorToHTTP(rec, req, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
		})
	}
}

func TestReadJSONRejectsUnknownFields(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"side":"A","bogus":1}`))

	var dst struct {
		Side string `json:"side"`
	}
	err := readJSON(rec, req, &dst)
	if err == nil || !strings.Contains(err.Error(), "unknown key") {
		t.Errorf("err = %v, want unknown key error", err)
	}
}

func TestReadJSONRejectsEmptyBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))

	var dst struct{}
	err := readJSON(rec, req, &dst)
	if err == nil || !strings.Contains(err.Error(), "must not be empty") {
		t.Errorf("err = %v, want empty body error", err)
	}
}

func newChiRequest(param, value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(param, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetIDFromURL(t *testing.T) {
	if id, err := getIDFromURL(newChiRequest("matchID", "42"), "matchID"); err != nil || id != 42 {
		t.Errorf("getIDFromURL() = (%d, %v), want (42, nil)", id, err)
	}
	if _, err := getIDFromURL(newChiRequest("matchID", "abc"), "matchID"); err == nil {
		t.Error("expected an error for a non-numeric id")
	}
	if _, err := getIDFromURL(newChiRequest("matchID", "-3"), "matchID"); err == nil {
		t.Error("expected an error for a negative id")
	}
}
