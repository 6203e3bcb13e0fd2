package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/markbrown88/pickleball-app-sub002/models"
	"github.com/markbrown88/pickleball-app-sub002/services"
)

type stubLineupService struct {
	submitted bool
	playerIDs [4]int
}

func (s *stubLineupService) SubmitLineup(ctx context.Context, matchID int, side models.Side, playerIDs [4]int) (*services.LineupState, error) {
	s.submitted = true
	s.playerIDs = playerIDs
	return &services.LineupState{MatchID: matchID, Side: side, State: services.LineupSubmitted}, nil
}

func (s *stubLineupService) GetLineups(ctx context.Context, matchID int) (*services.MatchLineups, error) {
	return &services.MatchLineups{MatchID: matchID}, nil
}

func newSubmitLineupRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/matches/1/lineups/A", strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("matchID", "1")
	rctx.URLParams.Add("side", "A")
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestSubmitLineupPlayerCount(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCall   bool
	}{
		{
			name:       "exactly four players",
			body:       `{"player_ids":[1,2,3,4]}`,
			wantStatus: http.StatusOK,
			wantCall:   true,
		},
		{
			name:       "five players rejected, not truncated",
			body:       `{"player_ids":[1,2,3,4,5]}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "three players rejected",
			body:       `{"player_ids":[1,2,3]}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "missing player_ids rejected",
			body:       `{}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubLineupService{}
			h := NewLineupHandler(stub)
			rec := httptest.NewRecorder()

			h.SubmitLineup(rec, newSubmitLineupRequest(tt.body))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if stub.submitted != tt.wantCall {
				t.Errorf("service called = %v, want %v", stub.submitted, tt.wantCall)
			}
			if tt.wantCall && stub.playerIDs != [4]int{1, 2, 3, 4} {
				t.Errorf("playerIDs = %v, want [1 2 3 4]", stub.playerIDs)
			}
		})
	}
}

func TestSubmitLineupInvalidSide(t *testing.T) {
	stub := &stubLineupService{}
	h := NewLineupHandler(stub)
	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodPut, "/matches/1/lineups/C", strings.NewReader(`{"player_ids":[1,2,3,4]}`))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("matchID", "1")
	rctx.URLParams.Add("side", "C")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	h.SubmitLineup(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if stub.submitted {
		t.Error("service must not be called for an invalid side")
	}
}
