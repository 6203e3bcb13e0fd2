package handlers

import (
	"net/http"

	"github.com/markbrown88/pickleball-app-sub002/models"
	"github.com/markbrown88/pickleball-app-sub002/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// GetState returns the derived lifecycle state of a match.
// GET /matches/{matchID}/state
func (h *MatchHandler) GetState(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	state, err := h.matchService.GetMatchState(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"match": state}, nil)
}

type forfeitRequest struct {
	ForfeitTeam models.Side `json:"forfeit_team"`
}

// Forfeit marks one side as forfeiting the match (admin).
// POST /matches/{matchID}/forfeit
func (h *MatchHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req forfeitRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	state, err := h.matchService.SetForfeit(r.Context(), matchID, req.ForfeitTeam)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"match": state}, nil)
}

// ScheduleTiebreaker creates the tiebreaker game for a 2-2 equal-points
// match (admin).
// POST /matches/{matchID}/tiebreaker
func (h *MatchHandler) ScheduleTiebreaker(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	state, err := h.matchService.ScheduleTiebreaker(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, jsonResponse{"match": state}, nil)
}
