package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/markbrown88/pickleball-app-sub002/models"
	"github.com/markbrown88/pickleball-app-sub002/services"
)

type LineupHandler struct {
	lineupService services.LineupService
}

func NewLineupHandler(lineupService services.LineupService) *LineupHandler {
	return &LineupHandler{lineupService: lineupService}
}

type submitLineupRequest struct {
	// Fixed positions: [man1, man2, woman1, woman2]. A slice rather than a
	// fixed-size array: encoding/json silently drops elements past an array's
	// length, so a 5-player body would be accepted truncated.
	PlayerIDs []int `json:"player_ids"`
}

// SubmitLineup creates or replaces one side's lineup.
// PUT /matches/{matchID}/lineups/{side}
func (h *LineupHandler) SubmitLineup(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	side := models.Side(chi.URLParam(r, "side"))
	if !side.Valid() {
		badRequestResponse(w, r, fmt.Errorf("invalid side: %q", chi.URLParam(r, "side")))
		return
	}

	var req submitLineupRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if len(req.PlayerIDs) != 4 {
		unprocessableResponse(w, r, fmt.Sprintf("player_ids must contain exactly 4 players, got %d", len(req.PlayerIDs)))
		return
	}

	state, err := h.lineupService.SubmitLineup(r.Context(), matchID, side, [4]int(req.PlayerIDs))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"lineup": state}, nil)
}

// GetLineups returns both sides' lineups and lock state.
// GET /matches/{matchID}/lineups
func (h *LineupHandler) GetLineups(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	lineups, err := h.lineupService.GetLineups(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"lineups": lineups}, nil)
}
