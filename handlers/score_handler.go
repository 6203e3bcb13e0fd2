package handlers

import (
	"net/http"

	"github.com/markbrown88/pickleball-app-sub002/models"
	"github.com/markbrown88/pickleball-app-sub002/services"
)

type ScoreHandler struct {
	scoreService services.ScoreService
}

func NewScoreHandler(scoreService services.ScoreService) *ScoreHandler {
	return &ScoreHandler{scoreService: scoreService}
}

type submitScoreRequest struct {
	Side          models.Side `json:"side"`
	MyScore       int         `json:"my_score"`
	OpponentScore int         `json:"opponent_score"`
}

// SubmitScore records one side's score report.
// POST /games/{gameID}/score
func (h *ScoreHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req submitScoreRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.scoreService.SubmitScore(r.Context(), gameID, req.Side, req.MyScore, req.OpponentScore)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil)
}

// StartGame marks a game as started, hard-locking both lineups.
// POST /games/{gameID}/start
func (h *ScoreHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.scoreService.StartGame(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil)
}

type resolveScoreRequest struct {
	TeamAScore int `json:"team_a_score"`
	TeamBScore int `json:"team_b_score"`
}

// ResolveMismatch sets canonical scores for a mismatched game (admin).
// POST /games/{gameID}/resolve
func (h *ScoreHandler) ResolveMismatch(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req resolveScoreRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.scoreService.ResolveMismatch(r.Context(), gameID, req.TeamAScore, req.TeamBScore)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil)
}
