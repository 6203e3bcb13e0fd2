package handlers

import (
	"net/http"

	"github.com/markbrown88/pickleball-app-sub002/models"
	"github.com/markbrown88/pickleball-app-sub002/services"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

func NewScheduleHandler(scheduleService services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

type generateScheduleRequest struct {
	BracketID *int          `json:"bracket_id"`
	Slots     []models.Slot `json:"slots"`
	Overwrite bool          `json:"overwrite"`
}

// Generate builds (or with overwrite, rebuilds) the stop's schedule.
// POST /stops/{stopID}/schedule
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	stopID, err := getIDFromURL(r, "stopID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req generateScheduleRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	slots := req.Slots
	if len(slots) == 0 {
		slots = models.StandardSlots
	}

	result, err := h.scheduleService.Generate(r.Context(), services.GenerateParams{
		StopID:    stopID,
		BracketID: req.BracketID,
		Slots:     slots,
		Overwrite: req.Overwrite,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, jsonResponse{"schedule": result}, nil)
}

// GetSchedule returns the stop's rounds with nested matches and games.
// GET /stops/{stopID}/schedule
func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	stopID, err := getIDFromURL(r, "stopID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rounds, err := h.scheduleService.GetSchedule(r.Context(), stopID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"rounds": rounds}, nil)
}
