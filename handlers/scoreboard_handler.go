package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/markbrown88/pickleball-app-sub002/live"
	"github.com/markbrown88/pickleball-app-sub002/repositories"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the scoreboard frontend origin once it is deployed.
		return true
	},
}

type ScoreboardHandler struct {
	hub      *live.Hub
	stopRepo repositories.StopRepository
	logger   *slog.Logger
}

func NewScoreboardHandler(hub *live.Hub, stopRepo repositories.StopRepository, logger *slog.Logger) *ScoreboardHandler {
	return &ScoreboardHandler{hub: hub, stopRepo: stopRepo, logger: logger}
}

// ServeWs upgrades the connection and subscribes it to the stop's live feed.
// GET /ws/stops/{stopID}
func (h *ScoreboardHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	stopID, err := getIDFromURL(r, "stopID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if _, err := h.stopRepo.GetByID(r.Context(), stopID); err != nil {
		notFoundResponse(w, r)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Error("websocket upgrade failed", slog.Int("stop_id", stopID), slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, stopID)
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
