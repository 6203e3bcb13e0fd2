package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/markbrown88/pickleball-app-sub002/models"
)

// Client talks to the external roster service, the source of truth for which
// players a team may field at a stop.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Roster fetches the eligible players (with gender tags) for a team at a stop.
func (c *Client) Roster(ctx context.Context, stopID, teamID int) ([]models.Player, error) {
	url := fmt.Sprintf("%s/stops/%d/teams/%d/roster", c.baseURL, stopID, teamID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build roster request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("roster request for stop %d team %d failed: %w", stopID, teamID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("roster service returned status %d for stop %d team %d", resp.StatusCode, stopID, teamID)
	}

	var payload struct {
		Players []models.Player `json:"players"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode roster response: %w", err)
	}
	return payload.Players, nil
}
