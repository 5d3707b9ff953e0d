package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pickduel/backend/internal/config"
)

// Game is one scheduled game reported by the external schedule feed.
type Game struct {
	GameID    string    `json:"game_id"`
	League    string    `json:"league"`
	StartTime time.Time `json:"start_time"`
	Status    string    `json:"status"`
}

// StatusFinal is the terminal game status reported by the feed.
const StatusFinal = "Final"

// Final reports whether the game's underlying event has completed.
func (g Game) Final() bool {
	return g.Status == StatusFinal
}

// Feed is the schedule lookup other components depend on.
type Feed interface {
	// TodayGames returns today's scheduled games for a league. An empty
	// slice means no games are scheduled today.
	TodayGames(ctx context.Context, league string) ([]Game, error)
}

// ErrFeedUnavailable wraps transport-level failures talking to the feed.
var ErrFeedUnavailable = errors.New("schedule feed unavailable")

// Client is a minimal HTTP client for the schedule feed.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a schedule feed client. Returns nil if not configured.
func NewClient(cfg *config.Config) *Client {
	if cfg == nil || cfg.ScheduleFeedBaseURL == "" {
		return nil
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.ScheduleFeedBaseURL, "/"),
		apiKey:     cfg.ScheduleFeedAPIKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// TodayGames fetches today's games for the league from the feed.
func (c *Client) TodayGames(ctx context.Context, league string) ([]Game, error) {
	if c == nil {
		return nil, errors.New("schedule feed client not configured")
	}

	url := fmt.Sprintf("%s/v1/games/today?league=%s", c.baseURL, league)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrFeedUnavailable, resp.StatusCode, string(body))
	}

	var payload struct {
		Games []Game `json:"games"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: bad response: %v", ErrFeedUnavailable, err)
	}

	return payload.Games, nil
}

// LatestGame returns the game with the latest start time, or false if the
// slate is empty.
func LatestGame(games []Game) (Game, bool) {
	if len(games) == 0 {
		return Game{}, false
	}
	latest := games[0]
	for _, g := range games[1:] {
		if g.StartTime.After(latest.StartTime) {
			latest = g
		}
	}
	return latest, true
}

// AllFinal reports whether every game in the slate is final. An empty slate
// is not considered final; there was nothing to play.
func AllFinal(games []Game) bool {
	if len(games) == 0 {
		return false
	}
	for _, g := range games {
		if !g.Final() {
			return false
		}
	}
	return true
}

// MatchEndTime computes when a match over this slate closes for new
// parlays: the last scheduled start plus a fixed buffer.
func MatchEndTime(games []Game, buffer time.Duration) (time.Time, bool) {
	latest, ok := LatestGame(games)
	if !ok {
		return time.Time{}, false
	}
	return latest.StartTime.Add(buffer), true
}
