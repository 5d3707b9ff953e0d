package schedule

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pickduel/backend/internal/config"
)

func gameAt(id string, start time.Time, status string) Game {
	return Game{GameID: id, League: "NBA", StartTime: start, Status: status}
}

func TestLatestGame(t *testing.T) {
	base := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)

	if _, ok := LatestGame(nil); ok {
		t.Error("LatestGame(nil) should report no game")
	}

	games := []Game{
		gameAt("g1", base, "Scheduled"),
		gameAt("g2", base.Add(3*time.Hour), "Scheduled"),
		gameAt("g3", base.Add(time.Hour), "Scheduled"),
	}
	latest, ok := LatestGame(games)
	if !ok {
		t.Fatal("LatestGame returned no game")
	}
	if latest.GameID != "g2" {
		t.Errorf("latest = %s, want g2", latest.GameID)
	}
}

func TestAllFinal(t *testing.T) {
	base := time.Now()

	tests := []struct {
		name  string
		games []Game
		want  bool
	}{
		{"empty slate is not final", nil, false},
		{"all final", []Game{
			gameAt("g1", base, StatusFinal),
			gameAt("g2", base, StatusFinal),
		}, true},
		{"one in progress", []Game{
			gameAt("g1", base, StatusFinal),
			gameAt("g2", base, "InProgress"),
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllFinal(tt.games); got != tt.want {
				t.Errorf("AllFinal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchEndTime(t *testing.T) {
	base := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	games := []Game{
		gameAt("g1", base, "Scheduled"),
		gameAt("g2", base.Add(2*time.Hour), "Scheduled"),
	}

	end, ok := MatchEndTime(games, 3*time.Hour)
	if !ok {
		t.Fatal("MatchEndTime returned no time")
	}
	want := base.Add(5 * time.Hour)
	if !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}

	if _, ok := MatchEndTime(nil, 3*time.Hour); ok {
		t.Error("MatchEndTime(nil) should report no time")
	}
}

func TestClientTodayGames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/games/today" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("league") != "NBA" {
			t.Errorf("unexpected league %s", r.URL.Query().Get("league"))
		}
		if r.Header.Get("X-API-Key") != "test-key" {
			t.Errorf("unexpected api key %q", r.Header.Get("X-API-Key"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"games":[
			{"game_id":"g1","league":"NBA","start_time":"2026-03-14T19:00:00Z","status":"Final"},
			{"game_id":"g2","league":"NBA","start_time":"2026-03-14T22:00:00Z","status":"InProgress"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(&config.Config{
		ScheduleFeedBaseURL: srv.URL,
		ScheduleFeedAPIKey:  "test-key",
	})

	games, err := client.TodayGames(context.Background(), "NBA")
	if err != nil {
		t.Fatalf("TodayGames: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}
	if !games[0].Final() {
		t.Error("g1 should be final")
	}
	if games[1].Final() {
		t.Error("g2 should not be final")
	}
}

func TestClientFeedUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(&config.Config{ScheduleFeedBaseURL: srv.URL})
	if _, err := client.TodayGames(context.Background(), "NBA"); err == nil {
		t.Fatal("want error for 502 response")
	}
}

func TestNewClientUnconfigured(t *testing.T) {
	if c := NewClient(&config.Config{}); c != nil {
		t.Error("NewClient without base URL should return nil")
	}
}
