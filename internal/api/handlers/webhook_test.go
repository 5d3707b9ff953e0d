package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/pickduel/backend/internal/config"
	"github.com/pickduel/backend/internal/parlay"
)

func newWebhookRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	engine := parlay.NewEngine(db, &config.Config{}, nil)

	router := gin.New()
	router.POST("/webhooks/props", PropUpdateWebhook(db, engine))
	return router, mock
}

func postPropUpdate(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/webhooks/props", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func propRow(id int, line, current float64, didNotPlay bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "league", "game_id", "player_id", "player_name", "stat_name",
		"line", "current_value", "resolved", "did_not_play", "created_at",
	}).AddRow(id, "NBA", "g1", 101, "Demo Guard", "points",
		line, current, true, didNotPlay, time.Now())
}

func TestPropUpdateWebhookResolves(t *testing.T) {
	router, mock := newWebhookRouter(t)

	mock.ExpectExec(`UPDATE props`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Fan-out: picks flip to did_not_play, no parlays affected.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, league, game_id, player_id, player_name, stat_name`).
		WillReturnRows(propRow(9, 20.5, 0, true))
	mock.ExpectQuery(`UPDATE picks SET status = 'did_not_play'`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "parlay_id"}))
	mock.ExpectCommit()

	w := postPropUpdate(router, `{"prop_id":9,"final_value":0,"resolved":true,"did_not_play":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"updated":true`) {
		t.Errorf("body = %s, want updated true", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// A retried callback for a prop that is already resolved must re-run the
// pick fan-out, so a settlement that failed after the resolved flip is
// recovered instead of acknowledged away.
func TestPropUpdateWebhookRetryRecoversFanOut(t *testing.T) {
	router, mock := newWebhookRouter(t)

	// resolved = FALSE guard matches nothing on the retry.
	mock.ExpectExec(`UPDATE props`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT resolved FROM props`).
		WillReturnRows(sqlmock.NewRows([]string{"resolved"}).AddRow(true))
	// Fan-out still runs: value over the line, one pick flips, and the
	// touched parlay is settled speculatively.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, league, game_id, player_id, player_name, stat_name`).
		WillReturnRows(propRow(9, 20.5, 31, false))
	mock.ExpectQuery(`UPDATE picks SET status = CASE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "parlay_id"}).AddRow(4, 7))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, participant_id, type, stake, resolved, payout`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "participant_id", "type", "stake", "resolved", "payout", "created_at"}).
			AddRow(7, 3, "flex", 10.0, false, 0.0, time.Now()))
	mock.ExpectQuery(`SELECT status FROM picks`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).
			AddRow("hit").AddRow("not_resolved").AddRow("missed"))
	mock.ExpectRollback()

	w := postPropUpdate(router, `{"prop_id":9,"final_value":31,"resolved":true,"did_not_play":false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"updated":false`) {
		t.Errorf("body = %s, want updated false", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// An unknown prop id is acknowledged without any fan-out.
func TestPropUpdateWebhookUnknownProp(t *testing.T) {
	router, mock := newWebhookRouter(t)

	mock.ExpectExec(`UPDATE props`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT resolved FROM props`).
		WillReturnError(sql.ErrNoRows)

	w := postPropUpdate(router, `{"prop_id":999,"final_value":1,"resolved":true,"did_not_play":false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"updated":false`) {
		t.Errorf("body = %s, want updated false", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
