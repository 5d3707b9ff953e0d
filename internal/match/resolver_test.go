package match

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/pickduel/backend/internal/config"
)

func newMockResolver(t *testing.T) (*Resolver, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	cfg := &config.Config{MinParlaysRequired: 2, MinPctTotalStaked: 0.6}
	return NewResolver(db, cfg, nil, nil, nil), mock
}

// The listing query must pick up matches whose ends_at has long passed even
// when they were created before today, so a slate finishing after midnight
// or a resolver outage cannot strand a match unresolved.
func TestResolveLeagueIncludesStrandedMatches(t *testing.T) {
	r, mock := newMockResolver(t)

	mock.ExpectQuery(`SELECT id FROM matches\s+WHERE league = \$1 AND resolved = FALSE\s+AND \(created_at >= CURRENT_DATE OR ends_at < NOW\(\) - INTERVAL '1 hour'\)`).
		WithArgs("NBA").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	// The stranded match raced another resolver pass: FOR UPDATE observes
	// it already resolved and the pass is a no-op.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, league, kind, starting_balance, ends_at, resolved, created_at\s+FROM matches`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "league", "kind", "starting_balance", "ends_at", "resolved", "created_at"}).
			AddRow(42, "NBA", "competitive", 200.0, time.Now().Add(-26*time.Hour), true, time.Now().Add(-30*time.Hour)))
	mock.ExpectRollback()

	r.resolveLeague(context.Background(), "NBA")

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
