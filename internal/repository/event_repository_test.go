package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/planify-api/internal/models"
)

func newEventRepoMock(t *testing.T) (*EventRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	cleanup := func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = sqlxDB.Close()
	}
	return NewEventRepository(sqlxDB), mock, cleanup
}

var eventRowColumns = []string{"id", "title", "description", "event_date", "start_time", "end_time", "category", "priority", "created_at", "updated_at"}

func TestEventRepositoryList(t *testing.T) {
	repo, mock, cleanup := newEventRepoMock(t)
	defer cleanup()

	from := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	rows := sqlmock.NewRows(eventRowColumns).
		AddRow("evt-1", "Révision", "", from, "09:00", "10:00", "study", "high", now, now)

	mock.ExpectQuery(`SELECT id, title, description, event_date, start_time, end_time, category, priority, created_at, updated_at FROM events WHERE 1=1 AND event_date >= \$1 AND category = ANY\(\$2\) ORDER BY event_date ASC, start_time ASC LIMIT 10 OFFSET 10`).
		WithArgs(from, sqlmock.AnyArg()).
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events WHERE 1=1 AND event_date >= \$1 AND category = ANY\(\$2\)`).
		WithArgs(from, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	events, total, err := repo.List(context.Background(), models.EventFilter{
		StartDate:  &from,
		Categories: []string{"study", "sport"},
		Page:       2,
		PageSize:   10,
	})
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, events, 1)
	assert.Equal(t, "Révision", events[0].Title)
	assert.Equal(t, models.PriorityHigh, events[0].Priority)
}

func TestEventRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock, cleanup := newEventRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(`FROM events WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestEventRepositoryCreate(t *testing.T) {
	repo, mock, cleanup := newEventRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO events")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.Event{Title: "Sport", Date: time.Now(), StartTime: "18:00", EndTime: "19:00", Category: "general", Priority: models.PriorityMedium}
	require.NoError(t, repo.Create(context.Background(), event))
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
	assert.False(t, event.UpdatedAt.IsZero())
}

func TestEventRepositoryUpdateMissing(t *testing.T) {
	repo, mock, cleanup := newEventRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Event{ID: "missing"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestEventRepositoryDelete(t *testing.T) {
	repo, mock, cleanup := newEventRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM events WHERE id = $1")).
		WithArgs("evt-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM events WHERE id = $1")).
		WithArgs("evt-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "evt-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "evt-2"), sql.ErrNoRows)
}

func TestEventRepositoryAnalyticsQueries(t *testing.T) {
	repo, mock, cleanup := newEventRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT category, COUNT\(\*\) AS count FROM events GROUP BY category`).
		WillReturnRows(sqlmock.NewRows([]string{"category", "count"}).AddRow("study", 3).AddRow("general", 1))
	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events WHERE event_date >= \$1`).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	counts, err := repo.CategoryCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, models.CategoryCount{Category: "study", Count: 3}, counts[0])

	recent, err := repo.CountSince(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, 2, recent)

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}
