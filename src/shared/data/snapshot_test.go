package data

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/lowball-game/lowball/src/shared/game"
)

func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestSnapshot(t *testing.T) {
	db, mock := mockDB(t)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT \\* FROM `votes`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "value", "player_id", "ip", "location", "created_at"}).
			AddRow(1, 300, "p1", "203.0.113.9", "", at).
			AddRow(2, 600, "p2", "203.0.113.10", "Berlin, Germany", at.Add(time.Minute)))
	mock.ExpectQuery("SELECT \\* FROM `time_constraints`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "start_at", "end_at", "kind", "enabled", "note", "created_at"}).
			AddRow(7, at.Add(-time.Hour), at.Add(time.Hour), game.KindExclude, true, "", at))

	votes, constraints, err := Snapshot(db)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, votes, 2)
	assert.Equal(t, game.Vote{ID: 1, Value: 300, CreatedAt: at}, votes[0])
	assert.Equal(t, game.Vote{ID: 2, Value: 600, CreatedAt: at.Add(time.Minute)}, votes[1])

	require.Len(t, constraints, 1)
	assert.Equal(t, game.Constraint{
		ID:      7,
		StartAt: at.Add(-time.Hour),
		EndAt:   at.Add(time.Hour),
		Kind:    game.KindExclude,
		Enabled: true,
	}, constraints[0])
}

func TestSnapshotEmpty(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `votes`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "value", "player_id", "ip", "location", "created_at"}))
	mock.ExpectQuery("SELECT \\* FROM `time_constraints`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "start_at", "end_at", "kind", "enabled", "note", "created_at"}))

	votes, constraints, err := Snapshot(db)
	require.NoError(t, err)
	assert.Empty(t, votes)
	assert.Empty(t, constraints)
}
