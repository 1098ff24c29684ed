package webserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func adminRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	adminH := NewAdmin(db)
	r.GET("/constraints", adminH.ListConstraints)
	r.GET("/votes", adminH.ListVotes)
	r.POST("/constraints", adminH.CreateConstraint)
	r.POST("/constraints/:id/toggle", adminH.ToggleConstraint)
	r.DELETE("/constraints/:id", adminH.DeleteConstraint)
	r.DELETE("/votes/:id", adminH.DeleteVote)
	return r, mock
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateConstraint(t *testing.T) {
	r, mock := adminRouter(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `time_constraints`").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	w := doJSON(r, http.MethodPost, "/constraints", gin.H{
		"startAt": start,
		"endAt":   start.Add(2 * time.Hour),
		"kind":    "exclude",
		"note":    "maintenance <script>alert(1)</script>",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())

	var resp struct {
		ID      uint64 `json:"ID"`
		Kind    int8   `json:"Kind"`
		Enabled bool   `json:"Enabled"`
		Note    string `json:"Note"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(5), resp.ID)
	assert.Equal(t, int8(1), resp.Kind)
	assert.True(t, resp.Enabled)
	assert.NotContains(t, resp.Note, "<script>")
}

func TestCreateConstraintRejectsInvertedRange(t *testing.T) {
	r, _ := adminRouter(t)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	w := doJSON(r, http.MethodPost, "/constraints", gin.H{
		"startAt": start,
		"endAt":   start.Add(-time.Hour),
		"kind":    "include",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateConstraintRejectsUnknownKind(t *testing.T) {
	r, _ := adminRouter(t)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	w := doJSON(r, http.MethodPost, "/constraints", gin.H{
		"startAt": start,
		"endAt":   start.Add(time.Hour),
		"kind":    "maybe",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleConstraintNotFound(t *testing.T) {
	r, mock := adminRouter(t)

	mock.ExpectQuery("SELECT \\* FROM `time_constraints`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "start_at", "end_at", "kind", "enabled", "note", "created_at"}))

	w := doJSON(r, http.MethodPost, "/constraints/99/toggle", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteConstraint(t *testing.T) {
	r, mock := adminRouter(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `time_constraints`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := doJSON(r, http.MethodDelete, "/constraints/5", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteVoteNotFound(t *testing.T) {
	r, mock := adminRouter(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `votes`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	w := doJSON(r, http.MethodDelete, "/votes/12345", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListConstraints(t *testing.T) {
	r, mock := adminRouter(t)

	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT \\* FROM `time_constraints`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "start_at", "end_at", "kind", "enabled", "note", "created_at"}).
			AddRow(1, at, at.Add(time.Hour), 0, true, "opening window", at).
			AddRow(2, at.Add(2*time.Hour), at.Add(3*time.Hour), 1, false, "", at))

	w := doJSON(r, http.MethodGet, "/constraints", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []struct {
		ID      uint64 `json:"ID"`
		Kind    int8   `json:"Kind"`
		Enabled bool   `json:"Enabled"`
		Note    string `json:"Note"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, uint64(1), resp[0].ID)
	assert.Equal(t, "opening window", resp[0].Note)
	assert.Equal(t, int8(1), resp[1].Kind)
	assert.False(t, resp[1].Enabled)
}

func TestListVotes(t *testing.T) {
	r, mock := adminRouter(t)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT \\* FROM `votes`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "value", "player_id", "ip", "location", "created_at"}).
			AddRow(1, 400, "p1", "203.0.113.9", "Berlin, Germany", at))

	w := doJSON(r, http.MethodGet, "/votes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []struct {
		ID       uint64 `json:"ID"`
		Value    int64  `json:"Value"`
		PlayerID string `json:"PlayerID"`
		IP       string `json:"IP"`
		Location string `json:"Location"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, int64(400), resp[0].Value)
	assert.Equal(t, "p1", resp[0].PlayerID)
	assert.Equal(t, "Berlin, Germany", resp[0].Location)
}

func TestDeleteBadID(t *testing.T) {
	r, _ := adminRouter(t)

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodDelete, "/votes/abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodDelete, "/constraints/0", nil).Code)
}
