package handlers_test

import (
	"database/sql"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindscribe/mindscribe-backend/internal/models"
	"github.com/mindscribe/mindscribe-backend/internal/services"
)

func issueToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := services.Tokens.Issue(userID.String())
	require.NoError(t, err)
	return token
}

func TestCreateJournalEntryEndpoint(t *testing.T) {
	r, mock := setupServer(t)
	userID := uuid.New()

	mock.ExpectExec("INSERT INTO journal_entries").
		WithArgs(sqlmock.AnyArg(), userID, "Day1", "hello", models.MoodNeutral, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, resp := doJSON(t, r, http.MethodPost, "/api/journals", issueToken(t, userID), map[string]string{
		"title":   "Day1",
		"content": "hello",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, resp["success"])

	entry, ok := resp["entry"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Day1", entry["title"])
	assert.Equal(t, "hello", entry["content"])
	assert.Equal(t, "Neutral", entry["mood"], "mood defaults to Neutral")
}

func TestCreateJournalEntryRequiresAuth(t *testing.T) {
	r, _ := setupServer(t)

	rec, resp := doJSON(t, r, http.MethodPost, "/api/journals", "", map[string]string{
		"title":   "Day1",
		"content": "hello",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, resp["message"], "No token provided")
}

func TestCreateJournalEntryValidation(t *testing.T) {
	r, _ := setupServer(t)

	rec, resp := doJSON(t, r, http.MethodPost, "/api/journals", issueToken(t, uuid.New()), map[string]string{
		"title": "Day1",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Title and content are required.", resp["error"])
}

func TestGetJournalEntryForeignOwner(t *testing.T) {
	// Entry E belongs to user A; user B's request must see the same 404
	// as for an id that does not exist at all.
	r, mock := setupServer(t)
	userB := uuid.New()
	entryID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM journal_entries").
		WithArgs(entryID, userB).
		WillReturnError(sql.ErrNoRows)

	rec, resp := doJSON(t, r, http.MethodGet, "/api/journals/"+entryID.String(), issueToken(t, userB), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Entry not found.", resp["error"])
}

func TestGetJournalEntryInvalidID(t *testing.T) {
	r, _ := setupServer(t)

	rec, resp := doJSON(t, r, http.MethodGet, "/api/journals/not-a-uuid", issueToken(t, uuid.New()), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid journal entry ID.", resp["error"])
}

func TestGetJournalEntriesEndpoint(t *testing.T) {
	r, mock := setupServer(t)
	userID := uuid.New()

	now := time.Now()
	date := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM journal_entries WHERE user_id").
		WithArgs(userID).
		WillReturnRows(mock.NewRows([]string{
			"id", "user_id", "title", "content", "mood", "date", "created_at", "updated_at",
		}).AddRow(uuid.New(), userID, "Day2", "b", "Happy", date, now, now).
			AddRow(uuid.New(), userID, "Day1", "a", "Neutral", date, now, now))

	rec, resp := doJSON(t, r, http.MethodGet, "/api/journals", issueToken(t, userID), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	entries, ok := resp["entries"].([]interface{})
	require.True(t, ok)
	assert.Len(t, entries, 2)
}

func TestDeleteJournalEntryEndpoint(t *testing.T) {
	r, mock := setupServer(t)
	userID := uuid.New()
	entryID := uuid.New()

	mock.ExpectExec("DELETE FROM journal_entries").
		WithArgs(entryID, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, resp := doJSON(t, r, http.MethodDelete, "/api/journals/"+entryID.String(), issueToken(t, userID), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "Entry deleted successfully.", resp["message"])
}

func TestMilestonesEndpoint(t *testing.T) {
	r, mock := setupServer(t)
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM journal_entries WHERE user_id")).
		WithArgs(userID).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(10))

	rec, resp := doJSON(t, r, http.MethodGet, "/api/journals/milestones", issueToken(t, userID), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	milestones, ok := resp["milestones"].([]interface{})
	require.True(t, ok)
	require.Len(t, milestones, 1)

	first, ok := milestones[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Wrote 10 journal entries!", first["description"])
}

func TestMoodTrendsEndpoint(t *testing.T) {
	r, mock := setupServer(t)
	userID := uuid.New()

	day1 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT created_at, mood FROM journal_entries").
		WithArgs(userID).
		WillReturnRows(mock.NewRows([]string{"created_at", "mood"}).
			AddRow(day1, "Happy").
			AddRow(day2, "Sad"))

	rec, resp := doJSON(t, r, http.MethodGet, "/api/journals/mood-trends", issueToken(t, userID), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	trends, ok := resp["moodTrends"].([]interface{})
	require.True(t, ok)
	require.Len(t, trends, 2)

	first, ok := trends[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "2025-03-01", first["date"])
	assert.Equal(t, float64(5), first["moodScore"])
}

func TestUpdateJournalEntryEndpoint(t *testing.T) {
	r, mock := setupServer(t)
	userID := uuid.New()
	entryID := uuid.New()

	now := time.Now()
	date := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM journal_entries").
		WithArgs(entryID, userID).
		WillReturnRows(mock.NewRows([]string{
			"id", "user_id", "title", "content", "mood", "date", "created_at", "updated_at",
		}).AddRow(entryID, userID, "Day1", "hello", "Neutral", date, now, now))
	mock.ExpectExec("UPDATE journal_entries").
		WithArgs("Day1", "hello", "Happy", sqlmock.AnyArg(), entryID, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, resp := doJSON(t, r, http.MethodPut, "/api/journals/"+entryID.String(), issueToken(t, userID), map[string]string{
		"mood": "Happy",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	entry, ok := resp["entry"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Happy", entry["mood"])
	assert.Equal(t, "Day1", entry["title"], "unspecified fields retain prior values")
}
