package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mindscribe/mindscribe-backend/internal/database"
	"github.com/mindscribe/mindscribe-backend/internal/models"
	"github.com/mindscribe/mindscribe-backend/pkg/utils"
)

var (
	ErrEntryNotFound = errors.New("journal entry not found")
	ErrEntryInvalid  = errors.New("title and content are required")
	ErrDateInvalid   = errors.New("date must be formatted YYYY-MM-DD")
)

// RecentEntriesLimit is the default size of the recent-entries view.
const RecentEntriesLimit = 5

const dateLayout = "2006-01-02"

const entryColumns = `id, user_id, title, content, mood, date, created_at, updated_at`

// moodScores maps each mood to its fixed ordinal. Unknown moods score Neutral.
var moodScores = map[string]int{
	models.MoodHappy:     5,
	models.MoodContent:   4,
	models.MoodNeutral:   3,
	models.MoodSad:       2,
	models.MoodDepressed: 1,
}

// MoodScore returns the ordinal score for a mood, defaulting to 3 (Neutral).
func MoodScore(mood string) int {
	if score, ok := moodScores[mood]; ok {
		return score
	}
	return 3
}

// MoodTrendPoint pairs an entry's creation date with its mood score.
type MoodTrendPoint struct {
	Date      string `json:"date"`
	MoodScore int    `json:"moodScore"`
}

// Milestone is a badge earned by crossing an entry-count threshold.
type Milestone struct {
	Description string `json:"description"`
}

var milestoneThresholds = []struct {
	count       int
	description string
}{
	{10, "Wrote 10 journal entries!"},
	{50, "Wrote 50 journal entries!"},
	{100, "Wrote 100 journal entries!"},
}

// CreateEntryInput carries the user-supplied fields for a new entry.
// Mood and Date are optional.
type CreateEntryInput struct {
	Title   string
	Content string
	Mood    string
	Date    string
}

// UpdateEntryInput carries the mutable fields of an entry. Nil fields keep
// their prior values.
type UpdateEntryInput struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Mood    *string `json:"mood"`
}

// CreateEntry sanitizes and persists a new journal entry owned by ownerID.
// Mood defaults to Neutral and date to the current day.
func CreateEntry(ownerID uuid.UUID, in CreateEntryInput) (*models.JournalEntry, error) {
	if in.Title == "" || in.Content == "" {
		return nil, ErrEntryInvalid
	}

	mood := in.Mood
	if mood == "" {
		mood = models.MoodNeutral
	}

	date := in.Date
	if date == "" {
		date = time.Now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, ErrDateInvalid
	}

	now := time.Now()
	entry := &models.JournalEntry{
		ID:        uuid.New(),
		UserID:    ownerID,
		Title:     in.Title,
		Content:   utils.SanitizeRichText(in.Content),
		Mood:      mood,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := database.PostgresDB.Exec(`
		INSERT INTO journal_entries (id, user_id, title, content, mood, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, entry.ID, entry.UserID, entry.Title, entry.Content, entry.Mood, entry.Date, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return nil, err
	}

	invalidateInsights(ownerID)
	return entry, nil
}

// ListEntries returns all entries owned by ownerID, newest first.
func ListEntries(ownerID uuid.UUID) ([]models.JournalEntry, error) {
	rows, err := database.PostgresDB.Query(`
		SELECT `+entryColumns+` FROM journal_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListRecentEntries returns the newest entries owned by ownerID, capped at limit.
func ListRecentEntries(ownerID uuid.UUID, limit int) ([]models.JournalEntry, error) {
	if limit <= 0 {
		limit = RecentEntriesLimit
	}

	rows, err := database.PostgresDB.Query(`
		SELECT `+entryColumns+` FROM journal_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetEntry fetches a single entry by id, scoped to ownerID. A missing id and
// an id owned by someone else both return ErrEntryNotFound so callers cannot
// probe for foreign entries.
func GetEntry(ownerID, entryID uuid.UUID) (*models.JournalEntry, error) {
	row := database.PostgresDB.QueryRow(`
		SELECT `+entryColumns+` FROM journal_entries
		WHERE id = $1 AND user_id = $2
	`, entryID, ownerID)

	entry, err := scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

// UpdateEntry applies the provided fields to an entry owned by ownerID.
// Content is re-sanitized; absent fields keep their prior values.
func UpdateEntry(ownerID, entryID uuid.UUID, in UpdateEntryInput) (*models.JournalEntry, error) {
	entry, err := GetEntry(ownerID, entryID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, ErrEntryInvalid
		}
		entry.Title = *in.Title
	}
	if in.Content != nil {
		if *in.Content == "" {
			return nil, ErrEntryInvalid
		}
		entry.Content = utils.SanitizeRichText(*in.Content)
	}
	if in.Mood != nil && *in.Mood != "" {
		entry.Mood = *in.Mood
	}
	entry.UpdatedAt = time.Now()

	_, err = database.PostgresDB.Exec(`
		UPDATE journal_entries
		SET title = $1, content = $2, mood = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
	`, entry.Title, entry.Content, entry.Mood, entry.UpdatedAt, entry.ID, ownerID)
	if err != nil {
		return nil, err
	}

	invalidateInsights(ownerID)
	return entry, nil
}

// DeleteEntry removes an entry owned by ownerID. Same ownership gate as GetEntry.
func DeleteEntry(ownerID, entryID uuid.UUID) error {
	result, err := database.PostgresDB.Exec(`
		DELETE FROM journal_entries WHERE id = $1 AND user_id = $2
	`, entryID, ownerID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEntryNotFound
	}

	invalidateInsights(ownerID)
	return nil
}

// MoodTrend maps each entry's mood to its score, paired with the entry's
// creation date, ascending by creation time.
func MoodTrend(ownerID uuid.UUID) ([]MoodTrendPoint, error) {
	cacheKey := "moodtrends:" + ownerID.String()
	var cached []MoodTrendPoint
	if Cache.Get(cacheKey, &cached) {
		return cached, nil
	}

	rows, err := database.PostgresDB.Query(`
		SELECT created_at, mood FROM journal_entries
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trend := make([]MoodTrendPoint, 0)
	for rows.Next() {
		var createdAt time.Time
		var mood string
		if err := rows.Scan(&createdAt, &mood); err != nil {
			return nil, err
		}
		trend = append(trend, MoodTrendPoint{
			Date:      createdAt.Format(dateLayout),
			MoodScore: MoodScore(mood),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	Cache.Set(cacheKey, trend, InsightsCacheTTL)
	return trend, nil
}

// Milestones returns the badges earned by ownerID's total entry count.
func Milestones(ownerID uuid.UUID) ([]Milestone, error) {
	cacheKey := "milestones:" + ownerID.String()
	var cached []Milestone
	if Cache.Get(cacheKey, &cached) {
		return cached, nil
	}

	var total int
	err := database.PostgresDB.QueryRow(`
		SELECT COUNT(*) FROM journal_entries WHERE user_id = $1
	`, ownerID).Scan(&total)
	if err != nil {
		return nil, err
	}

	milestones := make([]Milestone, 0)
	for _, m := range milestoneThresholds {
		if total >= m.count {
			milestones = append(milestones, Milestone{Description: m.description})
		}
	}

	Cache.Set(cacheKey, milestones, InsightsCacheTTL)
	return milestones, nil
}

func invalidateInsights(ownerID uuid.UUID) {
	Cache.Delete("moodtrends:"+ownerID.String(), "milestones:"+ownerID.String())
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	var date time.Time
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Title,
		&entry.Content,
		&entry.Mood,
		&date,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	entry.Date = date.Format(dateLayout)
	return &entry, nil
}

func scanEntries(rows *sql.Rows) ([]models.JournalEntry, error) {
	entries := make([]models.JournalEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
