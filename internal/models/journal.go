package models

import (
	"time"

	"github.com/google/uuid"
)

// Moods a journal entry can carry. Unknown moods are accepted but score as Neutral.
const (
	MoodHappy     = "Happy"
	MoodContent   = "Content"
	MoodNeutral   = "Neutral"
	MoodSad       = "Sad"
	MoodDepressed = "Depressed"
)

// JournalEntry represents a private diary entry owned by a single user
type JournalEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Mood      string    `json:"mood" db:"mood"`
	Date      string    `json:"date" db:"date"` // calendar day, YYYY-MM-DD
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
