package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mindscribe/mindscribe-backend/internal/middleware"
	"github.com/mindscribe/mindscribe-backend/internal/models"
	"github.com/mindscribe/mindscribe-backend/internal/services"
)

type CreateEntryRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Mood    string `json:"mood"`
	Date    string `json:"date"`
}

type EntryResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Error   string               `json:"error,omitempty"`
	Entry   *models.JournalEntry `json:"entry,omitempty"`
}

type EntriesResponse struct {
	Success bool                  `json:"success"`
	Error   string                `json:"error,omitempty"`
	Entries []models.JournalEntry `json:"entries"`
}

type MilestonesResponse struct {
	Success    bool                 `json:"success"`
	Error      string               `json:"error,omitempty"`
	Milestones []services.Milestone `json:"milestones"`
}

type MoodTrendsResponse struct {
	Success    bool                      `json:"success"`
	Error      string                    `json:"error,omitempty"`
	MoodTrends []services.MoodTrendPoint `json:"moodTrends"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// requireOwner pulls the authenticated user id out of the request context.
// The auth middleware guarantees it is present on /journals routes.
func requireOwner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	ownerID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, EntryResponse{Success: false, Error: "Unauthorized: User ID missing."})
		return uuid.Nil, false
	}
	return ownerID, true
}

// entryIDParam parses the {id} route parameter.
func entryIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Error: "Invalid journal entry ID."})
		return uuid.Nil, false
	}
	return id, true
}

// CreateJournalEntry creates a new entry owned by the authenticated user.
func CreateJournalEntry(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Error: "Invalid request body."})
		return
	}

	entry, err := services.CreateEntry(ownerID, services.CreateEntryInput{
		Title:   req.Title,
		Content: req.Content,
		Mood:    req.Mood,
		Date:    req.Date,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEntryInvalid):
			writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Error: "Title and content are required."})
		case errors.Is(err, services.ErrDateInvalid):
			writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Error: "Date must be formatted YYYY-MM-DD."})
		default:
			log.Printf("Error creating journal entry: %v", err)
			writeJSON(w, http.StatusInternalServerError, EntryResponse{Success: false, Error: "Failed to create journal entry."})
		}
		return
	}

	writeJSON(w, http.StatusCreated, EntryResponse{
		Success: true,
		Message: "Journal entry created successfully.",
		Entry:   entry,
	})
}

// GetJournalEntries returns all entries for the authenticated user, newest first.
func GetJournalEntries(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	entries, err := services.ListEntries(ownerID)
	if err != nil {
		log.Printf("Error fetching journal entries: %v", err)
		writeJSON(w, http.StatusInternalServerError, EntriesResponse{Success: false, Error: "Failed to fetch journal entries.", Entries: []models.JournalEntry{}})
		return
	}

	writeJSON(w, http.StatusOK, EntriesResponse{Success: true, Entries: entries})
}

// GetRecentJournalEntries returns the last 5 entries (override with ?limit=, max 50).
func GetRecentJournalEntries(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	limit := services.RecentEntriesLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 50 {
			limit = parsed
		}
	}

	entries, err := services.ListRecentEntries(ownerID, limit)
	if err != nil {
		log.Printf("Error fetching recent journal entries: %v", err)
		writeJSON(w, http.StatusInternalServerError, EntriesResponse{Success: false, Error: "Failed to fetch recent journal entries.", Entries: []models.JournalEntry{}})
		return
	}

	writeJSON(w, http.StatusOK, EntriesResponse{Success: true, Entries: entries})
}

// GetJournalEntry returns a single entry. A foreign-owned entry is reported
// exactly like a missing one.
func GetJournalEntry(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	entryID, ok := entryIDParam(w, r)
	if !ok {
		return
	}

	entry, err := services.GetEntry(ownerID, entryID)
	if err != nil {
		if errors.Is(err, services.ErrEntryNotFound) {
			writeJSON(w, http.StatusNotFound, EntryResponse{Success: false, Error: "Entry not found."})
			return
		}
		log.Printf("Error fetching journal entry: %v", err)
		writeJSON(w, http.StatusInternalServerError, EntryResponse{Success: false, Error: "Failed to fetch journal entry."})
		return
	}

	writeJSON(w, http.StatusOK, EntryResponse{Success: true, Entry: entry})
}

// UpdateJournalEntry updates title/content/mood of an owned entry.
func UpdateJournalEntry(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	entryID, ok := entryIDParam(w, r)
	if !ok {
		return
	}

	var req services.UpdateEntryInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Error: "Invalid request body."})
		return
	}

	entry, err := services.UpdateEntry(ownerID, entryID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEntryNotFound):
			writeJSON(w, http.StatusNotFound, EntryResponse{Success: false, Error: "Entry not found."})
		case errors.Is(err, services.ErrEntryInvalid):
			writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Error: "Title and content are required."})
		default:
			log.Printf("Error updating journal entry: %v", err)
			writeJSON(w, http.StatusInternalServerError, EntryResponse{Success: false, Error: "Failed to update journal entry."})
		}
		return
	}

	writeJSON(w, http.StatusOK, EntryResponse{
		Success: true,
		Message: "Entry updated successfully.",
		Entry:   entry,
	})
}

// DeleteJournalEntry deletes an owned entry.
func DeleteJournalEntry(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	entryID, ok := entryIDParam(w, r)
	if !ok {
		return
	}

	if err := services.DeleteEntry(ownerID, entryID); err != nil {
		if errors.Is(err, services.ErrEntryNotFound) {
			writeJSON(w, http.StatusNotFound, EntryResponse{Success: false, Error: "Entry not found."})
			return
		}
		log.Printf("Error deleting journal entry: %v", err)
		writeJSON(w, http.StatusInternalServerError, EntryResponse{Success: false, Error: "Failed to delete journal entry."})
		return
	}

	writeJSON(w, http.StatusOK, EntryResponse{Success: true, Message: "Entry deleted successfully."})
}

// GetMilestones returns badges for entry-count thresholds.
func GetMilestones(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	milestones, err := services.Milestones(ownerID)
	if err != nil {
		log.Printf("Error fetching milestones: %v", err)
		writeJSON(w, http.StatusInternalServerError, MilestonesResponse{Success: false, Error: "Database error. Please try again later.", Milestones: []services.Milestone{}})
		return
	}

	writeJSON(w, http.StatusOK, MilestonesResponse{Success: true, Milestones: milestones})
}

// GetMoodTrends returns the mood score of each entry over time.
func GetMoodTrends(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	trends, err := services.MoodTrend(ownerID)
	if err != nil {
		log.Printf("Error fetching mood trends: %v", err)
		writeJSON(w, http.StatusInternalServerError, MoodTrendsResponse{Success: false, Error: "Database error. Please try again later.", MoodTrends: []services.MoodTrendPoint{}})
		return
	}

	writeJSON(w, http.StatusOK, MoodTrendsResponse{Success: true, MoodTrends: trends})
}
