package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/internal/services"
	log "github.com/sirupsen/logrus"
)

// HabitHandler handles HTTP requests for the habit journal.
type HabitHandler struct {
	Service *services.HabitService
}

// NewHabitHandler creates a new instance of HabitHandler.
func NewHabitHandler(service *services.HabitService) *HabitHandler {
	return &HabitHandler{Service: service}
}

// CreateEntryHandler records a new journal entry.
func (h *HabitHandler) CreateEntryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var entry models.HabitEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		log.WithError(err).Warn("Invalid request payload during habit entry creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	entry.UserID = userID

	created, err := h.Service.CreateEntry(r.Context(), &entry)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListEntriesHandler returns the caller's journal entries.
func (h *HabitHandler) ListEntriesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	entries, err := h.Service.ListEntries(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// DeleteEntryHandler removes a journal entry owned by the caller.
func (h *HabitHandler) DeleteEntryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]

	entry, err := h.Service.GetEntry(r.Context(), id)
	if err != nil {
		http.Error(w, "Entry not found", http.StatusNotFound)
		return
	}
	if entry.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if err := h.Service.DeleteEntry(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
