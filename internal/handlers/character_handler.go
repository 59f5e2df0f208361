package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/internal/services"
	log "github.com/sirupsen/logrus"
)

// CharacterHandler handles HTTP requests for the character persona and the
// dungeon log.
type CharacterHandler struct {
	Service *services.CharacterService
}

// NewCharacterHandler creates a new instance of CharacterHandler.
func NewCharacterHandler(service *services.CharacterService) *CharacterHandler {
	return &CharacterHandler{Service: service}
}

// GetProfileHandler returns the caller's character profile.
func (h *CharacterHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	profile, err := h.Service.GetProfile(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfileHandler upserts the caller's character profile.
func (h *CharacterHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var profile models.CharacterProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		log.WithError(err).Warn("Invalid request payload during profile update")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	profile.UserID = userID

	updated, err := h.Service.UpdateProfile(r.Context(), &profile)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// CreateLogHandler appends a dungeon log record.
func (h *CharacterHandler) CreateLogHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var entry models.DungeonLog
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	entry.UserID = userID

	created, err := h.Service.CreateLog(r.Context(), &entry)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListLogsHandler returns the caller's most recent dungeon log records.
func (h *CharacterHandler) ListLogsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	logs, err := h.Service.ListLogs(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, logs)
}
