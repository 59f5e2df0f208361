package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/internal/services"
	log "github.com/sirupsen/logrus"
)

// WeekHandler handles HTTP requests for the weekly dungeon schedule.
type WeekHandler struct {
	Service *services.WeekService
}

// NewWeekHandler creates a new instance of WeekHandler.
func NewWeekHandler(service *services.WeekService) *WeekHandler {
	return &WeekHandler{Service: service}
}

// weekKey resolves the key from the route, mapping "current" to this week.
func weekKey(r *http.Request) string {
	key := mux.Vars(r)["weekKey"]
	if key == "current" {
		return models.WeekKeyFor(time.Now())
	}
	return key
}

// GetWeekHandler returns the caller's week document.
func (h *WeekHandler) GetWeekHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	week, err := h.Service.GetWeek(r.Context(), userID, weekKey(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if week == nil {
		http.Error(w, "Week not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, week)
}

// SaveWeekHandler merges the posted day schedules into the caller's week.
func (h *WeekHandler) SaveWeekHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var days map[string]models.DaySchedule
	if err := json.NewDecoder(r.Body).Decode(&days); err != nil {
		log.WithError(err).Warn("Invalid request payload during week save")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	week, err := h.Service.SaveWeek(r.Context(), userID, weekKey(r), days)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, week)
}

// UpdateBlockHandler replaces one block of the caller's week.
func (h *WeekHandler) UpdateBlockHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var block models.ScheduleBlock
	if err := json.NewDecoder(r.Body).Decode(&block); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	block.ID = mux.Vars(r)["blockID"]

	week, err := h.Service.UpdateBlock(r.Context(), userID, weekKey(r), block)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, week)
}

// ToggleBlockHandler sets the done flag on one block of one day.
func (h *WeekHandler) ToggleBlockHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Done bool `json:"done"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	vars := mux.Vars(r)
	week, err := h.Service.ToggleBlockDone(r.Context(), userID, weekKey(r), vars["day"], vars["blockID"], req.Done)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, week)
}

// ExportBoardHandler materializes the caller's week as a quest board.
func (h *WeekHandler) ExportBoardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	board, err := h.Service.ExportBoard(r.Context(), userID, weekKey(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, board)
}
