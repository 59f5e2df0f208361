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

// ReservationHandler handles HTTP requests related to question reservations,
// including the AI natural-language scheduling flow.
type ReservationHandler struct {
	Service *services.ReservationService
}

// NewReservationHandler creates a new instance of ReservationHandler.
func NewReservationHandler(service *services.ReservationService) *ReservationHandler {
	return &ReservationHandler{Service: service}
}

// CreateReservationHandler handles the creation of a new reservation.
func (h *ReservationHandler) CreateReservationHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var res models.QuestionReservation
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		log.WithError(err).Warn("Invalid request payload during reservation creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	res.UserID = userID

	created, err := h.Service.CreateReservation(r.Context(), &res)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetReservationHandler returns a single reservation owned by the caller.
func (h *ReservationHandler) GetReservationHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	res, err := h.Service.GetReservation(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Reservation not found", http.StatusNotFound)
		return
	}
	if res.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// ListReservationsHandler returns the caller's reservations.
func (h *ReservationHandler) ListReservationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	reservations, err := h.Service.ListReservations(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, reservations)
}

// UpdateReservationHandler replaces the schedule of an unprocessed
// reservation.
func (h *ReservationHandler) UpdateReservationHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]

	existing, err := h.Service.GetReservation(r.Context(), id)
	if err != nil {
		http.Error(w, "Reservation not found", http.StatusNotFound)
		return
	}
	if existing.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var update models.QuestionReservation
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	updated, err := h.Service.UpdateReservation(r.Context(), id, &update)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteReservationHandler removes a reservation owned by the caller.
func (h *ReservationHandler) DeleteReservationHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]

	existing, err := h.Service.GetReservation(r.Context(), id)
	if err != nil {
		http.Error(w, "Reservation not found", http.StatusNotFound)
		return
	}
	if existing.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if err := h.Service.DeleteReservation(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ParseScheduleHandler turns a natural-language scheduling request into a
// proposed set of delivery slots.
func (h *ReservationHandler) ParseScheduleHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Request string `json:"request"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	proposal, err := h.Service.ParseSchedulePrompt(r.Context(), userID, req.Request)
	if err != nil {
		log.WithError(err).Warn("Failed to parse schedule request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, proposal)
}

// ConfirmScheduleHandler fans a confirmed slot proposal out into
// AI_GENERATED reservations.
func (h *ReservationHandler) ConfirmScheduleHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		MetaQuestionID string      `json:"meta_question_id"`
		Slots          []time.Time `json:"slots"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	reservations, err := h.Service.ConfirmSchedule(r.Context(), userID, req.MetaQuestionID, req.Slots)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, reservations)
}
