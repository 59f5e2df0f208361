package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/internal/services"
	log "github.com/sirupsen/logrus"
)

// AnswerHandler handles HTTP requests related to answers and the contexts
// derived from them.
type AnswerHandler struct {
	Service *services.AnswerService
}

// NewAnswerHandler creates a new instance of AnswerHandler.
func NewAnswerHandler(service *services.AnswerService) *AnswerHandler {
	return &AnswerHandler{Service: service}
}

// CreateAnswerHandler records a new answer.
func (h *AnswerHandler) CreateAnswerHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var answer models.Answer
	if err := json.NewDecoder(r.Body).Decode(&answer); err != nil {
		log.WithError(err).Warn("Invalid request payload during answer creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	answer.UserID = userID

	created, err := h.Service.CreateAnswer(r.Context(), &answer)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetAnswerHandler returns a single answer owned by the caller.
func (h *AnswerHandler) GetAnswerHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	answer, err := h.Service.GetAnswer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Answer not found", http.StatusNotFound)
		return
	}
	if answer.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

// ListAnswersHandler returns the caller's answers.
func (h *AnswerHandler) ListAnswersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	answers, err := h.Service.ListAnswers(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, answers)
}

// ListContextsHandler returns the caller's most recent derived contexts.
func (h *AnswerHandler) ListContextsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	contexts, err := h.Service.ListContexts(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, contexts)
}
