package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/internal/services"
	log "github.com/sirupsen/logrus"
)

// QuestionHandler handles HTTP requests related to life questions.
type QuestionHandler struct {
	Service *services.QuestionService
}

// NewQuestionHandler creates a new instance of QuestionHandler.
func NewQuestionHandler(service *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{Service: service}
}

// CreateQuestionHandler handles the creation of a new question.
func (h *QuestionHandler) CreateQuestionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var question models.Question
	if err := json.NewDecoder(r.Body).Decode(&question); err != nil {
		log.WithError(err).Warn("Invalid request payload during question creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	question.UserID = userID

	created, err := h.Service.CreateQuestion(r.Context(), &question)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetQuestionHandler returns a single question owned by the caller.
func (h *QuestionHandler) GetQuestionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	question, err := h.Service.GetQuestion(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Question not found", http.StatusNotFound)
		return
	}
	if question.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	writeJSON(w, http.StatusOK, question)
}

// ListQuestionsHandler returns the caller's questions, optionally filtered
// by the status query parameter.
func (h *QuestionHandler) ListQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	questions, err := h.Service.ListQuestions(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, questions)
}

// UpdateQuestionHandler updates content and status of a question.
func (h *QuestionHandler) UpdateQuestionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]

	existing, err := h.Service.GetQuestion(r.Context(), id)
	if err != nil {
		http.Error(w, "Question not found", http.StatusNotFound)
		return
	}
	if existing.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var update models.Question
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	updated, err := h.Service.UpdateQuestion(r.Context(), id, &update)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteQuestionHandler removes a question owned by the caller.
func (h *QuestionHandler) DeleteQuestionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]

	existing, err := h.Service.GetQuestion(r.Context(), id)
	if err != nil {
		http.Error(w, "Question not found", http.StatusNotFound)
		return
	}
	if existing.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if err := h.Service.DeleteQuestion(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
