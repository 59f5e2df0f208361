package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/internal/services"
	log "github.com/sirupsen/logrus"
)

// MetaQuestionHandler handles HTTP requests related to meta-questions.
type MetaQuestionHandler struct {
	Service *services.MetaQuestionService
}

// NewMetaQuestionHandler creates a new instance of MetaQuestionHandler.
func NewMetaQuestionHandler(service *services.MetaQuestionService) *MetaQuestionHandler {
	return &MetaQuestionHandler{Service: service}
}

// CreateMetaQuestionHandler handles the creation of a new meta-question.
func (h *MetaQuestionHandler) CreateMetaQuestionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var meta models.MetaQuestion
	if err := json.NewDecoder(r.Body).Decode(&meta); err != nil {
		log.WithError(err).Warn("Invalid request payload during meta question creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	meta.UserID = userID

	created, err := h.Service.CreateMetaQuestion(r.Context(), &meta)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetMetaQuestionHandler returns a single meta-question owned by the caller.
func (h *MetaQuestionHandler) GetMetaQuestionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	meta, err := h.Service.GetMetaQuestion(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Meta question not found", http.StatusNotFound)
		return
	}
	if meta.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	writeJSON(w, http.StatusOK, meta)
}

// ListMetaQuestionsHandler returns the caller's meta-questions.
func (h *MetaQuestionHandler) ListMetaQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	metas, err := h.Service.ListMetaQuestions(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, metas)
}

// UpdateMetaQuestionHandler updates a meta-question.
func (h *MetaQuestionHandler) UpdateMetaQuestionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]

	existing, err := h.Service.GetMetaQuestion(r.Context(), id)
	if err != nil {
		http.Error(w, "Meta question not found", http.StatusNotFound)
		return
	}
	if existing.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var update models.MetaQuestion
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	updated, err := h.Service.UpdateMetaQuestion(r.Context(), id, &update)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteMetaQuestionHandler removes a meta-question owned by the caller.
func (h *MetaQuestionHandler) DeleteMetaQuestionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]

	existing, err := h.Service.GetMetaQuestion(r.Context(), id)
	if err != nil {
		http.Error(w, "Meta question not found", http.StatusNotFound)
		return
	}
	if existing.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if err := h.Service.DeleteMetaQuestion(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
