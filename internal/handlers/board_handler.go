package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/internal/services"
	log "github.com/sirupsen/logrus"
)

// BoardHandler handles HTTP requests related to quest boards and cards.
type BoardHandler struct {
	Service *services.BoardService
}

// NewBoardHandler creates a new instance of BoardHandler.
func NewBoardHandler(service *services.BoardService) *BoardHandler {
	return &BoardHandler{Service: service}
}

// ownBoard loads the board and verifies the caller owns it.
func (h *BoardHandler) ownBoard(w http.ResponseWriter, r *http.Request, id string) (*models.Board, bool) {
	userID, ok := requireUser(w, r)
	if !ok {
		return nil, false
	}

	board, err := h.Service.GetBoard(r.Context(), id)
	if err != nil {
		http.Error(w, "Board not found", http.StatusNotFound)
		return nil, false
	}
	if board.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil, false
	}
	return board, true
}

// CreateBoardHandler handles the creation of a new board.
func (h *BoardHandler) CreateBoardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var board models.Board
	if err := json.NewDecoder(r.Body).Decode(&board); err != nil {
		log.WithError(err).Warn("Invalid request payload during board creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	board.UserID = userID

	created, err := h.Service.CreateBoard(r.Context(), &board)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetBoardHandler returns a single board owned by the caller.
func (h *BoardHandler) GetBoardHandler(w http.ResponseWriter, r *http.Request) {
	board, ok := h.ownBoard(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// ListBoardsHandler returns the caller's boards.
func (h *BoardHandler) ListBoardsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	boards, err := h.Service.ListBoards(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, boards)
}

// UpdateBoardHandler updates a board's title and columns.
func (h *BoardHandler) UpdateBoardHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := h.ownBoard(w, r, id); !ok {
		return
	}

	var update models.Board
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	updated, err := h.Service.UpdateBoard(r.Context(), id, &update)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteBoardHandler removes a board and its cards.
func (h *BoardHandler) DeleteBoardHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := h.ownBoard(w, r, id); !ok {
		return
	}

	if err := h.Service.DeleteBoard(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateCardHandler adds a card to one of the caller's boards.
func (h *BoardHandler) CreateCardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var card models.Card
	if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	card.UserID = userID

	created, err := h.Service.CreateCard(r.Context(), mux.Vars(r)["id"], &card)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListCardsHandler returns all cards on one of the caller's boards.
func (h *BoardHandler) ListCardsHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := h.ownBoard(w, r, id); !ok {
		return
	}

	cards, err := h.Service.ListCards(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, cards)
}

// ownCard loads the card and verifies the caller owns it.
func (h *BoardHandler) ownCard(w http.ResponseWriter, r *http.Request) (*models.Card, bool) {
	userID, ok := requireUser(w, r)
	if !ok {
		return nil, false
	}

	card, err := h.Service.GetCard(r.Context(), mux.Vars(r)["cardID"])
	if err != nil {
		http.Error(w, "Card not found", http.StatusNotFound)
		return nil, false
	}
	if card.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil, false
	}
	return card, true
}

// UpdateCardHandler updates a card.
func (h *BoardHandler) UpdateCardHandler(w http.ResponseWriter, r *http.Request) {
	card, ok := h.ownCard(w, r)
	if !ok {
		return
	}

	var update models.Card
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	updated, err := h.Service.UpdateCard(r.Context(), card.ID.Hex(), &update)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// MoveCardHandler relocates a card to another column and position.
func (h *BoardHandler) MoveCardHandler(w http.ResponseWriter, r *http.Request) {
	card, ok := h.ownCard(w, r)
	if !ok {
		return
	}

	var req struct {
		ColumnID string `json:"column_id"`
		Order    int    `json:"order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	moved, err := h.Service.MoveCard(r.Context(), card.ID.Hex(), req.ColumnID, req.Order)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, moved)
}

// DeleteCardHandler removes a card.
func (h *BoardHandler) DeleteCardHandler(w http.ResponseWriter, r *http.Request) {
	card, ok := h.ownCard(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteCard(r.Context(), card.ID.Hex()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
