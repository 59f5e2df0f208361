package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/lifequestapp/lifequest-server/internal/services"
)

// DeliveryHandler handles HTTP requests over delivery records.
type DeliveryHandler struct {
	Service *services.DeliveryService
}

// NewDeliveryHandler creates a new instance of DeliveryHandler.
func NewDeliveryHandler(service *services.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{Service: service}
}

// ListDeliveriesHandler returns the caller's deliveries, newest first.
func (h *DeliveryHandler) ListDeliveriesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	deliveries, err := h.Service.ListDeliveries(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, deliveries)
}

// GetDeliveryHandler returns a single delivery owned by the caller.
func (h *DeliveryHandler) GetDeliveryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	delivery, err := h.Service.GetDelivery(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Delivery not found", http.StatusNotFound)
		return
	}
	if delivery.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	writeJSON(w, http.StatusOK, delivery)
}

// AckDeliveryHandler marks a delivery as acknowledged.
func (h *DeliveryHandler) AckDeliveryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	delivery, err := h.Service.AckDelivery(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, delivery)
}
