package handlers

import (
	"net/http"

	"github.com/FindHome-mobile/FindHome-Backend/internal/api/httpx"
	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	"github.com/FindHome-mobile/FindHome-Backend/internal/services"
)

type MessageHandler struct {
	Messages *services.MessageService
}

func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{Messages: messages}
}

func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var m models.ContactMessage
	if err := httpx.DecodeJSON(r, &m); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	saved, err := h.Messages.Create(r.Context(), m)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, saved)
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	ms, err := h.Messages.List(r.Context())
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ms)
}
