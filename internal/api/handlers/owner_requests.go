package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FindHome-mobile/FindHome-Backend/internal/api/httpx"
	"github.com/FindHome-mobile/FindHome-Backend/internal/services"
)

type OwnerRequestHandler struct {
	Requests *services.OwnerRequestService
	Users    *services.UserService
}

func NewOwnerRequestHandler(requests *services.OwnerRequestService, users *services.UserService) *OwnerRequestHandler {
	return &OwnerRequestHandler{Requests: requests, Users: users}
}

type createRequestReq struct {
	UserID string `json:"utilisateurId"`
}

func (h *OwnerRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequestReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	d, err := h.Requests.Create(r.Context(), actorOf(r), req.UserID)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Demande créée avec succès",
		"demande": d,
	})
}

func (h *OwnerRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	ds, err := h.Requests.List(r.Context(), r.URL.Query().Get("statut"))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"count":    len(ds),
		"demandes": ds,
	})
}

func (h *OwnerRequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.Requests.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

func (h *OwnerRequestHandler) LatestForUser(w http.ResponseWriter, r *http.Request) {
	d, err := h.Requests.LatestForUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

type decideReq struct {
	AdminID string `json:"adminId"`
}

func (h *OwnerRequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req decideReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	actor := actorOrClaimed(r, h.Users, req.AdminID)
	d, err := h.Requests.Approve(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Demande approuvée avec succès",
		"demande": d,
	})
}

func (h *OwnerRequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req decideReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	actor := actorOrClaimed(r, h.Users, req.AdminID)
	d, err := h.Requests.Reject(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Demande rejetée",
		"demande": d,
	})
}
