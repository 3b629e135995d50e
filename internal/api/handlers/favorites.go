package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FindHome-mobile/FindHome-Backend/internal/api/httpx"
	"github.com/FindHome-mobile/FindHome-Backend/internal/services"
)

type FavoriteHandler struct {
	Favorites *services.FavoriteService
}

func NewFavoriteHandler(favorites *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{Favorites: favorites}
}

type addFavoriteReq struct {
	ClientID  string `json:"clientId"`
	ListingID string `json:"annonceId"`
}

func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addFavoriteReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	f, err := h.Favorites.Add(r.Context(), actorOf(r), req.ClientID, req.ListingID)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Annonce ajoutée aux favoris avec succès",
		"favori":  f,
	})
}

func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	err := h.Favorites.Remove(r.Context(), actorOf(r), chi.URLParam(r, "clientID"), chi.URLParam(r, "listingID"))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Annonce supprimée des favoris avec succès"})
}

func (h *FavoriteHandler) ListByClient(w http.ResponseWriter, r *http.Request) {
	favs, err := h.Favorites.ListByClient(r.Context(), actorOf(r), chi.URLParam(r, "clientID"))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Favoris récupérés avec succès",
		"favoris": favs,
	})
}

func (h *FavoriteHandler) Check(w http.ResponseWriter, r *http.Request) {
	res := h.Favorites.Check(r.Context(), chi.URLParam(r, "clientID"), chi.URLParam(r, "listingID"))
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *FavoriteHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.Favorites.Count(r.Context(), chi.URLParam(r, "clientID"))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]int64{"count": n})
}
