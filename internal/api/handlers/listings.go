package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FindHome-mobile/FindHome-Backend/internal/api/httpx"
	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	"github.com/FindHome-mobile/FindHome-Backend/internal/services"
)

type ListingHandler struct {
	Listings *services.ListingService
	MaxBody  int64
}

func NewListingHandler(listings *services.ListingService, maxBody int64) *ListingHandler {
	return &ListingHandler{Listings: listings, MaxBody: maxBody}
}

func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request) {
	res, err := h.Listings.Search(r.Context(), services.ParseListingQuery(r.URL.Query()))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *ListingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Listings.Stats(r.Context())
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, st)
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.Listings.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (h *ListingHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	res, err := h.Listings.ListByOwner(r.Context(), actorOf(r), chi.URLParam(r, "ownerID"))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *ListingHandler) input(w http.ResponseWriter, r *http.Request) (services.ListingInput, error) {
	fd, err := parseForm(w, r, h.MaxBody)
	if err != nil {
		return services.ListingInput{}, err
	}
	return services.ListingInput{Fields: fd.fields, Uploads: fd.files["images"]}, nil
}

// CreateOwn is the owner create path: the caller owns the listing and at
// least one image is required.
func (h *ListingHandler) CreateOwn(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, services.CreateOptions{RequireImages: true})
}

// Create lets an admin publish for a named owner. Images are optional.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, services.CreateOptions{Delegate: true})
}

func (h *ListingHandler) create(w http.ResponseWriter, r *http.Request, opts services.CreateOptions) {
	in, err := h.input(w, r)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	v, err := h.Listings.Create(r.Context(), actorOf(r), in, opts)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Annonce créée avec succès",
		"annonce": v,
	})
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, err := h.input(w, r)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	v, err := h.Listings.Update(r.Context(), actorOf(r), chi.URLParam(r, "id"), in)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Annonce modifiée avec succès",
		"annonce": v,
	})
}

type statusReq struct {
	Statut string `json:"statut"`
}

func (h *ListingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	v, err := h.Listings.UpdateStatus(r.Context(), actorOf(r), chi.URLParam(r, "id"), models.ListingStatus(req.Statut))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Statut de l'annonce mis à jour avec succès",
		"annonce": v,
	})
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Listings.Delete(r.Context(), actorOf(r), chi.URLParam(r, "id")); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Annonce supprimée avec succès",
	})
}
