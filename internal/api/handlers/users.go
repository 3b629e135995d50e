package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FindHome-mobile/FindHome-Backend/internal/api/httpx"
	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	"github.com/FindHome-mobile/FindHome-Backend/internal/services"
)

type UserHandler struct {
	Users   *services.UserService
	MaxBody int64
}

func NewUserHandler(users *services.UserService, maxBody int64) *UserHandler {
	return &UserHandler{Users: users, MaxBody: maxBody}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	us, err := h.Users.List(r.Context())
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, us)
}

func (h *UserHandler) ListOwners(w http.ResponseWriter, r *http.Request) {
	us, err := h.Users.ListOwners(r.Context())
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, us)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func patchFrom(fd formData) services.UserPatch {
	p := services.UserPatch{
		Nom:      fd.ptr("nom"),
		Prenom:   fd.ptr("prenom"),
		Email:    fd.ptr("email"),
		NumTel:   fd.ptr("numTel"),
		Facebook: fd.ptr("facebook"),
		Location: fd.ptr("location"),
		Photo:    fd.file("photo_de_profile"),
	}
	if v := fd.ptr("type"); v != nil {
		role := models.Role(*v)
		p.Role = &role
	}
	return p
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	fd, err := parseForm(w, r, h.MaxBody)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	u, err := h.Users.Update(r.Context(), actorOf(r), chi.URLParam(r, "id"), patchFrom(fd))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	fd, err := parseForm(w, r, h.MaxBody)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	u, err := h.Users.UpdateProfile(r.Context(), actorOf(r), chi.URLParam(r, "id"), patchFrom(fd))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message":     "Profil mis à jour avec succès",
		"utilisateur": u,
	})
}

type changePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	err := h.Users.ChangePassword(r.Context(), actorOf(r), chi.URLParam(r, "id"), req.CurrentPassword, req.NewPassword)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Mot de passe modifié avec succès",
	})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.Delete(r.Context(), actorOf(r), chi.URLParam(r, "id")); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Utilisateur supprimé avec succès !"})
}
