package handlers

import (
	"net/http"

	"github.com/FindHome-mobile/FindHome-Backend/internal/api/httpx"
	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	"github.com/FindHome-mobile/FindHome-Backend/internal/services"
)

// AuthHandler serves registration, login and password recovery.
type AuthHandler struct {
	Users   *services.UserService
	MaxBody int64
}

func NewAuthHandler(users *services.UserService, maxBody int64) *AuthHandler {
	return &AuthHandler{Users: users, MaxBody: maxBody}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	fd, err := parseForm(w, r, h.MaxBody)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	password := fd.fields["motDePasse"]
	if password == "" {
		password = fd.fields["password"]
	}
	u, err := h.Users.Register(r.Context(), services.RegisterInput{
		Nom:      fd.get("nom"),
		Prenom:   fd.get("prenom"),
		Email:    fd.get("email"),
		Password: password,
		Role:     models.Role(fd.get("type")),
		NumTel:   fd.get("numTel"),
		Facebook: fd.get("facebook"),
		Location: fd.get("location"),
		Photo:    fd.file("photo_de_profile"),
	})
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, u)
}

type loginReq struct {
	Email      string `json:"email"`
	MotDePasse string `json:"motDePasse"`
	Password   string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	if req.MotDePasse == "" {
		req.MotDePasse = req.Password
	}
	p, err := h.Users.Login(r.Context(), req.Email, req.MotDePasse)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	if req.RefreshToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Jeton de rafraîchissement requis", "")
		return
	}
	pair, err := h.Users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pair)
}

type forgotReq struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	if err := h.Users.ForgotPassword(r.Context(), req.Email, req.NewPassword); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Mot de passe réinitialisé avec succès"})
}
