package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/FindHome-mobile/FindHome-Backend/internal/auth"
	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	repo "github.com/FindHome-mobile/FindHome-Backend/internal/repository"
)

const (
	msgUserNotFound    = "Utilisateur non trouvé"
	msgMissingIdentity = "Utilisateur non authentifié - user-id manquant"
	msgEmailTaken      = "L'email existe déjà"
	msgMinPassword     = "Le nouveau mot de passe doit contenir au moins 6 caractères"
	minPasswordLen     = 6
)

type UserService struct {
	users  repo.Users
	images *ImageStore
	tokens *auth.TokenManager
	log    *slog.Logger
}

// NewUserService builds the user service. tokens may be nil, in which case
// login returns no token pair and Refresh is unavailable.
func NewUserService(users repo.Users, images *ImageStore, tokens *auth.TokenManager, log *slog.Logger) *UserService {
	return &UserService{users: users, images: images, tokens: tokens, log: log}
}

func userNotFoundID(id string) error {
	return NotFound("Utilisateur non trouvé avec l'ID " + id)
}

type RegisterInput struct {
	Nom      string
	Prenom   string
	Email    string
	Password string
	Role     models.Role
	NumTel   string
	Facebook string
	Location string
	Photo    *Upload
}

// Register creates a client or owner account. Admins are only created out of
// band.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	if in.Role == models.RoleAdmin {
		return models.User{}, Forbidden("Inscription en tant qu'admin non autorisée")
	}
	u := models.User{
		Nom:      in.Nom,
		Prenom:   in.Prenom,
		Email:    in.Email,
		Role:     in.Role,
		NumTel:   strings.TrimSpace(in.NumTel),
		Facebook: strings.TrimSpace(in.Facebook),
		Location: strings.TrimSpace(in.Location),
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return models.User{}, Internal("Une erreur est survenue lors de la création de l'utilisateur.", err)
		}
		u.PasswordHash = hash
	}
	if in.Photo != nil {
		imgs, err := s.images.Encode([]Upload{*in.Photo})
		if err != nil {
			return models.User{}, err
		}
		u.Photo = imgs[0]
	}
	if err := u.Validate(); err != nil {
		return models.User{}, invalid(err)
	}

	created, err := s.users.Create(ctx, u)
	if errors.Is(err, repo.ErrDuplicate) {
		return models.User{}, Conflict(msgEmailTaken)
	}
	if err != nil {
		s.log.Error("user create failed", "email", u.Email, "err", err)
		return models.User{}, Internal("Une erreur est survenue lors de la création de l'utilisateur.", err)
	}
	s.log.Info("user created", "user_id", created.ID, "role", created.Role)
	return created, nil
}

// Profile is the login response body.
type Profile struct {
	ID       string      `json:"id"`
	Nom      string      `json:"nom"`
	Prenom   string      `json:"prenom"`
	Email    string      `json:"email"`
	Role     models.Role `json:"type"`
	Photo    string      `json:"photo_de_profile"`
	PhotoURL *string     `json:"photo_url"`
	Location string      `json:"location"`
	Tokens   *auth.Pair  `json:"tokens,omitempty"`
}

func (s *UserService) Login(ctx context.Context, email, password string) (Profile, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Profile{}, Validation("Email et mot de passe requis")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return Profile{}, NotFound(msgUserNotFound)
	}
	if err != nil {
		return Profile{}, Internal("Erreur lors de la connexion", err)
	}
	if auth.VerifyPassword(password, u.PasswordHash) != nil {
		return Profile{}, Validation("Mot de passe invalide")
	}

	p := Profile{
		ID:       u.ID,
		Nom:      u.Nom,
		Prenom:   u.Prenom,
		Email:    u.Email,
		Role:     u.Role,
		Photo:    u.Photo,
		Location: u.Location,
	}
	if u.Photo != "" {
		url := s.images.URL(u.Photo)
		p.PhotoURL = &url
	}
	if s.tokens != nil {
		pair, err := s.tokens.GeneratePair(u.ID)
		if err != nil {
			return Profile{}, Internal("Erreur lors de la connexion", err)
		}
		p.Tokens = &pair
	}
	s.log.Info("user logged in", "user_id", u.ID)
	return p, nil
}

// Refresh exchanges a refresh token for a new pair. The subject must still exist.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (auth.Pair, error) {
	if s.tokens == nil {
		return auth.Pair{}, NotFound("Jetons non configurés")
	}
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return auth.Pair{}, Unauthorized("Jeton de rafraîchissement invalide")
	}
	if _, err := s.ResolveActor(ctx, claims.UserID); err != nil {
		return auth.Pair{}, err
	}
	pair, err := s.tokens.GeneratePair(claims.UserID)
	if err != nil {
		return auth.Pair{}, Internal("Erreur lors du renouvellement du jeton", err)
	}
	return pair, nil
}

// ForgotPassword resets the password of the account matching email.
func (s *UserService) ForgotPassword(ctx context.Context, email, newPassword string) error {
	email = strings.TrimSpace(email)
	if email == "" || newPassword == "" {
		return Validation("Email et mot de passe requis")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return NotFound(msgUserNotFound)
	}
	if err != nil {
		return Internal("Erreur lors de la réinitialisation du mot de passe", err)
	}
	if err := s.setPassword(ctx, u.ID, newPassword); err != nil {
		return Internal("Erreur lors de la réinitialisation du mot de passe", err)
	}
	s.log.Info("password reset", "user_id", u.ID)
	return nil
}

// selfOrAdmin guards account mutations: the caller must be identified and
// be either the account holder or an admin.
func selfOrAdmin(actor auth.Actor, id string) error {
	if actor.ID == "" {
		return Unauthorized(msgMissingIdentity)
	}
	return allowed(actor, id)
}

func (s *UserService) ChangePassword(ctx context.Context, actor auth.Actor, id, current, next string) error {
	if err := selfOrAdmin(actor, id); err != nil {
		return err
	}
	if current == "" || next == "" {
		return Validation("Mot de passe actuel et nouveau mot de passe requis")
	}
	if len(next) < minPasswordLen {
		return Validation(msgMinPassword)
	}
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NotFound(msgUserNotFound)
	}
	if err != nil {
		return Internal("Erreur lors de la modification du mot de passe", err)
	}
	if auth.VerifyPassword(current, u.PasswordHash) != nil {
		return Validation("Mot de passe actuel incorrect")
	}
	if err := s.setPassword(ctx, id, next); err != nil {
		return Internal("Erreur lors de la modification du mot de passe", err)
	}
	s.log.Info("password changed", "user_id", id)
	return nil
}

func (s *UserService) setPassword(ctx context.Context, id, plain string) error {
	hash, err := auth.HashPassword(plain)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, id, hash)
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, userNotFoundID(id)
	}
	if err != nil {
		return models.User{}, Internal("Erreur lors de la récupération de l'utilisateur avec l'ID "+id, err)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	us, err := s.users.List(ctx)
	if err != nil {
		return nil, Internal("Une erreur est survenue lors de la récupération des utilisateurs.", err)
	}
	return us, nil
}

func (s *UserService) ListOwners(ctx context.Context) ([]models.User, error) {
	us, err := s.users.ListByRole(ctx, models.RoleOwner)
	if err != nil {
		return nil, Internal("Une erreur est survenue lors de la récupération des propriétaires.", err)
	}
	return us, nil
}

// UserPatch carries the fields of a partial user update. Nil fields are
// left untouched.
type UserPatch struct {
	Nom      *string      `json:"nom"`
	Prenom   *string      `json:"prenom"`
	Email    *string      `json:"email"`
	NumTel   *string      `json:"numTel"`
	Facebook *string      `json:"facebook"`
	Location *string      `json:"location"`
	Role     *models.Role `json:"type"`
	Photo    *Upload      `json:"-"`
}

func (p UserPatch) empty() bool {
	return p.Nom == nil && p.Prenom == nil && p.Email == nil && p.NumTel == nil &&
		p.Facebook == nil && p.Location == nil && p.Role == nil && p.Photo == nil
}

// Update applies a partial update. Only admins may change a role.
func (s *UserService) Update(ctx context.Context, actor auth.Actor, id string, p UserPatch) (models.User, error) {
	if err := selfOrAdmin(actor, id); err != nil {
		return models.User{}, err
	}
	if p.empty() {
		return models.User{}, Validation("Les données à mettre à jour ne peuvent pas être vides !")
	}
	if p.Role != nil && !actor.IsAdmin() {
		return models.User{}, Forbidden("Seul un admin peut modifier le type d'utilisateur")
	}
	u, err := s.patch(ctx, id, p)
	if err != nil {
		return models.User{}, err
	}
	s.log.Info("user updated", "user_id", id)
	return u, nil
}

// UpdateProfile is the self-service profile form: nom, prenom and email
// are mandatory, the rest optional, and a photo upload replaces the current one.
func (s *UserService) UpdateProfile(ctx context.Context, actor auth.Actor, id string, p UserPatch) (models.User, error) {
	if err := selfOrAdmin(actor, id); err != nil {
		return models.User{}, err
	}
	if blank(p.Nom) || blank(p.Prenom) || blank(p.Email) {
		return models.User{}, Validation("Nom, prénom et email sont requis")
	}
	p.Role = nil
	u, err := s.patch(ctx, id, p)
	if err != nil {
		return models.User{}, err
	}
	s.log.Info("profile updated", "user_id", id)
	return u, nil
}

func blank(s *string) bool { return s == nil || strings.TrimSpace(*s) == "" }

func (s *UserService) patch(ctx context.Context, id string, p UserPatch) (models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, NotFound(msgUserNotFound)
	}
	if err != nil {
		return models.User{}, Internal("Erreur lors de la mise à jour de l'utilisateur avec l'ID "+id, err)
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&u.Nom, p.Nom)
	set(&u.Prenom, p.Prenom)
	set(&u.Email, p.Email)
	set(&u.NumTel, p.NumTel)
	set(&u.Facebook, p.Facebook)
	set(&u.Location, p.Location)
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Photo != nil {
		imgs, err := s.images.Encode([]Upload{*p.Photo})
		if err != nil {
			return models.User{}, err
		}
		u.Photo = imgs[0]
	}
	if err := u.Validate(); err != nil {
		return models.User{}, invalid(err)
	}

	updated, err := s.users.Update(ctx, u)
	switch {
	case errors.Is(err, repo.ErrDuplicate):
		return models.User{}, Conflict("Cet email est déjà utilisé")
	case errors.Is(err, repo.ErrNotFound):
		return models.User{}, NotFound(msgUserNotFound)
	case err != nil:
		return models.User{}, Internal("Erreur lors de la mise à jour du profil", err)
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if err := selfOrAdmin(actor, id); err != nil {
		return err
	}
	err := s.users.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return userNotFoundID(id)
	}
	if err != nil {
		return Internal("Impossible de supprimer l'utilisateur avec l'ID "+id, err)
	}
	s.log.Info("user deleted", "user_id", id)
	return nil
}

// ResolveActor looks up the claimed id and returns its stored role.
func (s *UserService) ResolveActor(ctx context.Context, id string) (auth.Actor, error) {
	if id == "" {
		return auth.Actor{}, Unauthorized(msgMissingIdentity)
	}
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return auth.Actor{}, Unauthorized(msgUserNotFound)
	}
	if err != nil {
		return auth.Actor{}, Internal("Erreur lors de la vérification de l'utilisateur", err)
	}
	return auth.Actor{ID: u.ID, Role: u.Role}, nil
}

// Tokens exposes the token manager for bearer authentication. It is nil
// when tokens are disabled.
func (s *UserService) Tokens() *auth.TokenManager { return s.tokens }
