package models

import (
	"strings"
	"time"

	"github.com/FindHome-mobile/FindHome-Backend/internal/api/validate"
)

type Role string

const (
	RoleClient Role = "client"
	RoleOwner  Role = "proprietaire"
	RoleAdmin  Role = "admin"
)

var roles = []string{string(RoleClient), string(RoleOwner), string(RoleAdmin)}

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"_id"`
	Nom          string    `json:"nom"`
	Prenom       string    `json:"prenom"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Photo        string    `json:"photo_de_profile"`
	Role         Role      `json:"type"`
	NumTel       string    `json:"numTel"`
	Facebook     string    `json:"facebook"`
	Location     string    `json:"location"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Validate checks the stored shape of a user. Phone, facebook and location
// are only required while the role is proprietaire.
func (u *User) Validate() error {
	u.Nom = strings.TrimSpace(u.Nom)
	u.Prenom = strings.TrimSpace(u.Prenom)
	u.Email = strings.TrimSpace(u.Email)
	if u.Role == "" {
		u.Role = RoleClient
	}

	var errs validate.Errs
	errs.Add(validate.Required("nom", u.Nom, "Le nom est requis"))
	errs.Add(validate.Required("prenom", u.Prenom, "Le prénom est requis"))
	errs.Add(validate.Required("email", u.Email, "L'email est requis"))
	errs.Add(validate.Required("motDePasse", u.PasswordHash, "Le mot de passe est requis"))
	errs.Add(validate.OneOf("type", string(u.Role), roles, "Le type d'utilisateur est invalide"))
	if u.Role == RoleOwner {
		errs.Add(validate.Required("numTel", u.NumTel, "Le numéro de téléphone est requis pour les propriétaires"))
		errs.Add(validate.Required("facebook", u.Facebook, "Le lien Facebook est requis pour les propriétaires"))
		errs.Add(validate.Required("location", u.Location, "Le gouvernorat est requis pour les propriétaires"))
	}
	return errs.Err()
}

// OwnerSummary is the subset of a user embedded in listing responses.
type OwnerSummary struct {
	ID       string `json:"_id"`
	Nom      string `json:"nom"`
	Prenom   string `json:"prenom"`
	Email    string `json:"email"`
	Photo    string `json:"photo_de_profile"`
	NumTel   string `json:"numTel,omitempty"`
	Facebook string `json:"facebook,omitempty"`
	Role     Role   `json:"type,omitempty"`
}

func (u User) Summary() *OwnerSummary {
	return &OwnerSummary{
		ID:       u.ID,
		Nom:      u.Nom,
		Prenom:   u.Prenom,
		Email:    u.Email,
		Photo:    u.Photo,
		NumTel:   u.NumTel,
		Facebook: u.Facebook,
	}
}
