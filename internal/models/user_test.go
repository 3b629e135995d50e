package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FindHome-mobile/FindHome-Backend/internal/api/validate"
)

func TestUserValidateDefaultsToClient(t *testing.T) {
	u := User{Nom: " Ben ", Prenom: "Ali", Email: "ali@example.com", PasswordHash: "hash"}
	require.NoError(t, u.Validate())
	assert.Equal(t, RoleClient, u.Role)
	assert.Equal(t, "Ben", u.Nom)
}

func TestUserValidateOwnerNeedsContactFields(t *testing.T) {
	u := User{Nom: "Ben", Prenom: "Ali", Email: "ali@example.com", PasswordHash: "hash", Role: RoleOwner}
	var errs validate.Errs
	require.ErrorAs(t, u.Validate(), &errs)
	assert.Equal(t, []string{"numTel", "facebook", "location"}, fields(errs))

	u.NumTel, u.Facebook, u.Location = "22111333", "fb.com/ali", "Tunis"
	assert.NoError(t, u.Validate())
}

func TestUserValidateMissingFields(t *testing.T) {
	u := User{Role: "superuser"}
	var errs validate.Errs
	require.ErrorAs(t, u.Validate(), &errs)
	assert.Equal(t, []string{"nom", "prenom", "email", "motDePasse", "type"}, fields(errs))
}

func TestSummaryOmitsRole(t *testing.T) {
	u := User{ID: "1", Nom: "Ben", Role: RoleAdmin}
	s := u.Summary()
	assert.Equal(t, "1", s.ID)
	assert.Empty(t, s.Role)
}

func TestMessageValidate(t *testing.T) {
	m := ContactMessage{Name: "Ali", Email: " ALI@Example.COM ", Subject: "Visite", Message: "Bonjour"}
	require.NoError(t, m.Validate())
	assert.Equal(t, "ali@example.com", m.Email)

	m.Email = "not-an-email"
	var errs validate.Errs
	require.ErrorAs(t, m.Validate(), &errs)
	assert.Equal(t, "Veuillez fournir une adresse email valide", errs.Messages())
}

func fields(errs validate.Errs) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}
