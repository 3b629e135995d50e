package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
)

func TestMessageCreateAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.messages.Create(ctx, models.ContactMessage{Name: "Ali", Email: "ali@example.com", Subject: "Visite"})
	requireKind(t, err, KindValidation, "Tous les champs sont requis")

	_, err = f.messages.Create(ctx, models.ContactMessage{Name: "Ali", Email: "ali", Subject: "Visite", Message: "Bonjour"})
	requireKind(t, err, KindValidation, "Erreur de validation: Veuillez fournir une adresse email valide")

	first, err := f.messages.Create(ctx, models.ContactMessage{Name: "Ali", Email: "Ali@Example.com", Subject: "Visite", Message: "Bonjour"})
	require.NoError(t, err)
	assert.Equal(t, "ali@example.com", first.Email)
	assert.NotEmpty(t, first.ID)

	second, err := f.messages.Create(ctx, models.ContactMessage{Name: "Sara", Email: "sara@example.com", Subject: "Prix", Message: "Négociable ?"})
	require.NoError(t, err)

	list, err := f.messages.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}
