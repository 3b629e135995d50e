package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FindHome-mobile/FindHome-Backend/internal/auth"
	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
)

func TestOwnerRequestApprovePromotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	decidedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	f.requests.now = func() time.Time { return decidedAt }

	client := f.seedUser(t, models.RoleClient, "client@example.com")
	admin := f.seedUser(t, models.RoleAdmin, "admin@example.com")

	req, err := f.requests.Create(ctx, actorOf(client), "")
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, req.Status)
	require.NotNil(t, req.User)
	assert.Equal(t, models.RoleClient, req.User.Role)
	assert.Nil(t, req.DecisionDate)

	_, err = f.requests.Create(ctx, actorOf(client), client.ID)
	requireKind(t, err, KindConflict, "Vous avez déjà une demande en attente")

	_, err = f.requests.Approve(ctx, actorOf(client), req.ID)
	requireKind(t, err, KindForbidden, "Seuls les admins peuvent approuver les demandes")

	done, err := f.requests.Approve(ctx, actorOf(admin), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, done.Status)
	require.NotNil(t, done.DecisionDate)
	assert.Equal(t, decidedAt, *done.DecisionDate)
	require.NotNil(t, done.DecidedBy)
	assert.Equal(t, admin.ID, done.DecidedBy.ID)
	assert.Equal(t, models.RoleOwner, done.User.Role)

	u, err := f.repos.Users.GetByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, u.Role)

	_, err = f.requests.Approve(ctx, actorOf(admin), req.ID)
	requireKind(t, err, KindConflict, "Cette demande a déjà été traitée")
	_, err = f.requests.Reject(ctx, actorOf(admin), req.ID)
	requireKind(t, err, KindConflict, "Cette demande a déjà été traitée")

	_, err = f.requests.Create(ctx, actorOf(u), "")
	requireKind(t, err, KindConflict, "Vous êtes déjà propriétaire")
}

func TestOwnerRequestReject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.seedUser(t, models.RoleClient, "client@example.com")
	admin := f.seedUser(t, models.RoleAdmin, "admin@example.com")

	req, err := f.requests.Create(ctx, auth.Actor{}, client.ID)
	require.NoError(t, err)

	_, err = f.requests.Reject(ctx, actorOf(client), req.ID)
	requireKind(t, err, KindForbidden, "Seuls les admins peuvent rejeter les demandes")

	done, err := f.requests.Reject(ctx, actorOf(admin), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, done.Status)
	require.NotNil(t, done.DecisionDate)

	u, err := f.repos.Users.GetByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, u.Role)

	// a rejected user may ask again
	again, err := f.requests.Create(ctx, actorOf(client), "")
	require.NoError(t, err)

	latest, err := f.requests.LatestForUser(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, again.ID, latest.ID)
}

func TestOwnerRequestCreateRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedUser(t, models.RoleClient, "a@example.com")
	b := f.seedUser(t, models.RoleClient, "b@example.com")
	admin := f.seedUser(t, models.RoleAdmin, "admin@example.com")

	_, err := f.requests.Create(ctx, auth.Actor{}, "")
	requireKind(t, err, KindUnauthorized, "Utilisateur non authentifié - user-id manquant")

	_, err = f.requests.Create(ctx, actorOf(b), a.ID)
	requireKind(t, err, KindForbidden, "")

	_, err = f.requests.Create(ctx, auth.Actor{}, "ghost")
	requireKind(t, err, KindNotFound, "Utilisateur non trouvé")

	_, err = f.requests.Create(ctx, actorOf(admin), "")
	requireKind(t, err, KindConflict, "Les admins ne peuvent pas devenir propriétaires")

	_, err = f.requests.Create(ctx, actorOf(admin), a.ID)
	require.NoError(t, err)
}

func TestOwnerRequestListAndLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedUser(t, models.RoleClient, "a@example.com")
	b := f.seedUser(t, models.RoleClient, "b@example.com")
	admin := f.seedUser(t, models.RoleAdmin, "admin@example.com")

	ra, err := f.requests.Create(ctx, actorOf(a), "")
	require.NoError(t, err)
	rb, err := f.requests.Create(ctx, actorOf(b), "")
	require.NoError(t, err)
	_, err = f.requests.Approve(ctx, actorOf(admin), ra.ID)
	require.NoError(t, err)

	all, err := f.requests.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, rb.ID, all[0].ID)

	pending, err := f.requests.List(ctx, "en_attente")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, rb.ID, pending[0].ID)

	_, err = f.requests.List(ctx, "ouverte")
	requireKind(t, err, KindValidation, "Statut invalide. Valeurs autorisées: en_attente, approuvee, rejetee")

	got, err := f.requests.Get(ctx, ra.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, got.Status)

	_, err = f.requests.Get(ctx, "missing")
	requireKind(t, err, KindNotFound, "Demande non trouvée")

	_, err = f.requests.LatestForUser(ctx, admin.ID)
	requireKind(t, err, KindNotFound, "Aucune demande trouvée pour cet utilisateur")
}
