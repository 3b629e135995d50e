package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FindHome-mobile/FindHome-Backend/internal/auth"
	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
)

func TestFavoriteLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, models.RoleOwner, "owner@example.com")
	client := f.seedUser(t, models.RoleClient, "client@example.com")
	me := actorOf(client)

	l, err := f.listings.Create(ctx, actorOf(owner), listingInput(nil), CreateOptions{})
	require.NoError(t, err)

	fav, err := f.favorites.Add(ctx, me, client.ID, l.ID)
	require.NoError(t, err)
	assert.Equal(t, client.ID, fav.ClientID)
	assert.False(t, fav.DateAdded.IsZero())

	_, err = f.favorites.Add(ctx, me, client.ID, l.ID)
	requireKind(t, err, KindConflict, "Cette annonce est déjà dans vos favoris")

	n, err := f.favorites.Count(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	check := f.favorites.Check(ctx, client.ID, l.ID)
	assert.True(t, check.IsFavorite)
	require.NotNil(t, check.Favorite)
	assert.Equal(t, fav.ID, check.Favorite.ID)

	views, err := f.favorites.ListByClient(ctx, me, client.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].Listing)
	assert.Equal(t, l.ID, views[0].Listing.ID)
	require.NotNil(t, views[0].Listing.Owner)

	require.NoError(t, f.favorites.Remove(ctx, me, client.ID, l.ID))
	err = f.favorites.Remove(ctx, me, client.ID, l.ID)
	requireKind(t, err, KindNotFound, "Favori non trouvé")
	assert.False(t, f.favorites.Check(ctx, client.ID, l.ID).IsFavorite)
}

func TestFavoriteAddMissingTargets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.seedUser(t, models.RoleClient, "client@example.com")

	_, err := f.favorites.Add(ctx, auth.Actor{}, "nobody", "whatever")
	requireKind(t, err, KindNotFound, "Client non trouvé")

	_, err = f.favorites.Add(ctx, auth.Actor{}, client.ID, "whatever")
	requireKind(t, err, KindNotFound, "Annonce non trouvée")
}

func TestFavoriteOtherClientForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedUser(t, models.RoleClient, "a@example.com")
	b := f.seedUser(t, models.RoleClient, "b@example.com")
	admin := f.seedUser(t, models.RoleAdmin, "admin@example.com")

	_, err := f.favorites.ListByClient(ctx, actorOf(b), a.ID)
	requireKind(t, err, KindForbidden, "")

	views, err := f.favorites.ListByClient(ctx, actorOf(admin), a.ID)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestFavoriteOfDeletedListingHasNoListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, models.RoleOwner, "owner@example.com")
	client := f.seedUser(t, models.RoleClient, "client@example.com")

	l, err := f.listings.Create(ctx, actorOf(owner), listingInput(nil), CreateOptions{})
	require.NoError(t, err)
	_, err = f.favorites.Add(ctx, actorOf(client), client.ID, l.ID)
	require.NoError(t, err)

	// removed behind the service's back, so no cascade runs
	require.NoError(t, f.repos.Listings.Delete(ctx, l.ID))

	views, err := f.favorites.ListByClient(ctx, actorOf(client), client.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].Listing)
}
