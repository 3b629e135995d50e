package memory

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	repo "github.com/FindHome-mobile/FindHome-Backend/internal/repository"
)

func TestUserEmailIsUnique(t *testing.T) {
	r := NewRepositories()
	ctx := context.Background()

	a, err := r.Users.Create(ctx, models.User{Email: "a@example.com"})
	require.NoError(t, err)
	_, err = r.Users.Create(ctx, models.User{Email: "a@example.com"})
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	b, err := r.Users.Create(ctx, models.User{Email: "b@example.com"})
	require.NoError(t, err)
	b.Email = a.Email
	_, err = r.Users.Update(ctx, b)
	assert.ErrorIs(t, err, repo.ErrDuplicate)
}

func TestFavoritePairIsUnique(t *testing.T) {
	r := NewRepositories()
	ctx := context.Background()

	_, err := r.Favorites.Create(ctx, models.Favorite{ClientID: "c", ListingID: "l"})
	require.NoError(t, err)
	_, err = r.Favorites.Create(ctx, models.Favorite{ClientID: "c", ListingID: "l"})
	assert.ErrorIs(t, err, repo.ErrDuplicate)
	_, err = r.Favorites.Create(ctx, models.Favorite{ClientID: "c2", ListingID: "l"})
	require.NoError(t, err)

	n, err := r.Favorites.DeleteByListing(ctx, "l")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestOwnerRequestDecideOnlyOnce(t *testing.T) {
	r := NewRepositories()
	ctx := context.Background()

	req, err := r.OwnerRequests.Create(ctx, models.OwnerRequest{UserID: "u"})
	require.NoError(t, err)
	_, err = r.OwnerRequests.Create(ctx, models.OwnerRequest{UserID: "u"})
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	done, err := r.OwnerRequests.Decide(ctx, req.ID, models.RequestRejected, "admin", at)
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, done.Status)
	assert.Equal(t, "admin", done.DecidedBy)

	_, err = r.OwnerRequests.Decide(ctx, req.ID, models.RequestApproved, "admin", at)
	assert.ErrorIs(t, err, repo.ErrConflict)
	_, err = r.OwnerRequests.Decide(ctx, "missing", models.RequestApproved, "admin", at)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestListingOrderIsStableOnTies(t *testing.T) {
	r := NewRepositories()
	ctx := context.Background()
	for i := 0; i < 6; i++ {
		_, err := r.Listings.Create(ctx, models.Listing{Prix: 100, OwnerID: "o"})
		require.NoError(t, err)
	}
	q := models.ListingQuery{Sort: models.ListingSort{Field: models.SortPrix}, Page: 1, Limit: 6}
	first, err := r.Listings.Find(ctx, q)
	require.NoError(t, err)
	second, err := r.Listings.Find(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	q.Page, q.Limit = 2, 4
	tail, err := r.Listings.Find(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, first[4:], tail)
}

func TestFindWithOverflowedSkipIsEmpty(t *testing.T) {
	r := NewRepositories()
	ctx := context.Background()
	_, err := r.Listings.Create(ctx, models.Listing{Prix: 100, OwnerID: "o"})
	require.NoError(t, err)

	q := models.ListingQuery{Sort: models.ListingSort{Field: models.SortCreatedAt}, Page: math.MaxInt, Limit: 20}
	require.Negative(t, q.Skip())
	got, err := r.Listings.Find(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, got)
}
