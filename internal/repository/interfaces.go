package repository

import (
	"context"
	"errors"
	"time"

	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
)

var (
	ErrNotFound  = errors.New("repository: not found")
	ErrDuplicate = errors.New("repository: duplicate key")
	// ErrConflict is returned by conditional updates whose precondition no longer holds.
	ErrConflict = errors.New("repository: state changed")
)

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	Update(ctx context.Context, u models.User) (models.User, error)
	UpdateRole(ctx context.Context, id string, role models.Role) error
	UpdatePassword(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
}

type Listings interface {
	Create(ctx context.Context, l models.Listing) (models.Listing, error)
	GetByID(ctx context.Context, id string) (models.Listing, error)
	// Find returns the sorted page window of q. Count uses the same filter.
	Find(ctx context.Context, q models.ListingQuery) ([]models.Listing, error)
	Count(ctx context.Context, f models.ListingFilter) (int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Listing, error)
	Update(ctx context.Context, l models.Listing) (models.Listing, error)
	UpdateStatus(ctx context.Context, id string, status models.ListingStatus) (models.Listing, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (models.ListingStats, error)
}

type Favorites interface {
	// Create fails with ErrDuplicate when the (client, listing) pair exists.
	Create(ctx context.Context, f models.Favorite) (models.Favorite, error)
	Delete(ctx context.Context, clientID, listingID string) error
	Find(ctx context.Context, clientID, listingID string) (models.Favorite, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Favorite, error)
	CountByClient(ctx context.Context, clientID string) (int64, error)
	DeleteByListing(ctx context.Context, listingID string) (int64, error)
}

type Messages interface {
	Create(ctx context.Context, m models.ContactMessage) (models.ContactMessage, error)
	List(ctx context.Context) ([]models.ContactMessage, error)
}

type OwnerRequests interface {
	Create(ctx context.Context, r models.OwnerRequest) (models.OwnerRequest, error)
	GetByID(ctx context.Context, id string) (models.OwnerRequest, error)
	// List returns requests newest first. An empty status lists every request.
	List(ctx context.Context, status models.RequestStatus) ([]models.OwnerRequest, error)
	FindPendingByUser(ctx context.Context, userID string) (models.OwnerRequest, error)
	LatestByUser(ctx context.Context, userID string) (models.OwnerRequest, error)
	// Decide moves a pending request to status. It fails with ErrConflict
	// when the request is no longer pending.
	Decide(ctx context.Context, id string, status models.RequestStatus, by string, at time.Time) (models.OwnerRequest, error)
}

// Repositories groups one store backend.
type Repositories struct {
	Users         Users
	Listings      Listings
	Favorites     Favorites
	Messages      Messages
	OwnerRequests OwnerRequests
}

// ListingCache is a best-effort read-through cache for single listings and
// the global stats. Misses and backend errors both report ok=false.
type ListingCache interface {
	GetListing(ctx context.Context, id string) (models.Listing, bool)
	SetListing(ctx context.Context, l models.Listing)
	DeleteListing(ctx context.Context, id string)
	GetStats(ctx context.Context) (models.ListingStats, bool)
	SetStats(ctx context.Context, st models.ListingStats)
	InvalidateStats(ctx context.Context)
}
