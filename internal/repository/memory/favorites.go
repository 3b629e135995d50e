package memory

import (
	"context"
	"sort"

	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	repo "github.com/FindHome-mobile/FindHome-Backend/internal/repository"
)

type favoritesRepo struct{ s *store }

func pairKey(clientID, listingID string) string { return clientID + "|" + listingID }

func (r *favoritesRepo) Create(_ context.Context, f models.Favorite) (models.Favorite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pairKey(f.ClientID, f.ListingID)
	if _, ok := r.s.favorites[key]; ok {
		return models.Favorite{}, repo.ErrDuplicate
	}
	f.ID = newID()
	f.DateAdded = r.s.tick()
	r.s.favorites[key] = f
	return f, nil
}

func (r *favoritesRepo) Delete(_ context.Context, clientID, listingID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pairKey(clientID, listingID)
	if _, ok := r.s.favorites[key]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.favorites, key)
	return nil
}

func (r *favoritesRepo) Find(_ context.Context, clientID, listingID string) (models.Favorite, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	f, ok := r.s.favorites[pairKey(clientID, listingID)]
	if !ok {
		return models.Favorite{}, repo.ErrNotFound
	}
	return f, nil
}

func (r *favoritesRepo) ListByClient(_ context.Context, clientID string) ([]models.Favorite, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Favorite{}
	for _, f := range r.s.favorites {
		if f.ClientID == clientID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateAdded.After(out[j].DateAdded) })
	return out, nil
}

func (r *favoritesRepo) CountByClient(_ context.Context, clientID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, f := range r.s.favorites {
		if f.ClientID == clientID {
			n++
		}
	}
	return n, nil
}

func (r *favoritesRepo) DeleteByListing(_ context.Context, listingID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for k, f := range r.s.favorites {
		if f.ListingID == listingID {
			delete(r.s.favorites, k)
			n++
		}
	}
	return n, nil
}
