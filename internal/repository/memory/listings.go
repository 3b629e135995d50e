package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	repo "github.com/FindHome-mobile/FindHome-Backend/internal/repository"
)

type listingsRepo struct{ s *store }

func (r *listingsRepo) Create(_ context.Context, l models.Listing) (models.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = newID()
	l.CreatedAt = r.s.tick()
	l.UpdatedAt = l.CreatedAt
	l.Images = append([]string{}, l.Images...)
	l.Amenities = append([]string{}, l.Amenities...)
	r.s.listings[l.ID] = l
	return l, nil
}

func (r *listingsRepo) GetByID(_ context.Context, id string) (models.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.listings[id]
	if !ok {
		return models.Listing{}, repo.ErrNotFound
	}
	return l, nil
}

func (r *listingsRepo) match(f models.ListingFilter) []models.Listing {
	out := []models.Listing{}
	for _, l := range r.s.listings {
		if f.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}

// less orders by the sort field, then by id, in the same direction.
func less(a, b models.Listing, s models.ListingSort) bool {
	c := compare(a, b, s.Field)
	if c == 0 {
		c = strings.Compare(a.ID, b.ID)
	}
	if s.Asc {
		return c < 0
	}
	return c > 0
}

func compare(a, b models.Listing, f models.SortField) int {
	switch f {
	case models.SortPrix:
		return cmpFloat(a.Prix, b.Prix)
	case models.SortSurface:
		return cmpFloat(a.Surface, b.Surface)
	case models.SortNbPieces:
		return cmpFloat(float64(a.NbPieces), float64(b.NbPieces))
	case models.SortLocalisation:
		return strings.Compare(a.Localisation, b.Localisation)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (r *listingsRepo) Find(_ context.Context, q models.ListingQuery) ([]models.Listing, error) {
	r.s.mu.RLock()
	all := r.match(q.Filter)
	r.s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return less(all[i], all[j], q.Sort) })
	skip := q.Skip()
	if skip < 0 || skip >= len(all) {
		return []models.Listing{}, nil
	}
	end := skip + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end], nil
}

func (r *listingsRepo) Count(_ context.Context, f models.ListingFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.match(f))), nil
}

func (r *listingsRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Listing, error) {
	r.s.mu.RLock()
	out := r.match(models.ListingFilter{OwnerID: ownerID})
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return less(out[i], out[j], models.ListingSort{Field: models.SortCreatedAt})
	})
	return out, nil
}

func (r *listingsRepo) Update(_ context.Context, l models.Listing) (models.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.listings[l.ID]
	if !ok {
		return models.Listing{}, repo.ErrNotFound
	}
	l.CreatedAt = cur.CreatedAt
	l.UpdatedAt = r.s.tick()
	r.s.listings[l.ID] = l
	return l, nil
}

func (r *listingsRepo) UpdateStatus(_ context.Context, id string, status models.ListingStatus) (models.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.listings[id]
	if !ok {
		return models.Listing{}, repo.ErrNotFound
	}
	l.Statut = status
	l.UpdatedAt = r.s.tick()
	r.s.listings[id] = l
	return l, nil
}

func (r *listingsRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.listings[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.listings, id)
	return nil
}

func (r *listingsRepo) Stats(_ context.Context) (models.ListingStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st := models.ListingStats{RepartitionType: []models.TypeCount{}}
	byType := map[string]int64{}
	var sum float64
	for _, l := range r.s.listings {
		st.TotalAnnonces++
		sum += l.Prix
		switch l.Statut {
		case models.StatusAvailable:
			st.AnnoncesDisponibles++
		case models.StatusRented:
			st.AnnoncesEnLocation++
		case models.StatusUnavailable:
			st.AnnoncesIndisponibles++
		}
		byType[string(l.TypeBien)]++
	}
	if st.TotalAnnonces > 0 {
		st.PrixMoyen = sum / float64(st.TotalAnnonces)
	}
	for t, n := range byType {
		st.RepartitionType = append(st.RepartitionType, models.TypeCount{Type: t, Count: n})
	}
	sort.Slice(st.RepartitionType, func(i, j int) bool {
		a, b := st.RepartitionType[i], st.RepartitionType[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Type < b.Type
	})
	return st, nil
}
