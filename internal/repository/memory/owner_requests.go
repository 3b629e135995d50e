package memory

import (
	"context"
	"sort"
	"time"

	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	repo "github.com/FindHome-mobile/FindHome-Backend/internal/repository"
)

type ownerRequestsRepo struct{ s *store }

func (r *ownerRequestsRepo) Create(_ context.Context, req models.OwnerRequest) (models.OwnerRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cur := range r.s.requests {
		if cur.UserID == req.UserID && cur.Status == models.RequestPending {
			return models.OwnerRequest{}, repo.ErrDuplicate
		}
	}
	req.ID = newID()
	req.Status = models.RequestPending
	req.RequestDate = r.s.tick()
	req.DecisionDate = nil
	req.DecidedBy = ""
	r.s.requests[req.ID] = req
	return req, nil
}

func (r *ownerRequestsRepo) GetByID(_ context.Context, id string) (models.OwnerRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	req, ok := r.s.requests[id]
	if !ok {
		return models.OwnerRequest{}, repo.ErrNotFound
	}
	return req, nil
}

func (r *ownerRequestsRepo) filter(keep func(models.OwnerRequest) bool) []models.OwnerRequest {
	out := []models.OwnerRequest{}
	for _, req := range r.s.requests {
		if keep(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestDate.After(out[j].RequestDate) })
	return out
}

func (r *ownerRequestsRepo) List(_ context.Context, status models.RequestStatus) ([]models.OwnerRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.filter(func(req models.OwnerRequest) bool {
		return status == "" || req.Status == status
	}), nil
}

func (r *ownerRequestsRepo) FindPendingByUser(_ context.Context, userID string) (models.OwnerRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, req := range r.s.requests {
		if req.UserID == userID && req.Status == models.RequestPending {
			return req, nil
		}
	}
	return models.OwnerRequest{}, repo.ErrNotFound
}

func (r *ownerRequestsRepo) LatestByUser(_ context.Context, userID string) (models.OwnerRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := r.filter(func(req models.OwnerRequest) bool { return req.UserID == userID })
	if len(list) == 0 {
		return models.OwnerRequest{}, repo.ErrNotFound
	}
	return list[0], nil
}

func (r *ownerRequestsRepo) Decide(_ context.Context, id string, status models.RequestStatus, by string, at time.Time) (models.OwnerRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok {
		return models.OwnerRequest{}, repo.ErrNotFound
	}
	if req.Status != models.RequestPending {
		return models.OwnerRequest{}, repo.ErrConflict
	}
	at = at.UTC()
	req.Status = status
	req.DecisionDate = &at
	req.DecidedBy = by
	r.s.requests[id] = req
	return req, nil
}
