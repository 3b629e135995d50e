// Package memory is a process-local repository backend. It backs tests and
// STORE=memory runs and mirrors the uniqueness rules of the Mongo indexes.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	repo "github.com/FindHome-mobile/FindHome-Backend/internal/repository"
	"github.com/google/uuid"
)

type store struct {
	mu        sync.RWMutex
	users     map[string]models.User
	listings  map[string]models.Listing
	favorites map[string]models.Favorite
	messages  []models.ContactMessage
	requests  map[string]models.OwnerRequest
	// seq orders records created within the same clock tick.
	seq       int64
	now       func() time.Time
}

func (s *store) tick() time.Time {
	s.seq++
	return s.now().UTC().Add(time.Duration(s.seq) * time.Nanosecond)
}

func NewRepositories() repo.Repositories {
	s := &store{
		users:     map[string]models.User{},
		listings:  map[string]models.Listing{},
		favorites: map[string]models.Favorite{},
		requests:  map[string]models.OwnerRequest{},
		now:       time.Now,
	}
	return repo.Repositories{
		Users:         &usersRepo{s},
		Listings:      &listingsRepo{s},
		Favorites:     &favoritesRepo{s},
		Messages:      &messagesRepo{s},
		OwnerRequests: &ownerRequestsRepo{s},
	}
}

func newID() string { return strings.ReplaceAll(uuid.NewString(), "-", "") }

// users

type usersRepo struct{ s *store }

func (r *usersRepo) emailTaken(email, except string) bool {
	for id, u := range r.s.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (r *usersRepo) Create(_ context.Context, u models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTaken(u.Email, "") {
		return models.User{}, repo.ErrDuplicate
	}
	u.ID = newID()
	u.CreatedAt = r.s.tick()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = u
	return u, nil
}

func (r *usersRepo) GetByID(_ context.Context, id string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) GetByIDs(_ context.Context, ids []string) (map[string]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[string]models.User, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (r *usersRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

func (r *usersRepo) list(keep func(models.User) bool) []models.User {
	out := []models.User{}
	for _, u := range r.s.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *usersRepo) List(_ context.Context) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.list(func(models.User) bool { return true }), nil
}

func (r *usersRepo) ListByRole(_ context.Context, role models.Role) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.list(func(u models.User) bool { return u.Role == role }), nil
}

func (r *usersRepo) Update(_ context.Context, u models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.users[u.ID]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	if r.emailTaken(u.Email, u.ID) {
		return models.User{}, repo.ErrDuplicate
	}
	if u.PasswordHash == "" {
		u.PasswordHash = cur.PasswordHash
	}
	u.CreatedAt = cur.CreatedAt
	u.UpdatedAt = r.s.tick()
	r.s.users[u.ID] = u
	return u, nil
}

func (r *usersRepo) UpdateRole(_ context.Context, id string, role models.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = r.s.tick()
	r.s.users[id] = u
	return nil
}

func (r *usersRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = r.s.tick()
	r.s.users[id] = u
	return nil
}

func (r *usersRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

// messages

type messagesRepo struct{ s *store }

func (r *messagesRepo) Create(_ context.Context, m models.ContactMessage) (models.ContactMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.ID = newID()
	m.CreatedAt = r.s.tick()
	r.s.messages = append(r.s.messages, m)
	return m, nil
}

func (r *messagesRepo) List(_ context.Context) ([]models.ContactMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.ContactMessage, 0, len(r.s.messages))
	for i := len(r.s.messages) - 1; i >= 0; i-- {
		out = append(out, r.s.messages[i])
	}
	return out, nil
}
