package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FindHome-mobile/FindHome-Backend/internal/auth"
	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	repo "github.com/FindHome-mobile/FindHome-Backend/internal/repository"
	"github.com/FindHome-mobile/FindHome-Backend/internal/repository/cache"
	"github.com/FindHome-mobile/FindHome-Backend/internal/repository/memory"
)

// inline runs submitted work on the caller's goroutine.
type inline struct{}

func (inline) Submit(f func()) { f() }

type fixture struct {
	repos     repo.Repositories
	dir       string
	images    *ImageStore
	users     *UserService
	listings  *ListingService
	favorites *FavoriteService
	requests  *OwnerRequestService
	messages  *MessageService
}

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newFixture(t *testing.T) *fixture {
	return newFixtureWithCache(t, cache.Noop{})
}

func newFixtureWithCache(t *testing.T, c repo.ListingCache) *fixture {
	t.Helper()
	log := discardLogger()
	r := memory.NewRepositories()
	dir := t.TempDir()
	images := NewImageStore(dir, "http://localhost:5000/", 1<<20, 3, log)
	listings := NewListingService(r, c, images, inline{}, log)
	return &fixture{
		repos:     r,
		dir:       dir,
		images:    images,
		users:     NewUserService(r.Users, images, nil, log),
		listings:  listings,
		favorites: NewFavoriteService(r, listings, log),
		requests:  NewOwnerRequestService(r, log),
		messages:  NewMessageService(r.Messages, log),
	}
}

// seedUser stores a user directly, bypassing registration.
func (f *fixture) seedUser(t *testing.T, role models.Role, email string) models.User {
	t.Helper()
	u := models.User{
		Nom:          "Test",
		Prenom:       string(role),
		Email:        email,
		PasswordHash: "not-a-hash",
		Role:         role,
	}
	if role == models.RoleOwner {
		u.NumTel, u.Facebook, u.Location = "22111333", "fb.com/owner", "Tunis"
	}
	u, err := f.repos.Users.Create(context.Background(), u)
	require.NoError(t, err)
	return u
}

func actorOf(u models.User) auth.Actor { return auth.Actor{ID: u.ID, Role: u.Role} }

// listingInput returns a complete create form with overrides applied. An
// override of "-" removes the field.
func listingInput(overrides map[string]string) ListingInput {
	fields := map[string]string{
		"titre":        "Studio lumineux",
		"description":  "Proche de toutes commodités",
		"localisation": "Tunis, Lac 2",
		"prix":         "1000",
		"nbPieces":     "1",
		"surface":      "80",
		"typeBien":     "studio",
		"telephone":    "22111333",
	}
	for k, v := range overrides {
		if v == "-" {
			delete(fields, k)
			continue
		}
		fields[k] = v
	}
	return ListingInput{Fields: fields}
}

func pngUpload(name string) Upload {
	return Upload{Filename: name, ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
}

func requireKind(t *testing.T, err error, k Kind, msg string) {
	t.Helper()
	require.Error(t, err)
	var se *Error
	require.ErrorAs(t, err, &se)
	require.Equal(t, k, se.Kind, se.Error())
	if msg != "" {
		require.Equal(t, msg, se.Message)
	}
}
