package auth

import (
	"context"

	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
)

// Actor is the caller identity resolved at the HTTP boundary. The role is
// read from the store, never trusted from the request.
type Actor struct {
	ID   string
	Role models.Role
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }
func (a Actor) IsOwner() bool { return a.Role == models.RoleOwner }

// Is reports whether the actor is the user with the given id.
func (a Actor) Is(id string) bool { return a.ID != "" && a.ID == id }

type actorKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok && a.ID != ""
}
