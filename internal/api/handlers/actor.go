package handlers

import (
	"context"
	"net/http"

	"github.com/FindHome-mobile/FindHome-Backend/internal/auth"
)

type actorResolver interface {
	ResolveActor(ctx context.Context, id string) (auth.Actor, error)
}

func actorOf(r *http.Request) auth.Actor {
	a, _ := auth.ActorFrom(r.Context())
	return a
}

// actorOrClaimed returns the request actor, or resolves an id sent in the
// body by older clients. An id that does not resolve yields the anonymous actor.
func actorOrClaimed(r *http.Request, users actorResolver, claimed string) auth.Actor {
	if a, ok := auth.ActorFrom(r.Context()); ok {
		return a
	}
	if claimed == "" {
		return auth.Actor{}
	}
	a, err := users.ResolveActor(r.Context(), claimed)
	if err != nil {
		return auth.Actor{}
	}
	return a
}
