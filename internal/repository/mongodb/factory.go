package mongodb

import (
	repo "github.com/FindHome-mobile/FindHome-Backend/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

func NewRepositories(db *mongo.Database) repo.Repositories {
	return repo.Repositories{
		Users:         NewUsers(db),
		Listings:      NewListings(db),
		Favorites:     NewFavorites(db),
		Messages:      NewMessages(db),
		OwnerRequests: NewOwnerRequests(db),
	}
}
