package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	"github.com/FindHome-mobile/FindHome-Backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type favoritesRepo struct{ col *mongo.Collection }

func NewFavorites(db *mongo.Database) repository.Favorites {
	return &favoritesRepo{col: db.Collection(colFavorites)}
}

func pairFilter(clientID, listingID string) (bson.M, error) {
	c, err := oid(clientID)
	if err != nil {
		return nil, err
	}
	a, err := oid(listingID)
	if err != nil {
		return nil, err
	}
	return bson.M{"client": c, "annonce": a}, nil
}

// Create relies on the unique (client, annonce) index.
func (r *favoritesRepo) Create(ctx context.Context, f models.Favorite) (models.Favorite, error) {
	c, err := oid(f.ClientID)
	if err != nil {
		return models.Favorite{}, err
	}
	a, err := oid(f.ListingID)
	if err != nil {
		return models.Favorite{}, err
	}
	doc := favoriteDocument{
		ID:        primitive.NewObjectID(),
		Client:    c,
		Annonce:   a,
		DateAjout: time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Favorite{}, repository.ErrDuplicate
		}
		return models.Favorite{}, err
	}
	return doc.model(), nil
}

func (r *favoritesRepo) Delete(ctx context.Context, clientID, listingID string) error {
	filter, err := pairFilter(clientID, listingID)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *favoritesRepo) Find(ctx context.Context, clientID, listingID string) (models.Favorite, error) {
	filter, err := pairFilter(clientID, listingID)
	if err != nil {
		return models.Favorite{}, err
	}
	var doc favoriteDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Favorite{}, repository.ErrNotFound
		}
		return models.Favorite{}, err
	}
	return doc.model(), nil
}

func (r *favoritesRepo) ListByClient(ctx context.Context, clientID string) ([]models.Favorite, error) {
	c, err := oid(clientID)
	if err != nil {
		return []models.Favorite{}, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"client": c},
		options.Find().SetSort(bson.D{{Key: "dateAjout", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []favoriteDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Favorite, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (r *favoritesRepo) CountByClient(ctx context.Context, clientID string) (int64, error) {
	c, err := oid(clientID)
	if err != nil {
		return 0, nil
	}
	return r.col.CountDocuments(ctx, bson.M{"client": c})
}

func (r *favoritesRepo) DeleteByListing(ctx context.Context, listingID string) (int64, error) {
	a, err := oid(listingID)
	if err != nil {
		return 0, nil
	}
	res, err := r.col.DeleteMany(ctx, bson.M{"annonce": a})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
