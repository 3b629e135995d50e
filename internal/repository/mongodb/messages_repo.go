package mongodb

import (
	"context"
	"time"

	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	"github.com/FindHome-mobile/FindHome-Backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type messagesRepo struct{ col *mongo.Collection }

func NewMessages(db *mongo.Database) repository.Messages {
	return &messagesRepo{col: db.Collection(colMessages)}
}

func (r *messagesRepo) Create(ctx context.Context, m models.ContactMessage) (models.ContactMessage, error) {
	now := time.Now().UTC()
	doc := messageDocument{
		ID:        primitive.NewObjectID(),
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return models.ContactMessage{}, err
	}
	return doc.model(), nil
}

func (r *messagesRepo) List(ctx context.Context) ([]models.ContactMessage, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []messageDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.ContactMessage, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}
