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

type ownerRequestsRepo struct{ col *mongo.Collection }

func NewOwnerRequests(db *mongo.Database) repository.OwnerRequests {
	return &ownerRequestsRepo{col: db.Collection(colOwnerRequests)}
}

// Create relies on the partial unique index over pending requests, so two
// concurrent creates for the same user cannot both succeed.
func (r *ownerRequestsRepo) Create(ctx context.Context, req models.OwnerRequest) (models.OwnerRequest, error) {
	u, err := oid(req.UserID)
	if err != nil {
		return models.OwnerRequest{}, err
	}
	doc := ownerRequestDocument{
		ID:          primitive.NewObjectID(),
		Utilisateur: u,
		Statut:      string(models.RequestPending),
		DateDemande: time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.OwnerRequest{}, repository.ErrDuplicate
		}
		return models.OwnerRequest{}, err
	}
	return doc.model(), nil
}

func (r *ownerRequestsRepo) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (models.OwnerRequest, error) {
	var doc ownerRequestDocument
	if err := r.col.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.OwnerRequest{}, repository.ErrNotFound
		}
		return models.OwnerRequest{}, err
	}
	return doc.model(), nil
}

func (r *ownerRequestsRepo) GetByID(ctx context.Context, id string) (models.OwnerRequest, error) {
	o, err := oid(id)
	if err != nil {
		return models.OwnerRequest{}, err
	}
	return r.findOne(ctx, bson.M{"_id": o})
}

func (r *ownerRequestsRepo) List(ctx context.Context, status models.RequestStatus) ([]models.OwnerRequest, error) {
	filter := bson.M{}
	if status != "" {
		filter["statut"] = string(status)
	}
	cur, err := r.col.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "dateDemande", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []ownerRequestDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.OwnerRequest, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (r *ownerRequestsRepo) FindPendingByUser(ctx context.Context, userID string) (models.OwnerRequest, error) {
	u, err := oid(userID)
	if err != nil {
		return models.OwnerRequest{}, err
	}
	return r.findOne(ctx, bson.M{"utilisateur": u, "statut": string(models.RequestPending)})
}

func (r *ownerRequestsRepo) LatestByUser(ctx context.Context, userID string) (models.OwnerRequest, error) {
	u, err := oid(userID)
	if err != nil {
		return models.OwnerRequest{}, err
	}
	return r.findOne(ctx, bson.M{"utilisateur": u},
		options.FindOne().SetSort(bson.D{{Key: "dateDemande", Value: -1}, {Key: "_id", Value: -1}}))
}

func (r *ownerRequestsRepo) Decide(ctx context.Context, id string, status models.RequestStatus, by string, at time.Time) (models.OwnerRequest, error) {
	o, err := oid(id)
	if err != nil {
		return models.OwnerRequest{}, err
	}
	set := bson.M{"statut": string(status), "dateTraitement": at.UTC()}
	if admin, err := primitive.ObjectIDFromHex(by); err == nil {
		set["traitePar"] = admin
	}
	var doc ownerRequestDocument
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": o, "statut": string(models.RequestPending)},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, gerr := r.GetByID(ctx, id); gerr != nil {
			return models.OwnerRequest{}, gerr
		}
		return models.OwnerRequest{}, repository.ErrConflict
	}
	if err != nil {
		return models.OwnerRequest{}, err
	}
	return doc.model(), nil
}
