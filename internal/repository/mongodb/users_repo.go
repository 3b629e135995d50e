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

type usersRepo struct{ col *mongo.Collection }

func NewUsers(db *mongo.Database) repository.Users {
	return &usersRepo{col: db.Collection(colUsers)}
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	doc := toUserDocument(u)
	doc.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, repository.ErrDuplicate
		}
		return models.User{}, err
	}
	return doc.model(), nil
}

func (r *usersRepo) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, repository.ErrNotFound
		}
		return models.User{}, err
	}
	return doc.model(), nil
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	o, err := oid(id)
	if err != nil {
		return models.User{}, err
	}
	return r.findOne(ctx, bson.M{"_id": o})
}

func (r *usersRepo) GetByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	out := make(map[string]models.User, len(ids))
	list := oids(ids)
	if len(list) == 0 {
		return out, nil
	}
	users, err := r.find(ctx, bson.M{"_id": bson.M{"$in": list}}, nil)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *usersRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.User, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (r *usersRepo) List(ctx context.Context) ([]models.User, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *usersRepo) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return r.find(ctx, bson.M{"type": string(role)}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *usersRepo) Update(ctx context.Context, u models.User) (models.User, error) {
	o, err := oid(u.ID)
	if err != nil {
		return models.User{}, err
	}
	set := bson.M{
		"nom":              u.Nom,
		"prenom":           u.Prenom,
		"email":            u.Email,
		"photo_de_profile": u.Photo,
		"type":             string(u.Role),
		"numTel":           u.NumTel,
		"facebook":         u.Facebook,
		"location":         u.Location,
		"updatedAt":        time.Now().UTC(),
	}
	if u.PasswordHash != "" {
		set["motDePasse"] = u.PasswordHash
	}
	var doc userDocument
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": o}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.User{}, repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return models.User{}, repository.ErrDuplicate
	case err != nil:
		return models.User{}, err
	}
	return doc.model(), nil
}

func (r *usersRepo) updateFields(ctx context.Context, id string, set bson.M) error {
	o, err := oid(id)
	if err != nil {
		return err
	}
	set["updatedAt"] = time.Now().UTC()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": o}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *usersRepo) UpdateRole(ctx context.Context, id string, role models.Role) error {
	return r.updateFields(ctx, id, bson.M{"type": string(role)})
}

func (r *usersRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.updateFields(ctx, id, bson.M{"motDePasse": hash})
}

func (r *usersRepo) Delete(ctx context.Context, id string) error {
	o, err := oid(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": o})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
