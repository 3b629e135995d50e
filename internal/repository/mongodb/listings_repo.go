package mongodb

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	"github.com/FindHome-mobile/FindHome-Backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type listingsRepo struct{ col *mongo.Collection }

func NewListings(db *mongo.Database) repository.Listings {
	return &listingsRepo{col: db.Collection(colListings)}
}

// buildListingFilter translates f into a Mongo query. Absent criteria add no key.
func buildListingFilter(f models.ListingFilter) bson.M {
	q := bson.M{}
	if f.OwnerID != "" {
		if o, err := primitive.ObjectIDFromHex(f.OwnerID); err == nil {
			q["proprietaire"] = o
		} else {
			q["proprietaire"] = f.OwnerID
		}
	}
	if f.Localisation != "" {
		q["localisation"] = containsRegex(f.Localisation)
	}
	if r := floatRange(f.PrixMin, f.PrixMax); r != nil {
		q["prix"] = r
	}
	if len(f.TypeBien) > 0 {
		q["typeBien"] = bson.M{"$in": f.TypeBien}
	}
	if f.Meublee != nil {
		q["meublee"] = *f.Meublee
	}
	if len(f.Statut) > 0 {
		q["statut"] = bson.M{"$in": f.Statut}
	}
	if r := intRange(f.NbPiecesMin, f.NbPiecesMax); r != nil {
		q["nbPieces"] = r
	}
	if r := floatRange(f.SurfaceMin, f.SurfaceMax); r != nil {
		q["surface"] = r
	}
	if r := intRange(f.EtageMin, f.EtageMax); r != nil {
		q["etage"] = r
	}
	for k, v := range f.Features {
		q[k] = v
	}
	if len(f.Amenities) > 0 {
		res := make(bson.A, 0, len(f.Amenities))
		for _, a := range f.Amenities {
			res = append(res, containsRegex(a))
		}
		q["amenities"] = bson.M{"$in": res}
	}
	return q
}

func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func floatRange(min, max *float64) bson.M {
	if min == nil && max == nil {
		return nil
	}
	r := bson.M{}
	if min != nil {
		r["$gte"] = *min
	}
	if max != nil {
		r["$lte"] = *max
	}
	return r
}

func intRange(min, max *int) bson.M {
	if min == nil && max == nil {
		return nil
	}
	r := bson.M{}
	if min != nil {
		r["$gte"] = *min
	}
	if max != nil {
		r["$lte"] = *max
	}
	return r
}

// buildListingSort always ends with _id so page windows are stable.
func buildListingSort(s models.ListingSort) bson.D {
	field := s.Field
	if !field.Valid() {
		field = models.SortCreatedAt
	}
	dir := -1
	if s.Asc {
		dir = 1
	}
	return bson.D{{Key: string(field), Value: dir}, {Key: "_id", Value: dir}}
}

func (r *listingsRepo) Create(ctx context.Context, l models.Listing) (models.Listing, error) {
	now := time.Now().UTC()
	l.CreatedAt, l.UpdatedAt = now, now
	doc, err := toListingDocument(l)
	if err != nil {
		return models.Listing{}, err
	}
	doc.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return models.Listing{}, err
	}
	return doc.model(), nil
}

func (r *listingsRepo) GetByID(ctx context.Context, id string) (models.Listing, error) {
	o, err := oid(id)
	if err != nil {
		return models.Listing{}, err
	}
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": o}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Listing{}, repository.ErrNotFound
		}
		return models.Listing{}, err
	}
	return doc.model(), nil
}

func (r *listingsRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Listing, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []listingDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Listing, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (r *listingsRepo) Find(ctx context.Context, q models.ListingQuery) ([]models.Listing, error) {
	opts := options.Find().
		SetSort(buildListingSort(q.Sort)).
		SetSkip(int64(q.Skip())).
		SetLimit(int64(q.Limit))
	return r.find(ctx, buildListingFilter(q.Filter), opts)
}

func (r *listingsRepo) Count(ctx context.Context, f models.ListingFilter) (int64, error) {
	return r.col.CountDocuments(ctx, buildListingFilter(f))
}

func (r *listingsRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Listing, error) {
	o, err := oid(ownerID)
	if err != nil {
		return []models.Listing{}, nil
	}
	return r.find(ctx, bson.M{"proprietaire": o}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *listingsRepo) Update(ctx context.Context, l models.Listing) (models.Listing, error) {
	l.UpdatedAt = time.Now().UTC()
	doc, err := toListingDocument(l)
	if err != nil {
		return models.Listing{}, err
	}
	if doc.ID.IsZero() {
		return models.Listing{}, repository.ErrNotFound
	}
	id := doc.ID
	doc.ID = primitive.NilObjectID
	var out listingDocument
	err = r.col.FindOneAndReplace(ctx, bson.M{"_id": id}, doc,
		options.FindOneAndReplace().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Listing{}, repository.ErrNotFound
		}
		return models.Listing{}, err
	}
	return out.model(), nil
}

func (r *listingsRepo) UpdateStatus(ctx context.Context, id string, status models.ListingStatus) (models.Listing, error) {
	o, err := oid(id)
	if err != nil {
		return models.Listing{}, err
	}
	var out listingDocument
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": o},
		bson.M{"$set": bson.M{"statut": string(status), "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Listing{}, repository.ErrNotFound
		}
		return models.Listing{}, err
	}
	return out.model(), nil
}

func (r *listingsRepo) Delete(ctx context.Context, id string) error {
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

func (r *listingsRepo) Stats(ctx context.Context) (models.ListingStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$facet", Value: bson.M{
			"statut": bson.A{
				bson.M{"$group": bson.M{"_id": "$statut", "count": bson.M{"$sum": 1}}},
			},
			"prix": bson.A{
				bson.M{"$group": bson.M{"_id": nil, "avg": bson.M{"$avg": "$prix"}, "total": bson.M{"$sum": 1}}},
			},
			"type": bson.A{
				bson.M{"$group": bson.M{"_id": "$typeBien", "count": bson.M{"$sum": 1}}},
				bson.M{"$sort": bson.M{"count": -1}},
			},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return models.ListingStats{}, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Statut []struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		} `bson:"statut"`
		Prix []struct {
			Avg   float64 `bson:"avg"`
			Total int64   `bson:"total"`
		} `bson:"prix"`
		Type []struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		} `bson:"type"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return models.ListingStats{}, err
	}

	st := models.ListingStats{RepartitionType: []models.TypeCount{}}
	if len(rows) == 0 {
		return st, nil
	}
	row := rows[0]
	for _, s := range row.Statut {
		switch models.ListingStatus(s.ID) {
		case models.StatusAvailable:
			st.AnnoncesDisponibles = s.Count
		case models.StatusRented:
			st.AnnoncesEnLocation = s.Count
		case models.StatusUnavailable:
			st.AnnoncesIndisponibles = s.Count
		}
	}
	if len(row.Prix) > 0 {
		st.PrixMoyen = row.Prix[0].Avg
		st.TotalAnnonces = row.Prix[0].Total
	}
	for _, t := range row.Type {
		st.RepartitionType = append(st.RepartitionType, models.TypeCount{Type: t.ID, Count: t.Count})
	}
	return st, nil
}
