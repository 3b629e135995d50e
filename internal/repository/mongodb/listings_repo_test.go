package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	"github.com/FindHome-mobile/FindHome-Backend/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func TestBuildListingFilterEmpty(t *testing.T) {
	assert.Empty(t, buildListingFilter(models.ListingFilter{}))
}

func TestBuildListingFilter(t *testing.T) {
	owner := primitive.NewObjectID()
	got := buildListingFilter(models.ListingFilter{
		OwnerID:      owner.Hex(),
		Localisation: "Tunis (centre)",
		PrixMin:      ptr(500.0),
		PrixMax:      ptr(1500.0),
		TypeBien:     []string{"studio", "villa"},
		Meublee:      ptr(false),
		NbPiecesMin:  ptr(2),
		SurfaceMax:   ptr(90.0),
		EtageMin:     ptr(1),
		Features:     map[string]bool{"piscine": true},
		Amenities:    []string{"wifi"},
	})

	want := bson.M{
		"proprietaire": owner,
		"localisation": primitive.Regex{Pattern: `Tunis \(centre\)`, Options: "i"},
		"prix":         bson.M{"$gte": 500.0, "$lte": 1500.0},
		"typeBien":     bson.M{"$in": []string{"studio", "villa"}},
		"meublee":      false,
		"nbPieces":     bson.M{"$gte": 2},
		"surface":      bson.M{"$lte": 90.0},
		"etage":        bson.M{"$gte": 1},
		"piscine":      true,
		"amenities":    bson.M{"$in": bson.A{primitive.Regex{Pattern: "wifi", Options: "i"}}},
	}
	assert.Equal(t, want, got)
}

func TestBuildListingFilterLegacyOwnerID(t *testing.T) {
	got := buildListingFilter(models.ListingFilter{OwnerID: "not-hex", Statut: []string{"disponible"}})
	assert.Equal(t, bson.M{"proprietaire": "not-hex", "statut": bson.M{"$in": []string{"disponible"}}}, got)
}

func TestBuildListingSort(t *testing.T) {
	assert.Equal(t,
		bson.D{{Key: "prix", Value: 1}, {Key: "_id", Value: 1}},
		buildListingSort(models.ListingSort{Field: models.SortPrix, Asc: true}))
	assert.Equal(t,
		bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
		buildListingSort(models.ListingSort{Field: "motDePasse"}))
}

func TestOIDMapsMalformedToNotFound(t *testing.T) {
	_, err := oid("zz")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	o := primitive.NewObjectID()
	got, err := oid(o.Hex())
	require.NoError(t, err)
	assert.Equal(t, o, got)

	assert.Len(t, oids([]string{o.Hex(), "bad"}), 1)
}

func TestListingDocumentRoundTrip(t *testing.T) {
	l := models.Listing{
		ID:       primitive.NewObjectID().Hex(),
		Titre:    "Villa",
		TypeBien: models.TypeVilla,
		Statut:   models.StatusRented,
		OwnerID:  primitive.NewObjectID().Hex(),
		Etage:    ptr(3),
		Features: models.Features{Jardin: true},
	}
	d, err := toListingDocument(l)
	require.NoError(t, err)
	back := d.model()
	assert.Equal(t, l.ID, back.ID)
	assert.Equal(t, l.OwnerID, back.OwnerID)
	assert.True(t, back.Jardin)
	assert.Equal(t, []string{}, back.Images)

	_, err = toListingDocument(models.Listing{OwnerID: "nope"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
