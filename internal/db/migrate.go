package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type migration struct {
	version string
	up      func(ctx context.Context, db *mongo.Database) error
}

func createIndexes(col string, models ...mongo.IndexModel) func(context.Context, *mongo.Database) error {
	return func(ctx context.Context, db *mongo.Database) error {
		_, err := db.Collection(col).Indexes().CreateMany(ctx, models)
		return err
	}
}

var migrations = []migration{
	{"0001_users_email", createIndexes("utilisateurs",
		mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		mongo.IndexModel{Keys: bson.D{{Key: "type", Value: 1}}},
	)},
	{"0002_annonces_search", createIndexes("annonces",
		mongo.IndexModel{Keys: bson.D{{Key: "localisation", Value: 1}, {Key: "prix", Value: 1}, {Key: "statut", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "proprietaire", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
	)},
	{"0003_favoris_pair", createIndexes("favoris",
		mongo.IndexModel{
			Keys:    bson.D{{Key: "client", Value: 1}, {Key: "annonce", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		mongo.IndexModel{Keys: bson.D{{Key: "annonce", Value: 1}}},
	)},
	// At most one pending request per user.
	{"0004_demandes_pending", createIndexes("demandeproprietaires",
		mongo.IndexModel{
			Keys: bson.D{{Key: "utilisateur", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"statut": "en_attente"}).
				SetName("utilisateur_en_attente"),
		},
		mongo.IndexModel{Keys: bson.D{{Key: "statut", Value: 1}, {Key: "dateDemande", Value: -1}}},
	)},
}

// RunMigrations applies index migrations not yet recorded in schema_migrations.
func RunMigrations(ctx context.Context, db *mongo.Database) error {
	applied := db.Collection("schema_migrations")
	for _, m := range migrations {
		err := applied.FindOne(ctx, bson.M{"_id": m.version}).Err()
		if err == nil {
			continue
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}
		if err := m.up(ctx, db); err != nil {
			return err
		}
		if _, err := applied.InsertOne(ctx, bson.M{"_id": m.version}); err != nil {
			return err
		}
	}
	return nil
}
