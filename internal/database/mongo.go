// internal/database/mongo.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sweetcake/sweetcake-backend/internal/config"
)

const (
	RecipeCollection = "recette"
	ReviewCollection = "avis"
)

func InitializeMongo(cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ConnectTimeout)*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logrus.Info("Mongo connection established")
	return client, client.Database(cfg.Database), nil
}

func CloseMongo(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		logrus.WithError(err).Error("Error closing mongo connection")
	}
}

// EnsureCollections is the schema guard: collections must exist with their
// validation schema before any document write. Validation level is moderate,
// so pre-existing non-conforming documents are tolerated while new inserts
// are checked.
func EnsureCollections(ctx context.Context, db *mongo.Database) error {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	existing := make(map[string]bool, len(names))
	for _, name := range names {
		existing[name] = true
	}

	if !existing[RecipeCollection] {
		if err := createRecipeCollection(ctx, db); err != nil {
			return err
		}
	}

	if !existing[ReviewCollection] {
		if err := createReviewCollection(ctx, db); err != nil {
			return err
		}
	}

	return nil
}

func createRecipeCollection(ctx context.Context, db *mongo.Database) error {
	validator := bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"productId", "ingredients", "etapes", "createdBy"},
			"properties": bson.M{
				"productId": bson.M{
					"bsonType":    bson.A{"string", "int", "long"},
					"description": "Postgres product id (string or integer)",
				},
				"ingredients": bson.M{
					"bsonType": "array",
					"minItems": 1,
					"items":    bson.M{"bsonType": "string"},
				},
				"etapes": bson.M{
					"bsonType": "array",
					"minItems": 1,
					"items":    bson.M{"bsonType": "string"},
				},
				"createdBy": bson.M{"bsonType": "string"},
				"createdAt": bson.M{"bsonType": "date"},
			},
		},
	}

	opts := options.CreateCollection().
		SetValidator(validator).
		SetValidationLevel("moderate")

	if err := db.CreateCollection(ctx, RecipeCollection, opts); err != nil {
		return fmt.Errorf("failed to create %s collection: %w", RecipeCollection, err)
	}

	_, err := db.Collection(RecipeCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "productId", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to index %s.productId: %w", RecipeCollection, err)
	}

	logrus.Infof("Created %s collection with schema validation", RecipeCollection)
	return nil
}

func createReviewCollection(ctx context.Context, db *mongo.Database) error {
	validator := bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"productId", "clientId", "commentaire", "dateDePublication"},
			"properties": bson.M{
				"productId": bson.M{
					"bsonType":    bson.A{"string", "int", "long"},
					"description": "Postgres product id (string or integer)",
				},
				"clientId":    bson.M{"bsonType": "string"},
				"commentaire": bson.M{"bsonType": "string"},
				"dateDePublication": bson.M{"bsonType": "date"},
				"note": bson.M{
					"bsonType": "int",
					"minimum":  1,
					"maximum":  5,
				},
			},
		},
	}

	opts := options.CreateCollection().
		SetValidator(validator).
		SetValidationLevel("moderate")

	if err := db.CreateCollection(ctx, ReviewCollection, opts); err != nil {
		return fmt.Errorf("failed to create %s collection: %w", ReviewCollection, err)
	}

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "productId", Value: 1}}},
		{Keys: bson.D{{Key: "clientId", Value: 1}}},
	}
	if _, err := db.Collection(ReviewCollection).Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to index %s: %w", ReviewCollection, err)
	}

	logrus.Infof("Created %s collection with schema validation", ReviewCollection)
	return nil
}
