// internal/docstore/docstore.go
package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNoDocument is returned when a lookup matches nothing. Upper layers
// translate it into their own not-found kind.
var ErrNoDocument = errors.New("no such document")

// keyField is the polymorphic foreign key linking documents to Postgres
// products. It is not unique within a collection.
const keyField = "productId"

// Collection is the subset of document-store operations the services and the
// identifier resolver need. out parameters follow mongo-driver decode
// conventions: a pointer to a struct for single lookups, a pointer to a
// slice for multi lookups.
type Collection interface {
	FindAll(ctx context.Context, out interface{}) error
	FindOneByObjectID(ctx context.Context, id primitive.ObjectID, out interface{}) error
	FindByProductKey(ctx context.Context, values []interface{}, out interface{}) error
	ObjectIDsByProductKey(ctx context.Context, values []interface{}) ([]primitive.ObjectID, error)
	InsertOne(ctx context.Context, doc interface{}) (primitive.ObjectID, error)
	UpdateOneByObjectID(ctx context.Context, id primitive.ObjectID, set bson.M) (int64, error)
	DeleteOneByObjectID(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// MongoCollection implements Collection on a real mongo collection.
type MongoCollection struct {
	col *mongo.Collection
}

func NewMongoCollection(col *mongo.Collection) *MongoCollection {
	return &MongoCollection{col: col}
}

func (m *MongoCollection) FindAll(ctx context.Context, out interface{}) error {
	cursor, err := m.col.Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("finding documents: %w", err)
	}
	return cursor.All(ctx, out)
}

func (m *MongoCollection) FindOneByObjectID(ctx context.Context, id primitive.ObjectID, out interface{}) error {
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNoDocument
	}
	return err
}

func (m *MongoCollection) FindByProductKey(ctx context.Context, values []interface{}, out interface{}) error {
	cursor, err := m.col.Find(ctx, bson.M{keyField: bson.M{"$in": values}})
	if err != nil {
		return fmt.Errorf("finding documents by %s: %w", keyField, err)
	}
	return cursor.All(ctx, out)
}

func (m *MongoCollection) ObjectIDsByProductKey(ctx context.Context, values []interface{}) ([]primitive.ObjectID, error) {
	// only the ids are needed for disambiguation
	cursor, err := m.col.Find(ctx,
		bson.M{keyField: bson.M{"$in": values}},
		options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("finding ids by %s: %w", keyField, err)
	}

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (m *MongoCollection) InsertOne(ctx context.Context, doc interface{}) (primitive.ObjectID, error) {
	res, err := m.col.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid, nil
}

func (m *MongoCollection) UpdateOneByObjectID(ctx context.Context, id primitive.ObjectID, set bson.M) (int64, error) {
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (m *MongoCollection) DeleteOneByObjectID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
