// internal/services/doc_fakes_test.go
package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sweetcake/sweetcake-backend/internal/docstore"
)

// memCollection is an in-memory docstore.Collection backed by bson
// round-trips, so it stores and decodes exactly what mongo would.
type memCollection struct {
	docs map[primitive.ObjectID]bson.M
	// insertion order, for deterministic FindAll
	order []primitive.ObjectID
}

func newMemCollection() *memCollection {
	return &memCollection{docs: make(map[primitive.ObjectID]bson.M)}
}

func (m *memCollection) seed(doc interface{}) primitive.ObjectID {
	id, err := m.InsertOne(context.Background(), doc)
	if err != nil {
		panic(err)
	}
	return id
}

func toBsonM(doc interface{}) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeInto(m bson.M, out interface{}) error {
	raw, err := bson.Marshal(m)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

func decodeAllInto(ms []bson.M, out interface{}) error {
	raw, err := bson.Marshal(bson.M{"docs": ms})
	if err != nil {
		return err
	}
	var wrapper bson.Raw
	if err := bson.Unmarshal(raw, &wrapper); err != nil {
		return err
	}
	return wrapper.Lookup("docs").Unmarshal(out)
}

func (m *memCollection) all() []bson.M {
	out := make([]bson.M, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.docs[id])
	}
	return out
}

func (m *memCollection) FindAll(ctx context.Context, out interface{}) error {
	return decodeAllInto(m.all(), out)
}

func (m *memCollection) FindOneByObjectID(ctx context.Context, id primitive.ObjectID, out interface{}) error {
	doc, ok := m.docs[id]
	if !ok {
		return docstore.ErrNoDocument
	}
	return decodeInto(doc, out)
}

func (m *memCollection) keyMatches(values []interface{}) []bson.M {
	var out []bson.M
	for _, id := range m.order {
		doc := m.docs[id]
		stored := doc["productId"]
		for _, v := range values {
			if fmt.Sprint(stored) == fmt.Sprint(v) && fmt.Sprintf("%T", stored) == fmt.Sprintf("%T", v) {
				out = append(out, doc)
				break
			}
		}
	}
	return out
}

func (m *memCollection) FindByProductKey(ctx context.Context, values []interface{}, out interface{}) error {
	return decodeAllInto(m.keyMatches(values), out)
}

func (m *memCollection) ObjectIDsByProductKey(ctx context.Context, values []interface{}) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for _, doc := range m.keyMatches(values) {
		ids = append(ids, doc["_id"].(primitive.ObjectID))
	}
	return ids, nil
}

func (m *memCollection) InsertOne(ctx context.Context, doc interface{}) (primitive.ObjectID, error) {
	bm, err := toBsonM(doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := bm["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		id = primitive.NewObjectID()
	}
	bm["_id"] = id
	m.docs[id] = bm
	m.order = append(m.order, id)
	return id, nil
}

func (m *memCollection) UpdateOneByObjectID(ctx context.Context, id primitive.ObjectID, set bson.M) (int64, error) {
	doc, ok := m.docs[id]
	if !ok {
		return 0, nil
	}
	for k, v := range set {
		// normalize values through bson, mirroring the driver
		bm, err := toBsonM(bson.M{"v": v})
		if err != nil {
			return 0, err
		}
		doc[k] = bm["v"]
	}
	return 1, nil
}

func (m *memCollection) DeleteOneByObjectID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if _, ok := m.docs[id]; !ok {
		return 0, nil
	}
	delete(m.docs, id)
	for i, other := range m.order {
		if other == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

// fakeRefChecker is a canned-answer RefChecker.
type fakeRefChecker struct {
	products map[int64]bool
	clients  map[int64]bool
}

func (f *fakeRefChecker) ProductExists(ctx context.Context, id int64) (bool, error) {
	return f.products[id], nil
}

func (f *fakeRefChecker) ClientExists(ctx context.Context, id int64) (bool, error) {
	return f.clients[id], nil
}
