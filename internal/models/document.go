// internal/models/document.go
package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductRef is the polymorphic product/relational key used by documents: it
// is either a native integer id from Postgres or an opaque external string.
// Numbers and numeric strings coerce to the native form; any other non-empty
// string is kept as an external reference.
type ProductRef struct {
	native   int64
	external string
	isNative bool
	set      bool
}

func NativeRef(id int64) ProductRef {
	return ProductRef{native: id, isNative: true, set: true}
}

func ExternalRef(key string) ProductRef {
	return ProductRef{external: key, set: true}
}

// ParseRef applies the coercion rules to a raw string.
func ParseRef(raw string) (ProductRef, error) {
	if raw == "" {
		return ProductRef{}, fmt.Errorf("empty product reference")
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return NativeRef(n), nil
	}
	return ExternalRef(raw), nil
}

// IsSet reports whether the reference was supplied at all. Partial updates
// rely on this to skip absent fields.
func (r ProductRef) IsSet() bool { return r.set }

// Native returns the integer form when the reference is native.
func (r ProductRef) Native() (int64, bool) {
	return r.native, r.isNative
}

// External returns the string form when the reference is external.
func (r ProductRef) External() (string, bool) {
	if r.isNative {
		return "", false
	}
	return r.external, r.set
}

func (r ProductRef) String() string {
	if r.isNative {
		return strconv.FormatInt(r.native, 10)
	}
	return r.external
}

// QueryValues returns every stored representation this reference may have in
// the document store. Native ids are persisted both as numbers and as
// numeric strings, so lookups must match either form.
func (r ProductRef) QueryValues() []interface{} {
	if r.isNative {
		return []interface{}{r.native, strconv.FormatInt(r.native, 10)}
	}
	return []interface{}{r.external}
}

func (r ProductRef) MarshalJSON() ([]byte, error) {
	if !r.set {
		return []byte("null"), nil
	}
	if r.isNative {
		return json.Marshal(r.native)
	}
	return json.Marshal(r.external)
}

func (r *ProductRef) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*r = ProductRef{}
		return nil
	case float64:
		if v != math.Trunc(v) {
			return fmt.Errorf("product reference must be an integer, got %v", v)
		}
		*r = NativeRef(int64(v))
		return nil
	case string:
		ref, err := ParseRef(v)
		if err != nil {
			return err
		}
		*r = ref
		return nil
	default:
		return fmt.Errorf("product reference must be a number or string, got %T", raw)
	}
}

func (r ProductRef) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if r.isNative {
		return bson.MarshalValue(r.native)
	}
	return bson.MarshalValue(r.external)
}

func (r *ProductRef) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Int32:
		*r = NativeRef(int64(raw.Int32()))
	case bsontype.Int64:
		*r = NativeRef(raw.Int64())
	case bsontype.Double:
		f := raw.Double()
		if f != math.Trunc(f) {
			return fmt.Errorf("product reference must be an integer, got %v", f)
		}
		*r = NativeRef(int64(f))
	case bsontype.String:
		ref, err := ParseRef(raw.StringValue())
		if err != nil {
			return err
		}
		*r = ref
	default:
		return fmt.Errorf("unexpected bson type %s for product reference", t)
	}
	return nil
}

// Recipe is a document in the `recette` collection.
type Recipe struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	ProductID   ProductRef         `json:"productId" bson:"productId"`
	Ingredients []string           `json:"ingredients" bson:"ingredients"`
	Etapes      []string           `json:"etapes" bson:"etapes"`
	CreatedBy   string             `json:"createdBy" bson:"createdBy"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

// Review is a document in the `avis` collection. Note is optional and, when
// present, an integer in [1, 5].
type Review struct {
	ID                primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	ProductID         ProductRef         `json:"productId" bson:"productId"`
	ClientID          string             `json:"clientId" bson:"clientId"`
	Commentaire       string             `json:"commentaire" bson:"commentaire"`
	DateDePublication time.Time          `json:"dateDePublication" bson:"dateDePublication"`
	Note              *int               `json:"note,omitempty" bson:"note,omitempty"`
}
