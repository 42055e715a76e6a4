// internal/docstore/resolver.go
package docstore

import (
	"context"
	"errors"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sweetcake/sweetcake-backend/internal/apperrors"
)

// Identifier is a classified path id: a document-native ObjectID, an integer
// foreign key, or both (a 24-digit decimal string is valid hex too, so the
// two interpretations can overlap and must be tried in order).
type Identifier struct {
	raw      string
	objectID primitive.ObjectID
	isOID    bool
	key      int64
	isKey    bool
}

// ParseIdentifier classifies a raw path segment. It fails with a validation
// error before either store is touched when the segment is neither a valid
// ObjectID hex nor parseable as an integer.
func ParseIdentifier(raw string) (Identifier, error) {
	id := Identifier{raw: raw}

	if oid, err := primitive.ObjectIDFromHex(raw); err == nil {
		id.objectID = oid
		id.isOID = true
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		id.key = n
		id.isKey = true
	}

	if !id.isOID && !id.isKey {
		return Identifier{}, apperrors.Validation("invalid identifier: " + raw)
	}
	return id, nil
}

// keyValues returns the representations an integer key may have in the
// store (stored as number or as numeric string).
func (id Identifier) keyValues() []interface{} {
	return []interface{}{id.key, strconv.FormatInt(id.key, 10)}
}

// Resolver resolves path identifiers against one document collection.
type Resolver struct {
	col Collection
}

func NewResolver(col Collection) *Resolver {
	return &Resolver{col: col}
}

// ResolveRead fetches every document the identifier denotes. Native-id
// resolution short-circuits with a single document; foreign-key resolution
// may fan out to several. Zero matches on both paths is a not-found outcome.
func ResolveRead[T any](ctx context.Context, r *Resolver, raw string) ([]T, error) {
	id, err := ParseIdentifier(raw)
	if err != nil {
		return nil, err
	}

	if id.isOID {
		var doc T
		err := r.col.FindOneByObjectID(ctx, id.objectID, &doc)
		if err == nil {
			return []T{doc}, nil
		}
		if !errors.Is(err, ErrNoDocument) {
			return nil, apperrors.Storage("looking up document by id", err)
		}
		// fall through to the foreign-key interpretation
	}

	if !id.isKey {
		return nil, apperrors.NotFound("document")
	}

	var docs []T
	if err := r.col.FindByProductKey(ctx, id.keyValues(), &docs); err != nil {
		return nil, apperrors.Storage("looking up documents by product key", err)
	}
	if len(docs) == 0 {
		return nil, apperrors.NotFound("document")
	}
	return docs, nil
}

// ResolveMutate pins the identifier to exactly one document and returns its
// ObjectID. A foreign key matching several documents is an ambiguity error:
// mutation and deletion never guess among candidates.
func (r *Resolver) ResolveMutate(ctx context.Context, raw string) (primitive.ObjectID, error) {
	id, err := ParseIdentifier(raw)
	if err != nil {
		return primitive.NilObjectID, err
	}

	if id.isOID {
		var probe struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		err := r.col.FindOneByObjectID(ctx, id.objectID, &probe)
		if err == nil {
			return id.objectID, nil
		}
		if !errors.Is(err, ErrNoDocument) {
			return primitive.NilObjectID, apperrors.Storage("looking up document by id", err)
		}
	}

	if !id.isKey {
		return primitive.NilObjectID, apperrors.NotFound("document")
	}

	ids, err := r.col.ObjectIDsByProductKey(ctx, id.keyValues())
	if err != nil {
		return primitive.NilObjectID, apperrors.Storage("looking up documents by product key", err)
	}

	switch len(ids) {
	case 0:
		return primitive.NilObjectID, apperrors.NotFound("document")
	case 1:
		return ids[0], nil
	default:
		return primitive.NilObjectID, apperrors.Ambiguous(raw, len(ids))
	}
}
