// internal/services/review_service_test.go
package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetcake/sweetcake-backend/internal/apperrors"
	"github.com/sweetcake/sweetcake-backend/internal/models"
)

func newReviewService(col *memCollection, refs *fakeRefChecker) *ReviewService {
	if refs == nil {
		refs = &fakeRefChecker{
			products: map[int64]bool{42: true},
			clients:  map[int64]bool{1: true},
		}
	}
	return NewReviewService(col, refs)
}

func TestRatingBounds(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "valid", input: `5`, want: 5},
		{name: "lower bound", input: `1`, want: 1},
		{name: "numeric string coerces", input: `"4"`, want: 4},
		{name: "out of bounds high", input: `6`, wantErr: true},
		{name: "out of bounds low", input: `0`, wantErr: true},
		{name: "fractional", input: `4.5`, wantErr: true},
		{name: "garbage string", input: `"great"`, wantErr: true},
		{name: "null is absent", input: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Rating
			err := json.Unmarshal([]byte(tt.input), &r)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.Validation(""))
				return
			}
			require.NoError(t, err)
			v, ok := r.Value()
			if tt.input == `null` {
				assert.False(t, ok)
			} else {
				assert.True(t, ok)
				assert.Equal(t, tt.want, v)
			}
		})
	}
}

func TestCreateReviewRejectsOutOfBoundsNote(t *testing.T) {
	// binding the body already fails, before any store is touched
	var req CreateReviewRequest
	err := json.Unmarshal([]byte(`{"productId": 42, "clientId": "1", "commentaire": "ok", "note": 6}`), &req)
	assert.ErrorIs(t, err, apperrors.Validation(""))
}

func TestCreateReviewRequiredFields(t *testing.T) {
	svc := newReviewService(newMemCollection(), nil)

	tests := []struct {
		name string
		req  CreateReviewRequest
	}{
		{"missing productId", CreateReviewRequest{ClientID: "1", Commentaire: "ok"}},
		{"missing clientId", CreateReviewRequest{ProductID: models.NativeRef(42), Commentaire: "ok"}},
		{"missing commentaire", CreateReviewRequest{ProductID: models.NativeRef(42), ClientID: "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateReview(context.Background(), &tt.req)
			assert.ErrorIs(t, err, apperrors.Validation(""))
		})
	}
}

func TestCreateReviewExistenceChecks(t *testing.T) {
	refs := &fakeRefChecker{products: map[int64]bool{42: true}, clients: map[int64]bool{1: true}}
	svc := newReviewService(newMemCollection(), refs)

	t.Run("native product ref must exist", func(t *testing.T) {
		_, err := svc.CreateReview(context.Background(), &CreateReviewRequest{
			ProductID: models.NativeRef(99), ClientID: "1", Commentaire: "ok",
		})
		assert.ErrorIs(t, err, apperrors.Validation(""))
	})

	t.Run("integer-form client ref must exist", func(t *testing.T) {
		_, err := svc.CreateReview(context.Background(), &CreateReviewRequest{
			ProductID: models.NativeRef(42), ClientID: "77", Commentaire: "ok",
		})
		assert.ErrorIs(t, err, apperrors.Validation(""))
	})

	t.Run("external refs are opaque and pass", func(t *testing.T) {
		review, err := svc.CreateReview(context.Background(), &CreateReviewRequest{
			ProductID: models.ExternalRef("sku-croissant"), ClientID: "client_123", Commentaire: "ok",
		})
		require.NoError(t, err)
		assert.False(t, review.ID.IsZero())
		assert.False(t, review.DateDePublication.IsZero())
	})
}

func TestCreateReviewPersistsOptionalNote(t *testing.T) {
	col := newMemCollection()
	svc := newReviewService(col, nil)

	var note Rating
	require.NoError(t, json.Unmarshal([]byte(`5`), &note))

	created, err := svc.CreateReview(context.Background(), &CreateReviewRequest{
		ProductID: models.NativeRef(42), ClientID: "1", Commentaire: "parfait", Note: note,
	})
	require.NoError(t, err)
	require.NotNil(t, created.Note)
	assert.Equal(t, 5, *created.Note)

	var stored models.Review
	require.NoError(t, col.FindOneByObjectID(context.Background(), created.ID, &stored))
	require.NotNil(t, stored.Note)
	assert.Equal(t, 5, *stored.Note)
}

func TestGetReviewsFansOutOnForeignKey(t *testing.T) {
	col := newMemCollection()
	svc := newReviewService(col, nil)

	col.seed(&models.Review{ProductID: models.NativeRef(42), ClientID: "1", Commentaire: "a"})
	col.seed(&models.Review{ProductID: models.NativeRef(42), ClientID: "2", Commentaire: "b"})
	col.seed(&models.Review{ProductID: models.NativeRef(7), ClientID: "1", Commentaire: "c"})

	reviews, err := svc.GetReviews(context.Background(), "42")
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestUpdateReviewAmbiguousForeignKey(t *testing.T) {
	col := newMemCollection()
	svc := newReviewService(col, nil)

	col.seed(&models.Review{ProductID: models.NativeRef(42), ClientID: "1", Commentaire: "a"})
	col.seed(&models.Review{ProductID: models.NativeRef(42), ClientID: "2", Commentaire: "b"})

	commentaire := "changed"
	_, err := svc.UpdateReview(context.Background(), "42", &UpdateReviewRequest{Commentaire: &commentaire})
	assert.ErrorIs(t, err, apperrors.Ambiguous("", 0))
}

func TestUpdateReviewByObjectID(t *testing.T) {
	col := newMemCollection()
	svc := newReviewService(col, nil)

	id := col.seed(&models.Review{ProductID: models.NativeRef(42), ClientID: "1", Commentaire: "old"})

	commentaire := "new"
	updated, err := svc.UpdateReview(context.Background(), id.Hex(), &UpdateReviewRequest{Commentaire: &commentaire})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Commentaire)
	// untouched fields survive
	assert.Equal(t, "1", updated.ClientID)
}

func TestUpdateReviewNothingToUpdate(t *testing.T) {
	col := newMemCollection()
	svc := newReviewService(col, nil)
	id := col.seed(&models.Review{ProductID: models.NativeRef(42), ClientID: "1", Commentaire: "a"})

	_, err := svc.UpdateReview(context.Background(), id.Hex(), &UpdateReviewRequest{})
	assert.ErrorIs(t, err, apperrors.Validation(""))
}

func TestDeleteReviewNotFound(t *testing.T) {
	svc := newReviewService(newMemCollection(), nil)

	err := svc.DeleteReview(context.Background(), "42")
	assert.ErrorIs(t, err, apperrors.NotFound(""))
}
