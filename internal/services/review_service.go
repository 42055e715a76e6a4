// internal/services/review_service.go
package services

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/sweetcake/sweetcake-backend/internal/apperrors"
	"github.com/sweetcake/sweetcake-backend/internal/docstore"
	"github.com/sweetcake/sweetcake-backend/internal/models"
)

type ReviewService struct {
	col      docstore.Collection
	resolver *docstore.Resolver
	refs     RefChecker
}

// Rating is the optional 1-5 note. It accepts JSON numbers and numeric
// strings but only integral values within bounds.
type Rating struct {
	value int
	set   bool
}

func (r Rating) Value() (int, bool) { return r.value, r.set }

func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.set {
		return []byte("null"), nil
	}
	return json.Marshal(r.value)
}

func (r *Rating) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*r = Rating{}
		return nil
	case float64:
		if v != math.Trunc(v) {
			return errRatingBounds
		}
		return r.assign(int(v))
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return errRatingBounds
		}
		return r.assign(n)
	default:
		return errRatingBounds
	}
}

func (r *Rating) assign(n int) error {
	if n < 1 || n > 5 {
		return errRatingBounds
	}
	*r = Rating{value: n, set: true}
	return nil
}

var errRatingBounds = apperrors.ValidationField("note", "note must be an integer between 1 and 5")

type CreateReviewRequest struct {
	ProductID         models.ProductRef `json:"productId"`
	ClientID          string            `json:"clientId"`
	Commentaire       string            `json:"commentaire"`
	DateDePublication *time.Time        `json:"dateDePublication"`
	Note              Rating            `json:"note"`
}

type UpdateReviewRequest struct {
	ProductID   models.ProductRef `json:"productId"`
	ClientID    *string           `json:"clientId"`
	Commentaire *string           `json:"commentaire"`
	Note        Rating            `json:"note"`
}

func NewReviewService(col docstore.Collection, refs RefChecker) *ReviewService {
	return &ReviewService{
		col:      col,
		resolver: docstore.NewResolver(col),
		refs:     refs,
	}
}

// checkClientRef existence-checks a client reference only when it is in
// integer form; other strings are opaque external keys.
func (s *ReviewService) checkClientRef(ctx context.Context, clientID string) error {
	id, err := strconv.ParseInt(clientID, 10, 64)
	if err != nil {
		return nil
	}
	exists, err := s.refs.ClientExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ValidationField("clientId", "referenced client does not exist")
	}
	return nil
}

func (s *ReviewService) CreateReview(ctx context.Context, req *CreateReviewRequest) (*models.Review, error) {
	if !req.ProductID.IsSet() {
		return nil, apperrors.ValidationField("productId", "productId is required")
	}
	if req.ClientID == "" {
		return nil, apperrors.ValidationField("clientId", "clientId is required")
	}
	if req.Commentaire == "" {
		return nil, apperrors.ValidationField("commentaire", "commentaire is required")
	}

	if err := checkProductRef(ctx, s.refs, req.ProductID); err != nil {
		return nil, err
	}
	if err := s.checkClientRef(ctx, req.ClientID); err != nil {
		return nil, err
	}

	review := &models.Review{
		ProductID:         req.ProductID,
		ClientID:          req.ClientID,
		Commentaire:       req.Commentaire,
		DateDePublication: time.Now(),
	}
	if req.DateDePublication != nil {
		review.DateDePublication = *req.DateDePublication
	}
	if note, ok := req.Note.Value(); ok {
		review.Note = &note
	}

	id, err := s.col.InsertOne(ctx, review)
	if err != nil {
		return nil, apperrors.Storage("inserting review", err)
	}
	review.ID = id

	return review, nil
}

func (s *ReviewService) ListReviews(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.col.FindAll(ctx, &reviews); err != nil {
		return nil, apperrors.Storage("listing reviews", err)
	}
	return reviews, nil
}

// GetReviews resolves a path identifier to one or several reviews; a product
// foreign key fans out to every review of that product.
func (s *ReviewService) GetReviews(ctx context.Context, rawID string) ([]models.Review, error) {
	return docstore.ResolveRead[models.Review](ctx, s.resolver, rawID)
}

func (s *ReviewService) UpdateReview(ctx context.Context, rawID string, req *UpdateReviewRequest) (*models.Review, error) {
	set := bson.M{}
	if req.ProductID.IsSet() {
		if err := checkProductRef(ctx, s.refs, req.ProductID); err != nil {
			return nil, err
		}
		set["productId"] = req.ProductID
	}
	if req.ClientID != nil {
		if *req.ClientID == "" {
			return nil, apperrors.ValidationField("clientId", "clientId must not be empty")
		}
		if err := s.checkClientRef(ctx, *req.ClientID); err != nil {
			return nil, err
		}
		set["clientId"] = *req.ClientID
	}
	if req.Commentaire != nil {
		if *req.Commentaire == "" {
			return nil, apperrors.ValidationField("commentaire", "commentaire must not be empty")
		}
		set["commentaire"] = *req.Commentaire
	}
	if note, ok := req.Note.Value(); ok {
		set["note"] = note
	}
	if len(set) == 0 {
		return nil, apperrors.Validation("nothing to update")
	}

	oid, err := s.resolver.ResolveMutate(ctx, rawID)
	if err != nil {
		return nil, err
	}

	matched, err := s.col.UpdateOneByObjectID(ctx, oid, set)
	if err != nil {
		return nil, apperrors.Storage("updating review", err)
	}
	if matched == 0 {
		return nil, apperrors.NotFound("avis")
	}

	var review models.Review
	if err := s.col.FindOneByObjectID(ctx, oid, &review); err != nil {
		return nil, apperrors.Storage("reloading review", err)
	}
	return &review, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, rawID string) error {
	oid, err := s.resolver.ResolveMutate(ctx, rawID)
	if err != nil {
		return err
	}

	deleted, err := s.col.DeleteOneByObjectID(ctx, oid)
	if err != nil {
		return apperrors.Storage("deleting review", err)
	}
	if deleted == 0 {
		return apperrors.NotFound("avis")
	}
	return nil
}
