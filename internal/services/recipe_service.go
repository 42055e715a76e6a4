// internal/services/recipe_service.go
package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/sweetcake/sweetcake-backend/internal/apperrors"
	"github.com/sweetcake/sweetcake-backend/internal/docstore"
	"github.com/sweetcake/sweetcake-backend/internal/models"
)

type RecipeService struct {
	col      docstore.Collection
	resolver *docstore.Resolver
	refs     RefChecker
}

type CreateRecipeRequest struct {
	ProductID   models.ProductRef `json:"productId"`
	Ingredients []string          `json:"ingredients"`
	Etapes      []string          `json:"etapes"`
	CreatedBy   string            `json:"createdBy"`
	CreatedAt   *time.Time        `json:"createdAt"`
}

type UpdateRecipeRequest struct {
	ProductID   models.ProductRef `json:"productId"`
	Ingredients []string          `json:"ingredients"`
	Etapes      []string          `json:"etapes"`
	CreatedBy   *string           `json:"createdBy"`
}

func NewRecipeService(col docstore.Collection, refs RefChecker) *RecipeService {
	return &RecipeService{
		col:      col,
		resolver: docstore.NewResolver(col),
		refs:     refs,
	}
}

// checkProductRef verifies a native product reference against Postgres.
// External string references pass through unchecked.
func checkProductRef(ctx context.Context, refs RefChecker, ref models.ProductRef) error {
	id, native := ref.Native()
	if !native {
		return nil
	}
	exists, err := refs.ProductExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ValidationField("productId", "referenced product does not exist")
	}
	return nil
}

// validateStringList enforces the non-empty-list-of-strings rule shared by
// ingredients and etapes.
func validateStringList(field string, list []string) error {
	if len(list) == 0 {
		return apperrors.ValidationField(field, field+" must be a non-empty list")
	}
	for _, item := range list {
		if item == "" {
			return apperrors.ValidationField(field, field+" must not contain empty strings")
		}
	}
	return nil
}

func (s *RecipeService) CreateRecipe(ctx context.Context, req *CreateRecipeRequest) (*models.Recipe, error) {
	// required-field presence first, field by field
	if !req.ProductID.IsSet() {
		return nil, apperrors.ValidationField("productId", "productId is required")
	}
	if err := validateStringList("ingredients", req.Ingredients); err != nil {
		return nil, err
	}
	if err := validateStringList("etapes", req.Etapes); err != nil {
		return nil, err
	}
	if req.CreatedBy == "" {
		return nil, apperrors.ValidationField("createdBy", "createdBy is required")
	}

	if err := checkProductRef(ctx, s.refs, req.ProductID); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		ProductID:   req.ProductID,
		Ingredients: req.Ingredients,
		Etapes:      req.Etapes,
		CreatedBy:   req.CreatedBy,
		CreatedAt:   time.Now(),
	}
	if req.CreatedAt != nil {
		recipe.CreatedAt = *req.CreatedAt
	}

	id, err := s.col.InsertOne(ctx, recipe)
	if err != nil {
		return nil, apperrors.Storage("inserting recipe", err)
	}
	recipe.ID = id

	return recipe, nil
}

func (s *RecipeService) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.col.FindAll(ctx, &recipes); err != nil {
		return nil, apperrors.Storage("listing recipes", err)
	}
	return recipes, nil
}

// GetRecipes resolves a path identifier to one or several recipes: a native
// document id yields exactly one, a product foreign key may fan out.
func (s *RecipeService) GetRecipes(ctx context.Context, rawID string) ([]models.Recipe, error) {
	return docstore.ResolveRead[models.Recipe](ctx, s.resolver, rawID)
}

func (s *RecipeService) UpdateRecipe(ctx context.Context, rawID string, req *UpdateRecipeRequest) (*models.Recipe, error) {
	set := bson.M{}
	if req.ProductID.IsSet() {
		if err := checkProductRef(ctx, s.refs, req.ProductID); err != nil {
			return nil, err
		}
		set["productId"] = req.ProductID
	}
	if req.Ingredients != nil {
		if err := validateStringList("ingredients", req.Ingredients); err != nil {
			return nil, err
		}
		set["ingredients"] = req.Ingredients
	}
	if req.Etapes != nil {
		if err := validateStringList("etapes", req.Etapes); err != nil {
			return nil, err
		}
		set["etapes"] = req.Etapes
	}
	if req.CreatedBy != nil {
		if *req.CreatedBy == "" {
			return nil, apperrors.ValidationField("createdBy", "createdBy must not be empty")
		}
		set["createdBy"] = *req.CreatedBy
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
		return nil, apperrors.Storage("updating recipe", err)
	}
	if matched == 0 {
		return nil, apperrors.NotFound("recette")
	}

	var recipe models.Recipe
	if err := s.col.FindOneByObjectID(ctx, oid, &recipe); err != nil {
		return nil, apperrors.Storage("reloading recipe", err)
	}
	return &recipe, nil
}

func (s *RecipeService) DeleteRecipe(ctx context.Context, rawID string) error {
	oid, err := s.resolver.ResolveMutate(ctx, rawID)
	if err != nil {
		return err
	}

	deleted, err := s.col.DeleteOneByObjectID(ctx, oid)
	if err != nil {
		return apperrors.Storage("deleting recipe", err)
	}
	if deleted == 0 {
		return apperrors.NotFound("recette")
	}
	return nil
}
