// internal/services/product_service.go
package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sweetcake/sweetcake-backend/internal/apperrors"
	"github.com/sweetcake/sweetcake-backend/internal/models"
	"github.com/sweetcake/sweetcake-backend/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	Nom           string          `json:"nom" validate:"required,min=1,max=255"`
	Categorie     string          `json:"categorie" validate:"omitempty,max=100"`
	Description   string          `json:"description"`
	Prix          decimal.Decimal `json:"prix"`
	QuantiteStock int             `json:"quantite_stock" validate:"min=0"`
}

type UpdateProductRequest struct {
	Nom           *string          `json:"nom" validate:"omitempty,min=1,max=255"`
	Categorie     *string          `json:"categorie" validate:"omitempty,max=100"`
	Description   *string          `json:"description"`
	Prix          *decimal.Decimal `json:"prix"`
	QuantiteStock *int             `json:"quantite_stock" validate:"omitempty,min=0"`
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("invalid product").WithDetails(utils.ValidationDetails(err))
	}
	if req.Prix.IsNegative() {
		return nil, apperrors.ValidationField("prix", "price must not be negative")
	}

	product := &models.Product{
		Nom:           req.Nom,
		Categorie:     req.Categorie,
		Description:   req.Description,
		Prix:          req.Prix,
		QuantiteStock: req.QuantiteStock,
	}

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, apperrors.Storage("creating product", err)
	}

	return product, nil
}

// productSortFields are the columns clients may sort the catalog by.
var productSortFields = []string{"id_produit", "nom", "prix", "quantite_stock", "categorie"}

func (s *ProductService) ListProducts(ctx context.Context, params utils.PaginationParams) ([]models.Product, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Storage("counting products", err)
	}

	var products []models.Product
	query := utils.ApplySort(s.db.WithContext(ctx), params, productSortFields)
	if params.Limit > 0 {
		query = utils.ApplyPagination(query, params)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, apperrors.Storage("listing products", err)
	}
	return products, total, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id_produit = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("produit")
		}
		return nil, apperrors.Storage("fetching product", err)
	}
	return &product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("invalid product").WithDetails(utils.ValidationDetails(err))
	}

	updates := make(map[string]interface{})
	if req.Nom != nil {
		updates["nom"] = *req.Nom
	}
	if req.Categorie != nil {
		updates["categorie"] = *req.Categorie
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Prix != nil {
		if req.Prix.IsNegative() {
			return nil, apperrors.ValidationField("prix", "price must not be negative")
		}
		updates["prix"] = *req.Prix
	}
	if req.QuantiteStock != nil {
		updates["quantite_stock"] = *req.QuantiteStock
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("nothing to update")
	}

	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id_produit = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("produit")
		}
		return nil, apperrors.Storage("fetching product", err)
	}

	if err := s.db.WithContext(ctx).Model(&product).Updates(updates).Error; err != nil {
		return nil, apperrors.Storage("updating product", err)
	}

	return &product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, "id_produit = ?", id)
	if res.Error != nil {
		return apperrors.Storage("deleting product", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("produit")
	}
	return nil
}
