// internal/services/existence.go
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/sweetcake/sweetcake-backend/internal/apperrors"
	"github.com/sweetcake/sweetcake-backend/internal/models"
)

// RefChecker answers cross-store existence questions for integer-form
// references found in documents. String-form external references are never
// checked; they are accepted as opaque.
type RefChecker interface {
	ProductExists(ctx context.Context, id int64) (bool, error)
	ClientExists(ctx context.Context, id int64) (bool, error)
}

type gormRefChecker struct {
	db *gorm.DB
}

func NewRefChecker(db *gorm.DB) RefChecker {
	return &gormRefChecker{db: db}
}

func (c *gormRefChecker) ProductExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&models.Product{}).Where("id_produit = ?", id).Count(&count).Error
	if err != nil {
		return false, apperrors.Storage("checking product existence", err)
	}
	return count > 0, nil
}

func (c *gormRefChecker) ClientExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&models.Client{}).Where("id_client = ?", id).Count(&count).Error
	if err != nil {
		return false, apperrors.Storage("checking client existence", err)
	}
	return count > 0, nil
}
