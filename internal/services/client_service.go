// internal/services/client_service.go
package services

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/sweetcake/sweetcake-backend/internal/apperrors"
	"github.com/sweetcake/sweetcake-backend/internal/models"
	"github.com/sweetcake/sweetcake-backend/internal/utils"
)

type ClientService struct {
	db *gorm.DB
}

type CreateClientRequest struct {
	Nom       string `json:"nom" validate:"required,min=1,max=255"`
	Email     string `json:"email" validate:"required,email"`
	Adresse   string `json:"adresse"`
	Telephone string `json:"telephone" validate:"omitempty,max=30"`
}

type UpdateClientRequest struct {
	Nom       *string `json:"nom" validate:"omitempty,min=1,max=255"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Adresse   *string `json:"adresse"`
	Telephone *string `json:"telephone" validate:"omitempty,max=30"`
}

func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{db: db}
}

func (s *ClientService) CreateClient(ctx context.Context, req *CreateClientRequest) (*models.Client, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("invalid client").WithDetails(utils.ValidationDetails(err))
	}

	client := &models.Client{
		Nom:       req.Nom,
		Email:     req.Email,
		Adresse:   req.Adresse,
		Telephone: req.Telephone,
	}

	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("email already in use")
		}
		return nil, apperrors.Storage("creating client", err)
	}

	return client, nil
}

func (s *ClientService) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.WithContext(ctx).Order("id_client").Find(&clients).Error; err != nil {
		return nil, apperrors.Storage("listing clients", err)
	}
	return clients, nil
}

func (s *ClientService) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	if err := s.db.WithContext(ctx).First(&client, "id_client = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("client")
		}
		return nil, apperrors.Storage("fetching client", err)
	}
	return &client, nil
}

func (s *ClientService) UpdateClient(ctx context.Context, id int64, req *UpdateClientRequest) (*models.Client, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("invalid client").WithDetails(utils.ValidationDetails(err))
	}

	updates := make(map[string]interface{})
	if req.Nom != nil {
		updates["nom"] = *req.Nom
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Adresse != nil {
		updates["adresse"] = *req.Adresse
	}
	if req.Telephone != nil {
		updates["telephone"] = *req.Telephone
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("nothing to update")
	}

	var client models.Client
	if err := s.db.WithContext(ctx).First(&client, "id_client = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("client")
		}
		return nil, apperrors.Storage("fetching client", err)
	}

	if err := s.db.WithContext(ctx).Model(&client).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("email already in use")
		}
		return nil, apperrors.Storage("updating client", err)
	}

	return &client, nil
}

func (s *ClientService) DeleteClient(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.Client{}, "id_client = ?", id)
	if res.Error != nil {
		return apperrors.Storage("deleting client", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("client")
	}
	return nil
}

// isUniqueViolation reports whether err is a unique-constraint violation
// surfaced by the postgres driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
