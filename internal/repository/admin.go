package repository

import (
	"context"
	"errors"

	"vzsocial/internal/models"

	"gorm.io/gorm"
)

// AdminRepository defines admin user persistence.
type AdminRepository interface {
	Create(ctx context.Context, admin *models.AdminUser) error
	GetByLogin(ctx context.Context, emailOrUsername string) (*models.AdminUser, error)
	List(ctx context.Context) ([]models.AdminUser, error)
	UpdateRole(ctx context.Context, id uint, role string) error
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new admin repository.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Email or username already taken")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// GetByLogin matches either the email or the username. It returns nil, nil on no match.
func (r *adminRepository) GetByLogin(ctx context.Context, emailOrUsername string) (*models.AdminUser, error) {
	var admin models.AdminUser
	err := r.db.WithContext(ctx).
		Where("email = ? OR username = ?", emailOrUsername, emailOrUsername).
		First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &admin, nil
}

func (r *adminRepository) List(ctx context.Context) ([]models.AdminUser, error) {
	var admins []models.AdminUser
	if err := readDB(r.db).WithContext(ctx).Order("id ASC").Find(&admins).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return admins, nil
}

func (r *adminRepository) UpdateRole(ctx context.Context, id uint, role string) error {
	res := r.db.WithContext(ctx).Model(&models.AdminUser{}).Where("id = ?", id).Update("user_type", role)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Admin user", id)
	}
	return nil
}
