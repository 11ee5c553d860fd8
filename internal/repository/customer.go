package repository

import (
	"context"
	"errors"

	"vzsocial/internal/models"
	"vzsocial/internal/observability"

	"gorm.io/gorm"
)

// CustomerRepository defines persistence operations for accounts.
type CustomerRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	GetByIDs(ctx context.Context, ids []uint) (map[uint]*models.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*models.Customer, error)
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	UpdateToken(ctx context.Context, id uint, token string) error
	ListActive(ctx context.Context) ([]models.Customer, error)
	ListSuggestions(ctx context.Context, exclude []uint, limit int) ([]models.Customer, error)
}

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository returns a new CustomerRepository implementation.
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	defer observability.TrackQuery("select", "customers")()

	var customer models.Customer
	if err := readDB(r.db).WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, notFoundOr(err, "Customer", id)
	}
	return &customer, nil
}

// GetByIDs resolves accounts in one query. Missing ids are absent from the map.
func (r *customerRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]*models.Customer, error) {
	out := make(map[uint]*models.Customer, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	defer observability.TrackQuery("select", "customers")()

	var customers []models.Customer
	if err := readDB(r.db).WithContext(ctx).Where("id IN ?", ids).Find(&customers).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range customers {
		out[customers[i].ID] = &customers[i]
	}
	return out, nil
}

// GetByPhone returns nil, nil when no account uses the phone number.
func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &customer, nil
}

// GetByEmail returns nil, nil when no account uses the email.
func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &customer, nil
}

func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Email or phone already registered")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *customerRepository) UpdateToken(ctx context.Context, id uint, token string) error {
	res := r.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Update("token", token)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Customer", id)
	}
	return nil
}

// ListActive returns every account that is not soft-deleted, oldest first.
func (r *customerRepository) ListActive(ctx context.Context) ([]models.Customer, error) {
	defer observability.TrackQuery("select", "customers")()

	var customers []models.Customer
	if err := readDB(r.db).WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("id ASC").
		Find(&customers).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return customers, nil
}

// ListSuggestions returns up to limit active accounts whose ids are not in exclude.
func (r *customerRepository) ListSuggestions(ctx context.Context, exclude []uint, limit int) ([]models.Customer, error) {
	defer observability.TrackQuery("select", "customers")()

	q := readDB(r.db).WithContext(ctx).Where("is_deleted = ?", false)
	if len(exclude) > 0 {
		q = q.Where("id NOT IN ?", exclude)
	}

	var customers []models.Customer
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&customers).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return customers, nil
}
