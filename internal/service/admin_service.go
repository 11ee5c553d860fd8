package service

import (
	"context"
	"strings"

	"vzsocial/internal/models"
	"vzsocial/internal/repository"
	"vzsocial/internal/validation"
)

type AdminService struct {
	adminRepo repository.AdminRepository
}

type RegisterAdminInput struct {
	Name     string
	Email    string
	Username string
	Password string
	UserType string
}

func NewAdminService(adminRepo repository.AdminRepository) *AdminService {
	return &AdminService{adminRepo: adminRepo}
}

// Register creates a back-office account. grantedBy is the role of the
// admin making the call, empty for anonymous callers; only an admin may
// create an account above the user role.
func (s *AdminService) Register(ctx context.Context, in RegisterAdminInput, grantedBy string) (*models.AdminUser, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	if in.Name == "" || in.Email == "" || in.Username == "" || in.Password == "" {
		return nil, models.NewValidationError("name, email, username and password are required")
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError("Invalid email address")
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.UserType == "" {
		in.UserType = models.AdminRoleUser
	}
	if !models.ValidAdminRole(in.UserType) {
		return nil, models.NewValidationError("userType must be one of admin, user, moderator")
	}
	if in.UserType != models.AdminRoleUser && grantedBy != models.AdminRoleAdmin {
		return nil, models.NewForbiddenError("only an admin can create " + in.UserType + " accounts")
	}

	hash, err := HashAdminPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	admin := &models.AdminUser{
		Name:     in.Name,
		Email:    in.Email,
		Username: in.Username,
		Password: hash,
		UserType: in.UserType,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *AdminService) Login(ctx context.Context, emailOrUsername, password string) (*models.AdminUser, error) {
	login := strings.TrimSpace(emailOrUsername)
	if login == "" || password == "" {
		return nil, models.NewValidationError("emailOrUsername and password are required")
	}
	if strings.Contains(login, "@") {
		login = strings.ToLower(login)
	}

	admin, err := s.adminRepo.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if admin == nil || !checkAdminPassword(admin.Password, password) {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return admin, nil
}

func (s *AdminService) List(ctx context.Context) ([]models.AdminUser, error) {
	admins, err := s.adminRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if admins == nil {
		admins = []models.AdminUser{}
	}
	return admins, nil
}

// SetRole changes the back-office role of the account matching emailOrUsername.
func (s *AdminService) SetRole(ctx context.Context, emailOrUsername, role string) (*models.AdminUser, error) {
	if !models.ValidAdminRole(role) {
		return nil, models.NewValidationError("userType must be one of admin, user, moderator")
	}
	login := strings.TrimSpace(emailOrUsername)
	if strings.Contains(login, "@") {
		login = strings.ToLower(login)
	}
	admin, err := s.adminRepo.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, models.NewNotFoundError("Admin user", login)
	}
	if admin.UserType == role {
		return admin, nil
	}
	if err := s.adminRepo.UpdateRole(ctx, admin.ID, role); err != nil {
		return nil, err
	}
	admin.UserType = role
	return admin, nil
}
