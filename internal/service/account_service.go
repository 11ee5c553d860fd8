package service

import (
	"context"
	"strings"

	"vzsocial/internal/cache"
	"vzsocial/internal/models"
	"vzsocial/internal/repository"
	"vzsocial/internal/validation"
)

type AccountService struct {
	customerRepo repository.CustomerRepository
	postRepo     repository.PostRepository
	followRepo   repository.FollowRepository
	engagement   *EngagementCounter
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Gender   string
	Token    string
}

type LoginInput struct {
	Phone    string
	Password string
	Token    string
}

// CustomerDetail is the account summary returned on register and login.
type CustomerDetail struct {
	CustomerID     uint   `json:"customer_id"`
	Name           string `json:"customer_name"`
	Email          string `json:"customer_email"`
	Phone          string `json:"customer_phone"`
	ProfileImage   string `json:"profileImage"`
	Subscription   string `json:"subscription"`
	CustomerStatus string `json:"customer_status"`
}

// DetailOf summarizes c for auth responses.
func DetailOf(c *models.Customer) CustomerDetail {
	return CustomerDetail{
		CustomerID:     c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		ProfileImage:   c.DisplayImage(),
		Subscription:   c.Subscription,
		CustomerStatus: c.CustomerStatus,
	}
}

func NewAccountService(
	customerRepo repository.CustomerRepository,
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
	engagement *EngagementCounter,
) *AccountService {
	return &AccountService{
		customerRepo: customerRepo,
		postRepo:     postRepo,
		followRepo:   followRepo,
		engagement:   engagement,
	}
}

func validGender(g string) bool {
	switch g {
	case models.GenderMale, models.GenderFemale, models.GenderOther:
		return true
	}
	return false
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)

	if in.Name == "" || in.Email == "" || in.Phone == "" || in.Password == "" || in.Gender == "" {
		return nil, models.NewValidationError("All fields are required: name, email, phone, password, gender")
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError("Invalid email address")
	}
	if err := validation.ValidatePhone(in.Phone); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if !validGender(in.Gender) {
		return nil, models.NewValidationError("gender must be one of Male, Female, Other")
	}

	if existing, err := s.customerRepo.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Email already exists")
	}
	if existing, err := s.customerRepo.GetByPhone(ctx, in.Phone); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Phone number already exists")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	customer := &models.Customer{
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
		Password:       hash,
		Gender:         in.Gender,
		DeviceToken:    in.Token,
		ProfileImage:   models.DefaultProfileImage,
		Interests:      []string{},
		Subscription:   "free",
		CustomerStatus: "active",
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *AccountService) Login(ctx context.Context, in LoginInput) (*models.Customer, error) {
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Phone == "" || in.Password == "" {
		return nil, models.NewValidationError("Phone & Password are required")
	}

	customer, err := s.customerRepo.GetByPhone(ctx, in.Phone)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.IsDeleted {
		return nil, models.NewNotFoundError("Customer", in.Phone)
	}

	ok, err := verifyPassword(customer.Password, in.Password)
	if err != nil || !ok {
		return nil, models.NewUnauthorizedError("Invalid password")
	}

	if in.Token != "" {
		if err := s.customerRepo.UpdateToken(ctx, customer.ID, in.Token); err != nil {
			return nil, err
		}
		customer.DeviceToken = in.Token
	}
	return customer, nil
}

// PhoneExists reports whether an account already uses phone.
func (s *AccountService) PhoneExists(ctx context.Context, phone string) (bool, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return false, models.NewValidationError("Phone number is required")
	}
	customer, err := s.customerRepo.GetByPhone(ctx, phone)
	if err != nil {
		return false, err
	}
	return customer != nil, nil
}

// profileSnapshot is the viewer-independent part of a profile, safe to cache.
type profileSnapshot struct {
	Customer  models.Customer `json:"customer"`
	Followers int64           `json:"followers"`
	Following int64           `json:"following"`
	Posts     []models.Post   `json:"posts"`
	Reels     []models.Post   `json:"reels"`
}

// Profile returns the account with follower counts and media. The snapshot is
// cached briefly; engagement counters are computed for the viewer every time.
func (s *AccountService) Profile(ctx context.Context, id, viewerID uint) (*models.Profile, error) {
	if id == 0 {
		return nil, models.NewValidationError("customer id is required")
	}

	var snap profileSnapshot
	err := cache.Aside(ctx, cache.ProfileKey(id), &snap, cache.ProfileTTL, func() error {
		return s.loadProfile(ctx, id, &snap)
	})
	if err != nil {
		return nil, err
	}

	posts, err := enrichPosts(ctx, s.customerRepo, s.engagement, snap.Posts, viewerID)
	if err != nil {
		return nil, err
	}
	reels, err := enrichPosts(ctx, s.customerRepo, s.engagement, snap.Reels, viewerID)
	if err != nil {
		return nil, err
	}

	customer := snap.Customer
	return &models.Profile{
		Customer:  &customer,
		Followers: snap.Followers,
		Following: snap.Following,
		Posts:     posts,
		Reels:     reels,
	}, nil
}

func (s *AccountService) loadProfile(ctx context.Context, id uint, snap *profileSnapshot) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer.IsDeleted {
		return models.NewNotFoundError("Customer", id)
	}
	followers, err := s.followRepo.CountFollowers(ctx, id)
	if err != nil {
		return err
	}
	following, err := s.followRepo.CountFollowing(ctx, id)
	if err != nil {
		return err
	}
	posts, err := s.postRepo.ByCustomer(ctx, id, models.PostTypePost, models.MediaTypeImage)
	if err != nil {
		return err
	}
	reels, err := s.postRepo.ByCustomer(ctx, id, models.PostTypeReel, models.MediaTypeVideo)
	if err != nil {
		return err
	}

	*snap = profileSnapshot{
		Customer:  *customer,
		Followers: followers,
		Following: following,
		Posts:     posts,
		Reels:     reels,
	}
	return nil
}
