package repository

import (
	"context"

	"vzsocial/internal/models"
	"vzsocial/internal/observability"

	"gorm.io/gorm"
)

// PostQuery selects live posts for a feed page.
type PostQuery struct {
	PostTypes []string
	MediaType string
	Limit     int
	Offset    int
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, q PostQuery) ([]models.Post, error)
	Sample(ctx context.Context, postType string, limit int) ([]models.Post, error)
	LatestByAccount(ctx context.Context, customerIDs []uint, postType string) (map[uint]models.Post, error)
	ByCustomer(ctx context.Context, customerID uint, postType, mediaType string) ([]models.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) live(ctx context.Context) *gorm.DB {
	return readDB(r.db).WithContext(ctx).Model(&models.Post{}).Where("is_deleted = ?", false)
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", "posts")()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.live(ctx).First(&post, id).Error; err != nil {
		return nil, notFoundOr(err, "Post", id)
	}
	return &post, nil
}

// List returns live posts newest first. Ties on created_at break on id.
func (r *postRepository) List(ctx context.Context, q PostQuery) ([]models.Post, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "List", "posts")
	defer span.End()
	defer observability.TrackQuery("select", "posts")()

	db := r.live(ctx)
	if len(q.PostTypes) > 0 {
		db = db.Where("post_type IN ?", q.PostTypes)
	}
	if q.MediaType != "" {
		db = db.Where("type = ?", q.MediaType)
	}
	if q.Offset > 0 {
		db = db.Offset(q.Offset)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}

	var posts []models.Post
	if err := db.Order("created_at DESC").Order("id DESC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Sample returns up to limit live posts of postType in random order.
func (r *postRepository) Sample(ctx context.Context, postType string, limit int) ([]models.Post, error) {
	defer observability.TrackQuery("select", "posts")()

	var posts []models.Post
	if err := r.live(ctx).
		Where("post_type = ?", postType).
		Order("RANDOM()").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// LatestByAccount returns the newest live post of postType for each account
// that has one. Accounts without such a post are absent from the map.
func (r *postRepository) LatestByAccount(ctx context.Context, customerIDs []uint, postType string) (map[uint]models.Post, error) {
	out := make(map[uint]models.Post, len(customerIDs))
	if len(customerIDs) == 0 {
		return out, nil
	}
	defer observability.TrackQuery("select", "posts")()

	var posts []models.Post
	if err := r.live(ctx).
		Where("post_type = ? AND customer_id IN ?", postType, customerIDs).
		Order("created_at DESC").Order("id DESC").
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, p := range posts {
		if _, seen := out[p.CustomerID]; !seen {
			out[p.CustomerID] = p
		}
	}
	return out, nil
}

func (r *postRepository) ByCustomer(ctx context.Context, customerID uint, postType, mediaType string) ([]models.Post, error) {
	db := r.live(ctx).Where("customer_id = ? AND post_type = ?", customerID, postType)
	if mediaType != "" {
		db = db.Where("type = ?", mediaType)
	}

	var posts []models.Post
	if err := db.Order("created_at DESC").Order("id DESC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}
