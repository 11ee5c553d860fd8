// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"vzsocial/internal/models"
	"vzsocial/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is the password every seeded customer and admin logs in with.
const DefaultPassword = "password123"

// Options tune how the factory persists what it builds.
type Options struct {
	// DryRun assigns synthetic IDs and logs instead of writing.
	DryRun bool
	// MaxDays bounds how far back created_at timestamps are spread.
	MaxDays int
	// BatchSize is the chunk size for batched inserts.
	BatchSize int
	// RandSeed makes generated content reproducible when non-zero.
	RandSeed int64
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand

	customerHash string
	adminHash    string
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	gofakeit.Seed(seed)
	// #nosec G404: acceptable for seeding
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(seed)), nextID: 1000}
}

func (f *Factory) synthetic() uint {
	f.nextID++
	return f.nextID
}

// passwordHash hashes DefaultPassword once per factory; argon2id is too slow to repeat per row.
func (f *Factory) passwordHash() (string, error) {
	if f.customerHash == "" {
		h, err := service.HashPassword(DefaultPassword)
		if err != nil {
			return "", err
		}
		f.customerHash = h
	}
	return f.customerHash, nil
}

func (f *Factory) backdate() time.Time {
	back := time.Duration(f.rng.Intn(f.opts.MaxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	return time.Now().Add(-back)
}

// CreateCustomer constructs and persists a sample customer.
// Phone numbers are derived from n so they stay unique within a run.
func (f *Factory) CreateCustomer(n int, overrides ...func(*models.Customer)) (*models.Customer, error) {
	hash, err := f.passwordHash()
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	genders := []string{models.GenderMale, models.GenderFemale, models.GenderOther}
	name := gofakeit.Name()
	handle := strings.ToLower(strings.ReplaceAll(name, " ", "."))
	c := &models.Customer{
		Name:         name,
		Email:        fmt.Sprintf("%s.%d@example.com", handle, n),
		Phone:        fmt.Sprintf("+1555%07d", n),
		Password:     hash,
		Gender:       genders[f.rng.Intn(len(genders))],
		Age:          gofakeit.Number(18, 70),
		Bio:          gofakeit.Sentence(10),
		Website:      gofakeit.URL(),
		Interests:    []string{gofakeit.Hobby(), gofakeit.Hobby()},
		ProfileImage: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(c)
	}

	if f.opts.DryRun {
		c.ID = f.synthetic()
		log.Printf("[dry-run] CreateCustomer: %s <%s>", c.Name, c.Email)
		return c, nil
	}
	if err := f.db.Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// BuildPost constructs a post without persisting it. Useful for batching.
func (f *Factory) BuildPost(owner *models.Customer, postType string, overrides ...func(*models.Post)) *models.Post {
	p := &models.Post{
		CustomerID: owner.ID,
		PostType:   postType,
		Type:       models.MediaTypeImage,
		Location:   gofakeit.City(),
		Detail:     gofakeit.Sentence(12),
		CreatedAt:  f.backdate(),
	}

	switch postType {
	case models.PostTypeReel:
		p.Type = models.MediaTypeVideo
		p.Media = []string{fmt.Sprintf("https://cdn.example.com/reels/%s.mp4", gofakeit.UUID())}
		p.Thumbnail = fmt.Sprintf("https://picsum.photos/seed/%s/480/854", gofakeit.UUID())
	case models.PostTypeStory:
		p.Media = []string{fmt.Sprintf("https://picsum.photos/seed/%s/720/1280", gofakeit.UUID())}
		p.Thumbnail = p.Media[0]
		// stories are only interesting while fresh
		p.CreatedAt = time.Now().Add(-time.Duration(f.rng.Intn(20)) * time.Hour)
	default:
		count := 1 + f.rng.Intn(3)
		for i := 0; i < count; i++ {
			p.Media = append(p.Media, fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()))
		}
	}

	for _, override := range overrides {
		override(p)
	}
	return p
}

// CreatePostsBatch persists multiple posts in chunked inserts.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			p.ID = f.synthetic()
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	return f.db.CreateInBatches(posts, f.opts.BatchSize).Error
}

// CreateComment persists a comment by author on post. A non-nil parent
// makes it a reply and bumps the parent's reply_count.
func (f *Factory) CreateComment(author *models.Customer, post *models.Post, parent *models.Comment, overrides ...func(*models.Comment)) (*models.Comment, error) {
	c := &models.Comment{
		PostID:      post.ID,
		UserID:      author.ID,
		CommentText: gofakeit.Sentence(8),
		Status:      "active",
	}
	if parent != nil {
		pid := parent.ID
		c.ParentCommentID = &pid
	}
	for _, override := range overrides {
		override(c)
	}

	if f.opts.DryRun {
		c.ID = f.synthetic()
		if parent != nil {
			parent.ReplyCount++
		}
		return c, nil
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		if parent == nil {
			return nil
		}
		return tx.Model(&models.Comment{}).Where("id = ?", parent.ID).
			UpdateColumn("reply_count", gorm.Expr("reply_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	if parent != nil {
		parent.ReplyCount++
	}
	return c, nil
}

// CreateLike persists a like from customer on post. Duplicates are ignored.
func (f *Factory) CreateLike(customer *models.Customer, post *models.Post) error {
	if f.opts.DryRun {
		return nil
	}
	like := &models.Like{UserID: customer.ID, PostID: post.ID}
	return f.db.Where(models.Like{UserID: customer.ID, PostID: post.ID}).FirstOrCreate(like).Error
}

// CreateFollow persists follower -> target. When target already follows
// follower, both records are marked as follow-backs.
func (f *Factory) CreateFollow(follower, target *models.Customer) (*models.Follow, error) {
	follow := &models.Follow{MyID: follower.ID, FollowID: target.ID}
	if f.opts.DryRun {
		follow.ID = f.synthetic()
		return follow, nil
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		var reverse models.Follow
		res := tx.Where("my_id = ? AND follow_id = ?", target.ID, follower.ID).Limit(1).Find(&reverse)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			follow.FollowBack = true
			if err := tx.Model(&reverse).Update("follow_back", true).Error; err != nil {
				return err
			}
		}
		return tx.Where(models.Follow{MyID: follower.ID, FollowID: target.ID}).
			Attrs(models.Follow{FollowBack: follow.FollowBack}).
			FirstOrCreate(follow).Error
	})
	if err != nil {
		return nil, err
	}
	return follow, nil
}

// CreateSong persists a song catalog entry.
func (f *Factory) CreateSong(overrides ...func(*models.Song)) (*models.Song, error) {
	s := &models.Song{
		Title:    strings.TrimSuffix(gofakeit.Sentence(3), "."),
		Artist:   gofakeit.Name(),
		Detail:   gofakeit.Sentence(8),
		Location: gofakeit.City(),
		Image:    fmt.Sprintf("https://picsum.photos/seed/%s/300/300", gofakeit.UUID()),
		SongURL:  fmt.Sprintf("https://cdn.example.com/songs/%s.mp3", gofakeit.UUID()),
	}
	for _, override := range overrides {
		override(s)
	}
	if f.opts.DryRun {
		s.ID = f.synthetic()
		return s, nil
	}
	if err := f.db.Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// CreateMovie persists a movie with a movie-<ms>-<suffix> public ID.
func (f *Factory) CreateMovie(overrides ...func(*models.Movie)) (*models.Movie, error) {
	m := &models.Movie{
		MovieID:          fmt.Sprintf("movie-%d-%s", time.Now().UnixMilli(), strings.ToLower(gofakeit.LetterN(6))),
		Title:            gofakeit.MovieName(),
		Category:         gofakeit.MovieGenre(),
		Type:             "Movie",
		Duration:         fmt.Sprintf("%dm", gofakeit.Number(80, 180)),
		Artists:          strings.Join([]string{gofakeit.Name(), gofakeit.Name()}, ", "),
		Director:         gofakeit.Name(),
		Year:             fmt.Sprintf("%d", gofakeit.Number(1970, time.Now().Year())),
		Location:         gofakeit.Country(),
		Detail:           gofakeit.Paragraph(1, 3, 10, " "),
		HorizontalBanner: fmt.Sprintf("https://picsum.photos/seed/%s/1280/720", gofakeit.UUID()),
		VerticalBanner:   fmt.Sprintf("https://picsum.photos/seed/%s/720/1280", gofakeit.UUID()),
		Trailer:          fmt.Sprintf("https://cdn.example.com/trailers/%s.mp4", gofakeit.UUID()),
	}
	for _, override := range overrides {
		override(m)
	}
	if f.opts.DryRun {
		m.ID = f.synthetic()
		return m, nil
	}
	if err := f.db.Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// CreateEpisode persists episode number n of movie.
func (f *Factory) CreateEpisode(movie *models.Movie, n int) (*models.Episode, error) {
	e := &models.Episode{
		MovieID:          movie.MovieID,
		Title:            fmt.Sprintf("Episode %d: %s", n, strings.TrimSuffix(gofakeit.Sentence(3), ".")),
		Duration:         fmt.Sprintf("%dm", gofakeit.Number(20, 60)),
		Detail:           gofakeit.Sentence(15),
		HorizontalBanner: movie.HorizontalBanner,
		VerticalBanner:   movie.VerticalBanner,
		Trailer:          fmt.Sprintf("https://cdn.example.com/episodes/%s.mp4", gofakeit.UUID()),
	}
	if f.opts.DryRun {
		e.ID = f.synthetic()
		return e, nil
	}
	if err := f.db.Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// CreateAdmin persists a back-office user with a bcrypt-hashed DefaultPassword.
func (f *Factory) CreateAdmin(username, role string) (*models.AdminUser, error) {
	if f.adminHash == "" {
		h, err := service.HashAdminPassword(DefaultPassword)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		f.adminHash = h
	}
	a := &models.AdminUser{
		Name:     gofakeit.Name(),
		Email:    username + "@vzsocial.local",
		Username: username,
		Password: f.adminHash,
		UserType: role,
	}
	if f.opts.DryRun {
		a.ID = f.synthetic()
		return a, nil
	}
	if err := f.db.Where(models.AdminUser{Username: username}).Attrs(*a).FirstOrCreate(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}
