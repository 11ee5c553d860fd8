package seed

import (
	"fmt"
	"log"

	"vzsocial/internal/models"

	"gorm.io/gorm"
)

// Summary counts what a run created.
type Summary struct {
	Customers int
	Posts     int
	Comments  int
	Likes     int
	Follows   int
	Songs     int
	Movies    int
	Episodes  int
	Admins    int
}

func (s Summary) String() string {
	return fmt.Sprintf("customers=%d posts=%d comments=%d likes=%d follows=%d songs=%d movies=%d episodes=%d admins=%d",
		s.Customers, s.Posts, s.Comments, s.Likes, s.Follows, s.Songs, s.Movies, s.Episodes, s.Admins)
}

// Seeder drives a Factory through a Preset.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a seeder writing through db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts)}
}

// Factory exposes the underlying factory for ad-hoc fixtures.
func (s *Seeder) Factory() *Factory {
	return s.factory
}

// clearOrder lists tables children first so foreign keys never dangle.
var clearOrder = []any{
	&models.Like{},
	&models.Comment{},
	&models.Follow{},
	&models.Post{},
	&models.Episode{},
	&models.Movie{},
	&models.Song{},
	&models.Customer{},
}

// ClearAll removes seeded domain data. Admin users are kept.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	if s.db.Dialector.Name() == "postgres" {
		return s.db.Exec(`TRUNCATE TABLE likes, comments, follows, posts, episodes, movies, songs, customers RESTART IDENTITY CASCADE`).Error
	}
	for _, m := range clearOrder {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
			return fmt.Errorf("clear %T: %w", m, err)
		}
	}
	return nil
}

// ApplyPreset runs the named built-in preset.
func (s *Seeder) ApplyPreset(name string) (Summary, error) {
	p, ok := Presets[name]
	if !ok {
		return Summary{}, fmt.Errorf("unknown preset %q", name)
	}
	return s.Run(p)
}

// Run seeds the database according to p.
func (s *Seeder) Run(p Preset) (Summary, error) {
	if err := p.Validate(); err != nil {
		return Summary{}, err
	}
	log.Printf("🌱 Seeding preset %q", p.Name)

	var sum Summary
	customers, err := s.SeedCustomers(p.Customers)
	if err != nil {
		return sum, fmt.Errorf("failed to create customers: %w", err)
	}
	sum.Customers = len(customers)
	log.Printf("✓ %d customers created", sum.Customers)

	follows, err := s.SeedSocialMesh(customers, p.FollowsPerCustomer)
	if err != nil {
		return sum, fmt.Errorf("failed to create follows: %w", err)
	}
	sum.Follows = follows
	log.Printf("✓ %d follows created", follows)

	posts, err := s.SeedPosts(customers, p)
	if err != nil {
		return sum, fmt.Errorf("failed to create posts: %w", err)
	}
	sum.Posts = len(posts)
	log.Printf("✓ %d posts created", sum.Posts)

	sum.Comments, sum.Likes, err = s.SeedEngagement(customers, posts, p)
	if err != nil {
		return sum, fmt.Errorf("failed to create engagement: %w", err)
	}
	log.Printf("✓ %d comments and %d likes created", sum.Comments, sum.Likes)

	sum.Songs, sum.Movies, sum.Episodes, err = s.SeedCatalog(p)
	if err != nil {
		return sum, fmt.Errorf("failed to create catalog: %w", err)
	}
	log.Printf("✓ %d songs, %d movies, %d episodes created", sum.Songs, sum.Movies, sum.Episodes)

	for _, a := range p.Admins {
		if _, err := s.factory.CreateAdmin(a.Username, a.Role); err != nil {
			return sum, fmt.Errorf("failed to create admin %s: %w", a.Username, err)
		}
		sum.Admins++
	}

	log.Println("🎉 Database seeding completed successfully!")
	return sum, nil
}

// SeedCustomers creates count customers with sequential phone numbers.
func (s *Seeder) SeedCustomers(count int) ([]*models.Customer, error) {
	var start int64
	if !s.factory.opts.DryRun {
		if err := s.db.Model(&models.Customer{}).Count(&start).Error; err != nil {
			return nil, err
		}
	}

	out := make([]*models.Customer, 0, count)
	for i := 0; i < count; i++ {
		c, err := s.factory.CreateCustomer(int(start) + i + 1)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
		if (i+1)%100 == 0 {
			log.Printf("Created %d customers...", i+1)
		}
	}
	return out, nil
}

// SeedSocialMesh makes each customer follow up to perCustomer others,
// picked as ring neighbours so the mesh is connected and mutual follows occur.
func (s *Seeder) SeedSocialMesh(customers []*models.Customer, perCustomer int) (int, error) {
	n := len(customers)
	if n < 2 || perCustomer <= 0 {
		return 0, nil
	}
	if perCustomer > n-1 {
		perCustomer = n - 1
	}

	created := 0
	for i, c := range customers {
		for k := 1; k <= perCustomer; k++ {
			// alternate forward and backward neighbours
			step := (k + 1) / 2
			if k%2 == 0 {
				step = n - step
			}
			target := customers[(i+step)%n]
			if target.ID == c.ID {
				continue
			}
			if _, err := s.factory.CreateFollow(c, target); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

// SeedPosts builds posts, reels and stories for each customer and inserts them in batches.
func (s *Seeder) SeedPosts(customers []*models.Customer, p Preset) ([]*models.Post, error) {
	var posts []*models.Post
	for _, c := range customers {
		for i := 0; i < p.PostsPerCustomer; i++ {
			posts = append(posts, s.factory.BuildPost(c, models.PostTypePost))
		}
		for i := 0; i < p.ReelsPerCustomer; i++ {
			posts = append(posts, s.factory.BuildPost(c, models.PostTypeReel))
		}
		for i := 0; i < p.StoriesPerCustomer; i++ {
			posts = append(posts, s.factory.BuildPost(c, models.PostTypeStory))
		}
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// SeedEngagement adds top-level comments, replies and likes to posts.
func (s *Seeder) SeedEngagement(customers []*models.Customer, posts []*models.Post, p Preset) (comments, likes int, err error) {
	if len(customers) == 0 {
		return 0, 0, nil
	}
	pick := func() *models.Customer { return customers[s.factory.rng.Intn(len(customers))] }

	for _, post := range posts {
		if post.PostType == models.PostTypeStory {
			continue
		}
		for i := 0; i < p.CommentsPerPost; i++ {
			root, err := s.factory.CreateComment(pick(), post, nil)
			if err != nil {
				return comments, likes, err
			}
			comments++
			for j := 0; j < p.RepliesPerComment; j++ {
				if _, err := s.factory.CreateComment(pick(), post, root); err != nil {
					return comments, likes, err
				}
				comments++
			}
		}

		n := p.LikesPerPost
		if n > len(customers) {
			n = len(customers)
		}
		for _, idx := range s.factory.rng.Perm(len(customers))[:n] {
			if err := s.factory.CreateLike(customers[idx], post); err != nil {
				return comments, likes, err
			}
			likes++
		}
	}
	return comments, likes, nil
}

// SeedCatalog creates songs, movies and their episodes.
func (s *Seeder) SeedCatalog(p Preset) (songs, movies, episodes int, err error) {
	for i := 0; i < p.Songs; i++ {
		if _, err := s.factory.CreateSong(); err != nil {
			return songs, movies, episodes, err
		}
		songs++
	}
	for i := 0; i < p.Movies; i++ {
		m, err := s.factory.CreateMovie()
		if err != nil {
			return songs, movies, episodes, err
		}
		movies++
		for n := 1; n <= p.EpisodesPerMovie; n++ {
			if _, err := s.factory.CreateEpisode(m, n); err != nil {
				return songs, movies, episodes, err
			}
			episodes++
		}
	}
	return songs, movies, episodes, nil
}
