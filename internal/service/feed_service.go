package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vzsocial/internal/featureflags"
	"vzsocial/internal/models"
	"vzsocial/internal/observability"
	"vzsocial/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Feed page sizes.
const (
	feedPageSize       = 10
	suggestionPageSize = 10
	morePostsOffset    = 1
)

type FeedService struct {
	customerRepo repository.CustomerRepository
	postRepo     repository.PostRepository
	followRepo   repository.FollowRepository
	engagement   *EngagementCounter
	flags        *featureflags.Manager
	concurrency  int
}

func NewFeedService(
	customerRepo repository.CustomerRepository,
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
	engagement *EngagementCounter,
	flags *featureflags.Manager,
	concurrency int,
) *FeedService {
	return &FeedService{
		customerRepo: customerRepo,
		postRepo:     postRepo,
		followRepo:   followRepo,
		engagement:   engagement,
		flags:        flags,
		concurrency:  concurrency,
	}
}

type feedSection struct {
	name  string
	build func(ctx context.Context) error
	clear func()
}

// Home assembles every home feed section concurrently. By default the first
// failing section cancels the rest and fails the call. With section isolation
// enabled a failing section is logged and left nil.
func (s *FeedService) Home(ctx context.Context, viewerID uint) (feed *models.HomeFeed, err error) {
	if viewerID == 0 {
		return nil, models.NewValidationError("viewer id is required")
	}

	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "feed", "home", attribute.Int64("viewer.id", int64(viewerID)))
	defer func() {
		observability.EndSpan(span, err)
		observability.FeedBuildDuration.Observe(time.Since(start).Seconds())
	}()

	feed = &models.HomeFeed{}
	postPage := func(q repository.PostQuery, dst *[]models.FeedPost) func(context.Context) error {
		return func(ctx context.Context) error {
			posts, err := s.postRepo.List(ctx, q)
			if err != nil {
				return err
			}
			*dst, err = s.enrich(ctx, posts, viewerID)
			return err
		}
	}
	mixed := repository.PostQuery{
		PostTypes: []string{models.PostTypePost, models.PostTypeReel},
		Limit:     feedPageSize,
		Offset:    morePostsOffset,
	}

	sections := []feedSection{
		{
			name: "statusList",
			build: func(ctx context.Context) (err error) {
				feed.StatusList, err = s.statusList(ctx, viewerID)
				return err
			},
			clear: func() { feed.StatusList = nil },
		},
		{
			name:  "recentPosts",
			build: postPage(repository.PostQuery{PostTypes: []string{models.PostTypePost}, Limit: feedPageSize}, &feed.RecentPosts),
			clear: func() { feed.RecentPosts = nil },
		},
		{
			name: "suggestedUsers",
			build: func(ctx context.Context) (err error) {
				feed.SuggestedUsers, err = s.suggestions(ctx, viewerID)
				return err
			},
			clear: func() { feed.SuggestedUsers = nil },
		},
		{
			name: "randomPosts",
			build: func(ctx context.Context) error {
				posts, err := s.postRepo.Sample(ctx, models.PostTypePost, feedPageSize)
				if err != nil {
					return err
				}
				feed.RandomPosts, err = s.enrich(ctx, posts, viewerID)
				return err
			},
			clear: func() { feed.RandomPosts = nil },
		},
		{
			name: "reels",
			build: postPage(repository.PostQuery{
				PostTypes: []string{models.PostTypeReel},
				MediaType: models.MediaTypeVideo,
				Limit:     feedPageSize,
			}, &feed.Reels),
			clear: func() { feed.Reels = nil },
		},
		{name: "morePosts", build: postPage(mixed, &feed.MorePosts), clear: func() { feed.MorePosts = nil }},
		{name: "finalPosts", build: postPage(mixed, &feed.FinalPosts), clear: func() { feed.FinalPosts = nil }},
	}

	if s.flags.Enabled(featureflags.FeedSectionIsolation, viewerID) {
		s.runIsolated(ctx, sections)
		return feed, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for _, sec := range sections {
		sec := sec
		g.Go(func() error {
			if err := sec.build(gctx); err != nil {
				observability.FeedSectionFailures.WithLabelValues(sec.name).Inc()
				return fmt.Errorf("feed section %s: %w", sec.name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return feed, nil
}

func (s *FeedService) runIsolated(ctx context.Context, sections []feedSection) {
	var g errgroup.Group
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for _, sec := range sections {
		sec := sec
		g.Go(func() error {
			if err := sec.build(ctx); err != nil {
				observability.FeedSectionFailures.WithLabelValues(sec.name).Inc()
				slog.WarnContext(ctx, "feed section failed", "section", sec.name, "err", err)
				sec.clear()
			}
			return nil
		})
	}
	_ = g.Wait()
}

// statusList returns, in account order, each active account's latest story.
func (s *FeedService) statusList(ctx context.Context, viewerID uint) ([]models.StatusEntry, error) {
	accounts, err := s.customerRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.ID)
	}
	stories, err := s.postRepo.LatestByAccount(ctx, ids, models.PostTypeStory)
	if err != nil {
		return nil, err
	}

	storyIDs := make([]uint, 0, len(stories))
	for _, p := range stories {
		storyIDs = append(storyIDs, p.ID)
	}
	counters, err := s.engagement.ForPosts(ctx, storyIDs, viewerID)
	if err != nil {
		return nil, err
	}

	out := make([]models.StatusEntry, 0, len(stories))
	for _, a := range accounts {
		story, ok := stories[a.ID]
		if !ok {
			continue
		}
		out = append(out, models.StatusEntry{
			ID:           a.ID,
			Name:         a.Name,
			ProfileImage: a.ProfileImage,
			PostID:       story.ID,
			Engagement:   counters[story.ID],
		})
	}
	return out, nil
}

// suggestions lists accounts the viewer neither is nor follows.
func (s *FeedService) suggestions(ctx context.Context, viewerID uint) ([]models.Identity, error) {
	following, err := s.followRepo.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	exclude := append(following, viewerID)

	accounts, err := s.customerRepo.ListSuggestions(ctx, exclude, suggestionPageSize)
	if err != nil {
		return nil, err
	}
	out := make([]models.Identity, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, models.Identity{ID: a.ID, Name: a.Name, ProfileImage: a.ProfileImage})
	}
	return out, nil
}

// enrich decorates posts with author identity and engagement counters using
// batched lookups. Missing authors render with an empty name and image.
func (s *FeedService) enrich(ctx context.Context, posts []models.Post, viewerID uint) ([]models.FeedPost, error) {
	return enrichPosts(ctx, s.customerRepo, s.engagement, posts, viewerID)
}

func enrichPosts(
	ctx context.Context,
	customers repository.CustomerRepository,
	engagement *EngagementCounter,
	posts []models.Post,
	viewerID uint,
) ([]models.FeedPost, error) {
	out := make([]models.FeedPost, 0, len(posts))
	if len(posts) == 0 {
		return out, nil
	}

	postIDs := make([]uint, 0, len(posts))
	authorIDs := make([]uint, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		authorIDs = append(authorIDs, p.CustomerID)
	}

	authors, err := customers.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	counters, err := engagement.ForPosts(ctx, postIDs, viewerID)
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		fp := models.FeedPost{
			Post:       p,
			Image:      p.FirstMedia(),
			Images:     p.Media,
			Engagement: counters[p.ID],
		}
		if fp.Images == nil {
			fp.Images = []string{}
		}
		if author, ok := authors[p.CustomerID]; ok {
			fp.UserName = author.Name
			fp.UserProfileImage = author.ProfileImage
		}
		out = append(out, fp)
	}
	return out, nil
}
