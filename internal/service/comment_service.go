package service

import (
	"context"
	"strings"

	"vzsocial/internal/models"
	"vzsocial/internal/observability"
	"vzsocial/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const maxCommentLen = 10000

type CommentService struct {
	commentRepo  repository.CommentRepository
	postRepo     repository.PostRepository
	customerRepo repository.CustomerRepository
}

type CreateCommentInput struct {
	PostID          uint
	UserID          uint
	ParentCommentID *uint
	CommentText     string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	customerRepo repository.CustomerRepository,
) *CommentService {
	return &CommentService{
		commentRepo:  commentRepo,
		postRepo:     postRepo,
		customerRepo: customerRepo,
	}
}

// Tree returns the live comments of a post as a forest, newest first at every
// level. Each level is loaded with one batched query, so depth is unbounded
// without recursion.
func (s *CommentService) Tree(ctx context.Context, postID, viewerID uint) (forest []*models.CommentNode, err error) {
	if postID == 0 {
		return nil, models.NewValidationError("post_id is required")
	}

	ctx, span := observability.StartSpan(ctx, "comments", "tree", attribute.Int64("post.id", int64(postID)))
	defer func() { observability.EndSpan(span, err) }()

	roots, err := s.commentRepo.TopLevel(ctx, postID)
	if err != nil {
		return nil, err
	}

	forest = make([]*models.CommentNode, 0, len(roots))
	seen := make(map[uint]*models.CommentNode, len(roots))
	authorIDs := make(map[uint]struct{})
	all := make([]*models.CommentNode, 0, len(roots))

	frontier := make([]uint, 0, len(roots))
	for _, c := range roots {
		node := newCommentNode(c)
		forest = append(forest, node)
		seen[c.ID] = node
		all = append(all, node)
		authorIDs[c.UserID] = struct{}{}
		frontier = append(frontier, c.ID)
	}

	depth := 0
	for len(frontier) > 0 {
		depth++
		children, err := s.commentRepo.ChildrenOf(ctx, frontier)
		if err != nil {
			return nil, err
		}

		next := make([]uint, 0, len(children))
		for _, c := range children {
			if _, dup := seen[c.ID]; dup || c.ParentCommentID == nil {
				continue
			}
			parent, ok := seen[*c.ParentCommentID]
			if !ok {
				continue
			}
			node := newCommentNode(c)
			parent.Replies = append(parent.Replies, node)
			seen[c.ID] = node
			all = append(all, node)
			authorIDs[c.UserID] = struct{}{}
			next = append(next, c.ID)
		}
		frontier = next
	}

	if err := s.labelAuthors(ctx, all, authorIDs, viewerID); err != nil {
		return nil, err
	}

	observability.CommentTreeNodes.Observe(float64(len(all)))
	observability.CommentTreeDepth.Observe(float64(depth))
	span.SetAttributes(attribute.Int("comments.count", len(all)))
	return forest, nil
}

func newCommentNode(c models.Comment) *models.CommentNode {
	return &models.CommentNode{Comment: c, Replies: []*models.CommentNode{}}
}

// labelAuthors resolves every author once. Missing authors get a tombstone.
func (s *CommentService) labelAuthors(ctx context.Context, nodes []*models.CommentNode, ids map[uint]struct{}, viewerID uint) error {
	if len(nodes) == 0 {
		return nil
	}
	list := make([]uint, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	authors, err := s.customerRepo.GetByIDs(ctx, list)
	if err != nil {
		return err
	}

	for _, n := range nodes {
		author, ok := authors[n.UserID]
		switch {
		case ok:
			n.Name = author.Name
			n.ProfileImage = author.ProfileImage
		default:
			n.Name = models.DeletedAuthorName
		}
		if n.ProfileImage == "" {
			n.ProfileImage = models.FallbackAvatar
		}
		if viewerID != 0 && n.UserID == viewerID {
			n.Name = models.ViewerLabel
		}
	}
	return nil
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	text := strings.TrimSpace(in.CommentText)
	if in.PostID == 0 || in.UserID == 0 || text == "" {
		return nil, models.NewValidationError("post_id, user_id and comment_text are required")
	}
	if len(text) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}
	if _, err := s.customerRepo.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}
	if in.ParentCommentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		PostID:          in.PostID,
		UserID:          in.UserID,
		ParentCommentID: in.ParentCommentID,
		CommentText:     text,
		Status:          "active",
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if comment.UserID != in.UserID {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	return s.commentRepo.SoftDelete(ctx, in.CommentID)
}
