package service

import (
	"context"
	"strings"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
)

const maxPostTextLen = 50000

// PostService owns the post lifecycle: creation and editing through the
// post form, plus the detail view with its comments.
type PostService struct {
	postRepo    repository.PostRepository
	groupRepo   repository.GroupRepository
	commentRepo repository.CommentRepository
	images      *ImageService
}

type CreatePostInput struct {
	AuthorID uint
	Text     string
	GroupID  *uint
	Image    *ImageUpload
}

type UpdatePostInput struct {
	PostID   uint
	EditorID uint
	Text     string
	GroupID  *uint
	Image    *ImageUpload
}

// PostDetail is the post page payload: the post, its comments newest
// first, and how many posts its author has published in total.
type PostDetail struct {
	Post             models.Post      `json:"post"`
	Comments         []models.Comment `json:"comments"`
	AuthorPostsCount int64            `json:"author_posts_count"`
}

func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	commentRepo repository.CommentRepository,
	images *ImageService,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		groupRepo:   groupRepo,
		commentRepo: commentRepo,
		images:      images,
	}
}

// validateText enforces the form contract: text is required and blank
// submissions are rejected against the "text" field.
func validateText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", models.NewFieldValidationError("text", "This field is required")
	}
	if len(trimmed) > maxPostTextLen {
		return "", models.NewFieldValidationError("text", "Text too long (max 50000 characters)")
	}
	return trimmed, nil
}

func (s *PostService) resolveGroup(ctx context.Context, groupID *uint) (*uint, error) {
	if groupID == nil {
		return nil, nil
	}
	if _, err := s.groupRepo.GetByID(ctx, *groupID); err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == "NOT_FOUND" {
			return nil, models.NewFieldValidationError("group", "Select a valid group")
		}
		return nil, err
	}
	return groupID, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "post.create")
	defer span.End()

	text, err := validateText(in.Text)
	if err != nil {
		return nil, err
	}

	groupID, err := s.resolveGroup(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     text,
		AuthorID: in.AuthorID,
		GroupID:  groupID,
	}

	if in.Image != nil {
		saved, err := s.images.Save(*in.Image)
		if err != nil {
			return nil, err
		}
		post.ImagePath = saved.Path
		post.ThumbPath = saved.ThumbPath
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		span.SetError(err)
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost applies an edit. Only the author may edit their post.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.EditorID {
		return nil, models.NewForbiddenError("Only the author can edit this post")
	}

	text, err := validateText(in.Text)
	if err != nil {
		return nil, err
	}

	groupID, err := s.resolveGroup(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}

	post.Text = text
	post.GroupID = groupID
	if in.Image != nil {
		saved, err := s.images.Save(*in.Image)
		if err != nil {
			return nil, err
		}
		post.ImagePath = saved.Path
		post.ThumbPath = saved.ThumbPath
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPostDetail loads the post page payload.
func (s *PostService) GetPostDetail(ctx context.Context, postID uint) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	authorPosts, err := s.postRepo.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}

	return &PostDetail{
		Post:             *post,
		Comments:         comments,
		AuthorPostsCount: authorPosts,
	}, nil
}
