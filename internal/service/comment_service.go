package service

import (
	"context"
	"strings"

	"yatube/internal/models"
	"yatube/internal/repository"
)

const maxCommentTextLen = 3000

// CommentService adds comments to posts.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type AddCommentInput struct {
	PostID   uint
	AuthorID uint
	Text     string
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// AddComment validates and stores a comment on an existing post.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewFieldValidationError("text", "This field is required")
	}
	if len(text) > maxCommentTextLen {
		return nil, models.NewFieldValidationError("text", "Comment too long (max 3000 characters)")
	}

	// Commenting on a missing post is a 404, not a validation error.
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:     text,
		AuthorID: in.AuthorID,
		PostID:   in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}
