package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/repository"
)

// FollowService manages follow edges between readers and authors.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

func (s *FollowService) resolveAuthor(ctx context.Context, username string) (*models.User, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return author, nil
}

// Follow subscribes the reader to the author. Following yourself is
// rejected; following the same author twice is a no-op.
func (s *FollowService) Follow(ctx context.Context, followerID uint, username string) error {
	author, err := s.resolveAuthor(ctx, username)
	if err != nil {
		return err
	}
	if author.ID == followerID {
		return models.NewValidationError("You cannot follow yourself")
	}
	return s.followRepo.Follow(ctx, followerID, author.ID)
}

// Unfollow removes the subscription if it exists.
func (s *FollowService) Unfollow(ctx context.Context, followerID uint, username string) error {
	author, err := s.resolveAuthor(ctx, username)
	if err != nil {
		return err
	}
	return s.followRepo.Unfollow(ctx, followerID, author.ID)
}

// IsFollowing reports whether the reader follows the author.
func (s *FollowService) IsFollowing(ctx context.Context, followerID uint, username string) (bool, error) {
	author, err := s.resolveAuthor(ctx, username)
	if err != nil {
		return false, err
	}
	return s.followRepo.Exists(ctx, followerID, author.ID)
}
