package repository

import (
	"context"
	"errors"

	"yatube/internal/cache"
	"yatube/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts, including the
// paginated feed queries behind the index, group, profile and follow pages.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error

	ListAll(ctx context.Context, limit, offset int) ([]models.Post, error)
	CountAll(ctx context.Context) (int64, error)
	ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]models.Post, error)
	CountByGroup(ctx context.Context, groupID uint) (int64, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]models.Post, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
	ListByFollowed(ctx context.Context, followerID uint, limit, offset int) ([]models.Post, error)
	CountByFollowed(ctx context.Context, followerID uint) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateIndexFeed(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("Author").
		Preload("Group").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateIndexFeed(ctx)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateIndexFeed(ctx)
	return nil
}

func (r *postRepository) ListAll(ctx context.Context, limit, offset int) ([]models.Post, error) {
	return r.list(ctx, r.feedQuery(ctx), limit, offset)
}

func (r *postRepository) CountAll(ctx context.Context) (int64, error) {
	return r.count(r.db.WithContext(ctx).Model(&models.Post{}))
}

func (r *postRepository) ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]models.Post, error) {
	return r.list(ctx, r.feedQuery(ctx).Where("posts.group_id = ?", groupID), limit, offset)
}

func (r *postRepository) CountByGroup(ctx context.Context, groupID uint) (int64, error) {
	return r.count(r.db.WithContext(ctx).Model(&models.Post{}).Where("group_id = ?", groupID))
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]models.Post, error) {
	return r.list(ctx, r.feedQuery(ctx).Where("posts.author_id = ?", authorID), limit, offset)
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return r.count(r.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID))
}

func (r *postRepository) ListByFollowed(ctx context.Context, followerID uint, limit, offset int) ([]models.Post, error) {
	q := r.feedQuery(ctx).
		Where("posts.author_id IN (?)", r.followedAuthorIDs(ctx, followerID))
	return r.list(ctx, q, limit, offset)
}

func (r *postRepository) CountByFollowed(ctx context.Context, followerID uint) (int64, error) {
	return r.count(r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id IN (?)", r.followedAuthorIDs(ctx, followerID)))
}

// followedAuthorIDs builds the subquery selecting every author the user follows.
func (r *postRepository) followedAuthorIDs(ctx context.Context, followerID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Select("author_id").
		Where("follower_id = ?", followerID)
}

// feedQuery is the base query for every feed page: author and group
// preloaded, newest first with id as the tie-breaker so pages are stable.
func (r *postRepository) feedQuery(ctx context.Context) *gorm.DB {
	return r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("Author").
		Preload("Group").
		Order("posts.created_at DESC, posts.id DESC")
}

// applyPostDetails adds a subquery to fetch the comment count in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) as comments_count")
}

func (r *postRepository) list(_ context.Context, q *gorm.DB, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	if err := q.Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) count(q *gorm.DB) (int64, error) {
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
