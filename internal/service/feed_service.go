package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// PageSize is the number of posts per feed page.
const PageSize = 10

// PageMeta describes the position of a feed page within the full result set.
type PageMeta struct {
	Number     int   `json:"number"`
	Size       int   `json:"size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_previous"`
}

// FeedPage is one page of a reverse-chronological post feed.
type FeedPage struct {
	Posts []models.Post `json:"posts"`
	Page  PageMeta      `json:"page"`
}

// GroupFeed is the group page payload: the group itself plus its feed.
type GroupFeed struct {
	Group models.Group `json:"group"`
	FeedPage
}

// ProfileFeed is the profile page payload. Following reports whether the
// viewer follows this author; it is always false for anonymous viewers and
// for the author viewing their own profile.
type ProfileFeed struct {
	Author     models.User `json:"author"`
	PostsCount int64       `json:"posts_count"`
	Following  bool        `json:"following"`
	FeedPage
}

// FeedService assembles the paginated feed pages.
type FeedService struct {
	postRepo   repository.PostRepository
	groupRepo  repository.GroupRepository
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

func NewFeedService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		groupRepo:  groupRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

// clampPage pulls an out-of-range page number back into [1, totalPages].
// An empty result set still has one (empty) page.
func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// buildMeta computes page metadata and the query offset for the clamped page.
func buildMeta(page int, total int64) (PageMeta, int) {
	totalPages := int((total + PageSize - 1) / PageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	page = clampPage(page, totalPages)

	meta := PageMeta{
		Number:     page,
		Size:       PageSize,
		TotalCount: total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
	return meta, (page - 1) * PageSize
}

// IndexPage returns one page of the site-wide feed, newest posts first.
func (s *FeedService) IndexPage(ctx context.Context, page int) (*FeedPage, error) {
	span, ctx := observability.NewSpan(ctx, "feed.index")
	defer span.End()
	span.AddAttributes(attribute.Int("feed.page", page))

	total, err := s.postRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	meta, offset := buildMeta(page, total)

	posts, err := s.postRepo.ListAll(ctx, PageSize, offset)
	if err != nil {
		return nil, err
	}
	return &FeedPage{Posts: posts, Page: meta}, nil
}

// GroupPage returns one page of a group's feed, or NOT_FOUND for an
// unknown slug.
func (s *FeedService) GroupPage(ctx context.Context, slug string, page int) (*GroupFeed, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	total, err := s.postRepo.CountByGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	meta, offset := buildMeta(page, total)

	posts, err := s.postRepo.ListByGroup(ctx, group.ID, PageSize, offset)
	if err != nil {
		return nil, err
	}
	return &GroupFeed{
		Group:    *group,
		FeedPage: FeedPage{Posts: posts, Page: meta},
	}, nil
}

// ProfilePage returns an author's profile with one page of their posts.
// viewerID is zero for anonymous requests.
func (s *FeedService) ProfilePage(ctx context.Context, username string, page int, viewerID uint) (*ProfileFeed, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, models.NewNotFoundError("User", username)
	}

	total, err := s.postRepo.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	meta, offset := buildMeta(page, total)

	posts, err := s.postRepo.ListByAuthor(ctx, author.ID, PageSize, offset)
	if err != nil {
		return nil, err
	}

	following := false
	if viewerID != 0 && viewerID != author.ID {
		following, err = s.followRepo.Exists(ctx, viewerID, author.ID)
		if err != nil {
			return nil, err
		}
	}

	return &ProfileFeed{
		Author:     *author,
		PostsCount: total,
		Following:  following,
		FeedPage:   FeedPage{Posts: posts, Page: meta},
	}, nil
}

// FollowPage returns one page of posts by authors the reader follows.
func (s *FeedService) FollowPage(ctx context.Context, followerID uint, page int) (*FeedPage, error) {
	total, err := s.postRepo.CountByFollowed(ctx, followerID)
	if err != nil {
		return nil, err
	}
	meta, offset := buildMeta(page, total)

	posts, err := s.postRepo.ListByFollowed(ctx, followerID, PageSize, offset)
	if err != nil {
		return nil, err
	}
	return &FeedPage{Posts: posts, Page: meta}, nil
}
