package server

import (
	"encoding/json"

	"yatube/internal/cache"
	"yatube/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Index handles GET /. The rendered page is cached as raw bytes for a short
// TTL, so every client sees an identical response until the cache expires or
// a write invalidates it.
func (s *Server) Index(c *fiber.Ctx) error {
	page := parsePage(c)
	key := cache.IndexFeedKey(page)

	if body, ok := cache.GetBytes(c.Context(), key); ok {
		middleware.FeedCacheHits.WithLabelValues("hit").Inc()
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(body)
	}
	middleware.FeedCacheHits.WithLabelValues("miss").Inc()

	feed, err := s.feedService.IndexPage(c.Context(), page)
	if err != nil {
		return respondAppError(c, err)
	}

	body, err := json.Marshal(feed)
	if err != nil {
		return respondAppError(c, err)
	}
	cache.SetBytes(c.Context(), key, body, cache.IndexFeedTTL)

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// GroupFeed handles GET /group/:slug
func (s *Server) GroupFeed(c *fiber.Ctx) error {
	feed, err := s.feedService.GroupPage(c.Context(), c.Params("slug"), parsePage(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(feed)
}

// ProfileFeed handles GET /profile/:username
func (s *Server) ProfileFeed(c *fiber.Ctx) error {
	viewerID, _ := s.optionalUserID(c)

	feed, err := s.feedService.ProfilePage(c.Context(), c.Params("username"), parsePage(c), viewerID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(feed)
}

// FollowFeed handles GET /follow: posts by authors the current user follows.
func (s *Server) FollowFeed(c *fiber.Ctx) error {
	feed, err := s.feedService.FollowPage(c.Context(), currentUserID(c), parsePage(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(feed)
}
