package server

import (
	"github.com/gofiber/fiber/v2"
)

// Follow handles POST /profile/:username/follow
func (s *Server) Follow(c *fiber.Ctx) error {
	username := c.Params("username")
	if err := s.followService.Follow(c.Context(), currentUserID(c), username); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"following": true,
		"author":    username,
	})
}

// Unfollow handles POST /profile/:username/unfollow
func (s *Server) Unfollow(c *fiber.Ctx) error {
	username := c.Params("username")
	if err := s.followService.Unfollow(c.Context(), currentUserID(c), username); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"following": false,
		"author":    username,
	})
}
