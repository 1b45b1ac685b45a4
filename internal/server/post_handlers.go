package server

import (
	"io"
	"strconv"
	"strings"

	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postForm is the parsed post create/edit submission.
type postForm struct {
	Text    string
	GroupID *uint
	Image   *service.ImageUpload
}

// parsePostForm reads a post submission from either a multipart form
// (text, group, image) or a JSON body (text, group).
func (s *Server) parsePostForm(c *fiber.Ctx) (*postForm, error) {
	form := &postForm{}

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form.Text = c.FormValue("text")

		if raw := strings.TrimSpace(c.FormValue("group")); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 32)
			if err != nil || id == 0 {
				return nil, models.NewFieldValidationError("group", "Select a valid group")
			}
			gid := uint(id)
			form.GroupID = &gid
		}

		if fh, err := c.FormFile("image"); err == nil && fh != nil {
			f, err := fh.Open()
			if err != nil {
				return nil, models.NewInternalError(err)
			}
			defer f.Close()

			content, err := io.ReadAll(f)
			if err != nil {
				return nil, models.NewInternalError(err)
			}
			form.Image = &service.ImageUpload{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get(fiber.HeaderContentType),
				Content:     content,
			}
		}
		return form, nil
	}

	var req struct {
		Text  string `json:"text"`
		Group *uint  `json:"group"`
	}
	if err := c.BodyParser(&req); err != nil {
		return nil, models.NewValidationError("Invalid request body")
	}
	form.Text = req.Text
	form.GroupID = req.Group
	return form, nil
}

// GetPost handles GET /posts/:id: the post with its comments, newest first.
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.postService.GetPostDetail(c.Context(), postID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(detail)
}

// NewPostForm handles GET /create: the data backing the post creation form.
func (s *Server) NewPostForm(c *fiber.Ctx) error {
	groups, err := s.groupRepo.List(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"groups":  groups,
		"is_edit": false,
	})
}

// CreatePost handles POST /create
func (s *Server) CreatePost(c *fiber.Ctx) error {
	form, err := s.parsePostForm(c)
	if err != nil {
		return respondAppError(c, err)
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		AuthorID: currentUserID(c),
		Text:     form.Text,
		GroupID:  form.GroupID,
		Image:    form.Image,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// EditPostForm handles GET /posts/:id/edit: the data backing the edit form.
// Only the author may open it.
func (s *Server) EditPostForm(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetByID(c.Context(), postID)
	if err != nil {
		return respondAppError(c, err)
	}
	if post.AuthorID != currentUserID(c) {
		return respondAppError(c, models.NewForbiddenError("Only the author can edit this post"))
	}

	groups, err := s.groupRepo.List(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"post":    post,
		"groups":  groups,
		"is_edit": true,
	})
}

// EditPost handles POST /posts/:id/edit
func (s *Server) EditPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	form, err := s.parsePostForm(c)
	if err != nil {
		return respondAppError(c, err)
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		PostID:   postID,
		EditorID: currentUserID(c),
		Text:     form.Text,
		GroupID:  form.GroupID,
		Image:    form.Image,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(post)
}
