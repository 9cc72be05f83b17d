package server

import (
	"github.com/gofiber/fiber/v2"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"
)

const defaultFeedLimit = 10

// GetFeed handles GET /api/posts
func (s *Server) GetFeed(c *fiber.Ctx) error {
	pg, err := parsePagination(c, defaultFeedLimit)
	if err != nil {
		return models.RespondError(c, err)
	}

	entries, err := s.feedService.ListFeed(c.Context(), repository.FeedQuery{
		Search:   c.Query("search"),
		Offset:   pg.Offset,
		Limit:    pg.Limit,
		ViewerID: optionalUserID(c),
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(entries)
}

// SearchPosts handles GET /api/posts/search. It shares feed assembly
// with GetFeed; the q parameter is the search term.
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return models.RespondError(c,
			models.NewValidationError("Query parameter 'q' is required"))
	}

	pg, err := parsePagination(c, defaultFeedLimit)
	if err != nil {
		return models.RespondError(c, err)
	}

	entries, err := s.feedService.ListFeed(c.Context(), repository.FeedQuery{
		Search:   q,
		Offset:   pg.Offset,
		Limit:    pg.Limit,
		ViewerID: optionalUserID(c),
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(entries)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return models.RespondError(c, err)
	}

	entry, err := s.feedService.GetPost(c.Context(), postID, optionalUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(entry)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Status  string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondError(c,
			models.NewValidationError("Invalid request body"))
	}

	entry, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return models.RespondError(c, err)
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Status  string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondError(c,
			models.NewValidationError("Invalid request body"))
	}

	entry, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:  userID,
		PostID:  postID,
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(entry)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return models.RespondError(c, err)
	}

	if err := s.postService.DeletePost(c.Context(), userID, postID); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return models.RespondError(c, err)
	}

	entry, err := s.postService.LikePost(c.Context(), userID, postID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(entry)
}

// UnlikePost handles DELETE /api/posts/:id/like
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return models.RespondError(c, err)
	}

	entry, err := s.postService.UnlikePost(c.Context(), userID, postID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(entry)
}

// FavoritePost handles POST /api/posts/:id/favorite
func (s *Server) FavoritePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return models.RespondError(c, err)
	}

	entry, err := s.postService.FavoritePost(c.Context(), userID, postID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(entry)
}

// UnfavoritePost handles DELETE /api/posts/:id/favorite
func (s *Server) UnfavoritePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return models.RespondError(c, err)
	}

	entry, err := s.postService.UnfavoritePost(c.Context(), userID, postID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(entry)
}

// GetFavorites handles GET /api/favorites
func (s *Server) GetFavorites(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	pg, err := parsePagination(c, defaultFeedLimit)
	if err != nil {
		return models.RespondError(c, err)
	}

	entries, err := s.postService.ListFavorites(c.Context(), userID, pg.Limit, pg.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	if entries == nil {
		entries = []*models.FeedEntry{}
	}
	return c.JSON(entries)
}

// GetUserPosts handles GET /api/users/:id/posts. Drafts are included
// only when the viewer is the author.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	authorID, err := parseID(c, "id", "user ID")
	if err != nil {
		return models.RespondError(c, err)
	}
	pg, err := parsePagination(c, defaultFeedLimit)
	if err != nil {
		return models.RespondError(c, err)
	}

	entries, err := s.postService.ListByAuthor(c.Context(), authorID, pg.Limit, pg.Offset, optionalUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	if entries == nil {
		entries = []*models.FeedEntry{}
	}
	return c.JSON(entries)
}
