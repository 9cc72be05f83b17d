package server

import (
	"github.com/gofiber/fiber/v2"

	"inkwell/internal/models"
	"inkwell/internal/service"
)

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return models.RespondError(c, err)
	}

	comments, err := s.commentService.ListComments(c.Context(), postID)
	if err != nil {
		return models.RespondError(c, err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return models.RespondError(c, err)
	}

	var req struct {
		Content         string `json:"content"`
		ParentCommentID *uint  `json:"parent_comment_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondError(c,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID:          userID,
		PostID:          postID,
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment handles DELETE /api/posts/:id/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	commentID, err := parseID(c, "commentId", "comment ID")
	if err != nil {
		return models.RespondError(c, err)
	}

	if err := s.commentService.DeleteComment(c.Context(), userID, commentID); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}
