package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"inkwell/internal/models"
	"inkwell/internal/validation"
)

const defaultUserLimit = 50

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondError(c, models.NewNotFoundError("User", userID))
		}
		return models.RespondError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	// Pointer fields so an omitted field is distinguishable from an
	// explicit empty value; only provided fields are changed.
	var req struct {
		Username  *string `json:"username"`
		Bio       *string `json:"bio"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondError(c,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondError(c, models.NewNotFoundError("User", userID))
		}
		return models.RespondError(c, err)
	}

	if req.Username != nil && *req.Username != user.Username {
		if err := validation.ValidateUsername(*req.Username); err != nil {
			return models.RespondError(c, models.NewValidationError(err.Error()))
		}
		existing, err := s.userRepo.GetByUsername(c.Context(), *req.Username)
		if err != nil {
			return models.RespondError(c, err)
		}
		if existing != nil {
			return models.RespondError(c,
				models.NewConflictError("Username already taken"))
		}
		user.Username = *req.Username
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}

	if err := s.userRepo.Update(c.Context(), user); err != nil {
		if models.IsUniqueViolation(err) {
			return models.RespondError(c,
				models.NewConflictError("Username already taken"))
		}
		return models.RespondError(c, err)
	}
	return c.JSON(user)
}

// GetAllUsers handles GET /api/users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	pg, err := parsePagination(c, defaultUserLimit)
	if err != nil {
		return models.RespondError(c, err)
	}

	users, err := s.userRepo.List(c.Context(), pg.Limit, pg.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	if users == nil {
		users = []*models.User{}
	}
	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := parseID(c, "id", "user ID")
	if err != nil {
		return models.RespondError(c, err)
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondError(c, models.NewNotFoundError("User", userID))
		}
		return models.RespondError(c, err)
	}
	return c.JSON(user)
}
