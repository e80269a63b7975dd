package users

import (
	usersvc "carbid-backend/internal/application/user"
	"carbid-backend/internal/middleware"
	"carbid-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handlers holds dependencies for user endpoints.
type Handlers struct {
	Service *usersvc.Service
}

// Register POST /api/v1/users registers a new account (public).
func (h *Handlers) Register(c *fiber.Ctx) error {
	var body usersvc.RegisterInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	u, err := h.Service.Register(c.Context(), body)
	if err != nil {
		log.Warn().Err(err).Str("email", body.Email).Msg("user registration rejected")
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	return response.SuccessCreated(c, "User registered successfully", fiber.Map{"user": u.Public()}, nil)
}

// Dashboard GET /api/v1/users/dashboard returns the caller's listings and bids.
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	d, err := h.Service.GetDashboard(c.Context(), userID)
	if err != nil {
		if err.Error() == "User not found" {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Dashboard fetched", d, nil)
}
