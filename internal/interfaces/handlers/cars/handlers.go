package cars

import (
	"errors"

	"carbid-backend/internal/application/bidding"
	carsvc "carbid-backend/internal/application/cars"
	"carbid-backend/internal/application/likes"
	"carbid-backend/internal/application/ratings"
	"carbid-backend/internal/middleware"
	"carbid-backend/internal/pkg/constants"
	"carbid-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Handlers holds dependencies for car listing endpoints.
type Handlers struct {
	Cars    *carsvc.Service
	Likes   *likes.Service
	Ratings *ratings.Service
}

// Create POST /api/v1/cars lists a car for auction (owner = session user).
func (h *Handlers) Create(c *fiber.Ctx) error {
	ownerID := middleware.GetUserID(c)
	if ownerID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body carsvc.CreateCarInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	car, err := h.Cars.CreateCar(c.Context(), ownerID, body)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	return response.SuccessCreated(c, "Car listed successfully", fiber.Map{"car": car}, nil)
}

// List GET /api/v1/cars?status=active returns cars in the given status,
// defaulting to active. Non-active statuses are visible to admins only.
func (h *Handlers) List(c *fiber.Ctx) error {
	status := c.Query("status", constants.StatusActive)
	if status != constants.StatusActive && middleware.GetUserRole(c) != constants.Admin {
		return response.Error(c, "Admin access required", fiber.StatusForbidden, nil)
	}
	cars, err := h.Cars.ListByStatus(c.Context(), status)
	if err != nil {
		if errors.Is(err, carsvc.ErrInvalidStatus) {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		log.Error().Err(err).Str("status", status).Msg("list cars failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Cars fetched", fiber.Map{"cars": cars}, nil)
}

// Get GET /api/v1/cars/:carId returns one car with its owner and latest bid.
func (h *Handlers) Get(c *fiber.Ctx) error {
	carID, err := uuid.Parse(c.Params("carId"))
	if err != nil {
		return response.Error(c, "Invalid car id", fiber.StatusBadRequest, nil)
	}
	car, err := h.Cars.GetCarByID(c.Context(), carID)
	if err != nil {
		if errors.Is(err, carsvc.ErrCarNotFound) {
			return response.NotFound(c, err.Error())
		}
		log.Error().Err(err).Str("car_id", carID.String()).Msg("get car failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	data := fiber.Map{"car": car}
	if top, err := bidding.HighestBid(h.Cars.DB, carID); err == nil {
		data["highest_bid"] = top
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn().Err(err).Str("car_id", carID.String()).Msg("highest bid lookup failed")
	}
	return response.Success(c, "Car fetched", data, nil)
}

// UpdateStatus PATCH /api/v1/cars/:carId/status changes the auction status.
// Admins may set any status; owners may only cancel their active listing.
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	carID, err := uuid.Parse(c.Params("carId"))
	if err != nil {
		return response.Error(c, "Invalid car id", fiber.StatusBadRequest, nil)
	}
	actorID := middleware.GetUserID(c)
	if actorID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil || body.Status == "" {
		return response.Error(c, "Status is required", fiber.StatusBadRequest, nil)
	}

	isAdmin := middleware.GetUserRole(c) == constants.Admin
	car, err := h.Cars.UpdateStatus(c.Context(), carID, actorID, isAdmin, body.Status)
	if err != nil {
		switch {
		case errors.Is(err, carsvc.ErrCarNotFound):
			return response.NotFound(c, err.Error())
		case errors.Is(err, carsvc.ErrForbidden):
			return response.Error(c, "You are not allowed to change this car's status", fiber.StatusForbidden, nil)
		case errors.Is(err, carsvc.ErrInvalidStatus):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, carsvc.ErrAlreadyResolved):
			return response.Conflict(c, err.Error(), nil)
		default:
			log.Error().Err(err).Str("car_id", carID.String()).Msg("update car status failed")
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	return response.Success(c, "Status updated", fiber.Map{"car": car}, nil)
}

// Like POST /api/v1/cars/:carId/likes marks the car as liked by the caller.
func (h *Handlers) Like(c *fiber.Ctx) error {
	carID, err := uuid.Parse(c.Params("carId"))
	if err != nil {
		return response.Error(c, "Invalid car id", fiber.StatusBadRequest, nil)
	}
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Likes.Like(c.Context(), userID, carID); err != nil {
		if errors.Is(err, likes.ErrAlreadyLiked) {
			return response.Conflict(c, err.Error(), nil)
		}
		log.Error().Err(err).Str("car_id", carID.String()).Msg("like failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.SuccessCreated(c, "Car liked", nil, nil)
}

// Unlike DELETE /api/v1/cars/:carId/likes removes the caller's like.
func (h *Handlers) Unlike(c *fiber.Ctx) error {
	carID, err := uuid.Parse(c.Params("carId"))
	if err != nil {
		return response.Error(c, "Invalid car id", fiber.StatusBadRequest, nil)
	}
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Likes.Unlike(c.Context(), userID, carID); err != nil {
		log.Error().Err(err).Str("car_id", carID.String()).Msg("unlike failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Car unliked", nil, nil)
}

// ListLikes GET /api/v1/cars/:carId/likes returns the car's likes (admin only).
func (h *Handlers) ListLikes(c *fiber.Ctx) error {
	carID, err := uuid.Parse(c.Params("carId"))
	if err != nil {
		return response.Error(c, "Invalid car id", fiber.StatusBadRequest, nil)
	}
	out, err := h.Likes.ListForCar(c.Context(), carID)
	if err != nil {
		log.Error().Err(err).Str("car_id", carID.String()).Msg("list likes failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Likes fetched", fiber.Map{"likes": out}, nil)
}

// Rate POST /api/v1/cars/:carId/ratings rates a counterparty on this auction.
func (h *Handlers) Rate(c *fiber.Ctx) error {
	carID, err := uuid.Parse(c.Params("carId"))
	if err != nil {
		return response.Error(c, "Invalid car id", fiber.StatusBadRequest, nil)
	}
	raterID := middleware.GetUserID(c)
	if raterID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body ratings.RateInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	r, err := h.Ratings.Rate(c.Context(), carID, raterID, body)
	if err != nil {
		switch {
		case errors.Is(err, ratings.ErrInvalidScore), errors.Is(err, ratings.ErrSelfRating):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, ratings.ErrUserNotFound):
			return response.NotFound(c, err.Error())
		default:
			log.Error().Err(err).Str("car_id", carID.String()).Msg("rate failed")
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	return response.SuccessCreated(c, "Rating saved", fiber.Map{"rating": r}, nil)
}

// ListRatings GET /api/v1/cars/:carId/ratings returns the car's ratings (admin only).
func (h *Handlers) ListRatings(c *fiber.Ctx) error {
	carID, err := uuid.Parse(c.Params("carId"))
	if err != nil {
		return response.Error(c, "Invalid car id", fiber.StatusBadRequest, nil)
	}
	out, err := h.Ratings.ListForCar(c.Context(), carID)
	if err != nil {
		log.Error().Err(err).Str("car_id", carID.String()).Msg("list ratings failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Ratings fetched", fiber.Map{"ratings": out}, nil)
}
