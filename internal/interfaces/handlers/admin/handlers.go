package admin

import (
	"errors"

	adminsvc "carbid-backend/internal/application/admin"
	"carbid-backend/internal/application/bidstats"
	carsvc "carbid-backend/internal/application/cars"
	"carbid-backend/internal/domain"
	"carbid-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Handlers holds dependencies for admin endpoints.
type Handlers struct {
	Stats *adminsvc.Service
	Cars  *carsvc.Service
	DB    *gorm.DB
}

// GetStats GET /api/v1/admin/stats returns marketplace-wide aggregates.
func (h *Handlers) GetStats(c *fiber.Ctx) error {
	stats, err := h.Stats.GetStats(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("admin stats failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Stats fetched", stats, nil)
}

// GetCarDetail GET /api/v1/admin/cars/:carId returns a car with its full bid
// list and aggregate bid statistics.
func (h *Handlers) GetCarDetail(c *fiber.Ctx) error {
	carID, err := uuid.Parse(c.Params("carId"))
	if err != nil {
		return response.Error(c, "Invalid car id", fiber.StatusBadRequest, nil)
	}
	car, err := h.Cars.GetCarByID(c.Context(), carID)
	if err != nil {
		if errors.Is(err, carsvc.ErrCarNotFound) {
			return response.NotFound(c, err.Error())
		}
		log.Error().Err(err).Str("car_id", carID.String()).Msg("admin car detail failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	var bids []domain.Bid
	if err := h.DB.WithContext(c.Context()).
		Where("car_id = ?", carID).
		Order(`"createdAt" DESC`).
		Preload("Bidder").
		Find(&bids).Error; err != nil {
		log.Error().Err(err).Str("car_id", carID.String()).Msg("admin car bids failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	return response.Success(c, "Car detail fetched", fiber.Map{
		"car":       car,
		"bids":      bids,
		"bid_stats": bidstats.Compute(bids),
	}, nil)
}
