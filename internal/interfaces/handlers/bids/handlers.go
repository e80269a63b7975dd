package bids

import (
	"errors"

	"carbid-backend/internal/application/bidding"
	"carbid-backend/internal/domain"
	"carbid-backend/internal/middleware"
	"carbid-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handlers holds dependencies for bid endpoints.
type Handlers struct {
	Service *bidding.Service
}

// Place POST /api/v1/cars/:carId/bids records a bid on an active auction.
func (h *Handlers) Place(c *fiber.Ctx) error {
	carID, err := uuid.Parse(c.Params("carId"))
	if err != nil {
		return response.Error(c, "Invalid car id", fiber.StatusBadRequest, nil)
	}
	bidderID := middleware.GetUserID(c)
	if bidderID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body struct {
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if body.Amount <= 0 {
		return response.Error(c, "Bid amount must be a positive number", fiber.StatusBadRequest, nil)
	}

	bid, err := h.Service.PlaceBid(c.Context(), carID, bidderID, body.Amount)
	if err != nil {
		if low, ok := bidding.IsBidTooLow(err); ok {
			return response.Error(c, low.Error(), fiber.StatusBadRequest, fiber.Map{
				"current_price": low.CurrentPrice,
			})
		}
		switch {
		case errors.Is(err, bidding.ErrCarNotFound):
			return response.NotFound(c, err.Error())
		case errors.Is(err, bidding.ErrAuctionNotActive), errors.Is(err, bidding.ErrAuctionEnded), errors.Is(err, bidding.ErrOwnerBid):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, bidding.ErrConcurrentBid):
			return response.Conflict(c, err.Error(), nil)
		default:
			log.Error().Err(err).Str("car_id", carID.String()).Msg("place bid failed")
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	return response.SuccessCreated(c, "Bid placed successfully", fiber.Map{"bid": bidView(bid)}, nil)
}

// History GET /api/v1/cars/:carId/bids returns the car's bids newest-first.
func (h *Handlers) History(c *fiber.Ctx) error {
	carID, err := uuid.Parse(c.Params("carId"))
	if err != nil {
		return response.Error(c, "Invalid car id", fiber.StatusBadRequest, nil)
	}
	bids, err := h.Service.GetBidHistory(c.Context(), carID)
	if err != nil {
		log.Error().Err(err).Str("car_id", carID.String()).Msg("fetch bid history failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	out := make([]fiber.Map, 0, len(bids))
	for i := range bids {
		out = append(out, bidView(&bids[i]))
	}
	return response.Success(c, "Bids fetched", fiber.Map{"bids": out}, nil)
}

func bidView(b *domain.Bid) fiber.Map {
	v := fiber.Map{
		"bid_id":    b.BidID,
		"car_id":    b.CarID,
		"bidder_id": b.BidderID,
		"amount":    b.Amount,
		"createdAt": b.CreatedAt,
	}
	if b.Bidder != nil {
		v["bidder"] = b.Bidder.Public()
	}
	return v
}
