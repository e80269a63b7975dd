package bidding

import (
	"context"
	"fmt"
	"time"

	"carbid-backend/internal/application/emails"
	"carbid-backend/internal/domain"
	"carbid-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service owns the authoritative auction state of a car: accepted bids and
// the cached current price. All price advances go through PlaceBid.
type Service struct {
	DB     *gorm.DB
	Emails emails.Sender
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// PlaceBid validates and records a bid against a car's auction.
//
// Acceptance is serialized by an optimistic conditional write: the price
// update only applies while the stored current_price still equals the price
// read at validation time and the car is still active. Losing that race
// returns ErrConcurrentBid with no bid row persisted; the transaction spans
// the bid insert and the price advance so partial application cannot occur.
func (s *Service) PlaceBid(ctx context.Context, carID, bidderID uuid.UUID, amount float64) (*domain.Bid, error) {
	var car domain.Car
	if err := s.DB.WithContext(ctx).Where("car_id = ?", carID).First(&car).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCarNotFound
		}
		return nil, fmt.Errorf("bidding: read car %s: %w", carID, err)
	}

	if car.Status != constants.StatusActive {
		return nil, ErrAuctionNotActive
	}
	if !s.now().Before(car.AuctionEndDate) {
		return nil, ErrAuctionEnded
	}
	if car.OwnerID == bidderID {
		return nil, ErrOwnerBid
	}
	if amount <= car.CurrentPrice {
		return nil, &BidTooLowError{CurrentPrice: car.CurrentPrice}
	}

	priceAtRead := car.CurrentPrice
	bid := &domain.Bid{
		CarID:    carID,
		BidderID: bidderID,
		Amount:   amount,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(bid).Error; err != nil {
			return fmt.Errorf("bidding: insert bid: %w", err)
		}
		// Conditional price advance. Re-checking status and end date here, in
		// the same atomic unit as the price comparison, closes the window
		// where the sweep finalizes the auction between validation and write.
		res := tx.Model(&domain.Car{}).
			Where("car_id = ? AND status = ? AND current_price = ? AND auction_end_date > ?",
				carID, constants.StatusActive, priceAtRead, s.now()).
			Updates(map[string]interface{}{
				"current_price": amount,
				"winner_bid_id": bid.BidID,
			})
		if res.Error != nil {
			return fmt.Errorf("bidding: advance price: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrConcurrentBid
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatchNotifications(&car, bid)

	bid.Bidder = loadPublicBidder(s.DB, bid.BidderID)
	return bid, nil
}

// GetBidHistory returns the car's bids newest-first (capped at 50), bidder attached.
func (s *Service) GetBidHistory(ctx context.Context, carID uuid.UUID) ([]domain.Bid, error) {
	var bids []domain.Bid
	err := s.DB.WithContext(ctx).
		Where("car_id = ?", carID).
		Order(`"createdAt" DESC`).
		Limit(50).
		Preload("Bidder").
		Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("bidding: fetch bids for car %s: %w", carID, err)
	}
	return bids, nil
}

// HighestBid returns the highest accepted bid for a car (earliest wins ties),
// or gorm.ErrRecordNotFound when the car has no bids. The Bids table, not the
// cached current_price, is ground truth for settlement.
func HighestBid(db *gorm.DB, carID uuid.UUID) (*domain.Bid, error) {
	var top domain.Bid
	err := db.Where("car_id = ?", carID).
		Order(`amount DESC, "createdAt" ASC`).
		First(&top).Error
	if err != nil {
		return nil, err
	}
	return &top, nil
}

// dispatchNotifications emails the owner (new bid) and the outbid bidder.
// Fire-and-forget: failures are logged and dropped, never rolled into the bid result.
func (s *Service) dispatchNotifications(car *domain.Car, bid *domain.Bid) {
	if s.Emails == nil {
		return
	}
	prevWinnerBidID := car.WinnerBidID
	db := s.DB
	sender := s.Emails
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		var owner domain.User
		if err := db.Where("user_id = ?", car.OwnerID).First(&owner).Error; err != nil {
			log.Warn().Err(err).Str("car_id", car.CarID.String()).Msg("bid notification: owner lookup failed")
		} else if err := sender.SendBidNotification(ctx, owner.Email, car.Title(), bid.Amount, car.CarID.String()); err != nil {
			log.Warn().Err(err).Str("car_id", car.CarID.String()).Msg("bid notification: send failed")
		}

		if prevWinnerBidID == nil {
			return
		}
		var prev domain.Bid
		if err := db.Preload("Bidder").Where("bid_id = ?", *prevWinnerBidID).First(&prev).Error; err != nil {
			log.Warn().Err(err).Str("car_id", car.CarID.String()).Msg("outbid notification: previous bid lookup failed")
			return
		}
		if prev.Bidder == nil || prev.BidderID == bid.BidderID {
			return
		}
		if err := sender.SendOutbidNotification(ctx, prev.Bidder.Email, car.Title(), bid.Amount, car.CarID.String()); err != nil {
			log.Warn().Err(err).Str("car_id", car.CarID.String()).Msg("outbid notification: send failed")
		}
	}()
}

func loadPublicBidder(db *gorm.DB, bidderID uuid.UUID) *domain.User {
	var u domain.User
	if err := db.Where("user_id = ?", bidderID).First(&u).Error; err != nil {
		return nil
	}
	return &u
}
