package closer

import (
	"context"
	"fmt"
	"time"

	"carbid-backend/internal/application/bidding"
	"carbid-backend/internal/application/emails"
	"carbid-backend/internal/domain"
	"carbid-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service is the closing sweep: it finds active cars whose auction end date
// has passed and resolves each one exactly once.
type Service struct {
	DB     *gorm.DB
	Emails emails.Sender
}

// Outcome records how one car was resolved.
type Outcome struct {
	CarID       uuid.UUID  `json:"car_id"`
	Status      string     `json:"status"`
	WinnerBidID *uuid.UUID `json:"winner_bid_id,omitempty"`
	HighestBid  *float64   `json:"highest_bid,omitempty"`
}

// SweepError pairs a car with the failure that prevented its resolution.
type SweepError struct {
	CarID uuid.UUID `json:"car_id"`
	Err   string    `json:"error"`
}

// Report summarizes one sweep run.
type Report struct {
	Resolved []Outcome    `json:"resolved"`
	Skipped  []uuid.UUID  `json:"skipped"`
	Errors   []SweepError `json:"errors"`
}

// RunSweep resolves every active car whose auction ended at or before now.
// Per-car failures are collected and do not abort the remaining cars.
// Running the sweep twice in succession is a no-op the second time: the
// conditional transition only applies to cars still observed as active.
func (s *Service) RunSweep(ctx context.Context, now time.Time) (*Report, error) {
	var ended []domain.Car
	if err := s.DB.WithContext(ctx).
		Where("status = ? AND auction_end_date <= ?", constants.StatusActive, now).
		Find(&ended).Error; err != nil {
		return nil, fmt.Errorf("closer: list ended auctions: %w", err)
	}

	log.Info().Int("count", len(ended)).Time("now", now).Msg("closing sweep: found ended active auctions")

	report := &Report{}
	for i := range ended {
		car := &ended[i]
		outcome, closed, err := s.closeOne(ctx, car)
		if err != nil {
			log.Error().Err(err).Str("car_id", car.CarID.String()).Msg("closing sweep: car failed")
			report.Errors = append(report.Errors, SweepError{CarID: car.CarID, Err: err.Error()})
			continue
		}
		if !closed {
			// Lost the race against an overlapping sweep run; already resolved.
			report.Skipped = append(report.Skipped, car.CarID)
			continue
		}
		report.Resolved = append(report.Resolved, *outcome)
		s.notifyOwner(car, outcome)
	}
	return report, nil
}

// closeOne decides and applies the terminal transition for one car. The
// decision is based on the actual highest accepted bid, not the cached
// current_price, so a drifted cache cannot produce a wrong settlement.
func (s *Service) closeOne(ctx context.Context, car *domain.Car) (*Outcome, bool, error) {
	db := s.DB.WithContext(ctx)

	top, err := bidding.HighestBid(db, car.CarID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, false, fmt.Errorf("closer: highest bid for car %s: %w", car.CarID, err)
	}

	outcome := &Outcome{CarID: car.CarID, Status: constants.StatusReserveNotMet}
	updates := map[string]interface{}{"status": constants.StatusReserveNotMet}
	if top != nil {
		outcome.HighestBid = &top.Amount
		if car.ReservePrice == nil || top.Amount >= *car.ReservePrice {
			outcome.Status = constants.StatusCompleted
			outcome.WinnerBidID = &top.BidID
			updates["status"] = constants.StatusCompleted
			updates["winner_bid_id"] = top.BidID
		}
	}

	// Apply only while still active: guards against overlapping sweeps and
	// against an admin cancellation landing between snapshot and write.
	res := db.Model(&domain.Car{}).
		Where("car_id = ? AND status = ?", car.CarID, constants.StatusActive).
		Updates(updates)
	if res.Error != nil {
		return nil, false, fmt.Errorf("closer: transition car %s: %w", car.CarID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}

	log.Info().
		Str("car_id", car.CarID.String()).
		Str("status", outcome.Status).
		Msg("closing sweep: auction resolved")
	return outcome, true, nil
}

// notifyOwner emails the seller about the auction result. Best-effort.
func (s *Service) notifyOwner(car *domain.Car, outcome *Outcome) {
	if s.Emails == nil {
		return
	}
	db := s.DB
	sender := s.Emails
	finalAmount := 0.0
	if outcome.HighestBid != nil {
		finalAmount = *outcome.HighestBid
	}
	status := outcome.Status
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		var owner domain.User
		if err := db.Where("user_id = ?", car.OwnerID).First(&owner).Error; err != nil {
			log.Warn().Err(err).Str("car_id", car.CarID.String()).Msg("auction result notification: owner lookup failed")
			return
		}
		if err := sender.SendAuctionResult(ctx, owner.Email, car.Title(), status, finalAmount, car.CarID.String()); err != nil {
			log.Warn().Err(err).Str("car_id", car.CarID.String()).Msg("auction result notification: send failed")
		}
	}()
}
