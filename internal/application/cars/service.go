package cars

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"carbid-backend/internal/domain"
	"carbid-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrCarNotFound   = errors.New("Car not found")
	ErrForbidden     = errors.New("Forbidden")
	ErrInvalidStatus = errors.New("Invalid status. Allowed: " + strings.Join(constants.AuctionStatuses, ", "))
	// ErrAlreadyResolved rejects a status change on a car no longer active.
	ErrAlreadyResolved = errors.New("Auction is already resolved")
)

// Service encapsulates car listing operations.
type Service struct {
	DB *gorm.DB
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateCarInput is the listing creation request body.
type CreateCarInput struct {
	Brand          string   `json:"brand"`
	Model          string   `json:"model"`
	Description    string   `json:"description"`
	Specs          *string  `json:"specs"`
	Condition      string   `json:"condition"`
	Km             int      `json:"km"`
	Year           int      `json:"year"`
	Power          int      `json:"power"`
	Fuel           string   `json:"fuel"`
	Images         []string `json:"images"`
	StartingPrice  float64  `json:"starting_price"`
	ReservePrice   *float64 `json:"reserve_price"`
	AuctionEndDate string   `json:"auction_end_date"`
	AddressLine    *string  `json:"address_line"`
	Zipcode        *string  `json:"zipcode"`
	City           *string  `json:"city"`
}

// CreateCar creates an active listing for the owner. The current price is
// seeded from the starting price and only ever advanced by accepted bids.
func (s *Service) CreateCar(ctx context.Context, ownerID uuid.UUID, in CreateCarInput) (*domain.Car, error) {
	if in.Brand == "" || in.Model == "" || in.Condition == "" || in.Fuel == "" {
		return nil, errors.New("Missing required fields")
	}
	if in.StartingPrice <= 0 {
		return nil, errors.New("Starting price must be a positive number")
	}
	if in.ReservePrice != nil && *in.ReservePrice < in.StartingPrice {
		return nil, errors.New("Reserve price cannot be below the starting price")
	}
	endDate, err := time.Parse(time.RFC3339, in.AuctionEndDate)
	if err != nil {
		return nil, errors.New("Invalid auction end date")
	}
	if !endDate.After(s.now()) {
		return nil, errors.New("Auction end date must be in the future")
	}

	images := in.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, err := imagesValue(images)
	if err != nil {
		return nil, err
	}

	car := &domain.Car{
		OwnerID:        ownerID,
		Brand:          in.Brand,
		Model:          in.Model,
		Description:    in.Description,
		Specs:          in.Specs,
		Condition:      in.Condition,
		Km:             in.Km,
		Year:           in.Year,
		Power:          in.Power,
		Fuel:           in.Fuel,
		Images:         imagesJSON,
		StartingPrice:  in.StartingPrice,
		CurrentPrice:   in.StartingPrice,
		ReservePrice:   in.ReservePrice,
		AuctionEndDate: endDate,
		Status:         constants.StatusActive,
		AddressLine:    in.AddressLine,
		Zipcode:        in.Zipcode,
		City:           in.City,
	}
	if err := s.DB.WithContext(ctx).Create(car).Error; err != nil {
		return nil, fmt.Errorf("cars: create listing: %w", err)
	}
	return car, nil
}

// ListByStatus returns cars in the given status, newest-first, owner attached.
// Gating of non-active statuses to admins happens in the handler.
func (s *Service) ListByStatus(ctx context.Context, status string) ([]domain.Car, error) {
	if !constants.IsValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	var cars []domain.Car
	err := s.DB.WithContext(ctx).
		Where("status = ?", status).
		Order(`"createdAt" DESC`).
		Preload("Owner").
		Find(&cars).Error
	if err != nil {
		return nil, fmt.Errorf("cars: list by status %s: %w", status, err)
	}
	return cars, nil
}

// GetCarByID returns one car with its owner attached.
func (s *Service) GetCarByID(ctx context.Context, carID uuid.UUID) (*domain.Car, error) {
	var car domain.Car
	err := s.DB.WithContext(ctx).
		Where("car_id = ?", carID).
		Preload("Owner").
		First(&car).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCarNotFound
		}
		return nil, fmt.Errorf("cars: read car %s: %w", carID, err)
	}
	return &car, nil
}

// UpdateStatus applies an owner/admin status change. Admins may set any
// status; owners may only cancel their own active car. Transitions out of a
// terminal status are rejected, and the write carries the same
// status-still-active guard the closer uses so it cannot race the sweep.
func (s *Service) UpdateStatus(ctx context.Context, carID, actorID uuid.UUID, isAdmin bool, status string) (*domain.Car, error) {
	if !constants.IsValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	var car domain.Car
	if err := s.DB.WithContext(ctx).Where("car_id = ?", carID).First(&car).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCarNotFound
		}
		return nil, err
	}

	isOwner := car.OwnerID == actorID
	if !isAdmin && !(isOwner && status == constants.StatusCancelled) {
		return nil, ErrForbidden
	}
	if constants.IsTerminalStatus(car.Status) {
		return nil, ErrAlreadyResolved
	}

	res := s.DB.WithContext(ctx).Model(&domain.Car{}).
		Where("car_id = ? AND status = ?", carID, constants.StatusActive).
		Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("cars: update status for %s: %w", carID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrAlreadyResolved
	}
	car.Status = status
	return &car, nil
}

func imagesValue(images []string) (datatypes.JSON, error) {
	b, err := json.Marshal(images)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
