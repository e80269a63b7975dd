package user

import (
	"context"
	"errors"
	"strings"

	"carbid-backend/internal/domain"
	"carbid-backend/internal/pkg/constants"
	"carbid-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service holds DB for user operations.
type Service struct {
	DB *gorm.DB
}

// RegisterInput is the registration request body.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a user account. Returns the created model (caller sanitizes password_hash).
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("Name is required and must be a non-empty string")
	}
	if in.Email == "" || !validation.IsValidEmail(in.Email) {
		return nil, errors.New("Invalid email format")
	}
	if in.Password == "" || !validation.IsValidPassword(in.Password) {
		return nil, errors.New("Invalid password format")
	}
	name := strings.TrimSpace(in.Name)
	if !validation.IsValidName(name) {
		return nil, errors.New("Name contains invalid characters (only letters, spaces, hyphens, and apostrophes allowed)")
	}
	email := strings.TrimSpace(strings.ToLower(in.Email))

	var existing domain.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, errors.New("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         constants.User,
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// DashboardCar is the car projection on the user dashboard.
type DashboardCar struct {
	CarID          uuid.UUID `json:"car_id"`
	Brand          string    `json:"brand"`
	Model          string    `json:"model"`
	Year           int       `json:"year"`
	Status         string    `json:"status"`
	CurrentPrice   float64   `json:"current_price"`
	AuctionEndDate string    `json:"auction_end_date"`
}

// DashboardBid is one of the user's bids with its car attached.
type DashboardBid struct {
	BidID     uuid.UUID     `json:"bid_id"`
	Amount    float64       `json:"amount"`
	CreatedAt string        `json:"createdAt"`
	Car       *DashboardCar `json:"car"`
}

// Dashboard is the "my cars + my bids" view.
type Dashboard struct {
	User domain.PublicUser `json:"user"`
	Cars []DashboardCar    `json:"cars"`
	Bids []DashboardBid    `json:"bids"`
}

// GetDashboard returns the user's own listings and bids, both newest-first.
func (s *Service) GetDashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("User not found")
		}
		return nil, err
	}

	var cars []domain.Car
	if err := s.DB.WithContext(ctx).
		Where("owner_id = ?", userID).
		Order(`"createdAt" DESC`).
		Find(&cars).Error; err != nil {
		return nil, err
	}

	var bids []domain.Bid
	if err := s.DB.WithContext(ctx).
		Where("bidder_id = ?", userID).
		Order(`"createdAt" DESC`).
		Preload("Car").
		Find(&bids).Error; err != nil {
		return nil, err
	}

	out := &Dashboard{User: u.Public(), Cars: []DashboardCar{}, Bids: []DashboardBid{}}
	for _, c := range cars {
		out.Cars = append(out.Cars, dashboardCar(&c))
	}
	for _, b := range bids {
		db := DashboardBid{
			BidID:     b.BidID,
			Amount:    b.Amount,
			CreatedAt: b.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if b.Car != nil {
			dc := dashboardCar(b.Car)
			db.Car = &dc
		}
		out.Bids = append(out.Bids, db)
	}
	return out, nil
}

func dashboardCar(c *domain.Car) DashboardCar {
	return DashboardCar{
		CarID:          c.CarID,
		Brand:          c.Brand,
		Model:          c.Model,
		Year:           c.Year,
		Status:         c.Status,
		CurrentPrice:   c.CurrentPrice,
		AuctionEndDate: c.AuctionEndDate.Format("2006-01-02T15:04:05Z07:00"),
	}
}
