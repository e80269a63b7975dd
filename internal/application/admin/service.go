package admin

import (
	"context"
	"fmt"

	"carbid-backend/internal/domain"
	"carbid-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service computes platform-wide statistics for the admin dashboard.
type Service struct {
	DB *gorm.DB
}

// TopBidder is a bidder ranked by number of placed bids.
type TopBidder struct {
	UserID   uuid.UUID `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	BidCount int       `json:"bid_count"`
}

// TopSeller is a seller ranked by number of listed cars.
type TopSeller struct {
	UserID   uuid.UUID `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	CarCount int       `json:"car_count"`
}

// Stats is the admin dashboard payload.
type Stats struct {
	TotalUsers  int64               `json:"totalUsers"`
	TotalCars   int64               `json:"totalCars"`
	ActiveCars  int64               `json:"activeCars"`
	TotalBids   int64               `json:"totalBids"`
	CarsByState map[string]int64    `json:"carsByStatus"`
	TopBidders  []TopBidder         `json:"topBidders"`
	TopSellers  []TopSeller         `json:"topSellers"`
	RecentUsers []domain.PublicUser `json:"recentUsers"`
}

// GetStats aggregates counts, rankings and recent signups.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	db := s.DB.WithContext(ctx)
	out := &Stats{
		CarsByState: map[string]int64{},
		TopBidders:  []TopBidder{},
		TopSellers:  []TopSeller{},
		RecentUsers: []domain.PublicUser{},
	}

	if err := db.Model(&domain.User{}).Count(&out.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("admin: count users: %w", err)
	}
	if err := db.Model(&domain.Car{}).Count(&out.TotalCars).Error; err != nil {
		return nil, fmt.Errorf("admin: count cars: %w", err)
	}
	if err := db.Model(&domain.Bid{}).Count(&out.TotalBids).Error; err != nil {
		return nil, fmt.Errorf("admin: count bids: %w", err)
	}

	for _, status := range constants.AuctionStatuses {
		var n int64
		if err := db.Model(&domain.Car{}).Where("status = ?", status).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("admin: count cars in %s: %w", status, err)
		}
		out.CarsByState[status] = n
	}
	out.ActiveCars = out.CarsByState[constants.StatusActive]

	if err := db.Model(&domain.Bid{}).
		Select(`"Users".user_id AS user_id, "Users".name AS name, "Users".email AS email, COUNT(*) AS bid_count`).
		Joins(`JOIN "Users" ON "Users".user_id = "Bids".bidder_id`).
		Group(`"Users".user_id, "Users".name, "Users".email`).
		Order("bid_count DESC").
		Limit(20).
		Scan(&out.TopBidders).Error; err != nil {
		return nil, fmt.Errorf("admin: top bidders: %w", err)
	}

	if err := db.Model(&domain.Car{}).
		Select(`"Users".user_id AS user_id, "Users".name AS name, "Users".email AS email, COUNT(*) AS car_count`).
		Joins(`JOIN "Users" ON "Users".user_id = "Cars".owner_id`).
		Group(`"Users".user_id, "Users".name, "Users".email`).
		Order("car_count DESC").
		Limit(20).
		Scan(&out.TopSellers).Error; err != nil {
		return nil, fmt.Errorf("admin: top sellers: %w", err)
	}

	var recent []domain.User
	if err := db.Order(`"createdAt" DESC`).Limit(10).Find(&recent).Error; err != nil {
		return nil, fmt.Errorf("admin: recent users: %w", err)
	}
	for _, u := range recent {
		out.RecentUsers = append(out.RecentUsers, u.Public())
	}

	return out, nil
}
