package admin

import (
	"context"
	"testing"
	"time"

	"carbid-backend/internal/domain"
	"carbid-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAdminTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Car{}, &domain.Bid{}))
	return &Service{DB: db}, db
}

func TestGetStats(t *testing.T) {
	svc, db := setupAdminTest(t)

	seller := &domain.User{Name: "Seller", Email: "seller@example.com", PasswordHash: "x", Role: constants.User}
	require.NoError(t, db.Create(seller).Error)
	bidder := &domain.User{Name: "Bidder", Email: "bidder@example.com", PasswordHash: "x", Role: constants.User}
	require.NoError(t, db.Create(bidder).Error)

	active := &domain.Car{
		OwnerID: seller.UserID, Brand: "Ford", Model: "Focus", Condition: "used",
		Km: 100000, Year: 2016, Power: 125, Fuel: "petrol",
		StartingPrice: 4000, CurrentPrice: 4000,
		AuctionEndDate: time.Now().Add(time.Hour), Status: constants.StatusActive,
	}
	require.NoError(t, db.Create(active).Error)
	done := &domain.Car{
		OwnerID: seller.UserID, Brand: "Ford", Model: "Fiesta", Condition: "used",
		Km: 90000, Year: 2017, Power: 100, Fuel: "petrol",
		StartingPrice: 3000, CurrentPrice: 3500,
		AuctionEndDate: time.Now().Add(-time.Hour), Status: constants.StatusCompleted,
	}
	require.NoError(t, db.Create(done).Error)

	require.NoError(t, db.Create(&domain.Bid{CarID: active.CarID, BidderID: bidder.UserID, Amount: 4100}).Error)
	require.NoError(t, db.Create(&domain.Bid{CarID: active.CarID, BidderID: bidder.UserID, Amount: 4200}).Error)

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.TotalCars)
	assert.Equal(t, int64(2), stats.TotalBids)
	assert.Equal(t, int64(1), stats.CarsByState[constants.StatusActive])
	assert.Equal(t, int64(1), stats.CarsByState[constants.StatusCompleted])
	require.NotEmpty(t, stats.TopBidders)
	assert.Equal(t, "bidder@example.com", stats.TopBidders[0].Email)
	require.NotEmpty(t, stats.TopSellers)
	assert.Equal(t, "seller@example.com", stats.TopSellers[0].Email)
	assert.Len(t, stats.RecentUsers, 2)
}

func TestGetStats_EmptyDatabase(t *testing.T) {
	svc, _ := setupAdminTest(t)

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalUsers)
	assert.Equal(t, int64(0), stats.TotalCars)
	assert.Equal(t, int64(0), stats.TotalBids)
	assert.Empty(t, stats.TopBidders)
	assert.Empty(t, stats.RecentUsers)
}
