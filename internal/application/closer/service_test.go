package closer

import (
	"context"
	"testing"
	"time"

	"carbid-backend/internal/domain"
	"carbid-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCloserTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Car{}, &domain.Bid{}))
	return &Service{DB: db}, db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	u := &domain.User{Name: "Test User", Email: email, PasswordHash: "x", Role: constants.User}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedEndedCar(t *testing.T, db *gorm.DB, ownerID uuid.UUID, price float64, reserve *float64) *domain.Car {
	c := &domain.Car{
		OwnerID:        ownerID,
		Brand:          "Saab",
		Model:          "900",
		Condition:      "used",
		Km:             210000,
		Year:           1996,
		Power:          185,
		Fuel:           "petrol",
		StartingPrice:  price,
		CurrentPrice:   price,
		ReservePrice:   reserve,
		AuctionEndDate: time.Now().Add(-time.Hour),
		Status:         constants.StatusActive,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedBid(t *testing.T, db *gorm.DB, carID, bidderID uuid.UUID, amount float64, at time.Time) *domain.Bid {
	b := &domain.Bid{CarID: carID, BidderID: bidderID, Amount: amount}
	require.NoError(t, db.Create(b).Error)
	require.NoError(t, db.Model(b).Update("createdAt", at).Error)
	return b
}

func carStatus(t *testing.T, db *gorm.DB, carID uuid.UUID) domain.Car {
	var c domain.Car
	require.NoError(t, db.Where("car_id = ?", carID).First(&c).Error)
	return c
}

func floatPtr(f float64) *float64 { return &f }

func TestRunSweep_NoBidsIsReserveNotMet(t *testing.T) {
	svc, db := setupCloserTest(t)
	owner := seedUser(t, db, "owner@example.com")
	car := seedEndedCar(t, db, owner.UserID, 100, nil)

	report, err := svc.RunSweep(context.Background(), time.Now())
	require.NoError(t, err)
	require.Len(t, report.Resolved, 1)
	assert.Equal(t, constants.StatusReserveNotMet, report.Resolved[0].Status)
	assert.Nil(t, report.Resolved[0].WinnerBidID)

	got := carStatus(t, db, car.CarID)
	assert.Equal(t, constants.StatusReserveNotMet, got.Status)
	assert.Nil(t, got.WinnerBidID)
}

func TestRunSweep_HighestBelowReserve(t *testing.T) {
	svc, db := setupCloserTest(t)
	owner := seedUser(t, db, "owner@example.com")
	bidder := seedUser(t, db, "bidder@example.com")
	car := seedEndedCar(t, db, owner.UserID, 100, floatPtr(500))
	seedBid(t, db, car.CarID, bidder.UserID, 300, time.Now().Add(-30*time.Minute))

	report, err := svc.RunSweep(context.Background(), time.Now())
	require.NoError(t, err)
	require.Len(t, report.Resolved, 1)
	assert.Equal(t, constants.StatusReserveNotMet, report.Resolved[0].Status)
	require.NotNil(t, report.Resolved[0].HighestBid)
	assert.Equal(t, 300.0, *report.Resolved[0].HighestBid)

	got := carStatus(t, db, car.CarID)
	assert.Equal(t, constants.StatusReserveNotMet, got.Status)
}

func TestRunSweep_ReserveMetCompletes(t *testing.T) {
	svc, db := setupCloserTest(t)
	owner := seedUser(t, db, "owner@example.com")
	bidder := seedUser(t, db, "bidder@example.com")
	car := seedEndedCar(t, db, owner.UserID, 100, floatPtr(250))
	top := seedBid(t, db, car.CarID, bidder.UserID, 300, time.Now().Add(-30*time.Minute))

	report, err := svc.RunSweep(context.Background(), time.Now())
	require.NoError(t, err)
	require.Len(t, report.Resolved, 1)
	assert.Equal(t, constants.StatusCompleted, report.Resolved[0].Status)
	require.NotNil(t, report.Resolved[0].WinnerBidID)
	assert.Equal(t, top.BidID, *report.Resolved[0].WinnerBidID)

	got := carStatus(t, db, car.CarID)
	assert.Equal(t, constants.StatusCompleted, got.Status)
	require.NotNil(t, got.WinnerBidID)
	assert.Equal(t, top.BidID, *got.WinnerBidID)
}

func TestRunSweep_NoReserveCompletesWithAnyBid(t *testing.T) {
	svc, db := setupCloserTest(t)
	owner := seedUser(t, db, "owner@example.com")
	bidder := seedUser(t, db, "bidder@example.com")
	car := seedEndedCar(t, db, owner.UserID, 100, nil)
	seedBid(t, db, car.CarID, bidder.UserID, 101, time.Now().Add(-30*time.Minute))

	report, err := svc.RunSweep(context.Background(), time.Now())
	require.NoError(t, err)
	require.Len(t, report.Resolved, 1)
	assert.Equal(t, constants.StatusCompleted, report.Resolved[0].Status)
}

func TestRunSweep_EarliestWinsAmountTie(t *testing.T) {
	svc, db := setupCloserTest(t)
	owner := seedUser(t, db, "owner@example.com")
	a := seedUser(t, db, "a@example.com")
	b := seedUser(t, db, "b@example.com")
	car := seedEndedCar(t, db, owner.UserID, 100, nil)
	early := seedBid(t, db, car.CarID, a.UserID, 300, time.Now().Add(-time.Hour))
	seedBid(t, db, car.CarID, b.UserID, 300, time.Now().Add(-30*time.Minute))

	report, err := svc.RunSweep(context.Background(), time.Now())
	require.NoError(t, err)
	require.Len(t, report.Resolved, 1)
	require.NotNil(t, report.Resolved[0].WinnerBidID)
	assert.Equal(t, early.BidID, *report.Resolved[0].WinnerBidID)
}

func TestRunSweep_DecidesFromBidsNotCachedPrice(t *testing.T) {
	svc, db := setupCloserTest(t)
	owner := seedUser(t, db, "owner@example.com")
	bidder := seedUser(t, db, "bidder@example.com")
	car := seedEndedCar(t, db, owner.UserID, 100, floatPtr(250))
	seedBid(t, db, car.CarID, bidder.UserID, 300, time.Now().Add(-30*time.Minute))

	// Drift the cache below the reserve; the sweep must still settle from the
	// actual highest bid.
	require.NoError(t, db.Model(&domain.Car{}).Where("car_id = ?", car.CarID).
		Update("current_price", 120).Error)

	report, err := svc.RunSweep(context.Background(), time.Now())
	require.NoError(t, err)
	require.Len(t, report.Resolved, 1)
	assert.Equal(t, constants.StatusCompleted, report.Resolved[0].Status)
}

func TestRunSweep_SecondRunIsNoOp(t *testing.T) {
	svc, db := setupCloserTest(t)
	owner := seedUser(t, db, "owner@example.com")
	car := seedEndedCar(t, db, owner.UserID, 100, nil)

	first, err := svc.RunSweep(context.Background(), time.Now())
	require.NoError(t, err)
	require.Len(t, first.Resolved, 1)

	second, err := svc.RunSweep(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, second.Resolved)
	assert.Empty(t, second.Skipped)
	assert.Empty(t, second.Errors)

	got := carStatus(t, db, car.CarID)
	assert.Equal(t, constants.StatusReserveNotMet, got.Status)
}

func TestRunSweep_LeavesRunningAuctionsAlone(t *testing.T) {
	svc, db := setupCloserTest(t)
	owner := seedUser(t, db, "owner@example.com")
	ended := seedEndedCar(t, db, owner.UserID, 100, nil)

	running := seedEndedCar(t, db, owner.UserID, 100, nil)
	require.NoError(t, db.Model(&domain.Car{}).Where("car_id = ?", running.CarID).
		Update("auction_end_date", time.Now().Add(time.Hour)).Error)

	report, err := svc.RunSweep(context.Background(), time.Now())
	require.NoError(t, err)
	require.Len(t, report.Resolved, 1)
	assert.Equal(t, ended.CarID, report.Resolved[0].CarID)

	got := carStatus(t, db, running.CarID)
	assert.Equal(t, constants.StatusActive, got.Status)
}

func TestRunSweep_ResolvedConcurrentlyIsSkipped(t *testing.T) {
	svc, db := setupCloserTest(t)
	owner := seedUser(t, db, "owner@example.com")
	car := seedEndedCar(t, db, owner.UserID, 100, nil)

	// Another sweep wins the transition between listing and closing.
	armed := true
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test_rival_sweep", func(tx *gorm.DB) {
		if !armed {
			return
		}
		if _, ok := tx.Statement.Dest.(*domain.Bid); !ok {
			return
		}
		armed = false
		// Use the root handle: tx carries ErrRecordNotFound from the bid
		// lookup, which would short-circuit the rival update.
		db.Session(&gorm.Session{NewDB: true}).Model(&domain.Car{}).
			Where("car_id = ?", car.CarID).
			Update("status", constants.StatusCancelled)
	}))

	report, err := svc.RunSweep(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, report.Resolved)
	assert.Equal(t, []uuid.UUID{car.CarID}, report.Skipped)

	got := carStatus(t, db, car.CarID)
	assert.Equal(t, constants.StatusCancelled, got.Status)
}
