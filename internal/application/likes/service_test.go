package likes

import (
	"context"
	"testing"

	"carbid-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLikesTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Like{}))
	return &Service{DB: db}, db
}

func TestLike_OncePerUserAndCar(t *testing.T) {
	svc, db := setupLikesTest(t)
	userID := uuid.New()
	carID := uuid.New()

	require.NoError(t, svc.Like(context.Background(), userID, carID))
	err := svc.Like(context.Background(), userID, carID)
	assert.ErrorIs(t, err, ErrAlreadyLiked)

	var count int64
	db.Model(&domain.Like{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// A different user may like the same car
	require.NoError(t, svc.Like(context.Background(), uuid.New(), carID))
}

func TestUnlike_RemovesAndIsIdempotent(t *testing.T) {
	svc, db := setupLikesTest(t)
	userID := uuid.New()
	carID := uuid.New()

	require.NoError(t, svc.Like(context.Background(), userID, carID))
	require.NoError(t, svc.Unlike(context.Background(), userID, carID))
	require.NoError(t, svc.Unlike(context.Background(), userID, carID))

	var count int64
	db.Model(&domain.Like{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestListForCar(t *testing.T) {
	svc, _ := setupLikesTest(t)
	carID := uuid.New()

	require.NoError(t, svc.Like(context.Background(), uuid.New(), carID))
	require.NoError(t, svc.Like(context.Background(), uuid.New(), carID))
	require.NoError(t, svc.Like(context.Background(), uuid.New(), uuid.New()))

	out, err := svc.ListForCar(context.Background(), carID)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}
