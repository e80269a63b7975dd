package bidstats

import (
	"testing"

	"carbid-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_Empty(t *testing.T) {
	stats := Compute(nil)
	assert.Equal(t, 0, stats.TotalBids)
	assert.Equal(t, 0, stats.UniqueBidders)
	assert.Nil(t, stats.HighestBid)
	assert.Nil(t, stats.LowestBid)
	assert.Nil(t, stats.AverageBid)
}

func TestCompute_Aggregates(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	bids := []domain.Bid{
		{BidderID: a, Amount: 100},
		{BidderID: b, Amount: 300},
		{BidderID: a, Amount: 200},
	}

	stats := Compute(bids)
	assert.Equal(t, 3, stats.TotalBids)
	assert.Equal(t, 2, stats.UniqueBidders)
	require.NotNil(t, stats.HighestBid)
	assert.Equal(t, 300.0, *stats.HighestBid)
	require.NotNil(t, stats.LowestBid)
	assert.Equal(t, 100.0, *stats.LowestBid)
	require.NotNil(t, stats.AverageBid)
	assert.Equal(t, 200.0, *stats.AverageBid)
}

func TestCompute_SingleBid(t *testing.T) {
	bids := []domain.Bid{{BidderID: uuid.New(), Amount: 150}}
	stats := Compute(bids)
	assert.Equal(t, 1, stats.TotalBids)
	assert.Equal(t, 1, stats.UniqueBidders)
	assert.Equal(t, 150.0, *stats.HighestBid)
	assert.Equal(t, 150.0, *stats.LowestBid)
	assert.Equal(t, 150.0, *stats.AverageBid)
}
