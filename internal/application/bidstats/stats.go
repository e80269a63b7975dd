package bidstats

import (
	"carbid-backend/internal/domain"

	"github.com/google/uuid"
)

// Stats is the derived read model shown on the admin car detail page.
// Highest, Lowest and Average are nil when the car has no bids.
type Stats struct {
	TotalBids     int      `json:"totalBids"`
	UniqueBidders int      `json:"uniqueBidders"`
	HighestBid    *float64 `json:"highestBid"`
	LowestBid     *float64 `json:"lowestBid"`
	AverageBid    *float64 `json:"averageBid"`
}

// Compute aggregates a bid list. Pure function of its input; an empty list
// yields zero counts and nil amounts, never an error.
func Compute(bids []domain.Bid) Stats {
	stats := Stats{TotalBids: len(bids)}
	if len(bids) == 0 {
		return stats
	}

	bidders := make(map[uuid.UUID]struct{}, len(bids))
	highest := bids[0].Amount
	lowest := bids[0].Amount
	sum := 0.0
	for _, b := range bids {
		bidders[b.BidderID] = struct{}{}
		if b.Amount > highest {
			highest = b.Amount
		}
		if b.Amount < lowest {
			lowest = b.Amount
		}
		sum += b.Amount
	}
	avg := sum / float64(len(bids))

	stats.UniqueBidders = len(bidders)
	stats.HighestBid = &highest
	stats.LowestBid = &lowest
	stats.AverageBid = &avg
	return stats
}
