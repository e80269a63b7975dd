package bidding

import (
	"errors"
	"fmt"
)

var (
	ErrCarNotFound      = errors.New("Car not found")
	ErrAuctionNotActive = errors.New("Auction is not active")
	ErrAuctionEnded     = errors.New("Auction has ended")
	ErrOwnerBid         = errors.New("You cannot bid on your own car")
	// ErrConcurrentBid means another bid won the race against the same
	// observed price. The caller should re-read the auction and resubmit.
	ErrConcurrentBid = errors.New("Another bid was placed first, please retry")
)

// BidTooLowError rejects a bid at or below the current price. It carries the
// price the bid was validated against so the caller can correct and retry.
type BidTooLowError struct {
	CurrentPrice float64
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("Bid must be higher than current price: $%v", e.CurrentPrice)
}

// IsBidTooLow reports whether err is a BidTooLowError and returns it.
func IsBidTooLow(err error) (*BidTooLowError, bool) {
	var e *BidTooLowError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
