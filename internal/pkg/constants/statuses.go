package constants

// Car auction statuses (must match enum_Cars_status).
const (
	StatusActive        = "active"
	StatusCompleted     = "completed"
	StatusReserveNotMet = "reserve_not_met"
	StatusCancelled     = "cancelled"
)

// AuctionStatuses is the set of allowed car statuses.
var AuctionStatuses = []string{StatusActive, StatusCompleted, StatusReserveNotMet, StatusCancelled}

// IsValidStatus returns true if status is one of the allowed enum values.
func IsValidStatus(status string) bool {
	for _, s := range AuctionStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminalStatus returns true for statuses that accept no further transitions or bids.
func IsTerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusReserveNotMet || status == StatusCancelled
}
