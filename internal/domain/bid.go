package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bid is one accepted offer against a car. Rows are append-only: a bid is
// created exclusively by the bidding service and never updated or deleted.
type Bid struct {
	BidID     uuid.UUID `gorm:"column:bid_id;type:uuid;primaryKey" json:"bid_id"`
	CarID     uuid.UUID `gorm:"column:car_id;type:uuid;not null;index" json:"car_id"`
	BidderID  uuid.UUID `gorm:"column:bidder_id;type:uuid;not null;index" json:"bidder_id"`
	Amount    float64   `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`

	Bidder *User `gorm:"foreignKey:BidderID;references:UserID" json:"bidder,omitempty"`
	Car    *Car  `gorm:"foreignKey:CarID;references:CarID" json:"car,omitempty"`
}

func (Bid) TableName() string {
	return "Bids"
}

func (b *Bid) BeforeCreate(tx *gorm.DB) error {
	if b.BidID == uuid.Nil {
		b.BidID = uuid.New()
	}
	return nil
}
