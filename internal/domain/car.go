package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Car is one listing under auction. The status and current_price pair is the
// only shared mutable state in the bidding core; both are only ever changed
// through conditional writes (see bidding and closer services).
type Car struct {
	CarID          uuid.UUID      `gorm:"column:car_id;type:uuid;primaryKey" json:"car_id"`
	OwnerID        uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	Brand          string         `gorm:"column:brand;not null" json:"brand"`
	Model          string         `gorm:"column:model;not null" json:"model"`
	Description    string         `gorm:"column:description" json:"description"`
	Specs          *string        `gorm:"column:specs" json:"specs"`
	Condition      string         `gorm:"column:condition;not null" json:"condition"`
	Km             int            `gorm:"column:km;not null" json:"km"`
	Year           int            `gorm:"column:year;not null" json:"year"`
	Power          int            `gorm:"column:power;not null" json:"power"`
	Fuel           string         `gorm:"column:fuel;not null" json:"fuel"`
	Images         datatypes.JSON `gorm:"column:images;type:json" json:"images"`
	StartingPrice  float64        `gorm:"column:starting_price;type:decimal(18,2);not null" json:"starting_price"`
	CurrentPrice   float64        `gorm:"column:current_price;type:decimal(18,2);not null" json:"current_price"`
	ReservePrice   *float64       `gorm:"column:reserve_price;type:decimal(18,2)" json:"reserve_price"`
	AuctionEndDate time.Time      `gorm:"column:auction_end_date;not null" json:"auction_end_date"`
	Status         string         `gorm:"column:status;type:varchar(20);not null;default:'active';index" json:"status"`
	WinnerBidID    *uuid.UUID     `gorm:"column:winner_bid_id;type:uuid" json:"winner_bid_id"`
	AddressLine    *string        `gorm:"column:address_line" json:"address_line"`
	Zipcode        *string        `gorm:"column:zipcode" json:"zipcode"`
	City           *string        `gorm:"column:city" json:"city"`
	CreatedAt      time.Time      `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt      time.Time      `gorm:"column:updatedAt" json:"updatedAt"`

	Owner *User `gorm:"foreignKey:OwnerID;references:UserID" json:"owner,omitempty"`
	Bids  []Bid `gorm:"foreignKey:CarID;references:CarID" json:"bids,omitempty"`
}

func (Car) TableName() string {
	return "Cars"
}

// BeforeCreate sets car_id if not already set (DBs without default uuid).
func (c *Car) BeforeCreate(tx *gorm.DB) error {
	if c.CarID == uuid.Nil {
		c.CarID = uuid.New()
	}
	return nil
}

// Title is the listing label used in notifications ("Brand Model (Year)").
func (c *Car) Title() string {
	return fmt.Sprintf("%s %s (%d)", c.Brand, c.Model, c.Year)
}
