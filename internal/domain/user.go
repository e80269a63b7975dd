package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a marketplace account: seller of cars, bidder on others' cars, or admin.
type User struct {
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Email        string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Role         string    `gorm:"column:role;type:varchar(10);not null;default:user" json:"role"`
	Rating       float64   `gorm:"column:rating;default:0" json:"rating"`
	RatingCount  int       `gorm:"column:rating_count;default:0" json:"rating_count"`
	CreatedAt    time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (User) TableName() string {
	return "Users"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}

// PublicUser is the sanitized projection embedded in car and bid responses.
type PublicUser struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Rating float64   `json:"rating"`
}

// Public returns the sanitized projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		UserID: u.UserID,
		Name:   u.Name,
		Email:  u.Email,
		Rating: u.Rating,
	}
}
