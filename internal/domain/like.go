package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like marks a car as favorited by a user. One like per (user, car) pair,
// enforced by the composite unique index.
type Like struct {
	LikeID    uuid.UUID `gorm:"column:like_id;type:uuid;primaryKey" json:"like_id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_like_user_car" json:"user_id"`
	CarID     uuid.UUID `gorm:"column:car_id;type:uuid;not null;uniqueIndex:idx_like_user_car" json:"car_id"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

func (Like) TableName() string {
	return "Likes"
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.LikeID == uuid.Nil {
		l.LikeID = uuid.New()
	}
	return nil
}
