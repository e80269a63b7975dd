package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is one user rating another in the context of a car sale. One rating
// per (rated, rater, car) triple; re-rating the same triple overwrites it.
type Rating struct {
	RatingID    uuid.UUID `gorm:"column:rating_id;type:uuid;primaryKey" json:"rating_id"`
	RatedUserID uuid.UUID `gorm:"column:rated_user_id;type:uuid;not null;uniqueIndex:idx_rating_triple" json:"rated_user_id"`
	RaterUserID uuid.UUID `gorm:"column:rater_user_id;type:uuid;not null;uniqueIndex:idx_rating_triple" json:"rater_user_id"`
	CarID       uuid.UUID `gorm:"column:car_id;type:uuid;not null;uniqueIndex:idx_rating_triple" json:"car_id"`
	Score       int       `gorm:"column:score;not null" json:"score"`
	Comment     *string   `gorm:"column:comment" json:"comment"`
	CreatedAt   time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updatedAt" json:"updatedAt"`

	RatedUser *User `gorm:"foreignKey:RatedUserID;references:UserID" json:"ratedUser,omitempty"`
	RaterUser *User `gorm:"foreignKey:RaterUserID;references:UserID" json:"raterUser,omitempty"`
}

func (Rating) TableName() string {
	return "Ratings"
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.RatingID == uuid.Nil {
		r.RatingID = uuid.New()
	}
	return nil
}
