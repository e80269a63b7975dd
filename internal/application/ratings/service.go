package ratings

import (
	"context"
	"errors"
	"fmt"

	"carbid-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidScore = errors.New("Score must be between 1 and 5")
	ErrSelfRating   = errors.New("You cannot rate yourself")
	ErrUserNotFound = errors.New("User not found")
)

// Service manages user ratings tied to car sales.
type Service struct {
	DB *gorm.DB
}

// RateInput is the rating request body.
type RateInput struct {
	RatedUserID uuid.UUID `json:"rated_user_id"`
	Score       int       `json:"score"`
	Comment     *string   `json:"comment"`
}

// Rate upserts one rating per (rated, rater, car) triple and recomputes the
// rated user's cached average inside the same transaction.
func (s *Service) Rate(ctx context.Context, carID, raterID uuid.UUID, in RateInput) (*domain.Rating, error) {
	if in.Score < 1 || in.Score > 5 {
		return nil, ErrInvalidScore
	}
	if in.RatedUserID == raterID {
		return nil, ErrSelfRating
	}

	var rating *domain.Rating
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rated domain.User
		if err := tx.Where("user_id = ?", in.RatedUserID).First(&rated).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrUserNotFound
			}
			return err
		}

		var existing domain.Rating
		err := tx.Where("rated_user_id = ? AND rater_user_id = ? AND car_id = ?",
			in.RatedUserID, raterID, carID).First(&existing).Error
		if err == nil {
			existing.Score = in.Score
			existing.Comment = in.Comment
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			rating = &existing
		} else if err == gorm.ErrRecordNotFound {
			created := domain.Rating{
				RatedUserID: in.RatedUserID,
				RaterUserID: raterID,
				CarID:       carID,
				Score:       in.Score,
				Comment:     in.Comment,
			}
			if err := tx.Create(&created).Error; err != nil {
				return err
			}
			rating = &created
		} else {
			return err
		}

		// Recompute the cached average from the Ratings table itself.
		var agg struct {
			Avg   float64
			Count int
		}
		if err := tx.Model(&domain.Rating{}).
			Select("AVG(score) AS avg, COUNT(*) AS count").
			Where("rated_user_id = ?", in.RatedUserID).
			Scan(&agg).Error; err != nil {
			return err
		}
		return tx.Model(&domain.User{}).
			Where("user_id = ?", in.RatedUserID).
			Updates(map[string]interface{}{
				"rating":       agg.Avg,
				"rating_count": agg.Count,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return rating, nil
}

// ListForCar returns all ratings attached to a car (admin view).
func (s *Service) ListForCar(ctx context.Context, carID uuid.UUID) ([]domain.Rating, error) {
	var out []domain.Rating
	err := s.DB.WithContext(ctx).
		Where("car_id = ?", carID).
		Preload("RatedUser").
		Preload("RaterUser").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("ratings: list for car %s: %w", carID, err)
	}
	return out, nil
}
