package likes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"carbid-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAlreadyLiked = errors.New("Already liked")

// Service manages car favorites.
type Service struct {
	DB *gorm.DB
}

// Like records a favorite. A duplicate (user, car) pair is rejected by the
// unique index and mapped to ErrAlreadyLiked.
func (s *Service) Like(ctx context.Context, userID, carID uuid.UUID) error {
	like := &domain.Like{UserID: userID, CarID: carID}
	if err := s.DB.WithContext(ctx).Create(like).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyLiked
		}
		return fmt.Errorf("likes: create: %w", err)
	}
	return nil
}

// Unlike removes the favorite if present; removing a non-existent like is a no-op.
func (s *Service) Unlike(ctx context.Context, userID, carID uuid.UUID) error {
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND car_id = ?", userID, carID).
		Delete(&domain.Like{}).Error
	if err != nil {
		return fmt.Errorf("likes: delete: %w", err)
	}
	return nil
}

// ListForCar returns everyone who liked a car (admin view).
func (s *Service) ListForCar(ctx context.Context, carID uuid.UUID) ([]domain.Like, error) {
	var out []domain.Like
	err := s.DB.WithContext(ctx).
		Where("car_id = ?", carID).
		Preload("User").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("likes: list for car %s: %w", carID, err)
	}
	return out, nil
}

// isUniqueViolation covers Postgres (23505) and sqlite unique errors.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key")
}
