package favorites

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Add(favorite *Favorite) error
	Remove(userID, eventID uuid.UUID) error
	GetByUser(userID uuid.UUID) ([]Favorite, error)
	Exists(userID, eventID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Add(favorite *Favorite) error {
	// Favoriting twice is a no-op, not an error.
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
		DoNothing: true,
	}).Create(favorite).Error
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (r *repository) Remove(userID, eventID uuid.UUID) error {
	result := r.db.Where("user_id = ? AND event_id = ?", userID, eventID).Delete(&Favorite{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) GetByUser(userID uuid.UUID) ([]Favorite, error) {
	var favorites []Favorite
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch favorites: %w", err)
	}
	return favorites, nil
}

func (r *repository) Exists(userID, eventID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&Favorite{}).Where("user_id = ? AND event_id = ?", userID, eventID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
