package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(event *Event) error
	GetByID(id uuid.UUID) (*Event, error)
	Update(id uuid.UUID, updates map[string]interface{}) (*Event, error)
	Delete(id uuid.UUID) error
	GetAll(query EventListQuery) ([]Event, int64, error)
	GetByProducer(producerID uuid.UUID) ([]Event, error)
	GetUpcoming(limit int) ([]Event, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(event *Event) error {
	return r.db.Create(event).Error
}

func (r *repository) GetByID(id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.Where("id = ?", id).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) Update(id uuid.UUID, updates map[string]interface{}) (*Event, error) {
	var event Event

	if err := r.db.Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&event).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := r.db.Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}

	return &event, nil
}

func (r *repository) Delete(id uuid.UUID) error {
	if err := r.db.Where("id = ?", id).Delete(&Event{}).Error; err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

func (r *repository) GetAll(query EventListQuery) ([]Event, int64, error) {
	var events []Event
	var totalCount int64

	// GetAll backs the public browse endpoint only; unconfigured events
	// stay hidden no matter what filters the caller sends.
	db := r.db.Model(&Event{}).Where("configured = ?", true)

	if query.Search != "" {
		searchTerm := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(venue) LIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	if query.Venue != "" {
		db = db.Where("LOWER(venue) LIKE ?", "%"+strings.ToLower(query.Venue)+"%")
	}

	if query.City != "" {
		db = db.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(query.City)+"%")
	}

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	if query.DateFrom != "" {
		if from, err := time.Parse("2006-01-02", query.DateFrom); err == nil {
			db = db.Where("date_time >= ?", from)
		}
	}

	if query.DateTo != "" {
		if to, err := time.Parse("2006-01-02", query.DateTo); err == nil {
			db = db.Where("date_time <= ?", to.Add(24*time.Hour))
		}
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	offset := (query.Page - 1) * query.Limit
	err := db.Order("date_time ASC").Offset(offset).Limit(query.Limit).Find(&events).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch events: %w", err)
	}

	return events, totalCount, nil
}

func (r *repository) GetByProducer(producerID uuid.UUID) ([]Event, error) {
	var events []Event
	err := r.db.Where("created_by = ?", producerID).Order("date_time ASC").Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch producer events: %w", err)
	}
	return events, nil
}

func (r *repository) GetUpcoming(limit int) ([]Event, error) {
	var events []Event
	err := r.db.
		Where("status = ? AND configured = ? AND date_time > ?", StatusPublished, true, time.Now()).
		Order("date_time ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upcoming events: %w", err)
	}
	return events, nil
}
