package events

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string      `json:"name" gorm:"not null;size:255"`
	Description string      `json:"description" gorm:"type:text"`
	Venue       string      `json:"venue" gorm:"not null;size:255"`
	City        string      `json:"city" gorm:"size:255"`
	DateTime    time.Time   `json:"date_time" gorm:"not null"`
	CoverURL    string      `json:"cover_url" gorm:"size:500"`
	Status      EventStatus `json:"status" gorm:"type:varchar(20);default:'draft'"`
	// Configured flips when the producer first submits a ticket
	// configuration; unconfigured events stay hidden from buyers.
	Configured bool `json:"configured" gorm:"default:false"`

	CreatedBy uuid.UUID  `json:"created_by" gorm:"type:uuid;not null;index"`
	UpdatedBy *uuid.UUID `json:"updated_by" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

type EventResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Venue       string      `json:"venue"`
	City        string      `json:"city"`
	DateTime    time.Time   `json:"date_time"`
	CoverURL    string      `json:"cover_url"`
	Status      EventStatus `json:"status"`
	Configured  bool        `json:"configured"`
	CreatedBy   string      `json:"created_by"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type CreateEventRequest struct {
	Name        string    `json:"name" binding:"required,min=3,max=255"`
	Description string    `json:"description" binding:"max=2000"`
	Venue       string    `json:"venue" binding:"required,min=3,max=255"`
	City        string    `json:"city" binding:"max=255"`
	DateTime    time.Time `json:"date_time" binding:"required"`
	CoverURL    string    `json:"cover_url" binding:"omitempty,url"`
}

type UpdateEventRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=3,max=255"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Venue       *string    `json:"venue" binding:"omitempty,min=3,max=255"`
	City        *string    `json:"city" binding:"omitempty,max=255"`
	DateTime    *time.Time `json:"date_time"`
	Status      *string    `json:"status" binding:"omitempty,oneof=draft published cancelled completed"`
	CoverURL    *string    `json:"cover_url" binding:"omitempty,url"`
}

type EventListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Venue    string `form:"venue"`
	City     string `form:"city"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Status   string `form:"status" binding:"omitempty,oneof=draft published cancelled completed"`
}

type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

func toEventResponse(e *Event) EventResponse {
	return EventResponse{
		ID:          e.ID.String(),
		Name:        e.Name,
		Description: e.Description,
		Venue:       e.Venue,
		City:        e.City,
		DateTime:    e.DateTime,
		CoverURL:    e.CoverURL,
		Status:      e.Status,
		Configured:  e.Configured,
		CreatedBy:   e.CreatedBy.String(),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
