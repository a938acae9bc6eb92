package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"ingresso/internal/shared/constants"
	"ingresso/pkg/cache"
	"ingresso/pkg/logger"
	"ingresso/pkg/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrNotOwner      = errors.New("event is not owned by this producer")
)

type Service interface {
	SetCacheService(cacheService cache.Service)
	SetUploader(uploader storage.Uploader)

	CreateEvent(ctx context.Context, userID uuid.UUID, req CreateEventRequest) (*EventResponse, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error)
	UpdateEvent(ctx context.Context, id, userID uuid.UUID, asAdmin bool, req UpdateEventRequest) (*EventResponse, error)
	DeleteEvent(ctx context.Context, id, userID uuid.UUID, asAdmin bool) error
	GetAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error)
	GetProducerEvents(ctx context.Context, producerID uuid.UUID) ([]EventResponse, error)
	GetUpcomingEvents(ctx context.Context, limit int) ([]EventResponse, error)

	// UploadCover stores the cover image and records its URL on the event.
	// An upload failure degrades to the placeholder URL instead of failing.
	UploadCover(ctx context.Context, id, userID uuid.UUID, contentType string, body io.Reader) (*EventResponse, error)

	// Collaborator contract for the configuration module.
	GetEventOwner(ctx context.Context, eventID uuid.UUID) (uuid.UUID, error)
	MarkConfigured(ctx context.Context, eventID uuid.UUID) error
}

type service struct {
	repo         Repository
	cacheService cache.Service
	uploader     storage.Uploader
	log          *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		log:  logger.GetDefault(),
	}
}

func (s *service) SetCacheService(cacheService cache.Service) { s.cacheService = cacheService }
func (s *service) SetUploader(uploader storage.Uploader)      { s.uploader = uploader }

func (s *service) CreateEvent(ctx context.Context, userID uuid.UUID, req CreateEventRequest) (*EventResponse, error) {
	if req.DateTime.Before(time.Now()) {
		return nil, errors.New("event date must be in the future")
	}

	event := &Event{
		Name:        req.Name,
		Description: req.Description,
		Venue:       req.Venue,
		City:        req.City,
		DateTime:    req.DateTime,
		CoverURL:    req.CoverURL,
		Status:      StatusDraft,
		CreatedBy:   userID,
	}

	if err := s.repo.Create(event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.invalidateListCaches(ctx)
	s.log.LogEventCreated(ctx, event.ID.String(), userID.String())

	resp := toEventResponse(event)
	return &resp, nil
}

func (s *service) GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	if s.cacheService != nil {
		var cached EventResponse
		if err := s.cacheService.Get(ctx, constants.BuildEventDetailKey(id.String()), &cached); err == nil {
			return &cached, nil
		}
	}

	event, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	resp := toEventResponse(event)

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, constants.BuildEventDetailKey(id.String()), resp, constants.TTL_EVENT_DETAIL); err != nil {
			s.log.Debug("failed to cache event detail", slog.Any("error", err))
		}
	}

	return &resp, nil
}

func (s *service) UpdateEvent(ctx context.Context, id, userID uuid.UUID, asAdmin bool, req UpdateEventRequest) (*EventResponse, error) {
	event, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if !asAdmin && event.CreatedBy != userID {
		return nil, ErrNotOwner
	}

	updates := map[string]interface{}{"updated_by": userID}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Venue != nil {
		updates["venue"] = *req.Venue
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.DateTime != nil {
		if req.DateTime.Before(time.Now()) {
			return nil, errors.New("event date must be in the future")
		}
		updates["date_time"] = *req.DateTime
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.CoverURL != nil {
		updates["cover_url"] = *req.CoverURL
	}

	updated, err := s.repo.Update(id, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.invalidateEventCaches(ctx, id)

	resp := toEventResponse(updated)
	return &resp, nil
}

func (s *service) DeleteEvent(ctx context.Context, id, userID uuid.UUID, asAdmin bool) error {
	event, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	if !asAdmin && event.CreatedBy != userID {
		return ErrNotOwner
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.invalidateEventCaches(ctx, id)
	return nil
}

func (s *service) GetAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error) {
	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 20
	}
	// The listing is buyer-facing. Without an explicit status filter it
	// shows published events only; drafts never appear regardless.
	if query.Status == "" {
		query.Status = string(StatusPublished)
	}

	cacheable := query.Search == "" && query.Venue == "" && query.City == "" && query.DateFrom == "" && query.DateTo == ""
	cacheKey := constants.BuildEventListKey(query.Page, query.Limit, query.Status)

	if cacheable && s.cacheService != nil {
		var cached PaginatedEvents
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	events, totalCount, err := s.repo.GetAll(query)
	if err != nil {
		return nil, err
	}

	responses := make([]EventResponse, len(events))
	for i := range events {
		responses[i] = toEventResponse(&events[i])
	}

	result := &PaginatedEvents{
		Events:     responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(query.Limit))),
	}

	if cacheable && s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, result, constants.TTL_EVENT_LIST); err != nil {
			s.log.Debug("failed to cache event list", slog.Any("error", err))
		}
	}

	return result, nil
}

func (s *service) GetProducerEvents(ctx context.Context, producerID uuid.UUID) ([]EventResponse, error) {
	events, err := s.repo.GetByProducer(producerID)
	if err != nil {
		return nil, err
	}
	responses := make([]EventResponse, len(events))
	for i := range events {
		responses[i] = toEventResponse(&events[i])
	}
	return responses, nil
}

func (s *service) GetUpcomingEvents(ctx context.Context, limit int) ([]EventResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	if s.cacheService != nil {
		var cached []EventResponse
		key := fmt.Sprintf("%s:limit:%d", constants.CACHE_KEY_EVENTS_UPCOMING, limit)
		if err := s.cacheService.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	events, err := s.repo.GetUpcoming(limit)
	if err != nil {
		return nil, err
	}
	responses := make([]EventResponse, len(events))
	for i := range events {
		responses[i] = toEventResponse(&events[i])
	}

	if s.cacheService != nil {
		key := fmt.Sprintf("%s:limit:%d", constants.CACHE_KEY_EVENTS_UPCOMING, limit)
		if err := s.cacheService.Set(ctx, key, responses, constants.TTL_EVENT_UPCOMING); err != nil {
			s.log.Debug("failed to cache upcoming events", slog.Any("error", err))
		}
	}

	return responses, nil
}

func (s *service) UploadCover(ctx context.Context, id, userID uuid.UUID, contentType string, body io.Reader) (*EventResponse, error) {
	event, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.CreatedBy != userID {
		return nil, ErrNotOwner
	}

	coverURL := storage.PlaceholderCoverURL
	if s.uploader != nil {
		path := fmt.Sprintf("covers/%s/%s", userID.String(), id.String())
		url, err := s.uploader.Upload(ctx, path, contentType, body)
		if err != nil {
			// Cover upload is non-fatal; the event keeps publishing with
			// the placeholder.
			s.log.Warn("cover upload failed, using placeholder",
				slog.String("event_id", id.String()), slog.Any("error", err))
		} else {
			coverURL = url
		}
	}

	updated, err := s.repo.Update(id, map[string]interface{}{"cover_url": coverURL, "updated_by": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to record cover URL: %w", err)
	}

	s.invalidateEventCaches(ctx, id)

	resp := toEventResponse(updated)
	return &resp, nil
}

func (s *service) GetEventOwner(ctx context.Context, eventID uuid.UUID) (uuid.UUID, error) {
	event, err := s.repo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrEventNotFound
		}
		return uuid.Nil, err
	}
	return event.CreatedBy, nil
}

func (s *service) MarkConfigured(ctx context.Context, eventID uuid.UUID) error {
	_, err := s.repo.Update(eventID, map[string]interface{}{
		"configured": true,
		"status":     StatusPublished,
	})
	if err != nil {
		return fmt.Errorf("failed to mark event configured: %w", err)
	}
	s.invalidateEventCaches(ctx, eventID)
	return nil
}

func (s *service) invalidateEventCaches(ctx context.Context, eventID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	patterns := []string{
		constants.PATTERN_INVALIDATE_EVENT_ALL,
		constants.PATTERN_INVALIDATE_EVENT_DETAIL + eventID.String() + "*",
	}
	for _, pattern := range patterns {
		if err := s.cacheService.DeletePattern(ctx, pattern); err != nil {
			s.log.Debug("failed to invalidate event cache", slog.Any("error", err))
		}
	}
}

func (s *service) invalidateListCaches(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_EVENT_ALL); err != nil {
		s.log.Debug("failed to invalidate event list cache", slog.Any("error", err))
	}
}
