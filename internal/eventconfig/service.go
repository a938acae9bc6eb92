package eventconfig

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ingresso/internal/shared/constants"
	"ingresso/pkg/cache"
	"ingresso/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrNotOwner      = errors.New("event is not owned by this producer")
	ErrNoDraft       = errors.New("no draft configuration in progress")
	ErrNoConfig      = errors.New("event has no configuration")
)

// EventService is the slice of the events module this package needs.
// Declared here to avoid a package cycle.
type EventService interface {
	GetEventOwner(ctx context.Context, eventID uuid.UUID) (uuid.UUID, error)
	MarkConfigured(ctx context.Context, eventID uuid.UUID) error
}

// Notifier publishes the event-published message after a first successful
// submission. Failures are logged, never surfaced to the producer.
type Notifier interface {
	PublishEventConfigured(ctx context.Context, eventID, producerID uuid.UUID) error
}

type Service interface {
	SetEventService(eventService EventService)
	SetCacheService(cacheService cache.Service)
	SetNotifier(notifier Notifier)
	SetDraftTTL(ttl time.Duration)

	// Submission and load (persistence boundary).
	SubmitConfiguration(ctx context.Context, eventID, userID uuid.UUID, cfg *EventConfiguration) (*EventConfiguration, error)
	GetConfiguration(ctx context.Context, eventID uuid.UUID) (*EventConfiguration, error)

	// Server-side draft editing: one in-memory tree per producer session,
	// mutated through builder commands.
	StartDraft(ctx context.Context, eventID, userID uuid.UUID) (*EventConfiguration, error)
	GetDraft(ctx context.Context, eventID, userID uuid.UUID) (*EventConfiguration, error)
	ApplyDraftCommand(ctx context.Context, eventID, userID uuid.UUID, cmd Command) (*EventConfiguration, error)
	DiscardDraft(ctx context.Context, eventID, userID uuid.UUID) error
	SubmitDraft(ctx context.Context, eventID, userID uuid.UUID) (*EventConfiguration, error)
}

type service struct {
	repo         Repository
	eventService EventService
	cacheService cache.Service
	notifier     Notifier
	draftTTL     time.Duration
	log          *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo:     repo,
		draftTTL: constants.TTL_CONFIG_DRAFT,
		log:      logger.GetDefault(),
	}
}

func (s *service) SetEventService(eventService EventService) { s.eventService = eventService }
func (s *service) SetCacheService(cacheService cache.Service) { s.cacheService = cacheService }
func (s *service) SetNotifier(notifier Notifier)              { s.notifier = notifier }

// SetDraftTTL overrides how long an idle draft survives in Redis.
func (s *service) SetDraftTTL(ttl time.Duration) {
	if ttl > 0 {
		s.draftTTL = ttl
	}
}

// requireOwner checks the event exists and belongs to the producer.
func (s *service) requireOwner(ctx context.Context, eventID, userID uuid.UUID) error {
	if s.eventService == nil {
		return nil
	}
	owner, err := s.eventService.GetEventOwner(ctx, eventID)
	if err != nil {
		return ErrEventNotFound
	}
	if owner != userID {
		return ErrNotOwner
	}
	return nil
}

func (s *service) SubmitConfiguration(ctx context.Context, eventID, userID uuid.UUID, cfg *EventConfiguration) (*EventConfiguration, error) {
	if err := s.requireOwner(ctx, eventID, userID); err != nil {
		return nil, err
	}
	cfg.EventID = eventID

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	firstSubmission := true
	if existing, err := s.repo.HasRows(ctx, eventID); err == nil {
		firstSubmission = !existing
	}

	rows := Flatten(cfg, userID)
	if err := s.repo.SaveRows(ctx, eventID, rows); err != nil {
		return nil, fmt.Errorf("failed to save configuration: %w", err)
	}

	s.invalidateConfigCache(ctx, eventID)

	if s.eventService != nil {
		if err := s.eventService.MarkConfigured(ctx, eventID); err != nil {
			s.log.Warn("failed to mark event as configured", slog.String("event_id", eventID.String()), slog.Any("error", err))
		}
	}

	if firstSubmission && s.notifier != nil {
		if err := s.notifier.PublishEventConfigured(ctx, eventID, userID); err != nil {
			s.log.Warn("failed to publish configuration notification", slog.String("event_id", eventID.String()), slog.Any("error", err))
		}
	}

	return s.loadConfiguration(ctx, eventID)
}

func (s *service) GetConfiguration(ctx context.Context, eventID uuid.UUID) (*EventConfiguration, error) {
	if s.cacheService != nil {
		var cached EventConfiguration
		key := constants.BuildConfigDetailKey(eventID.String())
		if err := s.cacheService.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	cfg, err := s.loadConfiguration(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if s.cacheService != nil {
		key := constants.BuildConfigDetailKey(eventID.String())
		if err := s.cacheService.Set(ctx, key, cfg, constants.TTL_CONFIG_DETAIL); err != nil {
			s.log.Debug("failed to cache configuration", slog.Any("error", err))
		}
	}

	return cfg, nil
}

// loadConfiguration reads rows and regroups them. Any row-fetch error aborts
// the whole load; no partial reconstruction is attempted.
func (s *service) loadConfiguration(ctx context.Context, eventID uuid.UUID) (*EventConfiguration, error) {
	rows, err := s.repo.LoadRows(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if len(rows.Sectors) == 0 && len(rows.Tickets) == 0 {
		return nil, ErrNoConfig
	}
	return Unflatten(eventID, rows)
}

func (s *service) StartDraft(ctx context.Context, eventID, userID uuid.UUID) (*EventConfiguration, error) {
	if err := s.requireOwner(ctx, eventID, userID); err != nil {
		return nil, err
	}

	cfg, err := s.loadConfiguration(ctx, eventID)
	if errors.Is(err, ErrNoConfig) {
		cfg = NewEventConfiguration(eventID)
	} else if err != nil {
		return nil, err
	}

	if err := s.saveDraft(ctx, eventID, userID, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *service) GetDraft(ctx context.Context, eventID, userID uuid.UUID) (*EventConfiguration, error) {
	return s.loadDraft(ctx, eventID, userID)
}

func (s *service) ApplyDraftCommand(ctx context.Context, eventID, userID uuid.UUID, cmd Command) (*EventConfiguration, error) {
	cfg, err := s.loadDraft(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if err := Apply(cfg, cmd); err != nil {
		return nil, err
	}
	if err := s.saveDraft(ctx, eventID, userID, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *service) DiscardDraft(ctx context.Context, eventID, userID uuid.UUID) error {
	if s.cacheService == nil {
		return nil
	}
	return s.cacheService.Delete(ctx, constants.BuildConfigDraftKey(eventID.String(), userID.String()))
}

func (s *service) SubmitDraft(ctx context.Context, eventID, userID uuid.UUID) (*EventConfiguration, error) {
	cfg, err := s.loadDraft(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	result, err := s.SubmitConfiguration(ctx, eventID, userID, cfg)
	if err != nil {
		return nil, err
	}
	if err := s.DiscardDraft(ctx, eventID, userID); err != nil {
		s.log.Debug("failed to discard submitted draft", slog.Any("error", err))
	}
	return result, nil
}

func (s *service) saveDraft(ctx context.Context, eventID, userID uuid.UUID, cfg *EventConfiguration) error {
	if s.cacheService == nil {
		return errors.New("draft editing requires the cache service")
	}
	key := constants.BuildConfigDraftKey(eventID.String(), userID.String())
	if err := s.cacheService.Set(ctx, key, cfg, s.draftTTL); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (s *service) loadDraft(ctx context.Context, eventID, userID uuid.UUID) (*EventConfiguration, error) {
	if s.cacheService == nil {
		return nil, errors.New("draft editing requires the cache service")
	}
	key := constants.BuildConfigDraftKey(eventID.String(), userID.String())
	var cfg EventConfiguration
	if err := s.cacheService.Get(ctx, key, &cfg); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrNoDraft
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	return &cfg, nil
}

func (s *service) invalidateConfigCache(ctx context.Context, eventID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	pattern := constants.PATTERN_INVALIDATE_CONFIG + eventID.String() + "*"
	if err := s.cacheService.DeletePattern(ctx, pattern); err != nil {
		s.log.Debug("failed to invalidate configuration cache", slog.Any("error", err))
	}
}
