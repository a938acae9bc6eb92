package favorites

import (
	"context"
	"errors"
	"log/slog"

	"ingresso/internal/shared/constants"
	"ingresso/pkg/cache"
	"ingresso/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFavorited = errors.New("event is not in favorites")

// EventChecker is the slice of the events module needed to confirm the event
// exists before favoriting it.
type EventChecker interface {
	GetEventOwner(ctx context.Context, eventID uuid.UUID) (uuid.UUID, error)
}

type Service interface {
	SetCacheService(cacheService cache.Service)
	SetEventChecker(checker EventChecker)

	AddFavorite(ctx context.Context, userID, eventID uuid.UUID) (*FavoriteResponse, error)
	RemoveFavorite(ctx context.Context, userID, eventID uuid.UUID) error
	GetFavorites(ctx context.Context, userID uuid.UUID) ([]FavoriteResponse, error)
	IsFavorited(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	eventChecker EventChecker
	log          *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		log:  logger.GetDefault(),
	}
}

func (s *service) SetCacheService(cacheService cache.Service) { s.cacheService = cacheService }
func (s *service) SetEventChecker(checker EventChecker)       { s.eventChecker = checker }

func (s *service) AddFavorite(ctx context.Context, userID, eventID uuid.UUID) (*FavoriteResponse, error) {
	if s.eventChecker != nil {
		if _, err := s.eventChecker.GetEventOwner(ctx, eventID); err != nil {
			return nil, err
		}
	}

	favorite := &Favorite{UserID: userID, EventID: eventID}
	if err := s.repo.Add(favorite); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, userID)

	resp := toFavoriteResponse(favorite)
	return &resp, nil
}

func (s *service) RemoveFavorite(ctx context.Context, userID, eventID uuid.UUID) error {
	if err := s.repo.Remove(userID, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFavorited
		}
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *service) GetFavorites(ctx context.Context, userID uuid.UUID) ([]FavoriteResponse, error) {
	key := constants.BuildUserFavoritesKey(userID.String())

	if s.cacheService != nil {
		var cached []FavoriteResponse
		if err := s.cacheService.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	favorites, err := s.repo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]FavoriteResponse, len(favorites))
	for i := range favorites {
		responses[i] = toFavoriteResponse(&favorites[i])
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, key, responses, constants.TTL_USER_FAVORITES); err != nil {
			s.log.Debug("failed to cache favorites", slog.Any("error", err))
		}
	}

	return responses, nil
}

func (s *service) IsFavorited(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	return s.repo.Exists(userID, eventID)
}

func (s *service) invalidateCache(ctx context.Context, userID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, constants.BuildUserFavoritesKey(userID.String())); err != nil {
		s.log.Debug("failed to invalidate favorites cache", slog.Any("error", err))
	}
}
