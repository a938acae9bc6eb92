package favorites

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Add(favorite *Favorite) error {
	args := m.Called(favorite)
	return args.Error(0)
}

func (m *mockRepository) Remove(userID, eventID uuid.UUID) error {
	args := m.Called(userID, eventID)
	return args.Error(0)
}

func (m *mockRepository) GetByUser(userID uuid.UUID) ([]Favorite, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Favorite), args.Error(1)
}

func (m *mockRepository) Exists(userID, eventID uuid.UUID) (bool, error) {
	args := m.Called(userID, eventID)
	return args.Bool(0), args.Error(1)
}

type mockEventChecker struct {
	mock.Mock
}

func (m *mockEventChecker) GetEventOwner(ctx context.Context, eventID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func TestAddFavorite(t *testing.T) {
	repo := new(mockRepository)
	checker := new(mockEventChecker)
	svc := NewService(repo)
	svc.SetEventChecker(checker)

	userID := uuid.New()
	eventID := uuid.New()
	checker.On("GetEventOwner", mock.Anything, eventID).Return(uuid.New(), nil)
	repo.On("Add", mock.MatchedBy(func(f *Favorite) bool {
		return f.UserID == userID && f.EventID == eventID
	})).Return(nil)

	resp, err := svc.AddFavorite(context.Background(), userID, eventID)
	require.NoError(t, err)
	assert.Equal(t, eventID.String(), resp.EventID)
	repo.AssertExpectations(t)
}

func TestAddFavoriteUnknownEvent(t *testing.T) {
	repo := new(mockRepository)
	checker := new(mockEventChecker)
	svc := NewService(repo)
	svc.SetEventChecker(checker)

	eventID := uuid.New()
	checker.On("GetEventOwner", mock.Anything, eventID).Return(uuid.Nil, errors.New("event not found"))

	_, err := svc.AddFavorite(context.Background(), uuid.New(), eventID)
	require.Error(t, err)
	repo.AssertNotCalled(t, "Add", mock.Anything)
}

func TestRemoveFavoriteNotFavorited(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	userID := uuid.New()
	eventID := uuid.New()
	repo.On("Remove", userID, eventID).Return(gorm.ErrRecordNotFound)

	err := svc.RemoveFavorite(context.Background(), userID, eventID)
	assert.ErrorIs(t, err, ErrNotFavorited)
}

func TestGetFavorites(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	userID := uuid.New()
	repo.On("GetByUser", userID).Return([]Favorite{
		{ID: uuid.New(), UserID: userID, EventID: uuid.New()},
		{ID: uuid.New(), UserID: userID, EventID: uuid.New()},
	}, nil)

	favorites, err := svc.GetFavorites(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, favorites, 2)
}
