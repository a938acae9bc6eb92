package events

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"ingresso/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(event *Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *mockRepository) GetByID(id uuid.UUID) (*Event, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Event), args.Error(1)
}

func (m *mockRepository) Update(id uuid.UUID, updates map[string]interface{}) (*Event, error) {
	args := m.Called(id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Event), args.Error(1)
}

func (m *mockRepository) Delete(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockRepository) GetAll(query EventListQuery) ([]Event, int64, error) {
	args := m.Called(query)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Event), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepository) GetByProducer(producerID uuid.UUID) ([]Event, error) {
	args := m.Called(producerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Event), args.Error(1)
}

func (m *mockRepository) GetUpcoming(limit int) ([]Event, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Event), args.Error(1)
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, path, contentType, body)
	return args.String(0), args.Error(1)
}

func sampleEvent(owner uuid.UUID) *Event {
	return &Event{
		ID:        uuid.New(),
		Name:      "Festival de Inverno",
		Venue:     "Audio Club",
		City:      "São Paulo",
		DateTime:  time.Now().Add(30 * 24 * time.Hour),
		Status:    StatusDraft,
		CreatedBy: owner,
	}
}

func TestCreateEventRejectsPastDate(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	_, err := svc.CreateEvent(context.Background(), uuid.New(), CreateEventRequest{
		Name:     "Show",
		Venue:    "Audio Club",
		City:     "São Paulo",
		DateTime: time.Now().Add(-time.Hour),
	})
	require.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestUpdateEventOwnership(t *testing.T) {
	owner := uuid.New()
	event := sampleEvent(owner)
	newName := "Renamed"

	t.Run("stranger is rejected", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo)
		repo.On("GetByID", event.ID).Return(event, nil)

		_, err := svc.UpdateEvent(context.Background(), event.ID, uuid.New(), false, UpdateEventRequest{Name: &newName})
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("admin bypasses ownership", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo)
		repo.On("GetByID", event.ID).Return(event, nil)
		repo.On("Update", event.ID, mock.MatchedBy(func(u map[string]interface{}) bool {
			return u["name"] == newName
		})).Return(event, nil)

		_, err := svc.UpdateEvent(context.Background(), event.ID, uuid.New(), true, UpdateEventRequest{Name: &newName})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestGetAllEventsDefaultsToPublished(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	repo.On("GetAll", mock.MatchedBy(func(q EventListQuery) bool {
		return q.Status == string(StatusPublished)
	})).Return([]Event{}, int64(0), nil)

	_, err := svc.GetAllEvents(context.Background(), EventListQuery{})
	require.NoError(t, err)
	repo.AssertExpectations(t)

	// An explicit filter is passed through untouched.
	repo.On("GetAll", mock.MatchedBy(func(q EventListQuery) bool {
		return q.Status == string(StatusCancelled)
	})).Return([]Event{}, int64(0), nil)

	_, err = svc.GetAllEvents(context.Background(), EventListQuery{Status: string(StatusCancelled)})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDeleteEventNotFound(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	id := uuid.New()
	repo.On("GetByID", id).Return(nil, gorm.ErrRecordNotFound)

	err := svc.DeleteEvent(context.Background(), id, uuid.New(), false)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestUploadCoverFallsBackToPlaceholder(t *testing.T) {
	owner := uuid.New()
	event := sampleEvent(owner)

	repo := new(mockRepository)
	uploader := new(mockUploader)
	svc := NewService(repo)
	svc.SetUploader(uploader)

	repo.On("GetByID", event.ID).Return(event, nil)
	uploader.On("Upload", mock.Anything, mock.Anything, "image/png", mock.Anything).
		Return("", errors.New("bucket unreachable"))
	repo.On("Update", event.ID, mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["cover_url"] == storage.PlaceholderCoverURL
	})).Return(event, nil)

	_, err := svc.UploadCover(context.Background(), event.ID, owner, "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestMarkConfiguredPublishesEvent(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	event := sampleEvent(uuid.New())
	repo.On("Update", event.ID, mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["configured"] == true && u["status"] == StatusPublished
	})).Return(event, nil)

	err := svc.MarkConfigured(context.Background(), event.ID)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetEventOwner(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	owner := uuid.New()
	event := sampleEvent(owner)
	repo.On("GetByID", event.ID).Return(event, nil)

	got, err := svc.GetEventOwner(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, owner, got)

	missing := uuid.New()
	repo.On("GetByID", missing).Return(nil, gorm.ErrRecordNotFound)
	_, err = svc.GetEventOwner(context.Background(), missing)
	assert.ErrorIs(t, err, ErrEventNotFound)
}
