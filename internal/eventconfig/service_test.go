package eventconfig

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"ingresso/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) SaveRows(ctx context.Context, eventID uuid.UUID, rows *RowSet) error {
	args := m.Called(ctx, eventID, rows)
	return args.Error(0)
}

func (m *mockRepository) LoadRows(ctx context.Context, eventID uuid.UUID) (*RowSet, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RowSet), args.Error(1)
}

func (m *mockRepository) HasRows(ctx context.Context, eventID uuid.UUID) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) DeleteRows(ctx context.Context, eventID uuid.UUID) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

type mockEventService struct {
	mock.Mock
}

func (m *mockEventService) GetEventOwner(ctx context.Context, eventID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockEventService) MarkConfigured(ctx context.Context, eventID uuid.UUID) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) PublishEventConfigured(ctx context.Context, eventID, producerID uuid.UUID) error {
	args := m.Called(ctx, eventID, producerID)
	return args.Error(0)
}

// memoryCache is an in-memory stand-in for the Redis-backed cache service.
type memoryCache struct {
	mu      sync.Mutex
	items   map[string][]byte
	lastTTL time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.items[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = data
	c.lastTTL = ttl
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

func (c *memoryCache) MGet(ctx context.Context, keys []string, dest interface{}) error {
	return errors.New("not implemented")
}

func (c *memoryCache) MSet(ctx context.Context, items map[string]interface{}, ttl time.Duration) error {
	for k, v := range items {
		if err := c.Set(ctx, k, v, ttl); err != nil {
			return err
		}
	}
	return nil
}

func (c *memoryCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}
	value, err := fetcher()
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return c.Get(ctx, key, dest)
}

func (c *memoryCache) Ping(ctx context.Context) error { return nil }

func newTestService(t *testing.T) (Service, *mockRepository, *mockEventService, *mockNotifier, *memoryCache) {
	t.Helper()
	repo := new(mockRepository)
	eventSvc := new(mockEventService)
	notifier := new(mockNotifier)
	mem := newMemoryCache()

	svc := NewService(repo)
	svc.SetEventService(eventSvc)
	svc.SetCacheService(mem)
	svc.SetNotifier(notifier)
	return svc, repo, eventSvc, notifier, mem
}

func TestSubmitConfigurationRejectsNonOwner(t *testing.T) {
	svc, _, eventSvc, _, _ := newTestService(t)
	eventID := uuid.New()
	userID := uuid.New()
	eventSvc.On("GetEventOwner", mock.Anything, eventID).Return(uuid.New(), nil)

	cfg, _, _ := pistaConfig(t, 100)
	_, err := svc.SubmitConfiguration(context.Background(), eventID, userID, cfg)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestSubmitConfigurationRejectsUnknownEvent(t *testing.T) {
	svc, _, eventSvc, _, _ := newTestService(t)
	eventID := uuid.New()
	eventSvc.On("GetEventOwner", mock.Anything, eventID).Return(uuid.Nil, errors.New("not found"))

	cfg, _, _ := pistaConfig(t, 100)
	_, err := svc.SubmitConfiguration(context.Background(), eventID, uuid.New(), cfg)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestSubmitConfigurationRejectsInvalidConfig(t *testing.T) {
	svc, repo, eventSvc, _, _ := newTestService(t)
	eventID := uuid.New()
	userID := uuid.New()
	eventSvc.On("GetEventOwner", mock.Anything, eventID).Return(userID, nil)

	cfg, _, _ := pistaConfig(t, 100)
	cfg.Coupons = append(cfg.Coupons, Coupon{ID: uuid.New(), Code: ""})

	_, err := svc.SubmitConfiguration(context.Background(), eventID, userID, cfg)
	require.Error(t, err)
	var verrs ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	// Nothing must reach persistence when validation fails.
	repo.AssertNotCalled(t, "SaveRows", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitConfigurationFirstSubmission(t *testing.T) {
	svc, repo, eventSvc, notifier, _ := newTestService(t)
	eventID := uuid.New()
	userID := uuid.New()
	cfg, _, _ := pistaConfig(t, 100)

	eventSvc.On("GetEventOwner", mock.Anything, eventID).Return(userID, nil)
	eventSvc.On("MarkConfigured", mock.Anything, eventID).Return(nil)
	repo.On("HasRows", mock.Anything, eventID).Return(false, nil)
	var saved *RowSet
	repo.On("SaveRows", mock.Anything, eventID, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(2).(*RowSet)
	}).Return(nil)
	repo.On("LoadRows", mock.Anything, eventID).Return(Flatten(cfg, userID), nil)
	notifier.On("PublishEventConfigured", mock.Anything, eventID, userID).Return(nil)

	result, err := svc.SubmitConfiguration(context.Background(), eventID, userID, cfg)
	require.NoError(t, err)
	require.Len(t, result.Sectors, 1)

	require.NotNil(t, saved)
	assert.Len(t, saved.Sectors, 1)
	assert.Len(t, saved.Tickets, 1)
	eventSvc.AssertCalled(t, "MarkConfigured", mock.Anything, eventID)
	notifier.AssertCalled(t, "PublishEventConfigured", mock.Anything, eventID, userID)
}

func TestSubmitConfigurationResubmissionSkipsNotification(t *testing.T) {
	svc, repo, eventSvc, notifier, _ := newTestService(t)
	eventID := uuid.New()
	userID := uuid.New()
	cfg, _, _ := pistaConfig(t, 100)

	eventSvc.On("GetEventOwner", mock.Anything, eventID).Return(userID, nil)
	eventSvc.On("MarkConfigured", mock.Anything, eventID).Return(nil)
	repo.On("HasRows", mock.Anything, eventID).Return(true, nil)
	repo.On("SaveRows", mock.Anything, eventID, mock.Anything).Return(nil)
	repo.On("LoadRows", mock.Anything, eventID).Return(Flatten(cfg, userID), nil)

	_, err := svc.SubmitConfiguration(context.Background(), eventID, userID, cfg)
	require.NoError(t, err)

	notifier.AssertNotCalled(t, "PublishEventConfigured", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitConfigurationSaveFailure(t *testing.T) {
	svc, repo, eventSvc, notifier, _ := newTestService(t)
	eventID := uuid.New()
	userID := uuid.New()
	cfg, _, _ := pistaConfig(t, 100)

	eventSvc.On("GetEventOwner", mock.Anything, eventID).Return(userID, nil)
	repo.On("HasRows", mock.Anything, eventID).Return(false, nil)
	repo.On("SaveRows", mock.Anything, eventID, mock.Anything).Return(errors.New("tx aborted"))

	_, err := svc.SubmitConfiguration(context.Background(), eventID, userID, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save configuration")

	// A failed save never marks the event configured or notifies.
	eventSvc.AssertNotCalled(t, "MarkConfigured", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "PublishEventConfigured", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetConfigurationNoRows(t *testing.T) {
	svc, repo, _, _, _ := newTestService(t)
	eventID := uuid.New()
	repo.On("LoadRows", mock.Anything, eventID).Return(&RowSet{}, nil)

	_, err := svc.GetConfiguration(context.Background(), eventID)
	assert.ErrorIs(t, err, ErrNoConfig)
}

func TestGetConfigurationLoadErrorAborts(t *testing.T) {
	svc, repo, _, _, _ := newTestService(t)
	eventID := uuid.New()
	repo.On("LoadRows", mock.Anything, eventID).Return(nil, errors.New("connection reset"))

	_, err := svc.GetConfiguration(context.Background(), eventID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestGetConfigurationUsesCache(t *testing.T) {
	svc, repo, _, _, _ := newTestService(t)
	eventID := uuid.New()
	cfg, _, _ := pistaConfig(t, 100)
	cfg.EventID = eventID

	repo.On("LoadRows", mock.Anything, eventID).Return(Flatten(cfg, uuid.New()), nil).Once()

	first, err := svc.GetConfiguration(context.Background(), eventID)
	require.NoError(t, err)

	// Second read is served from cache; the repo expectation is Once.
	second, err := svc.GetConfiguration(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, first.Sectors[0].ID, second.Sectors[0].ID)
	repo.AssertExpectations(t)
}

func TestDraftLifecycle(t *testing.T) {
	svc, repo, eventSvc, notifier, _ := newTestService(t)
	eventID := uuid.New()
	userID := uuid.New()

	eventSvc.On("GetEventOwner", mock.Anything, eventID).Return(userID, nil)
	eventSvc.On("MarkConfigured", mock.Anything, eventID).Return(nil)
	repo.On("LoadRows", mock.Anything, eventID).Return(&RowSet{}, nil).Once()

	// No persisted rows: the draft starts from the default tree.
	draft, err := svc.StartDraft(context.Background(), eventID, userID)
	require.NoError(t, err)
	require.Len(t, draft.Sectors, 1)
	assert.Equal(t, "Setor 1", draft.Sectors[0].Name)

	// Edit through commands.
	sectorID := draft.Sectors[0].ID
	ticketID := draft.Sectors[0].Contents.Flat[0].ID
	draft, err = svc.ApplyDraftCommand(context.Background(), eventID, userID, Command{
		Op: OpUpdateSector, SectorID: &sectorID, Name: "Pista",
	})
	require.NoError(t, err)
	draft, err = svc.ApplyDraftCommand(context.Background(), eventID, userID, Command{
		Op: OpUpdateTicketType, SectorID: &sectorID, TicketTypeID: &ticketID,
		Name: "Inteira", Price: 120, Quantity: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), draft.Revision)

	// Submit persists the draft and clears it.
	repo.On("HasRows", mock.Anything, eventID).Return(false, nil)
	var saved *RowSet
	repo.On("SaveRows", mock.Anything, eventID, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(2).(*RowSet)
	}).Return(nil)
	repo.On("LoadRows", mock.Anything, eventID).Return(Flatten(draft, userID), nil)
	notifier.On("PublishEventConfigured", mock.Anything, eventID, userID).Return(nil)

	result, err := svc.SubmitDraft(context.Background(), eventID, userID)
	require.NoError(t, err)
	assert.Equal(t, "Pista", result.Sectors[0].Name)
	require.NotNil(t, saved)
	assert.Equal(t, "Inteira", saved.Tickets[0].Name)

	_, err = svc.GetDraft(context.Background(), eventID, userID)
	assert.ErrorIs(t, err, ErrNoDraft)
}

func TestDraftUsesConfiguredTTL(t *testing.T) {
	svc, repo, eventSvc, _, mem := newTestService(t)
	svc.SetDraftTTL(42 * time.Minute)

	eventID := uuid.New()
	userID := uuid.New()
	eventSvc.On("GetEventOwner", mock.Anything, eventID).Return(userID, nil)
	repo.On("LoadRows", mock.Anything, eventID).Return(&RowSet{}, nil).Once()

	_, err := svc.StartDraft(context.Background(), eventID, userID)
	require.NoError(t, err)
	assert.Equal(t, 42*time.Minute, mem.lastTTL)
}

func TestApplyDraftCommandWithoutDraft(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	_, err := svc.ApplyDraftCommand(context.Background(), uuid.New(), uuid.New(), Command{Op: OpAddSector})
	assert.ErrorIs(t, err, ErrNoDraft)
}

func TestDiscardDraft(t *testing.T) {
	svc, repo, eventSvc, _, mem := newTestService(t)
	eventID := uuid.New()
	userID := uuid.New()

	eventSvc.On("GetEventOwner", mock.Anything, eventID).Return(userID, nil)
	repo.On("LoadRows", mock.Anything, eventID).Return(&RowSet{}, nil)

	_, err := svc.StartDraft(context.Background(), eventID, userID)
	require.NoError(t, err)
	require.NotEmpty(t, mem.items)

	require.NoError(t, svc.DiscardDraft(context.Background(), eventID, userID))
	_, err = svc.GetDraft(context.Background(), eventID, userID)
	assert.ErrorIs(t, err, ErrNoDraft)
}
