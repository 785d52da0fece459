package availability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"podstudio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memConfigStore struct {
	cfg   *models.AvailabilityConfig
	err   error
	reads int
}

func (s *memConfigStore) GetAvailabilityConfig(context.Context) (*models.AvailabilityConfig, error) {
	s.reads++
	if s.err != nil {
		return nil, s.err
	}
	if s.cfg == nil {
		return nil, nil
	}
	c := *s.cfg
	return &c, nil
}

func (s *memConfigStore) ReplaceAvailabilityConfig(_ context.Context, cfg models.AvailabilityConfig) error {
	s.cfg = &cfg
	return nil
}

type staticLister struct {
	byDate map[string][]models.Reservation
	calls  int
	during func()
}

func (l *staticLister) FindConfirmedByDate(_ context.Context, date string) ([]models.Reservation, error) {
	l.calls++
	res := l.byDate[date]
	if l.during != nil {
		l.during()
	}
	return res, nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func newService(cfg *models.AvailabilityConfig, bookings map[string][]models.Reservation) (*DefaultAvailabilityService, *memConfigStore, *staticLister) {
	store := &memConfigStore{cfg: cfg}
	lister := &staticLister{byDate: bookings}
	return &DefaultAvailabilityService{
		Config:   store,
		Bookings: lister,
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) },
	}, store, lister
}

func TestGetSlots(t *testing.T) {
	cfg := everyDay("09:00", "17:00")
	svc, _, _ := newService(&cfg, map[string][]models.Reservation{
		"2025-06-02": {confirmed("r-1", at(monday, 10), at(monday, 12))},
	})

	res, err := svc.GetSlots(context.Background(), "2025-06-02", 2)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", res.Date)
	assert.Equal(t, 2, res.DurationHours)
	assert.Equal(t, "UTC", res.Timezone)
	require.Len(t, res.Slots, 7)
	assert.False(t, res.Slots[0].Available)
	assert.True(t, res.Slots[3].Available)
}

func TestGetSlotsValidation(t *testing.T) {
	cfg := everyDay("09:00", "17:00")
	svc, _, _ := newService(&cfg, nil)

	_, err := svc.GetSlots(context.Background(), "02/06/2025", 1)
	assert.ErrorIs(t, err, models.ErrValidation)

	for _, hours := range []int{0, -1, models.MaxDurationHours + 1, 1<<51 + 1} {
		_, err = svc.GetSlots(context.Background(), "2025-06-02", hours)
		assert.ErrorIs(t, err, models.ErrValidation, "hours=%d", hours)
	}
}

func TestGetSlotsFullDayDuration(t *testing.T) {
	cfg := everyDay("09:00", "17:00")
	svc, _, _ := newService(&cfg, nil)

	res, err := svc.GetSlots(context.Background(), "2025-06-02", models.MaxDurationHours)
	require.NoError(t, err)
	assert.NotNil(t, res.Slots)
	assert.Empty(t, res.Slots)
}

func TestGetSlotsWithoutConfig(t *testing.T) {
	svc, _, _ := newService(nil, nil)

	_, err := svc.GetSlots(context.Background(), "2025-06-02", 1)
	assert.ErrorIs(t, err, models.ErrConfiguration)
}

func TestGetSlotsStorageFailureIsUnknown(t *testing.T) {
	svc, store, _ := newService(nil, nil)
	store.err = errors.New("mongo down")

	_, err := svc.GetSlots(context.Background(), "2025-06-02", 1)
	assert.Equal(t, models.KindUnknown, models.KindOf(err))
}

func TestReplaceConfigRejectsIncompleteRecord(t *testing.T) {
	old := everyDay("09:00", "17:00")
	svc, store, _ := newService(&old, nil)

	partial := everyDay("10:00", "18:00")
	delete(partial.OpeningHours, "friday")

	_, err := svc.ReplaceConfig(context.Background(), partial)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.ErrorIs(t, err, models.ErrConfiguration)
	assert.Equal(t, "09:00", store.cfg.OpeningHours["friday"].Start)
}

func TestCacheIsUsedAndInvalidated(t *testing.T) {
	cfg := everyDay("09:00", "17:00")
	svc, store, lister := newService(&cfg, map[string][]models.Reservation{})
	svc.Cache = newMemCache()
	svc.CacheTTL = time.Minute
	ctx := context.Background()

	_, err := svc.GetSlots(ctx, "2025-06-02", 1)
	require.NoError(t, err)
	_, err = svc.GetSlots(ctx, "2025-06-02", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, store.reads)
	assert.Equal(t, 1, lister.calls)

	lister.byDate["2025-06-02"] = []models.Reservation{confirmed("r-1", at(monday, 9), at(monday, 17))}
	svc.InvalidateDates(ctx, "2025-06-02")

	res, err := svc.GetSlots(ctx, "2025-06-02", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, lister.calls)
	for _, s := range res.Slots {
		assert.False(t, s.Available)
	}

	next := everyDay("10:00", "12:00")
	_, err = svc.ReplaceConfig(ctx, next)
	require.NoError(t, err)
	res, err = svc.GetSlots(ctx, "2025-06-02", 1)
	require.NoError(t, err)
	assert.Len(t, res.Slots, 2)
}

func TestLoadRacingInvalidationIsNotCached(t *testing.T) {
	cfg := everyDay("09:00", "17:00")
	svc, _, lister := newService(&cfg, map[string][]models.Reservation{})
	svc.Cache = newMemCache()
	svc.CacheTTL = time.Minute
	ctx := context.Background()

	// A confirm lands between the storage read and the cache write.
	lister.during = func() {
		lister.byDate["2025-06-02"] = []models.Reservation{confirmed("r-1", at(monday, 9), at(monday, 17))}
		svc.InvalidateDates(ctx, "2025-06-02")
	}
	res, err := svc.GetSlots(ctx, "2025-06-02", 1)
	require.NoError(t, err)
	assert.True(t, res.Slots[0].Available)
	lister.during = nil

	res, err = svc.GetSlots(ctx, "2025-06-02", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, lister.calls)
	for _, s := range res.Slots {
		assert.False(t, s.Available)
	}
}

func TestEnsureConfigSeedsOnlyOnce(t *testing.T) {
	svc, store, _ := newService(nil, nil)
	ctx := context.Background()

	require.NoError(t, svc.EnsureConfig(ctx, everyDay("09:00", "18:00")))
	require.NotNil(t, store.cfg)
	assert.Equal(t, "18:00", store.cfg.OpeningHours["monday"].End)

	require.NoError(t, svc.EnsureConfig(ctx, everyDay("07:00", "08:00")))
	assert.Equal(t, "18:00", store.cfg.OpeningHours["monday"].End)
}
