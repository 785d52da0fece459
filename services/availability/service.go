package availability

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"podstudio/models"

	"go.uber.org/zap"
)

const (
	dateLayout     = "2006-01-02"
	configCacheKey = "availability:config"
)

// ConfigStore persists the single availability configuration record.
type ConfigStore interface {
	GetAvailabilityConfig(ctx context.Context) (*models.AvailabilityConfig, error)
	ReplaceAvailabilityConfig(ctx context.Context, cfg models.AvailabilityConfig) error
}

// ConfirmedLister returns the confirmed reservations touching a studio date.
type ConfirmedLister interface {
	FindConfirmedByDate(ctx context.Context, date string) ([]models.Reservation, error)
}

// Cache is a byte-oriented cache. A miss is reported with found == false.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// AvailabilityService answers calendar queries and owns the configuration record.
type AvailabilityService interface {
	GetSlots(ctx context.Context, date string, durationHours int) (*models.AvailabilityResult, error)
	GetConfig(ctx context.Context) (*models.AvailabilityConfig, error)
	ReplaceConfig(ctx context.Context, cfg models.AvailabilityConfig) (*models.AvailabilityConfig, error)
	InvalidateDates(ctx context.Context, dates ...string)
}

// DefaultAvailabilityService reads through Cache when one is set. Cached
// entries only shorten the read path; confirmation re-checks against storage.
type DefaultAvailabilityService struct {
	Config   ConfigStore
	Bookings ConfirmedLister
	Cache    Cache
	CacheTTL time.Duration
	Location *time.Location
	Now      func() time.Time
	Logger   *zap.Logger

	genMu       sync.Mutex
	generations map[string]uint64
}

func confirmedCacheKey(date string) string {
	return "availability:confirmed:" + date
}

func (s *DefaultAvailabilityService) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

func (s *DefaultAvailabilityService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// ParseDate parses a YYYY-MM-DD studio date into its local midnight.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, models.NewValidationError("date %q is not a YYYY-MM-DD calendar day", date)
	}
	return day, nil
}

// GetSlots computes the bookable windows of durationHours on date.
func (s *DefaultAvailabilityService) GetSlots(ctx context.Context, date string, durationHours int) (*models.AvailabilityResult, error) {
	day, err := ParseDate(date, s.location())
	if err != nil {
		return nil, err
	}
	if durationHours <= 0 || durationHours > models.MaxDurationHours {
		return nil, models.NewValidationError("durationHours must be between 1 and %d, got %d", models.MaxDurationHours, durationHours)
	}

	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.confirmedFor(ctx, date)
	if err != nil {
		return nil, err
	}

	slots, err := ComputeSlots(day, durationHours*60, *cfg, bookings)
	if err != nil {
		if models.KindOf(err) == models.KindConfiguration {
			s.logger().Error("availability config is unusable", zap.String("date", date), zap.Error(err))
		}
		return nil, err
	}

	return &models.AvailabilityResult{
		Date:          date,
		DurationHours: durationHours,
		Timezone:      s.location().String(),
		Slots:         slots,
	}, nil
}

// GetConfig returns the current configuration record.
func (s *DefaultAvailabilityService) GetConfig(ctx context.Context) (*models.AvailabilityConfig, error) {
	var cached models.AvailabilityConfig
	if s.readCache(ctx, configCacheKey, &cached) {
		return &cached, nil
	}

	gen := s.generation(configCacheKey)
	cfg, err := s.Config.GetAvailabilityConfig(ctx)
	if err != nil {
		return nil, models.WrapUnknown(err, "load availability config")
	}
	if cfg == nil {
		return nil, models.NewConfigurationError("availability config has not been set")
	}
	if s.generation(configCacheKey) == gen {
		s.writeCache(ctx, configCacheKey, cfg)
	}
	return cfg, nil
}

// ReplaceConfig swaps the whole configuration record. Incomplete records are
// rejected before anything is written.
func (s *DefaultAvailabilityService) ReplaceConfig(ctx context.Context, cfg models.AvailabilityConfig) (*models.AvailabilityConfig, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, &models.DomainError{Kind: models.KindValidation, Message: "invalid availability config", Err: err}
	}
	cfg.UpdatedAt = s.now()
	if err := s.Config.ReplaceAvailabilityConfig(ctx, cfg); err != nil {
		return nil, models.WrapUnknown(err, "replace availability config")
	}
	s.bumpGeneration(configCacheKey)
	s.dropCache(ctx, configCacheKey)
	s.logger().Info("availability config replaced", zap.Int("slotDurationMin", cfg.SlotDurationMin))
	return &cfg, nil
}

// EnsureConfig stores fallback when no configuration has been saved yet.
func (s *DefaultAvailabilityService) EnsureConfig(ctx context.Context, fallback models.AvailabilityConfig) error {
	cfg, err := s.Config.GetAvailabilityConfig(ctx)
	if err != nil {
		return models.WrapUnknown(err, "load availability config")
	}
	if cfg != nil {
		return nil
	}
	s.logger().Info("seeding default availability config")
	_, err = s.ReplaceConfig(ctx, fallback)
	return err
}

// InvalidateDates drops cached confirmed bookings after a booking changes state.
func (s *DefaultAvailabilityService) InvalidateDates(ctx context.Context, dates ...string) {
	if len(dates) == 0 {
		return
	}
	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		keys = append(keys, confirmedCacheKey(d))
	}
	s.bumpGeneration(keys...)
	s.dropCache(ctx, keys...)
}

func (s *DefaultAvailabilityService) confirmedFor(ctx context.Context, date string) ([]models.Reservation, error) {
	var cached []models.Reservation
	if s.readCache(ctx, confirmedCacheKey(date), &cached) {
		return cached, nil
	}
	key := confirmedCacheKey(date)
	gen := s.generation(key)
	bookings, err := s.Bookings.FindConfirmedByDate(ctx, date)
	if err != nil {
		return nil, models.WrapUnknown(err, "load confirmed reservations")
	}
	// A load that raced an invalidation may predate the change; serve it
	// but leave the cache empty.
	if s.generation(key) == gen {
		s.writeCache(ctx, key, bookings)
	}
	return bookings, nil
}

func (s *DefaultAvailabilityService) generation(key string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[key]
}

func (s *DefaultAvailabilityService) bumpGeneration(keys ...string) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	if s.generations == nil {
		s.generations = make(map[string]uint64)
	}
	for _, k := range keys {
		s.generations[k]++
	}
}

func (s *DefaultAvailabilityService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *DefaultAvailabilityService) readCache(ctx context.Context, key string, dst any) bool {
	if s.Cache == nil {
		return false
	}
	raw, found, err := s.Cache.Get(ctx, key)
	if err != nil {
		s.logger().Warn("availability cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger().Warn("availability cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *DefaultAvailabilityService) writeCache(ctx context.Context, key string, v any) {
	if s.Cache == nil || s.CacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger().Warn("availability cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.Cache.Set(ctx, key, raw, s.CacheTTL); err != nil {
		s.logger().Warn("availability cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *DefaultAvailabilityService) dropCache(ctx context.Context, keys ...string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, keys...); err != nil {
		s.logger().Warn("availability cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
