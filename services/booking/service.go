package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"podstudio/models"
)

const dateLayout = "2006-01-02"

// ReservationRepository is the storage contract of the lifecycle manager.
type ReservationRepository interface {
	Create(ctx context.Context, r *models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	GetByConfirmationID(ctx context.Context, code string) (*models.Reservation, error)
	List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error)
	FindConfirmedByDateRange(ctx context.Context, from, to time.Time) ([]models.Reservation, error)
	// UpdateStatus applies change only while the reservation is still in from.
	UpdateStatus(ctx context.Context, id string, from models.ReservationStatus, change models.StatusChange) (*models.Reservation, error)
	Assign(ctx context.Context, id, adminID string, at time.Time) (*models.Reservation, error)
	// ConfirmAtomically re-reads the confirmed bookings overlapping c's window,
	// hands them to check and, if check passes, flips the pending reservation
	// to confirmed. Read, check and write form one atomic unit.
	ConfirmAtomically(ctx context.Context, c models.Confirmation, check func([]models.Reservation) error) (*models.Reservation, error)
}

// CatalogRepository resolves reference data. Missing or inactive entries are
// reported as not found.
type CatalogRepository interface {
	DecorActive(ctx context.Context, id string) (bool, error)
	ThemeActive(ctx context.Context, id string) (bool, error)
	PackOffer(ctx context.Context, id string) (*models.PackOffer, error)
	Supplements(ctx context.Context, ids []string) ([]models.Supplement, error)
}

// SequenceIssuer hands out per-year confirmation numbers.
type SequenceIssuer interface {
	NextSequence(ctx context.Context, year int) (int64, error)
}

// CalendarInvalidator is told which studio dates changed occupancy.
type CalendarInvalidator interface {
	InvalidateDates(ctx context.Context, dates ...string)
}

// LifecycleManager owns the reservation state machine.
type LifecycleManager interface {
	Create(ctx context.Context, in models.ReservationInput) (*models.Reservation, error)
	Confirm(ctx context.Context, id string, adjusted *models.ScheduleAdjustment, adminID string) (*models.Reservation, error)
	Reject(ctx context.Context, id, adminID, reason string) (*models.Reservation, error)
	Cancel(ctx context.Context, id, reason string) (*models.Reservation, error)
	Complete(ctx context.Context, id string) (*models.Reservation, error)
	Assign(ctx context.Context, id, adminID string) (*models.Reservation, error)
	Get(ctx context.Context, id string) (*models.Reservation, error)
	GetByConfirmationID(ctx context.Context, code string) (*models.Reservation, error)
	List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error)
}

// DefaultLifecycleManager is the production LifecycleManager.
type DefaultLifecycleManager struct {
	Repo     ReservationRepository
	Catalog  CatalogRepository
	Issuer   SequenceIssuer
	Calendar CalendarInvalidator
	Location *time.Location
	Now      func() time.Time
	Logger   *zap.Logger
}

func (m *DefaultLifecycleManager) loc() *time.Location {
	if m.Location == nil {
		return time.UTC
	}
	return m.Location
}

func (m *DefaultLifecycleManager) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

func (m *DefaultLifecycleManager) logger() *zap.Logger {
	if m.Logger == nil {
		return zap.NewNop()
	}
	return m.Logger
}

// Create validates a client request, snapshots its price and stores it as
// pending. Overlapping pending requests are accepted; the room is only
// claimed at confirmation time.
func (m *DefaultLifecycleManager) Create(ctx context.Context, in models.ReservationInput) (*models.Reservation, error) {
	start, end, err := ValidateSchedule(in.StartAt, in.DurationHours, m.loc())
	if err != nil {
		return nil, err
	}
	themeID, customTheme, err := themeSelection(in.ThemeID, in.CustomTheme)
	if err != nil {
		return nil, err
	}
	if err := validateCustomer(in); err != nil {
		return nil, err
	}
	supplementIDs := uniqueIDs(in.SupplementIDs)

	pack, supplements, err := m.resolveReferences(ctx, strings.TrimSpace(in.DecorID), strings.TrimSpace(in.PackOfferID), themeID, supplementIDs)
	if err != nil {
		return nil, err
	}

	now := m.now()
	r := &models.Reservation{
		ID:            uuid.New().String(),
		StartAt:       start,
		EndAt:         end,
		DurationHours: in.DurationHours,
		Timezone:      m.loc().String(),
		Status:        models.StatusPending,
		DecorID:       strings.TrimSpace(in.DecorID),
		PackOfferID:   pack.ID,
		ThemeID:       themeID,
		CustomTheme:   customTheme,
		SupplementIDs: supplementIDs,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerEmail: strings.TrimSpace(in.CustomerEmail),
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		TotalPrice:    QuoteTotal(*pack, supplements),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := m.Repo.Create(ctx, r); err != nil {
		m.logger().Error("failed to store reservation", zap.String("reservationID", r.ID), zap.Error(err))
		return nil, models.WrapUnknown(err, "store reservation")
	}

	m.logger().Info("reservation requested",
		zap.String("reservationID", r.ID),
		zap.Time("startAt", r.StartAt),
		zap.Int("durationHours", r.DurationHours),
		zap.String("totalPrice", r.TotalPrice.StringFixed(2)))
	return r, nil
}

func (m *DefaultLifecycleManager) resolveReferences(ctx context.Context, decorID, packID string, themeID *string, supplementIDs []string) (*models.PackOffer, []models.Supplement, error) {
	ok, err := m.Catalog.DecorActive(ctx, decorID)
	if err != nil {
		return nil, nil, models.WrapUnknown(err, "look up decor")
	}
	if !ok {
		return nil, nil, models.NewReferenceNotFound("decor %s does not exist or is inactive", decorID)
	}

	if themeID != nil {
		ok, err := m.Catalog.ThemeActive(ctx, *themeID)
		if err != nil {
			return nil, nil, models.WrapUnknown(err, "look up theme")
		}
		if !ok {
			return nil, nil, models.NewReferenceNotFound("theme %s does not exist or is inactive", *themeID)
		}
	}

	pack, err := m.Catalog.PackOffer(ctx, packID)
	if err != nil {
		return nil, nil, models.WrapUnknown(err, "look up pack offer")
	}
	if pack == nil || !pack.Active {
		return nil, nil, models.NewReferenceNotFound("pack offer %s does not exist or is inactive", packID)
	}

	var supplements []models.Supplement
	if len(supplementIDs) > 0 {
		found, err := m.Catalog.Supplements(ctx, supplementIDs)
		if err != nil {
			return nil, nil, models.WrapUnknown(err, "look up supplements")
		}
		byID := make(map[string]models.Supplement, len(found))
		for _, s := range found {
			byID[s.ID] = s
		}
		for _, id := range supplementIDs {
			s, ok := byID[id]
			if !ok || !s.Active {
				return nil, nil, models.NewReferenceNotFound("supplement %s does not exist or is inactive", id)
			}
			supplements = append(supplements, s)
		}
	}
	return pack, supplements, nil
}

// Get returns one reservation.
func (m *DefaultLifecycleManager) Get(ctx context.Context, id string) (*models.Reservation, error) {
	r, err := m.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, models.WrapUnknown(err, "load reservation")
	}
	return r, nil
}

// GetByConfirmationID looks a confirmed booking up by its CONF code.
func (m *DefaultLifecycleManager) GetByConfirmationID(ctx context.Context, code string) (*models.Reservation, error) {
	r, err := m.Repo.GetByConfirmationID(ctx, code)
	if err != nil {
		return nil, models.WrapUnknown(err, "load reservation")
	}
	return r, nil
}

// List returns reservations for the admin dashboard.
func (m *DefaultLifecycleManager) List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, models.NewValidationError("to must not be before from")
	}
	list, err := m.Repo.List(ctx, filter)
	if err != nil {
		return nil, models.WrapUnknown(err, "list reservations")
	}
	return list, nil
}
