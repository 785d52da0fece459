package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"podstudio/models"
	"podstudio/services/availability"

	"github.com/shopspring/decimal"
)

// memRepo serializes every call behind one mutex, which makes ConfirmAtomically
// atomic the same way the Mongo transaction is.
type memRepo struct {
	mu        sync.Mutex
	byID      map[string]models.Reservation
	createErr error
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[string]models.Reservation{}}
}

func (r *memRepo) Create(_ context.Context, res *models.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[res.ID] = *res
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byID[id]
	if !ok {
		return nil, models.NewReservationNotFound(id)
	}
	return &res, nil
}

func (r *memRepo) GetByConfirmationID(_ context.Context, code string) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.byID {
		if res.ConfirmationID != nil && *res.ConfirmationID == code {
			return &res, nil
		}
	}
	return nil, &models.DomainError{Kind: models.KindReservationNotFound, Message: code}
}

func (r *memRepo) List(_ context.Context, f models.ReservationFilter) ([]models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Reservation{}
	for _, res := range r.byID {
		if f.Status != nil && res.Status != *f.Status {
			continue
		}
		if f.From != nil && !res.EndAt.After(*f.From) {
			continue
		}
		if f.To != nil && !res.StartAt.Before(*f.To) {
			continue
		}
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (r *memRepo) FindConfirmedByDateRange(_ context.Context, from, to time.Time) ([]models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.confirmedLocked(from, to, ""), nil
}

func (r *memRepo) confirmedLocked(from, to time.Time, exclude string) []models.Reservation {
	var out []models.Reservation
	for _, res := range r.byID {
		if res.ID == exclude || res.Status != models.StatusConfirmed {
			continue
		}
		if availability.Overlaps(from, to, res.StartAt, res.EndAt) {
			out = append(out, res)
		}
	}
	return out
}

func (r *memRepo) UpdateStatus(_ context.Context, id string, from models.ReservationStatus, change models.StatusChange) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byID[id]
	if !ok {
		return nil, models.NewReservationNotFound(id)
	}
	if res.Status != from {
		return nil, models.NewInvalidTransition(res.Status, change.To)
	}
	res.Status = change.To
	res.StatusReason = change.Reason
	res.UpdatedAt = change.At
	at := change.At
	switch change.To {
	case models.StatusCompleted:
		res.CompletedAt = &at
	case models.StatusCancelled:
		res.CancelledAt = &at
	case models.StatusRejected:
		res.RejectedAt = &at
		res.RejectedByAdminID = change.AdminID
	case models.StatusPending, models.StatusConfirmed:
		return nil, fmt.Errorf("unsupported status change to %s", change.To)
	}
	r.byID[id] = res
	return &res, nil
}

func (r *memRepo) Assign(_ context.Context, id, adminID string, at time.Time) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byID[id]
	if !ok {
		return nil, models.NewReservationNotFound(id)
	}
	res.AssignedAdminID = adminID
	res.UpdatedAt = at
	r.byID[id] = res
	return &res, nil
}

func (r *memRepo) ConfirmAtomically(_ context.Context, c models.Confirmation, check func([]models.Reservation) error) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := check(r.confirmedLocked(c.StartAt, c.EndAt, c.ReservationID)); err != nil {
		return nil, err
	}
	res, ok := r.byID[c.ReservationID]
	if !ok {
		return nil, models.NewReservationNotFound(c.ReservationID)
	}
	if res.Status != models.StatusPending {
		return nil, models.NewInvalidTransition(res.Status, models.StatusConfirmed)
	}
	code := c.ConfirmationID
	at := c.ConfirmedAt
	res.Status = models.StatusConfirmed
	res.ConfirmationID = &code
	res.StartAt, res.EndAt, res.DurationHours = c.StartAt, c.EndAt, c.DurationHours
	res.ConfirmedByAdminID = c.AdminID
	res.ConfirmedAt = &at
	res.UpdatedAt = at
	r.byID[res.ID] = res
	return &res, nil
}

func (r *memRepo) snapshot() []models.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Reservation, 0, len(r.byID))
	for _, res := range r.byID {
		out = append(out, res)
	}
	return out
}

type memCatalog struct {
	decors      map[string]bool
	themes      map[string]bool
	packs       map[string]models.PackOffer
	supplements map[string]models.Supplement
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		decors: map[string]bool{"decor-loft": true, "decor-old": false},
		themes: map[string]bool{"theme-tech": true, "theme-retired": false},
		packs: map[string]models.PackOffer{
			"pack-basic": {ID: "pack-basic", Name: "Basic", BasePrice: decimal.RequireFromString("100.00"), Active: true},
			"pack-gone":  {ID: "pack-gone", Name: "Gone", BasePrice: decimal.RequireFromString("80.00"), Active: false},
		},
		supplements: map[string]models.Supplement{
			"sup-video":  {ID: "sup-video", Price: decimal.RequireFromString("15.50"), Active: true},
			"sup-coffee": {ID: "sup-coffee", Price: decimal.RequireFromString("4.50"), Active: true},
			"sup-old":    {ID: "sup-old", Price: decimal.RequireFromString("9.99"), Active: false},
		},
	}
}

func (c *memCatalog) DecorActive(_ context.Context, id string) (bool, error) { return c.decors[id], nil }
func (c *memCatalog) ThemeActive(_ context.Context, id string) (bool, error) { return c.themes[id], nil }

func (c *memCatalog) PackOffer(_ context.Context, id string) (*models.PackOffer, error) {
	p, ok := c.packs[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *memCatalog) Supplements(_ context.Context, ids []string) ([]models.Supplement, error) {
	var out []models.Supplement
	for _, id := range ids {
		if s, ok := c.supplements[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

type memIssuer struct {
	mu     sync.Mutex
	byYear map[int]int64
	calls  int
}

func (i *memIssuer) NextSequence(_ context.Context, year int) (int64, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.byYear == nil {
		i.byYear = map[int]int64{}
	}
	i.calls++
	i.byYear[year]++
	return i.byYear[year], nil
}

type recordingCalendar struct {
	mu    sync.Mutex
	dates []string
}

func (c *recordingCalendar) InvalidateDates(_ context.Context, dates ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dates = append(c.dates, dates...)
}

type fixture struct {
	mgr      *DefaultLifecycleManager
	repo     *memRepo
	issuer   *memIssuer
	calendar *recordingCalendar
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newMemRepo(),
		issuer:   &memIssuer{},
		calendar: &recordingCalendar{},
	}
	f.mgr = &DefaultLifecycleManager{
		Repo:     f.repo,
		Catalog:  newMemCatalog(),
		Issuer:   f.issuer,
		Calendar: f.calendar,
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2025, time.May, 1, 8, 0, 0, 0, time.UTC) },
	}
	return f
}

func strPtr(s string) *string { return &s }

func hourOn(day, hour int) time.Time {
	return time.Date(2025, time.June, day, hour, 0, 0, 0, time.UTC)
}

func validInput(start time.Time, hours int) models.ReservationInput {
	return models.ReservationInput{
		StartAt:       start,
		DurationHours: hours,
		DecorID:       "decor-loft",
		PackOfferID:   "pack-basic",
		ThemeID:       strPtr("theme-tech"),
		SupplementIDs: []string{"sup-video", "sup-coffee"},
		CustomerName:  "Camille Martin",
		CustomerEmail: "camille@example.com",
	}
}
