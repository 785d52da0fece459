package booking

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"podstudio/models"
	"podstudio/services/availability"
	"podstudio/services/sequence"
)

// Confirm moves a pending request to confirmed, optionally adjusting its
// schedule first. The final window is checked against every other confirmed
// booking inside the same atomic unit that writes the new status, so two
// admins racing on overlapping requests cannot both win.
func (m *DefaultLifecycleManager) Confirm(ctx context.Context, id string, adjusted *models.ScheduleAdjustment, adminID string) (*models.Reservation, error) {
	adminID = strings.TrimSpace(adminID)
	if adminID == "" {
		return nil, models.NewValidationError("adminId is required to confirm a reservation")
	}

	current, err := m.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, models.WrapUnknown(err, "load reservation")
	}
	if !current.Status.CanTransitionTo(models.StatusConfirmed) {
		return nil, models.NewInvalidTransition(current.Status, models.StatusConfirmed)
	}

	start, hours := current.StartAt, current.DurationHours
	if adjusted != nil {
		start, hours = adjusted.StartAt, adjusted.DurationHours
	}
	start, end, err := ValidateSchedule(start, hours, m.loc())
	if err != nil {
		return nil, err
	}

	conflictCheck := func(confirmed []models.Reservation) error {
		for _, other := range confirmed {
			if other.ID == id || !other.Status.BlocksSlot() {
				continue
			}
			if availability.Overlaps(start, end, other.StartAt, other.EndAt) {
				return models.NewSlotNoLongerAvailable("window %s to %s overlaps confirmed reservation %s",
					start.Format(time.RFC3339), end.Format(time.RFC3339), other.ID)
			}
		}
		return nil
	}

	// Cheap pre-check so an obvious conflict does not burn a sequence number.
	existing, err := m.Repo.FindConfirmedByDateRange(ctx, start, end)
	if err != nil {
		return nil, models.WrapUnknown(err, "load confirmed reservations")
	}
	if err := conflictCheck(existing); err != nil {
		m.logger().Info("confirmation refused", zap.String("reservationID", id), zap.Error(err))
		return nil, err
	}

	year := start.In(m.loc()).Year()
	seq, err := m.Issuer.NextSequence(ctx, year)
	if err != nil {
		return nil, models.WrapUnknown(err, "issue confirmation code")
	}
	code := sequence.FormatConfirmationCode(year, seq)

	confirmed, err := m.Repo.ConfirmAtomically(ctx, models.Confirmation{
		ReservationID:  id,
		StartAt:        start,
		EndAt:          end,
		DurationHours:  hours,
		ConfirmationID: code,
		AdminID:        adminID,
		ConfirmedAt:    m.now(),
	}, conflictCheck)
	if err != nil {
		// The sequence stays consumed; gaps in a year's numbering are allowed.
		m.logger().Warn("confirmation aborted",
			zap.String("reservationID", id),
			zap.String("confirmationID", code),
			zap.Error(err))
		return nil, models.WrapUnknown(err, "confirm reservation")
	}

	m.invalidate(ctx, current.StartAt, current.EndAt, confirmed.StartAt, confirmed.EndAt)
	m.logger().Info("reservation confirmed",
		zap.String("reservationID", id),
		zap.String("confirmationID", code),
		zap.String("adminID", adminID),
		zap.Time("startAt", confirmed.StartAt),
		zap.Time("endAt", confirmed.EndAt))
	return confirmed, nil
}

// invalidate tells the calendar which studio days changed. Windows are passed
// as start/end pairs.
func (m *DefaultLifecycleManager) invalidate(ctx context.Context, bounds ...time.Time) {
	if m.Calendar == nil {
		return
	}
	seen := map[string]struct{}{}
	var dates []string
	for i := 0; i+1 < len(bounds); i += 2 {
		for _, d := range studioDays(bounds[i], bounds[i+1], m.loc()) {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			dates = append(dates, d)
		}
	}
	m.Calendar.InvalidateDates(ctx, dates...)
}
