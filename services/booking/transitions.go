package booking

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"podstudio/models"
)

// Reject declines a pending request.
func (m *DefaultLifecycleManager) Reject(ctx context.Context, id, adminID, reason string) (*models.Reservation, error) {
	adminID = strings.TrimSpace(adminID)
	if adminID == "" {
		return nil, models.NewValidationError("adminId is required to reject a reservation")
	}
	return m.transition(ctx, id, models.StatusChange{
		To:      models.StatusRejected,
		Reason:  strings.TrimSpace(reason),
		AdminID: adminID,
	})
}

// Cancel withdraws a pending or confirmed reservation. A confirmed booking
// frees its window from that moment on.
func (m *DefaultLifecycleManager) Cancel(ctx context.Context, id, reason string) (*models.Reservation, error) {
	return m.transition(ctx, id, models.StatusChange{
		To:     models.StatusCancelled,
		Reason: strings.TrimSpace(reason),
	})
}

// Complete marks a confirmed session as held.
func (m *DefaultLifecycleManager) Complete(ctx context.Context, id string) (*models.Reservation, error) {
	return m.transition(ctx, id, models.StatusChange{To: models.StatusCompleted})
}

// Assign records which admin handles a request. It does not change status.
func (m *DefaultLifecycleManager) Assign(ctx context.Context, id, adminID string) (*models.Reservation, error) {
	adminID = strings.TrimSpace(adminID)
	if adminID == "" {
		return nil, models.NewValidationError("adminId is required")
	}
	current, err := m.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, models.WrapUnknown(err, "load reservation")
	}
	if current.Status.IsTerminal() {
		return nil, models.NewValidationError("reservation %s is %s and can no longer be assigned", id, current.Status)
	}
	r, err := m.Repo.Assign(ctx, id, adminID, m.now())
	if err != nil {
		return nil, models.WrapUnknown(err, "assign reservation")
	}
	m.logger().Info("reservation assigned", zap.String("reservationID", id), zap.String("adminID", adminID))
	return r, nil
}

// transition applies change if the state machine allows it. The write is
// conditional on the status read here, so a concurrent move in between
// surfaces as InvalidStateTransition instead of being overwritten.
func (m *DefaultLifecycleManager) transition(ctx context.Context, id string, change models.StatusChange) (*models.Reservation, error) {
	current, err := m.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, models.WrapUnknown(err, "load reservation")
	}
	if !current.Status.CanTransitionTo(change.To) {
		return nil, models.NewInvalidTransition(current.Status, change.To)
	}

	change.At = m.now()
	updated, err := m.Repo.UpdateStatus(ctx, id, current.Status, change)
	if err != nil {
		return nil, models.WrapUnknown(err, "update reservation status")
	}

	if current.Status.BlocksSlot() != updated.Status.BlocksSlot() {
		m.invalidate(ctx, current.StartAt, current.EndAt)
	}
	m.logger().Info("reservation status changed",
		zap.String("reservationID", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(updated.Status)))
	return updated, nil
}
