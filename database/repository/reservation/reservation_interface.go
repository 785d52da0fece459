package reservationRepo

import (
	"context"
	"time"

	"podstudio/models"
)

type ReservationRepository interface {
	Create(ctx context.Context, r *models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	GetByConfirmationID(ctx context.Context, code string) (*models.Reservation, error)
	List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error)
	FindConfirmedByDate(ctx context.Context, date string) ([]models.Reservation, error)
	FindConfirmedByDateRange(ctx context.Context, from, to time.Time) ([]models.Reservation, error)
	UpdateStatus(ctx context.Context, id string, from models.ReservationStatus, change models.StatusChange) (*models.Reservation, error)
	Assign(ctx context.Context, id, adminID string, at time.Time) (*models.Reservation, error)
	ConfirmAtomically(ctx context.Context, c models.Confirmation, check func([]models.Reservation) error) (*models.Reservation, error)
	EnsureIndexes() error
}
