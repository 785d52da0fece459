package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ReservationStatus is the closed set of lifecycle states of a podcast-room booking.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusRejected  ReservationStatus = "rejected"
)

// MaxDurationHours caps a single booking. Anything longer cannot fit in one
// studio day.
const MaxDurationHours = 24

// AllStatuses lists every status, in lifecycle order.
var AllStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
	StatusRejected,
}

func ParseReservationStatus(s string) (ReservationStatus, error) {
	st := ReservationStatus(s)
	if !st.Valid() {
		return "", NewValidationError("unknown reservation status %q", s)
	}
	return st, nil
}

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition leaves s.
func (s ReservationStatus) IsTerminal() bool {
	switch s {
	case StatusPending, StatusConfirmed:
		return false
	case StatusCompleted, StatusCancelled, StatusRejected:
		return true
	default:
		return true
	}
}

// CanTransitionTo encodes the reservation state machine. Every status has its
// own case; an unknown status never transitions.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusRejected || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	case StatusCompleted, StatusCancelled, StatusRejected:
		return false
	default:
		return false
	}
}

// BlocksSlot reports whether a reservation in this status occupies the room.
// Only confirmed bookings do; pending requests never hold the calendar.
func (s ReservationStatus) BlocksSlot() bool {
	return s == StatusConfirmed
}

// Reservation is a podcast-room booking.
type Reservation struct {
	ID             string  `json:"id"`
	ConfirmationID *string `json:"confirmationId"`

	StartAt       time.Time `json:"startAt"`
	EndAt         time.Time `json:"endAt"`
	DurationHours int       `json:"durationHours"`
	Timezone      string    `json:"timezone"`

	Status       ReservationStatus `json:"status"`
	StatusReason string            `json:"statusReason,omitempty"`

	DecorID       string   `json:"decorId"`
	PackOfferID   string   `json:"packOfferId"`
	ThemeID       *string  `json:"themeId,omitempty"`
	CustomTheme   *string  `json:"customTheme,omitempty"`
	SupplementIDs []string `json:"supplementIds"`

	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone,omitempty"`

	TotalPrice decimal.Decimal `json:"totalPrice"`

	AssignedAdminID    string     `json:"assignedAdminId,omitempty"`
	ConfirmedByAdminID string     `json:"confirmedByAdminId,omitempty"`
	RejectedByAdminID  string     `json:"rejectedByAdminId,omitempty"`
	ConfirmedAt        *time.Time `json:"confirmedAt,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	RejectedAt         *time.Time `json:"rejectedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r Reservation) String() string {
	return fmt.Sprintf("reservation %s [%s, %s) %s",
		r.ID, r.StartAt.Format(time.RFC3339), r.EndAt.Format(time.RFC3339), r.Status)
}

// ReservationInput is what a client submits to request the podcast room.
type ReservationInput struct {
	StartAt       time.Time `json:"startAt" binding:"required"`
	DurationHours int       `json:"durationHours"`
	DecorID       string    `json:"decorId"`
	PackOfferID   string    `json:"packOfferId"`
	ThemeID       *string   `json:"themeId,omitempty"`
	CustomTheme   *string   `json:"customTheme,omitempty"`
	SupplementIDs []string  `json:"supplementIds"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	CustomerPhone string    `json:"customerPhone,omitempty"`
}

// ScheduleAdjustment lets an admin move a pending request while confirming it.
type ScheduleAdjustment struct {
	StartAt       time.Time `json:"startAt" binding:"required"`
	DurationHours int       `json:"durationHours" binding:"required"`
}

// StatusChange is applied by a conditional status update.
type StatusChange struct {
	To      ReservationStatus
	At      time.Time
	Reason  string
	AdminID string
}

// Confirmation carries everything persisted when a pending request is confirmed.
type Confirmation struct {
	ReservationID  string
	StartAt        time.Time
	EndAt          time.Time
	DurationHours  int
	ConfirmationID string
	AdminID        string
	ConfirmedAt    time.Time
}

// ReservationFilter narrows admin listings. Zero values mean "no constraint".
type ReservationFilter struct {
	Status *ReservationStatus
	From   *time.Time
	To     *time.Time
	Limit  int64
}
