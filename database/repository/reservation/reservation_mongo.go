package reservationRepo

import (
	"fmt"
	"time"

	"podstudio/database"
	"podstudio/models"
	"podstudio/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const dateLayout = "2006-01-02"

// MongoReservationRepo implements ReservationRepository using MongoDB.
type MongoReservationRepo struct {
	reservationColl *mongo.Collection
	guardColl       *mongo.Collection
	roomID          string
	loc             *time.Location
}

// NewMongoReservationRepo constructs a repository for the given studio room.
// loc is the studio timezone used to split windows into calendar days.
func NewMongoReservationRepo(roomID string, loc *time.Location) *MongoReservationRepo {
	return newRepo(database.DB(), roomID, loc)
}

func newRepo(db *mongo.Database, roomID string, loc *time.Location) *MongoReservationRepo {
	if loc == nil {
		loc = time.UTC
	}
	return &MongoReservationRepo{
		reservationColl: db.Collection("reservations"),
		guardColl:       db.Collection("room_day_guards"),
		roomID:          roomID,
		loc:             loc,
	}
}

// reservationDoc is the stored shape of a reservation.
type reservationDoc struct {
	ID             string  `bson:"id"`
	ConfirmationID *string `bson:"confirmationId,omitempty"`

	StartAt       time.Time `bson:"startAt"`
	EndAt         time.Time `bson:"endAt"`
	DurationHours int       `bson:"durationHours"`
	Timezone      string    `bson:"timezone"`

	Status       models.ReservationStatus `bson:"status"`
	StatusReason string                   `bson:"statusReason,omitempty"`

	DecorID       string   `bson:"decorId"`
	PackOfferID   string   `bson:"packOfferId"`
	ThemeID       *string  `bson:"themeId,omitempty"`
	CustomTheme   *string  `bson:"customTheme,omitempty"`
	SupplementIDs []string `bson:"supplementIds"`

	CustomerName  string `bson:"customerName"`
	CustomerEmail string `bson:"customerEmail"`
	CustomerPhone string `bson:"customerPhone,omitempty"`

	TotalPrice primitive.Decimal128 `bson:"totalPrice"`

	AssignedAdminID    string     `bson:"assignedAdminId,omitempty"`
	ConfirmedByAdminID string     `bson:"confirmedByAdminId,omitempty"`
	RejectedByAdminID  string     `bson:"rejectedByAdminId,omitempty"`
	ConfirmedAt        *time.Time `bson:"confirmedAt,omitempty"`
	CompletedAt        *time.Time `bson:"completedAt,omitempty"`
	CancelledAt        *time.Time `bson:"cancelledAt,omitempty"`
	RejectedAt         *time.Time `bson:"rejectedAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toDoc(r *models.Reservation) (*reservationDoc, error) {
	price, err := utils.DecimalToBSON(r.TotalPrice)
	if err != nil {
		return nil, err
	}
	supplements := r.SupplementIDs
	if supplements == nil {
		supplements = []string{}
	}
	return &reservationDoc{
		ID:                 r.ID,
		ConfirmationID:     r.ConfirmationID,
		StartAt:            r.StartAt,
		EndAt:              r.EndAt,
		DurationHours:      r.DurationHours,
		Timezone:           r.Timezone,
		Status:             r.Status,
		StatusReason:       r.StatusReason,
		DecorID:            r.DecorID,
		PackOfferID:        r.PackOfferID,
		ThemeID:            r.ThemeID,
		CustomTheme:        r.CustomTheme,
		SupplementIDs:      supplements,
		CustomerName:       r.CustomerName,
		CustomerEmail:      r.CustomerEmail,
		CustomerPhone:      r.CustomerPhone,
		TotalPrice:         price,
		AssignedAdminID:    r.AssignedAdminID,
		ConfirmedByAdminID: r.ConfirmedByAdminID,
		RejectedByAdminID:  r.RejectedByAdminID,
		ConfirmedAt:        r.ConfirmedAt,
		CompletedAt:        r.CompletedAt,
		CancelledAt:        r.CancelledAt,
		RejectedAt:         r.RejectedAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}, nil
}

// toModel rebuilds a reservation, putting times back into the studio zone
// (Mongo hands them back in UTC).
func (repo *MongoReservationRepo) toModel(d *reservationDoc) (*models.Reservation, error) {
	price, err := utils.DecimalFromBSON(d.TotalPrice)
	if err != nil {
		return nil, fmt.Errorf("reservation %s: %w", d.ID, err)
	}
	loc := repo.locationFor(d.Timezone)
	inLoc := func(t *time.Time) *time.Time {
		if t == nil {
			return nil
		}
		v := t.In(loc)
		return &v
	}
	return &models.Reservation{
		ID:                 d.ID,
		ConfirmationID:     d.ConfirmationID,
		StartAt:            d.StartAt.In(loc),
		EndAt:              d.EndAt.In(loc),
		DurationHours:      d.DurationHours,
		Timezone:           d.Timezone,
		Status:             d.Status,
		StatusReason:       d.StatusReason,
		DecorID:            d.DecorID,
		PackOfferID:        d.PackOfferID,
		ThemeID:            d.ThemeID,
		CustomTheme:        d.CustomTheme,
		SupplementIDs:      d.SupplementIDs,
		CustomerName:       d.CustomerName,
		CustomerEmail:      d.CustomerEmail,
		CustomerPhone:      d.CustomerPhone,
		TotalPrice:         price,
		AssignedAdminID:    d.AssignedAdminID,
		ConfirmedByAdminID: d.ConfirmedByAdminID,
		RejectedByAdminID:  d.RejectedByAdminID,
		ConfirmedAt:        inLoc(d.ConfirmedAt),
		CompletedAt:        inLoc(d.CompletedAt),
		CancelledAt:        inLoc(d.CancelledAt),
		RejectedAt:         inLoc(d.RejectedAt),
		CreatedAt:          d.CreatedAt.In(loc),
		UpdatedAt:          d.UpdatedAt.In(loc),
	}, nil
}

func (repo *MongoReservationRepo) locationFor(name string) *time.Location {
	if name == "" || name == repo.loc.String() {
		return repo.loc
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return repo.loc
	}
	return loc
}

// dayBounds returns the studio-local [midnight, next midnight) of date.
func (repo *MongoReservationRepo) dayBounds(date string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, date, repo.loc)
	if err != nil {
		return time.Time{}, time.Time{}, models.NewValidationError("date %q is not a YYYY-MM-DD calendar day", date)
	}
	return day, day.AddDate(0, 0, 1), nil
}

// guardIDs names the per-room, per-day documents touched by [start, end).
func (repo *MongoReservationRepo) guardIDs(start, end time.Time) []string {
	first := start.In(repo.loc)
	last := first
	if end.After(start) {
		last = end.Add(-time.Nanosecond).In(repo.loc)
	}
	var ids []string
	for d := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, repo.loc); !d.After(last); d = d.AddDate(0, 0, 1) {
		ids = append(ids, repo.roomID+":"+d.Format(dateLayout))
	}
	return ids
}
