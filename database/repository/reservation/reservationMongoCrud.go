package reservationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"podstudio/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new reservation.
func (repo *MongoReservationRepo) Create(ctx context.Context, r *models.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doc, err := toDoc(r)
	if err != nil {
		return err
	}
	if _, err := repo.reservationColl.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

// GetByID retrieves a reservation by ID.
func (repo *MongoReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	return repo.findOne(ctx, bson.M{"id": id}, func() error { return models.NewReservationNotFound(id) })
}

// GetByConfirmationID retrieves a confirmed reservation by its code.
func (repo *MongoReservationRepo) GetByConfirmationID(ctx context.Context, code string) (*models.Reservation, error) {
	return repo.findOne(ctx, bson.M{"confirmationId": code}, func() error {
		return &models.DomainError{Kind: models.KindReservationNotFound, Message: fmt.Sprintf("no reservation with confirmation %s", code)}
	})
}

func (repo *MongoReservationRepo) findOne(ctx context.Context, filter bson.M, notFound func() error) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc reservationDoc
	err := repo.reservationColl.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound()
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching reservation: %w", err)
	}
	return repo.toModel(&doc)
}

// UpdateStatus moves a reservation to change.To only if it is still in from.
func (repo *MongoReservationRepo) UpdateStatus(ctx context.Context, id string, from models.ReservationStatus, change models.StatusChange) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{
		"status":    change.To,
		"updatedAt": change.At,
	}
	if change.Reason != "" {
		set["statusReason"] = change.Reason
	}
	switch change.To {
	case models.StatusCompleted:
		set["completedAt"] = change.At
	case models.StatusCancelled:
		set["cancelledAt"] = change.At
	case models.StatusRejected:
		set["rejectedAt"] = change.At
		set["rejectedByAdminId"] = change.AdminID
	case models.StatusConfirmed:
		return nil, fmt.Errorf("confirmation must go through ConfirmAtomically")
	case models.StatusPending:
		return nil, models.NewInvalidTransition(from, change.To)
	}

	var doc reservationDoc
	err := repo.reservationColl.FindOneAndUpdate(ctx,
		bson.M{"id": id, "status": from},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repo.explainMiss(ctx, id, change.To)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update reservation status: %w", err)
	}
	return repo.toModel(&doc)
}

// Assign sets the handling admin on a non-terminal reservation.
func (repo *MongoReservationRepo) Assign(ctx context.Context, id, adminID string, at time.Time) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc reservationDoc
	err := repo.reservationColl.FindOneAndUpdate(ctx,
		bson.M{"id": id, "status": bson.M{"$in": bson.A{models.StatusPending, models.StatusConfirmed}}},
		bson.M{"$set": bson.M{"assignedAdminId": adminID, "updatedAt": at}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, getErr := repo.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, models.NewValidationError("reservation %s can no longer be assigned", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to assign reservation: %w", err)
	}
	return repo.toModel(&doc)
}

// explainMiss tells a missing reservation apart from one whose status moved.
func (repo *MongoReservationRepo) explainMiss(ctx context.Context, id string, to models.ReservationStatus) error {
	current, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return models.NewInvalidTransition(current.Status, to)
}
