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
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// ConfirmAtomically confirms a pending reservation inside one transaction.
//
// Every confirmation first bumps a guard document per room and studio day it
// touches. Two transactions confirming overlapping windows always share at
// least one day, so they write the same guard and one of them hits a write
// conflict. The driver retries that one, and on retry it sees the other's
// confirmed booking and check rejects it.
func (repo *MongoReservationRepo) ConfirmAtomically(ctx context.Context, c models.Confirmation, check func([]models.Reservation) error) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := repo.reservationColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	result, err := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, guardID := range repo.guardIDs(c.StartAt, c.EndAt) {
			_, err := repo.guardColl.UpdateOne(sc,
				bson.M{"_id": guardID},
				bson.M{"$inc": bson.M{"version": 1}, "$set": bson.M{"updatedAt": c.ConfirmedAt}},
				options.Update().SetUpsert(true),
			)
			if err != nil {
				return nil, fmt.Errorf("claim day guard %s: %w", guardID, err)
			}
		}

		filter := overlapFilter(c.StartAt, c.EndAt)
		filter["id"] = bson.M{"$ne": c.ReservationID}
		confirmed, err := repo.find(sc, repo.reservationColl, filter, options.Find())
		if err != nil {
			return nil, err
		}
		if err := check(confirmed); err != nil {
			return nil, err
		}

		var doc reservationDoc
		err = repo.reservationColl.FindOneAndUpdate(sc,
			bson.M{"id": c.ReservationID, "status": models.StatusPending},
			bson.M{"$set": bson.M{
				"status":             models.StatusConfirmed,
				"confirmationId":     c.ConfirmationID,
				"startAt":            c.StartAt,
				"endAt":              c.EndAt,
				"durationHours":      c.DurationHours,
				"timezone":           repo.loc.String(),
				"confirmedByAdminId": c.AdminID,
				"confirmedAt":        c.ConfirmedAt,
				"updatedAt":          c.ConfirmedAt,
			}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repo.explainMiss(sc, c.ReservationID, models.StatusConfirmed)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to confirm reservation: %w", err)
		}
		return &doc, nil
	}, txnOpts)
	if err != nil {
		var de *models.DomainError
		if errors.As(err, &de) {
			return nil, de
		}
		return nil, fmt.Errorf("confirmation transaction failed: %w", err)
	}
	return repo.toModel(result.(*reservationDoc))
}
