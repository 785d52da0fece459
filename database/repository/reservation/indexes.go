package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the reservations collection.
func (repo *MongoReservationRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Codes are unique once issued; pending reservations carry none.
		{
			Keys: bson.D{{Key: "confirmationId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_confirmation_id").
				SetPartialFilterExpression(bson.M{"confirmationId": bson.M{"$type": "string"}}),
		},
		// Overlap lookups: status + window.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "startAt", Value: 1}, {Key: "endAt", Value: 1}},
			Options: options.Index().SetName("status_start_end_idx"),
		},
		{
			Keys:    bson.D{{Key: "startAt", Value: 1}},
			Options: options.Index().SetName("start_idx"),
		},
	}

	if _, err := repo.reservationColl.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create reservation indexes: %w", err)
	}
	return nil
}
