package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"podstudio/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultListLimit = 200

// overlapFilter matches confirmed reservations intersecting [start, end).
func overlapFilter(start, end time.Time) bson.M {
	return bson.M{
		"status":  models.StatusConfirmed,
		"startAt": bson.M{"$lt": end},
		"endAt":   bson.M{"$gt": start},
	}
}

// FindConfirmedByDate returns confirmed reservations touching the studio date.
func (repo *MongoReservationRepo) FindConfirmedByDate(ctx context.Context, date string) ([]models.Reservation, error) {
	from, to, err := repo.dayBounds(date)
	if err != nil {
		return nil, err
	}
	return repo.FindConfirmedByDateRange(ctx, from, to)
}

// FindConfirmedByDateRange returns confirmed reservations intersecting [from, to).
func (repo *MongoReservationRepo) FindConfirmedByDateRange(ctx context.Context, from, to time.Time) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "startAt", Value: 1}})
	return repo.find(ctx, repo.reservationColl, overlapFilter(from, to), opts)
}

// List returns reservations matching filter, earliest first.
func (repo *MongoReservationRepo) List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.From != nil {
		query["endAt"] = bson.M{"$gt": *filter.From}
	}
	if filter.To != nil {
		query["startAt"] = bson.M{"$lt": *filter.To}
	}
	limit := filter.Limit
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	opts := options.Find().SetSort(bson.D{{Key: "startAt", Value: 1}}).SetLimit(limit)
	return repo.find(ctx, repo.reservationColl, query, opts)
}

func (repo *MongoReservationRepo) find(ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]models.Reservation, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching reservations: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.Reservation{}
	for cursor.Next(ctx) {
		var doc reservationDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding reservation: %w", err)
		}
		r, err := repo.toModel(&doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return out, nil
}
