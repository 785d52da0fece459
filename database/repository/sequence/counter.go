package sequenceRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"podstudio/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCounter keeps named monotonic counters, one document per key.
type MongoCounter struct {
	coll *mongo.Collection
}

func NewMongoCounter() *MongoCounter {
	return &MongoCounter{coll: database.DB().Collection("counters")}
}

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// Increment atomically adds one to key and returns the new value. The first
// call for a key returns 1.
func (c *MongoCounter) Increment(ctx context.Context, key string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	seq, err := c.increment(ctx, key)
	// Two first-time upserts can race on the same _id; the loser retries as a
	// plain increment.
	if mongo.IsDuplicateKeyError(err) {
		seq, err = c.increment(ctx, key)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter %s: %w", key, err)
	}
	return seq, nil
}

func (c *MongoCounter) increment(ctx context.Context, key string) (int64, error) {
	var doc counterDoc
	err := c.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": key},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("counter %s was not upserted", key)
	}
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}
