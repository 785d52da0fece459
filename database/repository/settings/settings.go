package settingsRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"podstudio/database"
	"podstudio/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const availabilityDocID = "availability"

// MongoSettingsRepo stores process-wide settings records keyed by _id.
type MongoSettingsRepo struct {
	coll *mongo.Collection
}

func NewMongoSettingsRepo() *MongoSettingsRepo {
	return &MongoSettingsRepo{coll: database.DB().Collection("settings")}
}

type availabilityDoc struct {
	ID                        string `bson:"_id"`
	models.AvailabilityConfig `bson:",inline"`
}

// GetAvailabilityConfig returns nil, nil when no configuration was saved yet.
func (r *MongoSettingsRepo) GetAvailabilityConfig(ctx context.Context) (*models.AvailabilityConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc availabilityDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": availabilityDocID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching availability config: %w", err)
	}
	return &doc.AvailabilityConfig, nil
}

// ReplaceAvailabilityConfig overwrites the whole record.
func (r *MongoSettingsRepo) ReplaceAvailabilityConfig(ctx context.Context, cfg models.AvailabilityConfig) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doc := availabilityDoc{ID: availabilityDocID, AvailabilityConfig: cfg}
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": availabilityDocID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to replace availability config: %w", err)
	}
	return nil
}
