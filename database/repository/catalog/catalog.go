package catalogRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"podstudio/database"
	"podstudio/models"
	"podstudio/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCatalogRepo reads the studio reference data maintained by the CMS.
type MongoCatalogRepo struct {
	decorColl      *mongo.Collection
	themeColl      *mongo.Collection
	packColl       *mongo.Collection
	supplementColl *mongo.Collection
}

func NewMongoCatalogRepo() *MongoCatalogRepo {
	db := database.DB()
	return &MongoCatalogRepo{
		decorColl:      db.Collection("decors"),
		themeColl:      db.Collection("themes"),
		packColl:       db.Collection("pack_offers"),
		supplementColl: db.Collection("supplements"),
	}
}

type pricedDoc struct {
	ID     string               `bson:"id"`
	Name   string               `bson:"name"`
	Price  primitive.Decimal128 `bson:"price"`
	Active bool                 `bson:"active"`
}

// DecorActive reports whether the decor exists and is active.
func (r *MongoCatalogRepo) DecorActive(ctx context.Context, id string) (bool, error) {
	return r.active(ctx, r.decorColl, id)
}

// ThemeActive reports whether the theme exists and is active.
func (r *MongoCatalogRepo) ThemeActive(ctx context.Context, id string) (bool, error) {
	return r.active(ctx, r.themeColl, id)
}

func (r *MongoCatalogRepo) active(ctx context.Context, coll *mongo.Collection, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := coll.CountDocuments(ctx, bson.M{"id": id, "active": true})
	if err != nil {
		return false, fmt.Errorf("error checking %s %s: %w", coll.Name(), id, err)
	}
	return n > 0, nil
}

// PackOffer returns nil, nil when the pack does not exist.
func (r *MongoCatalogRepo) PackOffer(ctx context.Context, id string) (*models.PackOffer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc pricedDoc
	err := r.packColl.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching pack offer %s: %w", id, err)
	}
	price, err := utils.DecimalFromBSON(doc.Price)
	if err != nil {
		return nil, err
	}
	return &models.PackOffer{ID: doc.ID, Name: doc.Name, BasePrice: price, Active: doc.Active}, nil
}

// Supplements returns the supplements among ids that exist. Callers detect
// missing ones by comparing IDs.
func (r *MongoCatalogRepo) Supplements(ctx context.Context, ids []string) ([]models.Supplement, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.supplementColl.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("error fetching supplements: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Supplement
	for cursor.Next(ctx) {
		var doc pricedDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding supplement: %w", err)
		}
		price, err := utils.DecimalFromBSON(doc.Price)
		if err != nil {
			return nil, err
		}
		out = append(out, models.Supplement{ID: doc.ID, Name: doc.Name, Price: price, Active: doc.Active})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return out, nil
}
