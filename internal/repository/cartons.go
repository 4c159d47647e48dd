package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const catalogMetaID = "carton_catalog"

// CartonDocument is the MongoDB representation of a catalog carton.
type CartonDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name,omitempty"`
	Length    float64   `bson:"length"`
	Width     float64   `bson:"width"`
	Height    float64   `bson:"height"`
	MaxWeight float64   `bson:"max_weight"`
	Cost      string    `bson:"cost"`
	Status    string    `bson:"status"`
	NoFragile bool      `bson:"no_fragile,omitempty"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type catalogMetaDocument struct {
	ID        string    `bson:"_id"`
	Version   int64     `bson:"version"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toCartonDocument(c model.Carton) CartonDocument {
	return CartonDocument{
		ID:        c.ID,
		Name:      c.Name,
		Length:    c.Dimensions.Length,
		Width:     c.Dimensions.Width,
		Height:    c.Dimensions.Height,
		MaxWeight: c.MaxWeight,
		Cost:      c.Cost.String(),
		Status:    string(c.Status),
		NoFragile: c.NoFragile,
		UpdatedAt: time.Now().UTC(),
	}
}

func (d CartonDocument) toModel() (model.Carton, error) {
	cost, err := decimal.NewFromString(d.Cost)
	if err != nil {
		return model.Carton{}, fmt.Errorf("carton %s: invalid cost %q: %w", d.ID, d.Cost, err)
	}
	return model.Carton{
		ID:         d.ID,
		Name:       d.Name,
		Dimensions: model.Dimensions{Length: d.Length, Width: d.Width, Height: d.Height},
		MaxWeight:  d.MaxWeight,
		Cost:       cost,
		Status:     model.CartonStatus(d.Status),
		NoFragile:  d.NoFragile,
	}, nil
}

// CartonRepository stores the carton catalog in MongoDB. The catalog version
// lives in a single counter document that every mutation increments.
type CartonRepository struct {
	cartons *mongo.Collection
	meta    *mongo.Collection
}

var _ CartonRepositoryInterface = (*CartonRepository)(nil)

// NewCartonRepository creates a new carton repository.
func NewCartonRepository(db *MongoDB) *CartonRepository {
	return &CartonRepository{
		cartons: db.Cartons,
		meta:    db.CatalogMeta,
	}
}

// Version returns the current catalog version, zero for an empty catalog.
func (r *CartonRepository) Version(ctx context.Context) (int64, error) {
	var meta catalogMetaDocument
	err := r.meta.FindOne(ctx, bson.M{"_id": catalogMetaID}).Decode(&meta)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return meta.Version, nil
}

// Snapshot reads the version and then every carton. A write landing between
// the two reads yields newer cartons under an older version, which only
// causes an extra recomputation once the version catches up.
func (r *CartonRepository) Snapshot(ctx context.Context) (model.CatalogSnapshot, error) {
	version, err := r.Version(ctx)
	if err != nil {
		return model.CatalogSnapshot{}, err
	}

	cursor, err := r.cartons.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return model.CatalogSnapshot{}, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []CartonDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return model.CatalogSnapshot{}, err
	}

	cartons := make([]model.Carton, 0, len(docs))
	for _, d := range docs {
		c, err := d.toModel()
		if err != nil {
			return model.CatalogSnapshot{}, err
		}
		cartons = append(cartons, c)
	}

	return model.CatalogSnapshot{
		Version:   version,
		Cartons:   cartons,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// Upsert inserts or replaces a carton and bumps the catalog version.
func (r *CartonRepository) Upsert(ctx context.Context, carton model.Carton) (int64, error) {
	doc := toCartonDocument(carton)
	_, err := r.cartons.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return 0, err
	}
	return r.bumpVersion(ctx)
}

// Deactivate marks a carton INACTIVE and bumps the catalog version.
func (r *CartonRepository) Deactivate(ctx context.Context, id string) (int64, error) {
	res, err := r.cartons.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": string(model.CartonStatusInactive), "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, err
	}
	if res.MatchedCount == 0 {
		return 0, ErrCartonNotFound
	}
	return r.bumpVersion(ctx)
}

func (r *CartonRepository) bumpVersion(ctx context.Context) (int64, error) {
	var meta catalogMetaDocument
	err := r.meta.FindOneAndUpdate(ctx,
		bson.M{"_id": catalogMetaID},
		bson.M{
			"$inc": bson.M{"version": 1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&meta)
	if err != nil {
		return 0, err
	}
	return meta.Version, nil
}
