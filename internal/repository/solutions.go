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

// SolutionDocument is an archived packing solution in MongoDB.
type SolutionDocument struct {
	ID             string            `bson:"_id"`
	RequestID      string            `bson:"request_id,omitempty"`
	OrderID        string            `bson:"order_id"`
	CatalogVersion int64             `bson:"catalog_version"`
	Fingerprint    string            `bson:"fingerprint"`
	Packages       []PackageDocument `bson:"packages"`
	Metrics        MetricsDocument   `bson:"metrics"`
	CreatedAt      time.Time         `bson:"created_at"`
}

// PackageDocument is one archived package. Money is stored as a decimal string.
type PackageDocument struct {
	CartonID          string                `bson:"carton_id"`
	CartonDimensions  model.Dimensions      `bson:"carton_dimensions"`
	Placements        []model.ItemPlacement `bson:"placements"`
	Utilization       float64               `bson:"utilization"`
	TotalWeight       float64               `bson:"total_weight"`
	DimensionalWeight float64               `bson:"dimensional_weight"`
	BillableWeight    float64               `bson:"billable_weight"`
	Cost              string                `bson:"cost"`
}

// MetricsDocument holds the archived aggregate metrics.
type MetricsDocument struct {
	TotalPackages          int     `bson:"total_packages"`
	AverageUtilization     float64 `bson:"average_utilization"`
	TotalWeight            float64 `bson:"total_weight"`
	TotalDimensionalWeight float64 `bson:"total_dimensional_weight"`
	TotalCost              string  `bson:"total_cost"`
	Strategy               string  `bson:"strategy"`
	Fallback               bool    `bson:"fallback,omitempty"`
}

func toSolutionDocument(s *model.PackingSolution) SolutionDocument {
	pkgs := make([]PackageDocument, len(s.Packages))
	for i, p := range s.Packages {
		pkgs[i] = PackageDocument{
			CartonID:          p.CartonID,
			CartonDimensions:  p.CartonDimensions,
			Placements:        p.Placements,
			Utilization:       p.Utilization,
			TotalWeight:       p.TotalWeight,
			DimensionalWeight: p.DimensionalWeight,
			BillableWeight:    p.BillableWeight,
			Cost:              p.Cost.String(),
		}
	}
	return SolutionDocument{
		ID:             s.SolutionID,
		RequestID:      s.RequestID,
		OrderID:        s.OrderID,
		CatalogVersion: s.CatalogVersion,
		Fingerprint:    s.Fingerprint,
		Packages:       pkgs,
		Metrics: MetricsDocument{
			TotalPackages:          s.Metrics.TotalPackages,
			AverageUtilization:     s.Metrics.AverageUtilization,
			TotalWeight:            s.Metrics.TotalWeight,
			TotalDimensionalWeight: s.Metrics.TotalDimensionalWeight,
			TotalCost:              s.Metrics.TotalCost.String(),
			Strategy:               string(s.Metrics.Strategy),
			Fallback:               s.Metrics.Fallback,
		},
		CreatedAt: s.CreatedAt,
	}
}

func (d SolutionDocument) toModel() (*model.PackingSolution, error) {
	pkgs := make([]model.Package, len(d.Packages))
	for i, p := range d.Packages {
		cost, err := decimal.NewFromString(p.Cost)
		if err != nil {
			return nil, fmt.Errorf("solution %s: package %d cost: %w", d.ID, i, err)
		}
		pkgs[i] = model.Package{
			CartonID:          p.CartonID,
			CartonDimensions:  p.CartonDimensions,
			Placements:        p.Placements,
			Utilization:       p.Utilization,
			TotalWeight:       p.TotalWeight,
			DimensionalWeight: p.DimensionalWeight,
			BillableWeight:    p.BillableWeight,
			Cost:              cost,
		}
	}
	total, err := decimal.NewFromString(d.Metrics.TotalCost)
	if err != nil {
		return nil, fmt.Errorf("solution %s: total cost: %w", d.ID, err)
	}
	return &model.PackingSolution{
		SolutionID:     d.ID,
		RequestID:      d.RequestID,
		OrderID:        d.OrderID,
		CatalogVersion: d.CatalogVersion,
		Fingerprint:    d.Fingerprint,
		Packages:       pkgs,
		Metrics: model.SolutionMetrics{
			TotalPackages:          d.Metrics.TotalPackages,
			AverageUtilization:     d.Metrics.AverageUtilization,
			TotalWeight:            d.Metrics.TotalWeight,
			TotalDimensionalWeight: d.Metrics.TotalDimensionalWeight,
			TotalCost:              total,
			Strategy:               model.Strategy(d.Metrics.Strategy),
			Fallback:               d.Metrics.Fallback,
		},
		CreatedAt: d.CreatedAt,
	}, nil
}

// SolutionRepository archives packing solutions in MongoDB.
type SolutionRepository struct {
	collection *mongo.Collection
}

var _ SolutionRepositoryInterface = (*SolutionRepository)(nil)

// NewSolutionRepository creates a new solution repository.
func NewSolutionRepository(db *MongoDB) *SolutionRepository {
	return &SolutionRepository{
		collection: db.Solutions,
	}
}

// Save stores a solution. Saving the same solution id twice is a no-op.
func (r *SolutionRepository) Save(ctx context.Context, solution *model.PackingSolution) error {
	doc := toSolutionDocument(solution)
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

// FindByID returns the archived solution with the given id.
func (r *SolutionRepository) FindByID(ctx context.Context, id string) (*model.PackingSolution, error) {
	var doc SolutionDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSolutionNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel()
}

// FindByOrderID returns the most recent solutions computed for an order.
func (r *SolutionRepository) FindByOrderID(ctx context.Context, orderID string, limit int) ([]*model.PackingSolution, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"order_id": orderID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []SolutionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	solutions := make([]*model.PackingSolution, 0, len(docs))
	for _, d := range docs {
		s, err := d.toModel()
		if err != nil {
			return nil, err
		}
		solutions = append(solutions, s)
	}
	return solutions, nil
}
