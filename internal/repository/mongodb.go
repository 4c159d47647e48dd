// Package repository provides data access layer for MongoDB.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig holds MongoDB connection pool configuration.
type MongoConfig struct {
	// MaxPoolSize is the maximum number of connections in the pool.
	MaxPoolSize uint64
	// MinPoolSize is the minimum number of connections to keep in the pool.
	MinPoolSize uint64
	// MaxConnIdleTime is how long a connection can remain idle before being closed.
	MaxConnIdleTime time.Duration
	// ConnectTimeout is the timeout for establishing a connection.
	ConnectTimeout time.Duration
	// ServerSelectionTimeout is how long to wait for server selection.
	ServerSelectionTimeout time.Duration
	// SocketTimeout is the timeout for socket read/write operations.
	SocketTimeout time.Duration
	// EnableCompression enables wire protocol compression.
	EnableCompression bool
}

// DefaultMongoConfig returns the pool settings used by the service.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		MaxPoolSize:            50,
		MinPoolSize:            5,
		MaxConnIdleTime:        10 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
		SocketTimeout:          30 * time.Second,
		EnableCompression:      true,
	}
}

const (
	cartonsCollection     = "cartons"
	catalogMetaCollection = "catalog_meta"
	solutionsCollection   = "packing_solutions"
)

// MongoDB holds the client and the collections backing the carton catalog
// and the solution archive.
type MongoDB struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Cartons     *mongo.Collection
	CatalogMeta *mongo.Collection
	Solutions   *mongo.Collection
}

// NewMongoDB creates a new MongoDB connection with default configuration.
func NewMongoDB(uri, databaseName string) (*MongoDB, error) {
	return NewMongoDBWithConfig(uri, databaseName, DefaultMongoConfig())
}

// NewMongoDBWithConfig connects to uri, verifies the deployment answers and
// ensures the catalog and archive indexes. The client is disconnected again
// when any of these steps fails.
func NewMongoDBWithConfig(uri, databaseName string, cfg MongoConfig) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetAppName("cartonization-service").
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
		SetSocketTimeout(cfg.SocketTimeout).
		SetRetryWrites(true).
		SetRetryReads(true)
	if cfg.EnableCompression {
		clientOptions.SetCompressors([]string{"zstd", "snappy", "zlib"})
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}

	db := client.Database(databaseName)
	m := &MongoDB{
		Client:      client,
		Database:    db,
		Cartons:     db.Collection(cartonsCollection),
		CatalogMeta: db.Collection(catalogMetaCollection),
		Solutions:   db.Collection(solutionsCollection),
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}
	if err := m.createIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb indexes: %w", err)
	}
	return m, nil
}

// createIndexes indexes carton status and the archive lookups by order and
// fingerprint.
func (m *MongoDB) createIndexes(ctx context.Context) error {
	statusIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}},
	}
	if _, err := m.Cartons.Indexes().CreateOne(ctx, statusIndex); err != nil {
		return err
	}

	solutionIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "fingerprint", Value: 1}}},
	}
	// Already-existing indexes with the same spec are not an error.
	_, _ = m.Solutions.Indexes().CreateMany(ctx, solutionIndexes)

	return nil
}

// SetSolutionsTTL (re)creates the TTL index that expires archived solutions.
func (m *MongoDB) SetSolutionsTTL(ctx context.Context, ttl time.Duration) error {
	_, _ = m.Solutions.Indexes().DropOne(ctx, "created_at_1")

	ttlIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(ttl.Seconds())),
	}
	_, err := m.Solutions.Indexes().CreateOne(ctx, ttlIndex)
	if err != nil && (mongo.IsDuplicateKeyError(err) || strings.Contains(err.Error(), "IndexOptionsConflict")) {
		return nil
	}
	return err
}

// Close closes the MongoDB connection.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// HealthCheck verifies the MongoDB connection is healthy.
func (m *MongoDB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return m.Client.Ping(ctx, nil)
}
