// Package mongo owns the MongoDB connection lifecycle and index bootstrap.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.mongodb.org/mongo-driver/v2/mongo/writeconcern"

	"jobportal_backend/internal/platform/config"
)

// Collection names.
const (
	CollectionUsers        = "users"
	CollectionCompanies    = "companies"
	CollectionJobs         = "jobs"
	CollectionApplications = "jobapplications"
)

// DB bundles the client and the application database handle.
// It is created once at start-up and closed on shutdown.
type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

// Connect dials MongoDB, pings the primary, and returns the handle.
func Connect(ctx context.Context, cfg config.MongoConfig) (*DB, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetWriteConcern(writeconcern.Majority()).
		SetConnectTimeout(timeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	slog.Info("MongoDB connection successful", "database", cfg.Database)
	return &DB{client: client, database: client.Database(cfg.Database)}, nil
}

// Database returns the application database.
func (d *DB) Database() *mongo.Database {
	return d.database
}

// Close disconnects the client.
func (d *DB) Close(ctx context.Context) error {
	if err := d.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	slog.Info("MongoDB disconnected")
	return nil
}

// EnsureIndexes creates the indexes the repositories rely on. It is idempotent.
// The (jobId, userId) unique index is what guarantees one application per user per job.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		CollectionCompanies: {
			{
				Keys:    bson.D{{Key: "clerkId", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true),
			},
		},
		CollectionJobs: {
			{Keys: bson.D{{Key: "companyId", Value: 1}}},
			{Keys: bson.D{{Key: "date", Value: -1}}},
		},
		CollectionApplications: {
			{
				Keys:    bson.D{{Key: "jobId", Value: 1}, {Key: "userId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "companyId", Value: 1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}}},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
