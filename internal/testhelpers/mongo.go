// Package testhelpers provides containerized infrastructure for integration tests.
//
// Tests using it are skipped with -short or when no container provider (Docker) is
// reachable, so the unit suite stays runnable anywhere.
package testhelpers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"jobportal_backend/internal/platform/config"
	platformmongo "jobportal_backend/internal/platform/mongo"
)

// MongoImage is the server image used by integration tests.
const MongoImage = "mongo:7.0"

// SetupMongo starts a MongoDB container, creates the application indexes in a fresh
// database named after the test, and registers cleanup with t.
func SetupMongo(t *testing.T) *mongo.Database {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping MongoDB integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := tcmongo.Run(ctx, MongoImage)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err, "failed to start mongo container")

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err, "failed to get connection string")

	db, err := platformmongo.Connect(ctx, config.MongoConfig{
		URI:      uri,
		Database: databaseName(t),
	})
	require.NoError(t, err, "failed to connect to mongo")
	t.Cleanup(func() {
		_ = db.Close(context.Background())
	})

	require.NoError(t, platformmongo.EnsureIndexes(ctx, db.Database()), "failed to create indexes")
	return db.Database()
}

// databaseName derives a valid database name from the test name.
func databaseName(t *testing.T) string {
	r := strings.NewReplacer("/", "_", " ", "_", ".", "_", "$", "_")
	name := "test_" + r.Replace(t.Name())
	if len(name) > 60 {
		name = name[:60]
	}
	return name
}
