package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"jobportal_backend/internal/feature/companies/domain"
	"jobportal_backend/internal/feature/companies/domain/entity"
	platformmongo "jobportal_backend/internal/platform/mongo"
	"jobportal_backend/internal/testhelpers"
)

func TestCompanyMongo_Integration(t *testing.T) {
	db := testhelpers.SetupMongo(t)
	repo := NewCompanyMongo(db)
	ctx := context.Background()

	t.Run("UpsertByClerkID creates then refreshes one document", func(t *testing.T) {
		created, err := repo.UpsertByClerkID(ctx, entity.Organization{ClerkID: "org_1", Name: "Acme", Slug: "acme", Image: "v1.png"})
		require.NoError(t, err)
		assert.False(t, created.ID.IsZero())
		assert.Equal(t, "v1.png", created.Image)

		updated, err := repo.UpsertByClerkID(ctx, entity.Organization{ClerkID: "org_1", Name: "Acme Corp", Slug: "acme-corp"})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Acme Corp", updated.Name)
		assert.Equal(t, "v1.png", updated.Image, "an event without image keeps the stored logo")

		n, err := db.Collection(platformmongo.CollectionCompanies).CountDocuments(ctx, bson.M{"clerkId": "org_1"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("FindByClerkID", func(t *testing.T) {
		c, err := repo.FindByClerkID(ctx, "org_1")
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", c.Name)

		_, err = repo.FindByClerkID(ctx, "org_unknown")
		assert.ErrorIs(t, err, domain.ErrCompanyNotFound)

		_, err = repo.FindByClerkID(ctx, "")
		assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
	})

	t.Run("UpdateProfile keeps blank fields and SetImage stores the logo", func(t *testing.T) {
		c, err := repo.FindByClerkID(ctx, "org_1")
		require.NoError(t, err)

		updated, err := repo.UpdateProfile(ctx, c.ID, entity.ProfileUpdate{Email: "hr@acme.test"})
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", updated.Name)
		assert.Equal(t, "hr@acme.test", updated.Email)

		withLogo, prev, err := repo.SetImage(ctx, c.ID, "https://cdn/logo.png", "job-portal/logo1")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn/logo.png", withLogo.Image)
		assert.Equal(t, "job-portal/logo1", withLogo.ImagePublicID)
		assert.Empty(t, prev)

		replaced, prev, err := repo.SetImage(ctx, c.ID, "https://cdn/logo2.png", "job-portal/logo2")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn/logo2.png", replaced.Image)
		assert.Equal(t, "job-portal/logo1", prev)

		stored, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "job-portal/logo2", stored.ImagePublicID)

		_, _, err = repo.SetImage(ctx, bson.NewObjectID(), "x", "y")
		assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
	})

	t.Run("legacy password documents decode without exposing the hash", func(t *testing.T) {
		id := bson.NewObjectID()
		_, err := db.Collection(platformmongo.CollectionCompanies).InsertOne(ctx, bson.M{
			"_id": id, "name": "Legacy", "email": "old@legacy.test", "image": "", "password": "$2a$10$hash",
		})
		require.NoError(t, err)

		c, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "$2a$10$hash", c.LegacyPasswordHash)
		assert.Empty(t, c.ClerkID)
	})

	t.Run("DeleteByClerkID", func(t *testing.T) {
		require.NoError(t, repo.DeleteByClerkID(ctx, "org_1"))
		_, err := repo.FindByClerkID(ctx, "org_1")
		assert.ErrorIs(t, err, domain.ErrCompanyNotFound)

		assert.NoError(t, repo.DeleteByClerkID(ctx, "org_1"))
	})
}
