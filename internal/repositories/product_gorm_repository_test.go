package repositories_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"productapi/internal/database"
	"productapi/internal/models"
	"productapi/internal/repositories"
)

// setupDB opens a private in-memory SQLite database for one test.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestGORMProductRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMProductRepository(setupDB(t))

	monitor := &models.Product{Name: "Monitor", Price: 300, Availability: true}
	require.NoError(t, repo.Create(ctx, monitor))
	assert.NotZero(t, monitor.ID)

	keyboard := &models.Product{Name: "Keyboard", Price: 50, Availability: true}
	require.NoError(t, repo.Create(ctx, keyboard))
	assert.Greater(t, keyboard.ID, monitor.ID)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Monitor", all[0].Name)
	assert.Equal(t, "Keyboard", all[1].Name)

	found, err := repo.GetByID(ctx, int64(monitor.ID))
	require.NoError(t, err)
	assert.Equal(t, 300.0, found.Price)
	assert.True(t, found.Availability)

	found.Name = "Curved Monitor"
	found.Availability = false
	require.NoError(t, repo.Update(ctx, found))

	updated, err := repo.GetByID(ctx, int64(monitor.ID))
	require.NoError(t, err)
	assert.Equal(t, "Curved Monitor", updated.Name)
	assert.False(t, updated.Availability, "false must be written, not skipped as a zero value")

	require.NoError(t, repo.Delete(ctx, int64(monitor.ID)))
	_, err = repo.GetByID(ctx, int64(monitor.ID))
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestGORMProductRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMProductRepository(setupDB(t))

	_, err := repo.GetByID(ctx, 2000)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	_, err = repo.GetByID(ctx, -3)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	err = repo.Update(ctx, &models.Product{ID: 2000, Name: "Ghost", Price: 1})
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	err = repo.Delete(ctx, 2000)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestGORMProductRepository_GetAllEmpty(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))

	products, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}
