package database_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productapi/internal/database"
	"productapi/internal/models"
)

func TestOpenRejectsUnknownScheme(t *testing.T) {
	db, err := database.Open("mysql://root@localhost/products")
	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "unsupported database URL")
}

func TestIsMemory(t *testing.T) {
	assert.True(t, database.IsMemory("memory://"))
	assert.False(t, database.IsMemory("sqlite://products.db"))
}

func TestOpenMigratePingClose(t *testing.T) {
	db, err := database.Open("sqlite://file:database_test?mode=memory&cache=shared")
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))
	assert.True(t, db.Migrator().HasTable(&models.Product{}))
	assert.NoError(t, database.Ping(context.Background(), db))

	// price > 0 is enforced by the table itself
	err = db.Create(&models.Product{Name: "Broken", Price: -1}).Error
	assert.Error(t, err)

	assert.NoError(t, database.Close(db))
}

func TestProductNameColumnIsUnbounded(t *testing.T) {
	db, err := database.Open("sqlite://file:database_name_column?mode=memory&cache=shared")
	require.NoError(t, err)
	defer database.Close(db)
	require.NoError(t, database.Migrate(db))

	columns, err := db.Migrator().ColumnTypes(&models.Product{})
	require.NoError(t, err)

	var nameType string
	for _, col := range columns {
		if col.Name() == "name" {
			nameType = col.DatabaseTypeName()
		}
	}
	assert.True(t, strings.EqualFold(nameType, "text"), "name column type is %q", nameType)
}
