package db

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shop-admin/pkg/config"
)

func TestOpen_ClosesHandleWhenMigrationFails(t *testing.T) {
	var opened *gorm.DB
	migrate = func(db *gorm.DB) error {
		opened = db
		return errors.New("migrate: table locked")
	}
	t.Cleanup(func() { migrate = Migrate })

	_, err := Open(config.Database{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "nav.db")})
	require.ErrorContains(t, err, "table locked")
	require.NotNil(t, opened)

	sqlDB, err := opened.DB()
	require.NoError(t, err)
	assert.ErrorContains(t, sqlDB.Ping(), "database is closed")
}
