package plans

import (
	"path/filepath"
	"testing"

	domain "cafeplanner/internal/domain/plans"
	"cafeplanner/internal/domain/users"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "plans.db")), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&users.User{},
		&domain.Plan{},
		&domain.PlanItem{},
	))
	return db
}

func mustWrites(t *testing.T, inputs []PlanInput) []planWrite {
	t.Helper()
	writes, err := toPlanWrites(inputs)
	require.NoError(t, err)
	return writes
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func int64Ptr(i int64) *int64 { return &i }

func boolPtr(b bool) *bool { return &b }
