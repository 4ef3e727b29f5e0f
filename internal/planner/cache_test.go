package planner

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundtrip(t *testing.T) {
	cache := NewCacheAt(t.TempDir(), "mina@example.com")

	created := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
	cafe := int64(12)
	plans := []Plan{
		{
			ID:        "p1",
			Title:     "Morning espresso",
			CafeID:    &cafe,
			CafeName:  "Fritz",
			Date:      "2026-08-02",
			TimeText:  "09:30",
			CreatedAt: created,
			Items: []Item{
				{ID: "i1", Text: "order flat white", Done: true},
				{ID: "i2", Text: "try the scone"},
			},
		},
	}
	require.NoError(t, cache.SavePlans(plans))

	got, err := cache.LoadPlans()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, "Fritz", got[0].CafeName)
	assert.Equal(t, "09:30", got[0].TimeText)
	assert.True(t, got[0].CreatedAt.Equal(created))
	require.Len(t, got[0].Items, 2)
	assert.True(t, got[0].Items[0].Done)

	acts := []Activity{{ID: "a1", Type: ActivityCreated, Title: "Morning espresso", Timestamp: created}}
	require.NoError(t, cache.SaveActivities(acts))
	gotActs, err := cache.LoadActivities()
	require.NoError(t, err)
	require.Len(t, gotActs, 1)
	assert.Equal(t, ActivityCreated, gotActs[0].Type)
}

func TestCacheMissingFilesLoadEmpty(t *testing.T) {
	cache := NewCacheAt(t.TempDir(), "")

	plans, err := cache.LoadPlans()
	require.NoError(t, err)
	assert.Empty(t, plans)

	acts, err := cache.LoadActivities()
	require.NoError(t, err)
	assert.Empty(t, acts)
}

func TestCacheAccountsAreIsolated(t *testing.T) {
	dir := t.TempDir()
	one := NewCacheAt(dir, "one@example.com")
	two := NewCacheAt(dir, "two@example.com")

	require.NoError(t, one.SavePlans([]Plan{{ID: "mine", Title: "tasting flight"}}))

	plans, err := two.LoadPlans()
	require.NoError(t, err)
	assert.Empty(t, plans)

	plans, err = one.LoadPlans()
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "mine", plans[0].ID)
}

func TestCacheFilenamesAreSanitized(t *testing.T) {
	dir := t.TempDir()
	cache := NewCacheAt(dir, "odd/../name@example.com")
	require.NoError(t, cache.SavePlans([]Plan{{ID: "x", Title: "t"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "plans_odd____name_example_com.json", entries[0].Name())
	assert.NotContains(t, entries[0].Name(), string(filepath.Separator))
}
