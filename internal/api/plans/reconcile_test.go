package plans

import (
	"testing"
	"time"

	domain "cafeplanner/internal/domain/plans"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userX uint = 1
	userY uint = 2
)

func TestReplaceAll_MintsIDsAndDefaults(t *testing.T) {
	db := newTestDB(t)

	writes := mustWrites(t, []PlanInput{{
		Title: "Weekend café",
		Items: []PlanItemInput{
			{Text: "Try latte", Order: intPtr(0)},
			{Text: "Take photo", Order: intPtr(1)},
		},
	}})
	require.NoError(t, replaceAllPlans(db, userX, writes))

	rows, err := listPlans(db, userX)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	plan := rows[0]
	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, "Weekend café", plan.Title)
	assert.False(t, plan.CreatedAt.IsZero())
	assert.Nil(t, plan.CafeID)
	assert.Nil(t, plan.Date)

	require.Len(t, plan.Items, 2)
	assert.Equal(t, "Try latte", plan.Items[0].Text)
	assert.Equal(t, 0, plan.Items[0].OrderIndex)
	assert.False(t, plan.Items[0].Done)
	assert.Equal(t, "Take photo", plan.Items[1].Text)
	assert.Equal(t, 1, plan.Items[1].OrderIndex)
	assert.False(t, plan.Items[1].Done)
	assert.NotEmpty(t, plan.Items[0].ID)
	assert.NotEqual(t, plan.Items[0].ID, plan.Items[1].ID)
}

func TestReplaceAll_Idempotent(t *testing.T) {
	db := newTestDB(t)

	id := uuid.NewString()
	itemID := uuid.NewString()
	snapshot := []PlanInput{{
		ID:     id,
		Title:  "Morning run cafe",
		CafeID: int64Ptr(42),
		Date:   strPtr("2026-09-05"),
		Items:  []PlanItemInput{{ID: itemID, Text: "Order flat white", Done: boolPtr(true)}},
	}}

	require.NoError(t, replaceAllPlans(db, userX, mustWrites(t, snapshot)))
	first, err := listPlans(db, userX)
	require.NoError(t, err)

	require.NoError(t, replaceAllPlans(db, userX, mustWrites(t, snapshot)))
	second, err := listPlans(db, userX)
	require.NoError(t, err)

	assert.Equal(t, toPlanDTOs(first), toPlanDTOs(second))
	require.Len(t, second, 1)
	assert.Equal(t, id, second[0].ID)
	require.Len(t, second[0].Items, 1)
	assert.Equal(t, itemID, second[0].Items[0].ID)
	assert.True(t, second[0].Items[0].Done)
}

func TestReplaceAll_DeletionByOmission(t *testing.T) {
	db := newTestDB(t)

	a, b, c := uuid.NewString(), uuid.NewString(), uuid.NewString()
	seed := []PlanInput{
		{ID: a, Title: "A", Items: []PlanItemInput{{Text: "a1"}}},
		{ID: b, Title: "B", Items: []PlanItemInput{{Text: "b1"}, {Text: "b2"}}},
		{ID: c, Title: "C"},
	}
	require.NoError(t, replaceAllPlans(db, userX, mustWrites(t, seed)))

	require.NoError(t, replaceAllPlans(db, userX, mustWrites(t, []PlanInput{
		{ID: a, Title: "A"},
		{ID: c, Title: "C"},
	})))

	rows, err := listPlans(db, userX)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	ids := []string{rows[0].ID, rows[1].ID}
	assert.ElementsMatch(t, []string{a, c}, ids)

	var orphaned int64
	require.NoError(t, db.Model(&domain.PlanItem{}).Where("plan_id = ?", b).Count(&orphaned).Error)
	assert.Zero(t, orphaned, "items of the omitted plan must be removed")
}

func TestReplaceAll_ResyncUpdatesSameRow(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, replaceAllPlans(db, userX, mustWrites(t, []PlanInput{{
		Title: "Weekend café",
		Items: []PlanItemInput{
			{Text: "Try latte", Order: intPtr(0)},
			{Text: "Take photo", Order: intPtr(1)},
		},
	}})))

	first, err := listPlans(db, userX)
	require.NoError(t, err)
	require.Len(t, first, 1)
	planID := first[0].ID
	createdAt := first[0].CreatedAt
	keptItem := first[0].Items[0]

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, replaceAllPlans(db, userX, mustWrites(t, []PlanInput{{
		ID:    planID,
		Title: "Weekend café v2",
		Items: []PlanItemInput{{ID: keptItem.ID, Text: keptItem.Text, Order: intPtr(0)}},
	}})))

	second, err := listPlans(db, userX)
	require.NoError(t, err)
	require.Len(t, second, 1, "resubmitting the returned id must not create a duplicate")

	assert.Equal(t, planID, second[0].ID)
	assert.Equal(t, "Weekend café v2", second[0].Title)
	assert.WithinDuration(t, createdAt, second[0].CreatedAt, time.Millisecond)
	require.Len(t, second[0].Items, 1)
	assert.Equal(t, keptItem.ID, second[0].Items[0].ID)
}

func TestReplaceAll_UpdateClearsOptionalFields(t *testing.T) {
	db := newTestDB(t)

	id := uuid.NewString()
	require.NoError(t, replaceAllPlans(db, userX, mustWrites(t, []PlanInput{{
		ID:       id,
		Title:    "With everything",
		CafeID:   int64Ptr(7),
		Date:     strPtr("2026-09-05"),
		TimeText: strPtr("14:00"),
	}})))

	require.NoError(t, replaceAllPlans(db, userX, mustWrites(t, []PlanInput{{
		ID:    id,
		Title: "With everything",
	}})))

	rows, err := listPlans(db, userX)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].CafeID)
	assert.Nil(t, rows[0].Date)
	assert.Nil(t, rows[0].TimeText)
}

func TestReplaceAll_OrderingPreserved(t *testing.T) {
	db := newTestDB(t)

	// Explicit order wins over list position; missing order falls back to
	// the 0-based position.
	writes := mustWrites(t, []PlanInput{
		{
			ID:    uuid.NewString(),
			Title: "Shuffled",
			Items: []PlanItemInput{
				{Text: "third", Order: intPtr(2)},
				{Text: "first", Order: intPtr(0)},
				{Text: "second", Order: intPtr(1)},
			},
		},
		{
			ID:    uuid.NewString(),
			Title: "Positional",
			Items: []PlanItemInput{
				{Text: "one"},
				{Text: "two"},
				{Text: "three"},
			},
		},
	})
	require.NoError(t, replaceAllPlans(db, userX, writes))

	rows, err := listPlans(db, userX)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byTitle := map[string]domain.Plan{}
	for _, row := range rows {
		byTitle[row.Title] = row
	}

	shuffled := byTitle["Shuffled"]
	require.Len(t, shuffled.Items, 3)
	assert.Equal(t, "first", shuffled.Items[0].Text)
	assert.Equal(t, "second", shuffled.Items[1].Text)
	assert.Equal(t, "third", shuffled.Items[2].Text)

	positional := byTitle["Positional"]
	require.Len(t, positional.Items, 3)
	assert.Equal(t, "one", positional.Items[0].Text)
	assert.Equal(t, 0, positional.Items[0].OrderIndex)
	assert.Equal(t, "three", positional.Items[2].Text)
	assert.Equal(t, 2, positional.Items[2].OrderIndex)
}

func TestReplaceAll_EmptySnapshotDeletesEverything(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, replaceAllPlans(db, userX, mustWrites(t, []PlanInput{
		{Title: "A", Items: []PlanItemInput{{Text: "a1"}}},
		{Title: "B"},
	})))

	require.NoError(t, replaceAllPlans(db, userX, nil))

	rows, err := listPlans(db, userX)
	require.NoError(t, err)
	assert.Empty(t, rows)

	var items int64
	require.NoError(t, db.Model(&domain.PlanItem{}).Count(&items).Error)
	assert.Zero(t, items)
}

func TestReplaceAll_CrossUserIsolation(t *testing.T) {
	db := newTestDB(t)

	stolen := uuid.NewString()
	require.NoError(t, replaceAllPlans(db, userY, mustWrites(t, []PlanInput{{
		ID:    stolen,
		Title: "Y's plan",
		Items: []PlanItemInput{{Text: "y item"}},
	}})))

	// X submits Y's plan id; X must get a fresh row and Y stays intact.
	require.NoError(t, replaceAllPlans(db, userX, mustWrites(t, []PlanInput{{
		ID:    stolen,
		Title: "X's plan",
	}})))

	yPlans, err := listPlans(db, userY)
	require.NoError(t, err)
	require.Len(t, yPlans, 1)
	assert.Equal(t, stolen, yPlans[0].ID)
	assert.Equal(t, "Y's plan", yPlans[0].Title)
	require.Len(t, yPlans[0].Items, 1)

	xPlans, err := listPlans(db, userX)
	require.NoError(t, err)
	require.Len(t, xPlans, 1)
	assert.NotEqual(t, stolen, xPlans[0].ID)
	assert.Equal(t, "X's plan", xPlans[0].Title)

	// X deleting everything must not touch Y either.
	require.NoError(t, replaceAllPlans(db, userX, nil))
	yPlans, err = listPlans(db, userY)
	require.NoError(t, err)
	require.Len(t, yPlans, 1)
}

func TestReplaceAll_ItemIDCollisionReminted(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, replaceAllPlans(db, userY, mustWrites(t, []PlanInput{{
		ID:    uuid.NewString(),
		Title: "Y's plan",
		Items: []PlanItemInput{{ID: "shared-item-id", Text: "y item"}},
	}})))

	require.NoError(t, replaceAllPlans(db, userX, mustWrites(t, []PlanInput{{
		ID:    uuid.NewString(),
		Title: "X's plan",
		Items: []PlanItemInput{{ID: "shared-item-id", Text: "x item"}},
	}})))

	yPlans, err := listPlans(db, userY)
	require.NoError(t, err)
	require.Len(t, yPlans[0].Items, 1)
	assert.Equal(t, "shared-item-id", yPlans[0].Items[0].ID)
	assert.Equal(t, "y item", yPlans[0].Items[0].Text)

	xPlans, err := listPlans(db, userX)
	require.NoError(t, err)
	require.Len(t, xPlans[0].Items, 1)
	assert.NotEqual(t, "shared-item-id", xPlans[0].Items[0].ID)
}

func TestListPlans_OrderedByCreation(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, replaceAllPlans(db, userX, mustWrites(t, []PlanInput{{Title: "older"}})))
	time.Sleep(10 * time.Millisecond)

	older, err := listPlans(db, userX)
	require.NoError(t, err)

	require.NoError(t, replaceAllPlans(db, userX, mustWrites(t, []PlanInput{
		{ID: older[0].ID, Title: "older"},
		{Title: "newer"},
	})))

	rows, err := listPlans(db, userX)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "older", rows[0].Title)
	assert.Equal(t, "newer", rows[1].Title)
}

func TestParseDate(t *testing.T) {
	got, err := parseDate(strPtr("2026-09-05"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2026, got.Year())

	got, err = parseDate(strPtr("2026-09-05T00:00:00Z"))
	require.NoError(t, err)
	require.NotNil(t, got)

	got, err = parseDate(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseDate(strPtr(""))
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseDate(strPtr("not a date"))
	assert.Error(t, err)
}
