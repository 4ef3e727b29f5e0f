package plans

import (
	"errors"
	"time"

	"cafeplanner/internal/domain/plans"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// planWrite is a validated, normalized plan snapshot entry. Produced by
// toPlanWrites; the reconciler never sees raw request input.
type planWrite struct {
	ID       string
	Title    string
	CafeID   *int64
	Date     *time.Time
	TimeText *string
	Items    []itemWrite
}

type itemWrite struct {
	ID    string
	Text  string
	Done  bool
	Order int
}

// replaceAllPlans makes the stored state for userID exactly match the
// incoming snapshot, inside one transaction. The snapshot is authoritative:
// any stored plan absent from it is deleted along with its items, every
// present plan is upserted, and each plan's item set is replaced wholesale.
// Ids supplied by the client that belong to another user are re-minted, so
// one user's sync can never touch another user's rows.
func replaceAllPlans(db *gorm.DB, userID uint, incoming []planWrite) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for i := range incoming {
			if incoming[i].ID == "" {
				incoming[i].ID = uuid.NewString()
			}
		}

		keepIDs := make([]string, 0, len(incoming))
		for _, p := range incoming {
			keepIDs = append(keepIDs, p.ID)
		}

		// Supplied ids owned by someone else get fresh ids instead.
		if len(keepIDs) > 0 {
			var foreign []string
			if err := tx.Model(&plans.Plan{}).
				Where("id IN ? AND user_id <> ?", keepIDs, userID).
				Pluck("id", &foreign).Error; err != nil {
				return err
			}
			if len(foreign) > 0 {
				foreignSet := make(map[string]bool, len(foreign))
				for _, id := range foreign {
					foreignSet[id] = true
				}
				for i := range incoming {
					if foreignSet[incoming[i].ID] {
						incoming[i].ID = uuid.NewString()
						keepIDs[i] = incoming[i].ID
					}
				}
			}
		}

		// Explicit delete-set: stored ids minus incoming ids.
		staleQuery := userPlansQuery(tx, userID)
		if len(keepIDs) > 0 {
			staleQuery = staleQuery.Where("id NOT IN ?", keepIDs)
		}
		var staleIDs []string
		if err := staleQuery.Pluck("id", &staleIDs).Error; err != nil {
			return err
		}
		if len(staleIDs) > 0 {
			if err := tx.Where("plan_id IN ?", staleIDs).Delete(&plans.PlanItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ? AND user_id = ?", staleIDs, userID).Delete(&plans.Plan{}).Error; err != nil {
				return err
			}
		}

		for _, p := range incoming {
			if err := upsertPlan(tx, userID, p); err != nil {
				return err
			}
			if err := replacePlanItems(tx, p); err != nil {
				return err
			}
		}

		return nil
	})
}

// upsertPlan overwrites the mutable fields of an existing row or inserts a
// new one. CreatedAt and ownership are never overridden by the input.
func upsertPlan(tx *gorm.DB, userID uint, p planWrite) error {
	var existing plans.Plan
	err := tx.Where("id = ? AND user_id = ?", p.ID, userID).First(&existing).Error
	switch {
	case err == nil:
		// map form so nil pointers clear columns
		return tx.Model(&plans.Plan{}).
			Where("id = ? AND user_id = ?", p.ID, userID).
			Updates(map[string]interface{}{
				"title":     p.Title,
				"cafe_id":   p.CafeID,
				"date":      p.Date,
				"time_text": p.TimeText,
			}).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		row := plans.Plan{
			ID:       p.ID,
			UserID:   userID,
			Title:    p.Title,
			CafeID:   p.CafeID,
			Date:     p.Date,
			TimeText: p.TimeText,
		}
		return tx.Create(&row).Error
	default:
		return err
	}
}

// replacePlanItems deletes every stored item of the plan and re-inserts
// exactly the incoming ones. Incoming item ids that survive the delete
// (they belong to some other plan) are re-minted.
func replacePlanItems(tx *gorm.DB, p planWrite) error {
	if err := tx.Where("plan_id = ?", p.ID).Delete(&plans.PlanItem{}).Error; err != nil {
		return err
	}

	if len(p.Items) == 0 {
		return nil
	}

	supplied := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		if item.ID != "" {
			supplied = append(supplied, item.ID)
		}
	}
	taken := make(map[string]bool)
	if len(supplied) > 0 {
		var rows []string
		if err := tx.Model(&plans.PlanItem{}).
			Where("id IN ?", supplied).
			Pluck("id", &rows).Error; err != nil {
			return err
		}
		for _, id := range rows {
			taken[id] = true
		}
	}

	inserts := make([]plans.PlanItem, 0, len(p.Items))
	for _, item := range p.Items {
		id := item.ID
		if id == "" || taken[id] {
			id = uuid.NewString()
		}
		inserts = append(inserts, plans.PlanItem{
			ID:         id,
			PlanID:     p.ID,
			Text:       item.Text,
			Done:       item.Done,
			OrderIndex: item.Order,
		})
	}
	return tx.Create(&inserts).Error
}
