package plans

import (
	"cafeplanner/internal/domain/plans"

	"gorm.io/gorm"
)

func userPlansQuery(db *gorm.DB, userID uint) *gorm.DB {
	return db.Model(&plans.Plan{}).Where("user_id = ?", userID)
}

// listPlans returns the full snapshot for one user: plans ordered by
// creation time, items ordered by their sort key within each plan.
func listPlans(db *gorm.DB, userID uint) ([]plans.Plan, error) {
	var rows []plans.Plan
	err := db.
		Where("user_id = ?", userID).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
