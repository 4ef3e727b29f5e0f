package plans

import (
	"time"
)

// Plan is one user's visit intention, optionally tied to a cafe and a
// date/time. IDs are opaque uuid strings; clients may supply their own.
type Plan struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"-"`

	Title    string     `gorm:"not null" json:"title"`
	CafeID   *int64     `gorm:"column:cafe_id" json:"cafe_id,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
	TimeText *string    `gorm:"column:time_text" json:"time_text,omitempty"`

	Items []PlanItem `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE;" json:"items,omitempty"`

	// Set once on first insert, never touched by sync updates.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// PlanItem is one checklist line. OrderIndex is a sort key within its plan
// only; values are not unique across plans.
type PlanItem struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	PlanID string `gorm:"type:uuid;not null;index:idx_plan_items_plan_order,priority:1" json:"-"`

	Text       string `gorm:"not null" json:"text"`
	Done       bool   `gorm:"not null;default:false" json:"done"`
	OrderIndex int    `gorm:"column:order_index;not null;default:0;index:idx_plan_items_plan_order,priority:2" json:"order"`
}
