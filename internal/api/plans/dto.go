package plans

import (
	"fmt"
	"time"

	"cafeplanner/internal/domain/plans"
)

// Wire shapes for PUT /api/plans/sync. An absent id means the entry was
// created client-side and the server mints one.
type PlanItemInput struct {
	ID    string `json:"id"`
	Text  string `json:"text" binding:"required"`
	Done  *bool  `json:"done"`
	Order *int   `json:"order"`
}

type PlanInput struct {
	ID       string          `json:"id"`
	Title    string          `json:"title" binding:"required"`
	CafeID   *int64          `json:"cafeId"`
	Date     *string         `json:"date"`
	TimeText *string         `json:"timeText"`
	Items    []PlanItemInput `json:"items" binding:"dive"`
}

// An empty plans list is a valid snapshot: it deletes every stored plan.
type SyncRequest struct {
	Plans []PlanInput `json:"plans" binding:"dive"`
}

type PlanItemDTO struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Done  bool   `json:"done"`
	Order int    `json:"order"`
}

type PlanDTO struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	CafeID    *int64        `json:"cafeId"`
	Date      *string       `json:"date"`
	TimeText  *string       `json:"timeText"`
	CreatedAt time.Time     `json:"createdAt"`
	Items     []PlanItemDTO `json:"items"`
}

const dateLayout = "2006-01-02"

// parseDate accepts the YYYY-MM-DD form the client sends, or a full RFC3339
// timestamp (the server's own echo resubmitted by a client).
func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(dateLayout, *raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, *raw); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("invalid date %q", *raw)
}

// toPlanWrites validates and normalizes the request before any store
// mutation: dates parsed, done defaulted to false, order defaulted to the
// item's position in the list.
func toPlanWrites(inputs []PlanInput) ([]planWrite, error) {
	writes := make([]planWrite, 0, len(inputs))
	for _, in := range inputs {
		date, err := parseDate(in.Date)
		if err != nil {
			return nil, err
		}

		timeText := in.TimeText
		if timeText != nil && *timeText == "" {
			timeText = nil
		}

		w := planWrite{
			ID:       in.ID,
			Title:    in.Title,
			CafeID:   in.CafeID,
			Date:     date,
			TimeText: timeText,
			Items:    make([]itemWrite, 0, len(in.Items)),
		}
		for idx, item := range in.Items {
			done := false
			if item.Done != nil {
				done = *item.Done
			}
			order := idx
			if item.Order != nil {
				order = *item.Order
			}
			w.Items = append(w.Items, itemWrite{
				ID:    item.ID,
				Text:  item.Text,
				Done:  done,
				Order: order,
			})
		}
		writes = append(writes, w)
	}
	return writes, nil
}

func toPlanDTO(plan plans.Plan) PlanDTO {
	dto := PlanDTO{
		ID:        plan.ID,
		Title:     plan.Title,
		CafeID:    plan.CafeID,
		TimeText:  plan.TimeText,
		CreatedAt: plan.CreatedAt,
		Items:     make([]PlanItemDTO, 0, len(plan.Items)),
	}
	if plan.Date != nil {
		s := plan.Date.Format(dateLayout)
		dto.Date = &s
	}
	for _, item := range plan.Items {
		dto.Items = append(dto.Items, PlanItemDTO{
			ID:    item.ID,
			Text:  item.Text,
			Done:  item.Done,
			Order: item.OrderIndex,
		})
	}
	return dto
}

func toPlanDTOs(rows []plans.Plan) []PlanDTO {
	out := make([]PlanDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toPlanDTO(row))
	}
	return out
}
