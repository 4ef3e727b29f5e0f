package reviews

import (
	"time"

	"cafeplanner/internal/domain/reviews"
)

type ReviewDTO struct {
	ID         uint      `json:"id"`
	CafeID     int64     `json:"cafeId"`
	Rating     int       `json:"rating"`
	Text       string    `json:"text"`
	PhotoURL   *string   `json:"photoUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	AuthorName string    `json:"authorName"`
}

func toReviewDTO(r reviews.Review) ReviewDTO {
	author := "Guest"
	if r.User != nil && r.User.Name != "" {
		author = r.User.Name
	}
	return ReviewDTO{
		ID:         r.ID,
		CafeID:     r.CafeID,
		Rating:     r.Rating,
		Text:       r.Text,
		PhotoURL:   r.PhotoURL,
		CreatedAt:  r.CreatedAt,
		AuthorName: author,
	}
}
