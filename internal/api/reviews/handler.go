package reviews

import (
	"net/http"
	"strconv"
	"strings"

	"cafeplanner/database"
	"cafeplanner/internal/domain/reviews"

	"github.com/gin-gonic/gin"
)

const listLimit = 100

// GET /api/reviews?cafeIds=1,2,3
func ListReviews(c *gin.Context) {
	idsParam := c.Query("cafeIds")
	if idsParam == "" {
		idsParam = c.Query("cafeId")
	}

	query := database.DB.Model(&reviews.Review{})
	if idsParam != "" {
		var ids []int64
		for _, part := range strings.Split(idsParam, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "message": "invalid cafe id"})
				return
			}
			ids = append(ids, id)
		}
		if len(ids) > 0 {
			query = query.Where("cafe_id IN ?", ids)
		}
	}

	var rows []reviews.Review
	err := query.
		Preload("User").
		Order("created_at DESC").
		Limit(listLimit).
		Find(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}

	out := make([]ReviewDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toReviewDTO(row))
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/reviews
func CreateReview(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input struct {
		CafeID int64  `json:"cafe_id" binding:"required"`
		Rating int    `json:"rating" binding:"required,min=1,max=5"`
		Text   string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "message": err.Error()})
		return
	}

	review := reviews.Review{
		UserID: userID,
		CafeID: input.CafeID,
		Rating: input.Rating,
		Text:   input.Text,
	}
	if err := database.DB.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review"})
		return
	}

	var saved reviews.Review
	if err := database.DB.Preload("User").First(&saved, review.ID).Error; err != nil {
		c.JSON(http.StatusCreated, toReviewDTO(review))
		return
	}
	c.JSON(http.StatusCreated, toReviewDTO(saved))
}
