package plans

import (
	"net/http"

	"cafeplanner/database"

	"github.com/gin-gonic/gin"
)

func mustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	return userID, true
}

// GET /api/plans
func ListPlans(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	rows, err := listPlans(database.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plans"})
		return
	}

	c.JSON(http.StatusOK, toPlanDTOs(rows))
}

// PUT /api/plans/sync
//
// The request body is the client's full snapshot; after reconciliation the
// response carries the stored state, which equals the snapshot with ids
// assigned. Validation happens before any store mutation.
func SyncPlans(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "message": err.Error()})
		return
	}
	// nil means the plans key was absent; an explicit [] is a valid
	// snapshot that clears everything
	if req.Plans == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "message": "plans is required"})
		return
	}

	writes, err := toPlanWrites(req.Plans)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "message": err.Error()})
		return
	}

	if err := replaceAllPlans(database.DB, userID, writes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync plans"})
		return
	}

	rows, err := listPlans(database.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plans"})
		return
	}

	c.JSON(http.StatusOK, toPlanDTOs(rows))
}
