package slot

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"courtbook/internal/auth"
	"courtbook/internal/lock"
	"courtbook/internal/logger"

	"github.com/gin-gonic/gin"
)

// Sweeper reclaims expired locks before availability is read.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

type Handler struct {
	catalog *Catalog
	sweeper Sweeper
}

func NewHandler(catalog *Catalog, sweeper Sweeper) *Handler {
	return &Handler{catalog: catalog, sweeper: sweeper}
}

// ListSlots godoc
// @Summary      Day catalog for a resource
// @Description  Returns the 16 hourly windows for a date with booking/lock occupancy.
// @Tags         slots
// @Security     BearerAuth
// @Produce      json
// @Param        resourceID  path      int     true  "Resource ID"
// @Param        date        query     string  true  "Date (YYYY-MM-DD)"
// @Success      200         {array}   Window
// @Failure      400         {object}  gin.H
// @Failure      500         {object}  gin.H
// @Router       /resources/{resourceID}/slots [get]
func (h *Handler) ListSlots(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	resourceID, err := strconv.Atoi(c.Param("resourceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query param is required"})
		return
	}

	date, err := time.ParseInLocation(lock.DateLayout, dateStr, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
		return
	}

	if _, err := h.sweeper.SweepExpired(c.Request.Context()); err != nil {
		// Availability can still be served; stale locks only
		// over-report occupancy until the next sweep.
		logger.Errorf("Sweep before catalog read failed: %v", err)
	}

	windows, err := h.catalog.Generate(c.Request.Context(), resourceID, date, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build slot catalog"})
		return
	}

	c.JSON(http.StatusOK, windows)
}
