package lock

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"courtbook/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Acquire godoc
// @Summary      Reserve a slot
// @Description  Places a 10-minute exclusive hold on a slot while payment completes.
// @Tags         locks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      AcquireRequest  true  "Slot to hold"
// @Success      201      {object}  LockResponse
// @Failure      400      {object}  gin.H
// @Failure      401      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /locks [post]
func (h *Handler) Acquire(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req AcquireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	l, err := h.service.Acquire(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingSlotInfo), errors.Is(err, ErrInvalidSlotRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrSlotLockedByAnother):
			c.JSON(http.StatusConflict, gin.H{"error": "This slot was just taken, please pick another"})
		case errors.Is(err, ErrSlotAlreadyBooked):
			c.JSON(http.StatusConflict, gin.H{"error": "This slot is already booked"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reserve slot, please retry"})
		}
		return
	}

	c.JSON(http.StatusCreated, LockResponse{
		Lock:             l,
		RemainingSeconds: int64(l.Remaining(time.Now()).Seconds()),
	})
}

// Release godoc
// @Summary      Release a held slot
// @Description  Gives up a hold when the user abandons the payment flow.
// @Tags         locks
// @Security     BearerAuth
// @Produce      json
// @Param        lockID  path      int  true  "Lock ID"
// @Success      200     {object}  api.MessageResponse
// @Failure      400     {object}  gin.H
// @Failure      403     {object}  gin.H
// @Failure      404     {object}  gin.H
// @Router       /locks/{lockID}/release [post]
func (h *Handler) Release(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	lockID, err := strconv.Atoi(c.Param("lockID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lock ID"})
		return
	}

	if err := h.service.Release(c.Request.Context(), userID, lockID); err != nil {
		switch {
		case errors.Is(err, ErrLockNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Lock not found"})
		case errors.Is(err, ErrNotLockHolder):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only release your own locks"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to release lock"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lock released"})
}

// Get godoc
// @Summary      Lock status
// @Description  Returns the hold with its remaining countdown, recomputed from expires_at.
// @Tags         locks
// @Security     BearerAuth
// @Produce      json
// @Param        lockID  path      int  true  "Lock ID"
// @Success      200     {object}  LockResponse
// @Failure      403     {object}  gin.H
// @Failure      404     {object}  gin.H
// @Router       /locks/{lockID} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	lockID, err := strconv.Atoi(c.Param("lockID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lock ID"})
		return
	}

	l, err := h.service.Get(c.Request.Context(), userID, lockID)
	if err != nil {
		switch {
		case errors.Is(err, ErrLockNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Lock not found"})
		case errors.Is(err, ErrNotLockHolder):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only view your own locks"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch lock"})
		}
		return
	}

	c.JSON(http.StatusOK, LockResponse{
		Lock:             l,
		RemainingSeconds: int64(l.Remaining(time.Now()).Seconds()),
	})
}
