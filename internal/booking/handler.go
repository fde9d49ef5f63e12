package booking

import (
	"errors"
	"net/http"
	"strconv"

	"courtbook/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Finalize godoc
// @Summary      Finalize a booking
// @Description  Converts a held slot lock into a pending booking and opens a payment order.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      FinalizeRequest  true  "Lock to convert"
// @Success      201      {object}  FinalizeResponse
// @Failure      400      {object}  gin.H
// @Failure      403      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Failure      410      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /bookings [post]
func (h *Handler) Finalize(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.Finalize(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrLockNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Lock not found"})
		case errors.Is(err, ErrLockHolderMismatch):
			c.JSON(http.StatusForbidden, gin.H{"error": "This lock belongs to another user"})
		case errors.Is(err, ErrLockNotActive), errors.Is(err, ErrLockExpired):
			c.JSON(http.StatusGone, gin.H{"error": "Your hold on this slot has lapsed, please reserve it again"})
		case errors.Is(err, ErrSlotTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "This slot is already booked"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		}
		return
	}

	resp := FinalizeResponse{Booking: b}
	if b.OrderRef != nil {
		resp.OrderRef = *b.OrderRef
	}

	c.JSON(http.StatusCreated, resp)
}

// Confirm godoc
// @Summary      Confirm payment
// @Description  Marks a pending booking as confirmed after verifying the gateway signature.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int             true  "Booking ID"
// @Param        request    body      ConfirmRequest  true  "Payment result"
// @Success      200        {object}  Booking
// @Failure      400        {object}  gin.H
// @Failure      403        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /bookings/{bookingID}/confirm [post]
func (h *Handler) Confirm(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.Confirm(c.Request.Context(), userID, bookingID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, ErrNotBookingOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only confirm your own bookings"})
		case errors.Is(err, ErrNoOrder), errors.Is(err, ErrInvalidSignature):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment verification failed"})
		case errors.Is(err, ErrNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": "Booking is not awaiting payment"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm booking"})
		}
		return
	}

	c.JSON(http.StatusOK, b)
}

// Cancel godoc
// @Summary      Cancel booking
// @Description  Cancels a pending or confirmed booking, freeing its slot.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  gin.H
// @Failure      400        {object}  gin.H
// @Failure      403        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /bookings/{bookingID}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	role, _ := auth.GetUserRole(c)

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	if err := h.service.Cancel(c.Request.Context(), userID, role, bookingID); err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, ErrNotBookingOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only cancel your own bookings"})
		case errors.Is(err, ErrNotCancellable):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Booking cannot be cancelled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel booking"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled successfully"})
}

// ListMyBookings godoc
// @Summary      List my bookings
// @Description  Returns bookings of the authenticated user.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Booking
// @Failure      500  {object}  gin.H
// @Router       /bookings [get]
func (h *Handler) ListMyBookings(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookings, err := h.service.GetUserBookings(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ListBookingsByResource godoc
// @Summary      List bookings by resource
// @Description  Returns all bookings for a court or field. Provider and admin only.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        resourceID  path      int  true  "Resource ID"
// @Success      200         {array}   BookingWithDetails
// @Failure      400         {object}  gin.H
// @Failure      500         {object}  gin.H
// @Router       /provider/resources/{resourceID}/bookings [get]
func (h *Handler) ListBookingsByResource(c *gin.Context) {
	resourceID, err := strconv.Atoi(c.Param("resourceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
		return
	}

	bookings, err := h.service.GetBookingsByResource(c.Request.Context(), resourceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ListBookingsByVenue godoc
// @Summary      List bookings by venue
// @Description  Returns all bookings across a venue's resources. Provider and admin only.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        venueID  path      int  true  "Venue ID"
// @Success      200      {array}   BookingWithDetails
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /provider/venues/{venueID}/bookings [get]
func (h *Handler) ListBookingsByVenue(c *gin.Context) {
	venueID, err := strconv.Atoi(c.Param("venueID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid venue ID"})
		return
	}

	bookings, err := h.service.GetBookingsByVenue(c.Request.Context(), venueID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}
