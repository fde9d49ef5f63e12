package venue

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

func callerIdentity(c *gin.Context) (int, string, bool) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		return 0, "", false
	}
	role, ok := auth.GetUserRole(c)
	if !ok {
		return 0, "", false
	}
	return userID, role, true
}

// CreateVenue godoc
// @Summary      Create venue
// @Description  Registers a new venue owned by the calling provider.
// @Tags         venues
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateVenueRequest  true  "Venue data"
// @Success      201      {object}  Venue
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /provider/venues [post]
func (h *Handler) CreateVenue(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, err := h.service.CreateVenue(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create venue"})
		return
	}

	c.JSON(http.StatusCreated, v)
}

// ListVenues godoc
// @Summary      List venues
// @Tags         venues
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Venue
// @Failure      500  {object}  gin.H
// @Router       /venues [get]
func (h *Handler) ListVenues(c *gin.Context) {
	venues, err := h.service.GetAllVenues(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch venues"})
		return
	}

	c.JSON(http.StatusOK, venues)
}

// ListMyVenues godoc
// @Summary      List venues of the calling provider
// @Tags         venues
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Venue
// @Failure      500  {object}  gin.H
// @Router       /provider/venues [get]
func (h *Handler) ListMyVenues(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	venues, err := h.service.GetVenuesByProvider(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch venues"})
		return
	}

	c.JSON(http.StatusOK, venues)
}

// ListVenuesWithProvider godoc
// @Summary      List venues with provider details. Admin only.
// @Tags         venues
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   VenueWithProvider
// @Failure      500  {object}  gin.H
// @Router       /admin/venues [get]
func (h *Handler) ListVenuesWithProvider(c *gin.Context) {
	venues, err := h.service.GetVenuesWithProvider(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch venues"})
		return
	}

	c.JSON(http.StatusOK, venues)
}

// DeleteVenue godoc
// @Summary      Delete venue
// @Tags         venues
// @Security     BearerAuth
// @Produce      json
// @Param        venueID  path      int  true  "Venue ID"
// @Success      200      {object}  gin.H
// @Failure      403      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Router       /provider/venues/{venueID} [delete]
func (h *Handler) DeleteVenue(c *gin.Context) {
	userID, role, ok := callerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	venueID, err := strconv.Atoi(c.Param("venueID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid venue ID"})
		return
	}

	if err := h.service.DeleteVenue(c.Request.Context(), userID, role, venueID); err != nil {
		switch {
		case errors.Is(err, ErrVenueNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
		case errors.Is(err, ErrNotVenueOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only manage your own venues"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete venue"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Venue deleted"})
}

// CreateResource godoc
// @Summary      Add a bookable resource to a venue
// @Description  A resource is one court, table or net for a single sport.
// @Tags         venues
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        venueID  path      int                    true  "Venue ID"
// @Param        request  body      CreateResourceRequest  true  "Resource data"
// @Success      201      {object}  Resource
// @Failure      400      {object}  gin.H
// @Failure      403      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Router       /provider/venues/{venueID}/resources [post]
func (h *Handler) CreateResource(c *gin.Context) {
	userID, role, ok := callerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	venueID, err := strconv.Atoi(c.Param("venueID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid venue ID"})
		return
	}

	var req CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.CreateResource(c.Request.Context(), userID, role, venueID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrVenueNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
		case errors.Is(err, ErrNotVenueOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only manage your own venues"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create resource"})
		}
		return
	}

	c.JSON(http.StatusCreated, res)
}

// ListResources godoc
// @Summary      List resources of a venue
// @Tags         venues
// @Security     BearerAuth
// @Produce      json
// @Param        venueID  path      int  true  "Venue ID"
// @Success      200      {array}   Resource
// @Failure      404      {object}  gin.H
// @Router       /venues/{venueID}/resources [get]
func (h *Handler) ListResources(c *gin.Context) {
	venueID, err := strconv.Atoi(c.Param("venueID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid venue ID"})
		return
	}

	resources, err := h.service.GetResourcesByVenue(c.Request.Context(), venueID)
	if err != nil {
		if errors.Is(err, ErrVenueNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch resources"})
		return
	}

	c.JSON(http.StatusOK, resources)
}

// DeleteResource godoc
// @Summary      Remove a resource
// @Tags         venues
// @Security     BearerAuth
// @Produce      json
// @Param        resourceID  path      int  true  "Resource ID"
// @Success      200         {object}  gin.H
// @Failure      403         {object}  gin.H
// @Failure      404         {object}  gin.H
// @Router       /provider/resources/{resourceID} [delete]
func (h *Handler) DeleteResource(c *gin.Context) {
	userID, role, ok := callerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	resourceID, err := strconv.Atoi(c.Param("resourceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
		return
	}

	if err := h.service.DeleteResource(c.Request.Context(), userID, role, resourceID); err != nil {
		switch {
		case errors.Is(err, ErrResourceNotFound), errors.Is(err, ErrVenueNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		case errors.Is(err, ErrNotVenueOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only manage your own venues"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete resource"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Resource deleted"})
}
