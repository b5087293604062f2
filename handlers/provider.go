package handlers

import (
	"net/http"

	"artisthub/middleware"
	"artisthub/models"
	"artisthub/services/provider"

	"github.com/gin-gonic/gin"
)

// ProviderHandler serves the public artist catalogue and the artist's own endpoints.
type ProviderHandler struct {
	Service provider.ProviderService
}

// ListArtistsHandler handles GET /api/artists.
func (h *ProviderHandler) ListArtistsHandler(c *gin.Context) {
	artists, err := h.Service.GetAllProviders(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to list artists", err)
		return
	}
	c.JSON(http.StatusOK, artists)
}

// GetArtistHandler handles GET /api/artists/:id.
func (h *ProviderHandler) GetArtistHandler(c *gin.Context) {
	artist, err := h.Service.GetProviderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Artist not found", err)
		return
	}
	c.JSON(http.StatusOK, artist)
}

// GetAvailabilityHandler handles GET /api/artists/:id/availability.
func (h *ProviderHandler) GetAvailabilityHandler(c *gin.Context) {
	slots, err := h.Service.GetAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to fetch availability", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": slots})
}

// CheckAvailabilityHandler handles POST /api/artists/check-availability.
func (h *ProviderHandler) CheckAvailabilityHandler(c *gin.Context) {
	var req models.CheckAvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}
	slot := models.Slot{Date: req.Date, StartTime: req.StartTime, EndTime: req.EndTime}
	res, err := h.Service.CheckAvailability(c.Request.Context(), req.ArtistID, slot)
	if err != nil {
		respondError(c, "Availability check failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// MeHandler handles GET /api/artists/me.
func (h *ProviderHandler) MeHandler(c *gin.Context) {
	artist, err := h.Service.GetProviderByID(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, "Artist profile not found", err)
		return
	}
	c.JSON(http.StatusOK, artist)
}

// UpdateMyAvailabilityHandler handles PUT /api/artists/me/availability.
func (h *ProviderHandler) UpdateMyAvailabilityHandler(c *gin.Context) {
	h.replaceAvailability(c, c.GetString(middleware.ContextUserID))
}

// MyBookingsHandler handles GET /api/artists/me/bookings.
func (h *ProviderHandler) MyBookingsHandler(c *gin.Context) {
	bookings, err := h.Service.GetBookings(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, "Failed to fetch bookings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *ProviderHandler) replaceAvailability(c *gin.Context, artistID string) {
	var req models.UpdateSlotsRequest
	if !bindJSON(c, &req) {
		return
	}
	artist, err := h.Service.UpdateSlots(c.Request.Context(), artistID, req.Availability)
	if err != nil {
		respondError(c, "Failed to update availability", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": artist.OfferedSlots})
}
