package handlers

import (
	"net/http"

	"artisthub/models"
	"artisthub/services/order"
	"artisthub/services/provider"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves artist administration and the full order list.
type AdminHandler struct {
	Providers provider.ProviderService
	Orders    order.OrderService

	artists *ProviderHandler
}

func NewAdminHandler(providers provider.ProviderService, orders order.OrderService) *AdminHandler {
	return &AdminHandler{
		Providers: providers,
		Orders:    orders,
		artists:   &ProviderHandler{Service: providers},
	}
}

// ListOrdersHandler handles GET /api/admin/orders.
func (h *AdminHandler) ListOrdersHandler(c *gin.Context) {
	orders, err := h.Orders.AllOrders(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to fetch orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// ListArtistsHandler handles GET /api/admin/artists.
func (h *AdminHandler) ListArtistsHandler(c *gin.Context) {
	h.artists.ListArtistsHandler(c)
}

// CreateArtistHandler handles POST /api/admin/artists.
func (h *AdminHandler) CreateArtistHandler(c *gin.Context) {
	var req models.CreateProviderRequest
	if !bindJSON(c, &req) {
		return
	}
	artist, err := h.Providers.CreateProvider(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to create artist", err)
		return
	}
	c.JSON(http.StatusCreated, artist)
}

// UpdateArtistHandler handles PUT /api/admin/artists/:id.
func (h *AdminHandler) UpdateArtistHandler(c *gin.Context) {
	var req models.ProviderProfileUpdate
	if !bindJSON(c, &req) {
		return
	}
	artist, err := h.Providers.UpdateProvider(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, "Failed to update artist", err)
		return
	}
	c.JSON(http.StatusOK, artist)
}

// DeleteArtistHandler handles DELETE /api/admin/artists/:id.
func (h *AdminHandler) DeleteArtistHandler(c *gin.Context) {
	if err := h.Providers.DeleteProvider(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, "Failed to delete artist", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artist deleted"})
}

// UpdateArtistAvailabilityHandler handles PUT /api/admin/artists/:id/availability.
func (h *AdminHandler) UpdateArtistAvailabilityHandler(c *gin.Context) {
	h.artists.replaceAvailability(c, c.Param("id"))
}
