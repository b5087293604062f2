package handlers

import (
	"net/http"

	"artisthub/middleware"
	"artisthub/models"
	"artisthub/services/booking"
	"artisthub/services/order"
	"artisthub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrderHandler serves customer order placement and history.
type OrderHandler struct {
	Booking booking.BookingService
	Orders  order.OrderService
}

// PlaceOrderHandler handles POST /api/orders.
func (h *OrderHandler) PlaceOrderHandler(c *gin.Context) {
	var req models.PlaceOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.TotalPrice == nil {
		utils.RespondError(c, utils.ValidationError("missing required fields: totalPrice"))
		return
	}

	placed, err := h.Booking.PlaceOrder(c.Request.Context(), booking.PlaceOrderRequest{
		CustomerID: c.GetString(middleware.ContextUserID),
		ProviderID: req.ArtistID,
		Slot:       models.Slot{Date: req.Date, StartTime: req.StartTime, EndTime: req.EndTime},
		Location:   req.Location,
		TotalPrice: *req.TotalPrice,
	})
	if err != nil {
		respondError(c, "Order placement failed", err)
		return
	}

	getLogger(c).Info("Order created", zap.String("orderId", placed.ID))
	c.JSON(http.StatusCreated, placed)
}

// MyOrdersHandler handles GET /api/orders/user.
func (h *OrderHandler) MyOrdersHandler(c *gin.Context) {
	orders, err := h.Orders.OrdersByCustomer(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, "Failed to fetch orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
