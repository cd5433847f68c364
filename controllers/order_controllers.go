package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-api/services"
	"github.com/yeremiapane/restaurant-api/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

type placeOrderRequest struct {
	Items       []services.OrderItemInput `json:"items" binding:"required,min=1,dive"`
	TotalAmount *float64                  `json:"total_amount" binding:"required"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder -> header + lines in one transaction
func (oc *OrderController) CreateOrder(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, badRequest(err))
		return
	}

	orderID, err := oc.Orders.PlaceOrder(c.Request.Context(), who.ID, req.Items, *req.TotalAmount)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"orderId": orderID,
	})
}

// GetCustomerOrders -> caller's own orders with items
func (oc *OrderController) GetCustomerOrders(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	orders, err := oc.Orders.CustomerOrders(c.Request.Context(), who.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetAllOrders -> admin view with customer contact data
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Orders.AllOrders(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus -> admin
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.RespondError(c, utils.ErrNotFound("Order not found"))
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, badRequest(err))
		return
	}

	if err := oc.Orders.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Order status updated successfully")
}

// CancelOrder -> owner, only while PENDING
func (oc *OrderController) CancelOrder(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	id, err := paramID(c, "id")
	if err != nil {
		utils.RespondError(c, services.ErrOrderNotCancellable)
		return
	}

	if err := oc.Orders.CancelOrder(c.Request.Context(), who.ID, id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Order cancelled successfully")
}
