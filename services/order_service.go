package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/yeremiapane/restaurant-api/events"
	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/utils"
	"gorm.io/gorm"
)

var (
	ErrOrderNotCancellable = utils.ErrNotFound("Order not found or cannot be cancelled")
	ErrUnknownFoodItem     = utils.ErrBadRequest("Order contains an unknown food item")
)

// OrderItemInput -> one requested (food item, quantity) pair
type OrderItemInput struct {
	FoodItemID uint `json:"fid" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,min=1"`
}

// OrderService owns the order lifecycle
type OrderService struct {
	db        *gorm.DB
	publisher events.Publisher
}

func NewOrderService(db *gorm.DB, publisher events.Publisher) *OrderService {
	if publisher == nil {
		publisher = events.Nop
	}
	return &OrderService{db: db, publisher: publisher}
}

// PlaceOrder inserts the header and every line in one transaction.
// Either all rows are committed or none are.
func (s *OrderService) PlaceOrder(ctx context.Context, customerID uint, items []OrderItemInput, totalAmount float64) (uint, error) {
	if len(items) == 0 {
		return 0, utils.ErrBadRequest("Order must contain at least one item")
	}
	for _, item := range items {
		if item.FoodItemID == 0 || item.Quantity < 1 {
			return 0, utils.ErrBadRequest("Each item needs a fid and a quantity of at least 1")
		}
	}
	if totalAmount < 0 {
		return 0, utils.ErrBadRequest("total_amount must not be negative")
	}

	order := models.Order{
		CustomerID:  customerID,
		TotalAmount: totalAmount,
		Status:      models.OrderStatusPending,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkFoodItems(tx, items); err != nil {
			return err
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		for _, item := range items {
			line := models.OrderLine{
				OrderID:    order.ID,
				FoodItemID: item.FoodItemID,
				Quantity:   item.Quantity,
			}
			if err := tx.Create(&line).Error; err != nil {
				return fmt.Errorf("insert order line fid=%d: %w", item.FoodItemID, err)
			}
		}
		return nil
	})
	if err != nil {
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			return 0, appErr
		}
		return 0, utils.ErrServer(err)
	}

	utils.InfoLogger.Infof("Order %d placed by customer %d with %d lines", order.ID, customerID, len(items))
	s.publisher.Publish(ctx, events.New(events.EventOrderPlaced, orderKey(order.ID), map[string]interface{}{
		"oid":          order.ID,
		"customer_id":  customerID,
		"total_amount": totalAmount,
		"items":        len(items),
	}))
	return order.ID, nil
}

// checkFoodItems -> every fid must exist; runs inside the order transaction
func checkFoodItems(tx *gorm.DB, items []OrderItemInput) error {
	seen := make(map[uint]bool, len(items))
	fids := make([]uint, 0, len(items))
	for _, item := range items {
		if !seen[item.FoodItemID] {
			seen[item.FoodItemID] = true
			fids = append(fids, item.FoodItemID)
		}
	}

	var found int64
	if err := tx.Model(&models.FoodItem{}).Where("fid IN ?", fids).Count(&found).Error; err != nil {
		return fmt.Errorf("check food items: %w", err)
	}
	if int(found) != len(fids) {
		return ErrUnknownFoodItem
	}
	return nil
}

// CustomerOrders -> the customer's orders, newest first, with their lines
func (s *OrderService) CustomerOrders(ctx context.Context, customerID uint) ([]models.OrderView, error) {
	orders := []models.OrderView{}
	err := s.db.WithContext(ctx).Table("orders").
		Where("customer_id = ?", customerID).
		Order("odate DESC").Order("oid DESC").
		Scan(&orders).Error
	if err != nil {
		return nil, utils.ErrServer(err)
	}
	if err := s.attachLines(ctx, orders); err != nil {
		return nil, utils.ErrServer(err)
	}
	return orders, nil
}

// AllOrders -> every order joined with its customer's contact data
func (s *OrderService) AllOrders(ctx context.Context) ([]models.OrderView, error) {
	orders := []models.OrderView{}
	err := s.db.WithContext(ctx).Table("orders o").
		Select("o.*, c.name AS customer_name, c.email AS customer_email, c.phone AS customer_phone").
		Joins("JOIN customers c ON o.customer_id = c.customer_id").
		Order("o.odate DESC").Order("o.oid DESC").
		Scan(&orders).Error
	if err != nil {
		return nil, utils.ErrServer(err)
	}
	if err := s.attachLines(ctx, orders); err != nil {
		return nil, utils.ErrServer(err)
	}
	return orders, nil
}

func (s *OrderService) attachLines(ctx context.Context, orders []models.OrderView) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]uint, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	var lines []models.OrderLineView
	err := s.db.WithContext(ctx).Table("order_details od").
		Select("od.id, od.oid, od.fid, od.quantity, f.name, f.price, f.image").
		Joins("JOIN food_items f ON od.fid = f.fid").
		Where("od.oid IN ?", ids).
		Order("od.id").
		Scan(&lines).Error
	if err != nil {
		return fmt.Errorf("load order lines: %w", err)
	}

	byOrder := make(map[uint][]models.OrderLineView, len(orders))
	for _, l := range lines {
		byOrder[l.OrderID] = append(byOrder[l.OrderID], l)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []models.OrderLineView{}
		}
	}
	return nil
}

// UpdateStatus -> admin sets any status from the closed set
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) error {
	normalized, ok := models.NormalizeOrderStatus(status)
	if !ok {
		return utils.ErrBadRequest("Invalid status")
	}

	var order models.Order
	if err := s.db.WithContext(ctx).Select("oid").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrNotFound("Order not found")
		}
		return utils.ErrServer(err)
	}

	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("oid = ?", orderID).
		Update("status", normalized).Error; err != nil {
		return utils.ErrServer(err)
	}

	s.publisher.Publish(ctx, events.New(events.EventOrderStatusUpdated, orderKey(orderID), map[string]interface{}{
		"oid":    orderID,
		"status": normalized,
	}))
	return nil
}

// CancelOrder -> owner cancels while the order is still PENDING.
// The check and the write are one conditional UPDATE.
func (s *OrderService) CancelOrder(ctx context.Context, customerID, orderID uint) error {
	result := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("oid = ? AND customer_id = ? AND status = ?", orderID, customerID, models.OrderStatusPending).
		Update("status", models.OrderStatusCancelled)
	if result.Error != nil {
		return utils.ErrServer(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotCancellable
	}

	s.publisher.Publish(ctx, events.New(events.EventOrderCancelled, orderKey(orderID), map[string]interface{}{
		"oid":         orderID,
		"customer_id": customerID,
	}))
	return nil
}

func orderKey(id uint) string {
	return "order-" + strconv.FormatUint(uint64(id), 10)
}
