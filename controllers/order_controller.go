package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"minicrm/models"
	"minicrm/utils"
)

type OrderController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewOrderController(db *gorm.DB, logger *log.Logger) *OrderController {
	return &OrderController{
		DB:     db,
		Logger: logger,
	}
}

type OrderRequest struct {
	CustomerID uint               `json:"customer_id" validate:"required"`
	Items      []models.OrderItem `json:"items" validate:"required,min=1,dive"`
	Status     string             `json:"status"`
}

// CreateOrder persists the order and recomputes the owning customer's
// aggregates inside the same transaction.
func (oc *OrderController) CreateOrder(c *fiber.Ctx) error {
	var req OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	status := req.Status
	if status == "" {
		status = models.OrderStatusPending
	}
	if !models.ValidOrderStatus(status) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid order status", nil)
	}

	var customer models.Customer
	if err := oc.DB.First(&customer, req.CustomerID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Customer not found", nil)
	}

	order := models.Order{
		CustomerID: req.CustomerID,
		Items:      req.Items,
		Status:     status,
		OrderDate:  time.Now(),
	}
	order.ComputeTotal()

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		_, err := models.RecalculateCustomerStats(tx, order.CustomerID, time.Now())
		return err
	})
	if err != nil {
		oc.Logger.Printf("Failed to create order: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create order", nil)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(order))
}

func (oc *OrderController) GetOrders(c *fiber.Ctx) error {
	var orders []models.Order
	if err := oc.DB.Order("created_at DESC").Find(&orders).Error; err != nil {
		oc.Logger.Printf("Failed to fetch orders: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch orders", nil)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(orders),
		"data":    orders,
	})
}

func (oc *OrderController) GetOrder(c *fiber.Ctx) error {
	var order models.Order
	if err := oc.DB.First(&order, utils.ParseUint(c.Params("id"))).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Order not found", nil)
	}
	return c.JSON(utils.SuccessResponse(order))
}

// UpdateOrder replaces the line items and/or status. The total is always
// re-derived from the items and the customer aggregates recomputed in the
// same transaction as the write.
func (oc *OrderController) UpdateOrder(c *fiber.Ctx) error {
	var order models.Order
	if err := oc.DB.First(&order, utils.ParseUint(c.Params("id"))).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Order not found", nil)
	}

	var input struct {
		Items  []models.OrderItem `json:"items"`
		Status string             `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	if input.Status != "" {
		if !models.ValidOrderStatus(input.Status) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid order status", nil)
		}
		order.Status = input.Status
	}

	if input.Items != nil {
		for _, item := range input.Items {
			if item.ProductName == "" || item.Quantity < 1 || item.Price < 0 {
				return utils.ErrorResponse(c, fiber.StatusBadRequest, "Each item needs a product name, quantity >= 1 and price >= 0", nil)
			}
		}
		order.Items = input.Items
	}
	order.ComputeTotal()

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&order).Error; err != nil {
			return err
		}
		_, err := models.RecalculateCustomerStats(tx, order.CustomerID, time.Now())
		return err
	})
	if err != nil {
		oc.Logger.Printf("Failed to update order %d: %v", order.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update order", nil)
	}

	return c.JSON(utils.SuccessResponse(order))
}

func (oc *OrderController) DeleteOrder(c *fiber.Ctx) error {
	var order models.Order
	if err := oc.DB.First(&order, utils.ParseUint(c.Params("id"))).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Order not found", nil)
	}

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&order).Error; err != nil {
			return err
		}
		_, err := models.RecalculateCustomerStats(tx, order.CustomerID, time.Now())
		return err
	})
	if err != nil {
		oc.Logger.Printf("Failed to delete order %d: %v", order.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete order", nil)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order deleted",
	})
}
