package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderItem is a single line item on an order
type OrderItem struct {
	ProductName string  `json:"product_name" validate:"required"`
	Quantity    int     `json:"quantity" validate:"required,min=1"`
	Price       float64 `json:"price" validate:"min=0"`
}

// Order belongs to exactly one customer
type Order struct {
	gorm.Model
	CustomerID uint `gorm:"not null;index" json:"customer_id"`

	Items []OrderItem `gorm:"type:jsonb;serializer:json" json:"items"`

	// Always recomputed from Items, never settable by callers
	TotalAmount float64 `json:"total_amount"`

	Status    string    `gorm:"default:'pending'" json:"status"`
	OrderDate time.Time `json:"order_date"`

	Customer Customer `json:"-"`
}

// ComputeTotal derives TotalAmount from the line items.
func (o *Order) ComputeTotal() float64 {
	total := 0.0
	for _, item := range o.Items {
		total += float64(item.Quantity) * item.Price
	}
	o.TotalAmount = total
	return total
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// RecalculateCustomerStats re-derives the customer's aggregates from the
// authoritative order set. TotalSpent is summed from all current orders
// rather than adjusted incrementally, so concurrent or reordered order
// writes converge to the same result. Must run inside the same transaction
// as the order write.
func RecalculateCustomerStats(tx *gorm.DB, customerID uint, now time.Time) (*Customer, error) {
	var totalSpent float64
	if err := tx.Model(&Order{}).
		Where("customer_id = ?", customerID).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalSpent).Error; err != nil {
		return nil, err
	}

	var customer Customer
	if err := tx.First(&customer, customerID).Error; err != nil {
		return nil, err
	}

	customer.TotalSpent = totalSpent
	customer.RecordVisit(now)

	if err := tx.Save(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}
