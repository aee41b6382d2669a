package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is a customer order placed against the store. Orders are never
// deleted; they only move through status transitions until a terminal
// state is reached.
type Order struct {
	BaseModel
	OrderNumber     string      `gorm:"uniqueIndex" json:"order_number"`
	CustomerName    string      `json:"customer_name"`
	CustomerPhone   string      `json:"customer_phone"`
	CustomerEmail   string      `json:"customer_email"`
	DeliveryAddress string      `json:"delivery_address"`
	OrderType       string      `json:"order_type"` // delivery|pickup
	Status          string      `gorm:"index" json:"status"`
	TotalAmount     float64     `json:"total_amount"`
	DeliveryFee     float64     `json:"delivery_fee"`
	PaymentMethod   string      `json:"payment_method"`
	PlacedAt        time.Time   `json:"placed_at"`
	Items           []OrderItem `json:"items,omitempty"`
}

// OrderItem is one line of an order. The product name and unit price
// are denormalized so history survives catalog edits.
type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	ProductID   *uuid.UUID `gorm:"type:uuid" json:"product_id"`
	ProductName string     `json:"product_name"`
	Quantity    int        `json:"quantity"`
	UnitPrice   float64    `json:"unit_price"`
}
