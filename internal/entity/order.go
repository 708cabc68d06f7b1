package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusPaid       = "paid"
	OrderStatusCancelled  = "cancelled"
	OrderStatusAbandoned  = "abandoned"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
)

type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Items     []OrderItem     `json:"items"`
	Total     decimal.Decimal `json:"total_amount"`
	Status    string          `json:"status"`
	PaymentID string          `json:"payment_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderItem carries the unit price captured at checkout time. Later product
// price changes never touch historical orders.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

/*
Mysql Tables

CREATE TABLE orders (
	id CHAR(36) PRIMARY KEY,
	user_id CHAR(36) NOT NULL,
	total DECIMAL(12,2) NOT NULL,
	status VARCHAR(20) NOT NULL,
	payment_id CHAR(36),
	created_at DATETIME NOT NULL
);

CREATE TABLE order_items (
	id INT AUTO_INCREMENT PRIMARY KEY,
	order_id CHAR(36) NOT NULL REFERENCES orders(id),
	product_id CHAR(36) NOT NULL,
	quantity INT NOT NULL,
	unit_price DECIMAL(12,2) NOT NULL
);

*/
