package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatusPending is the only status this service assigns itself.
// Every later value mirrors the provider's own vocabulary verbatim
// (e.g. "Completed", "Failed"), so the field stays a free-form string.
const PaymentStatusPending = "pending"

type Payment struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	OrderID    string          `json:"order_id"`
	TrackingID string          `json:"pesapal_order_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

/*
Mysql Table

CREATE TABLE payments (
	id CHAR(36) PRIMARY KEY,
	user_id CHAR(36) NOT NULL,
	order_id CHAR(36) NOT NULL REFERENCES orders(id),
	pesapal_order_id VARCHAR(100) NOT NULL UNIQUE,
	amount DECIMAL(12,2) NOT NULL,
	status VARCHAR(50) NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

*/
