package migrations

import (
	"database/sql"
	"time"
)

var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id CHAR(36) PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(100) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		phone VARCHAR(30) NOT NULL DEFAULT '',
		role VARCHAR(20) NOT NULL DEFAULT 'customer'
	);`,
	`CREATE TABLE IF NOT EXISTS products (
		id CHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		category VARCHAR(100) NOT NULL DEFAULT '',
		image VARCHAR(255) NOT NULL DEFAULT '',
		price DECIMAL(12,2) NOT NULL,
		stock INT NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id CHAR(36) NOT NULL,
		product_id CHAR(36) NOT NULL,
		quantity INT NOT NULL,
		UNIQUE KEY user_product (user_id, product_id)
	);`,
	`CREATE TABLE IF NOT EXISTS orders (
		id CHAR(36) PRIMARY KEY,
		user_id CHAR(36) NOT NULL,
		total DECIMAL(12,2) NOT NULL,
		status VARCHAR(20) NOT NULL,
		payment_id CHAR(36),
		created_at DATETIME NOT NULL,
		KEY user_idx (user_id)
	);`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id INT AUTO_INCREMENT PRIMARY KEY,
		order_id CHAR(36) NOT NULL,
		product_id CHAR(36) NOT NULL,
		quantity INT NOT NULL,
		unit_price DECIMAL(12,2) NOT NULL,
		FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS payments (
		id CHAR(36) PRIMARY KEY,
		user_id CHAR(36) NOT NULL,
		order_id CHAR(36) NOT NULL,
		pesapal_order_id VARCHAR(100) NOT NULL UNIQUE,
		amount DECIMAL(12,2) NOT NULL,
		status VARCHAR(50) NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (order_id) REFERENCES orders(id)
	);`,
}

// AutoMigrate creates the storefront tables if they do not exist.
func AutoMigrate(retries int, db *sql.DB) error {
	for _, query := range tables {
		_, err := db.Exec(query)
		if err != nil {
			// Retry creating the table
			for i := 0; i < retries; i++ {
				time.Sleep(1 * time.Second)
				_, err = db.Exec(query)
				if err == nil {
					break
				}
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
