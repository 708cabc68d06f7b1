package entity

import "github.com/shopspring/decimal"

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

/*
Mysql Table

CREATE TABLE products (
	id CHAR(36) PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	description TEXT NOT NULL,
	category VARCHAR(100) NOT NULL,
	image VARCHAR(255) NOT NULL,
	price DECIMAL(12,2) NOT NULL,
	stock INT NOT NULL
);

*/
