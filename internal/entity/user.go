package entity

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"` // bcrypt hash, never serialized
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}

/*
Mysql Table

CREATE TABLE users (
	id CHAR(36) PRIMARY KEY,
	name VARCHAR(100) NOT NULL,
	email VARCHAR(100) NOT NULL,
	password VARCHAR(255) NOT NULL,
	phone VARCHAR(30) NOT NULL DEFAULT '',
	role VARCHAR(20) NOT NULL DEFAULT 'customer'
);

CREATE UNIQUE INDEX email_idx ON users(email);

*/
