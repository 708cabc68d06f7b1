package entity

// CartItem is one row of a user's cart. The cart itself is just the set of
// rows owned by a user id.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ResolvedCartItem is a cart row with its product loaded, the shape checkout
// and the cart listing endpoint work with.
type ResolvedCartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

/*
Mysql Table

CREATE TABLE cart_items (
	id INT AUTO_INCREMENT PRIMARY KEY,
	user_id CHAR(36) NOT NULL,
	product_id CHAR(36) NOT NULL,
	quantity INT NOT NULL,
	UNIQUE KEY user_product (user_id, product_id)
);

*/
