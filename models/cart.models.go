package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem represents one line in the cart: a product reference and a quantity.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"product" json:"product"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Cart is the store's single shopping cart as persisted. Total is derived and
// recomputed from current product prices on every read and mutation; Version
// backs the conditional replace that guards concurrent writers.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Items     []CartItem         `bson:"items" json:"items"`
	Total     float64            `bson:"total" json:"total"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
	Version   int64              `bson:"version" json:"-"`
}

// ResolvedCartItem pairs a line with the current product document it refers to.
type ResolvedCartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// ResolvedCart is the populated view of the cart returned by the API.
type ResolvedCart struct {
	ID        primitive.ObjectID `json:"_id"`
	Items     []ResolvedCartItem `json:"items"`
	Total     float64            `json:"total"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
