package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-liquorstore/models"
	"go-liquorstore/services"
)

// CartEngine is the cart service contract the controller depends on.
// Implemented by *services.CartService.
type CartEngine interface {
	GetCart(ctx context.Context) (*models.ResolvedCart, error)
	AddItem(ctx context.Context, productID primitive.ObjectID, quantity int) (*models.ResolvedCart, error)
	UpdateQuantity(ctx context.Context, productID primitive.ObjectID, quantity int) (*models.ResolvedCart, error)
	RemoveItem(ctx context.Context, productID primitive.ObjectID) (*models.ResolvedCart, error)
}

// CartController handles cart-related requests
type CartController struct {
	Engine CartEngine
	Log    *zap.SugaredLogger
}

// NewCartController creates a new CartController
func NewCartController(engine CartEngine, log *zap.SugaredLogger) *CartController {
	return &CartController{Engine: engine, Log: log}
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity"`
}

// GetCart retrieves the cart with resolved products and a fresh total
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cart, err := cc.Engine.GetCart(ctx)
	if err != nil {
		cc.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// AddToCart adds a product to the cart
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cart, err := cc.Engine.AddItem(ctx, productID, req.Quantity)
	if err != nil {
		cc.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// UpdateCartItem replaces the quantity on a cart line
func (cc *CartController) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	productID, err := primitive.ObjectIDFromHex(params["productId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cart, err := cc.Engine.UpdateQuantity(ctx, productID, *req.Quantity)
	if err != nil {
		cc.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// RemoveFromCart removes a product from the cart
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	productID, err := primitive.ObjectIDFromHex(params["productId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cart, err := cc.Engine.RemoveItem(ctx, productID)
	if err != nil {
		cc.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// writeEngineError maps engine failures onto HTTP statuses: NotFound -> 404,
// InvalidArgument and OutOfStock -> 400, anything else -> 500.
func (cc *CartController) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCartNotFound):
		writeError(w, http.StatusNotFound, "Cart not found")
	case errors.Is(err, services.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, services.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "Item not found in cart")
	case errors.Is(err, services.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, "Quantity must be a positive integer")
	case errors.Is(err, services.ErrOutOfStock):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		cc.Log.Errorw("cart operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
