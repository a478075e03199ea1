package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-liquorstore/models"
)

// Typed failures surfaced to the HTTP layer.
var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrProductNotFound = errors.New("product not found")
	ErrItemNotFound    = errors.New("item not found in cart")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrOutOfStock      = errors.New("requested quantity exceeds available stock")
	ErrConflict        = errors.New("cart was modified concurrently")
)

// ProductStore is the subset of product persistence the cart engine needs.
type ProductStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
}

// CartStore persists the singleton cart aggregate. ReplaceIfVersion must fail
// with ErrConflict when the stored version no longer matches expected.
type CartStore interface {
	FindSingleton(ctx context.Context) (*models.Cart, error)
	Insert(ctx context.Context, cart *models.Cart) error
	ReplaceIfVersion(ctx context.Context, cart *models.Cart, expected int64) error
}

// mutationRetries bounds how often a cart mutation is re-applied after losing
// a version race to a concurrent writer.
const mutationRetries = 3

// CartService owns the shopping cart invariants: at most one line per product,
// quantity >= 1 on every retained line, and a total that is always re-derived
// from current product prices rather than patched incrementally. Prices are
// not snapshotted at add time, so the full recompute on every read and
// mutation is the only defense against drift when an admin edits a price.
type CartService struct {
	carts    CartStore
	products ProductStore
	log      *zap.SugaredLogger
}

// NewCartService creates a new CartService.
func NewCartService(carts CartStore, products ProductStore, log *zap.SugaredLogger) *CartService {
	return &CartService{carts: carts, products: products, log: log}
}

// GetCart returns the cart with every line resolved to its current product.
// If no cart exists yet an empty one is created and persisted. The total is
// recomputed before returning, and lines whose product has been deleted are
// dropped entirely.
func (s *CartService) GetCart(ctx context.Context) (*models.ResolvedCart, error) {
	return s.mutate(ctx, true, func(ctx context.Context, cart *models.Cart) error {
		return nil
	})
}

// AddItem puts quantity units of a product into the cart. Adding a product
// already in the cart merges into the existing line. The merged quantity is
// checked against current stock, the same limit UpdateQuantity enforces.
func (s *CartService) AddItem(ctx context.Context, productID primitive.ObjectID, quantity int) (*models.ResolvedCart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	return s.mutate(ctx, true, func(ctx context.Context, cart *models.Cart) error {
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return err
		}
		merged := quantity
		for _, item := range cart.Items {
			if item.ProductID == productID {
				merged += item.Quantity
				break
			}
		}
		if merged > product.Stock {
			return fmt.Errorf("%w: %d requested, %d available", ErrOutOfStock, merged, product.Stock)
		}
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items[i].Quantity = merged
				return nil
			}
		}
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: quantity})
		return nil
	})
}

// UpdateQuantity replaces the quantity on an existing line. A quantity of
// zero or less removes the line instead of failing. Raising the quantity
// above the product's current stock fails with ErrOutOfStock and leaves the
// cart untouched.
func (s *CartService) UpdateQuantity(ctx context.Context, productID primitive.ObjectID, quantity int) (*models.ResolvedCart, error) {
	return s.mutate(ctx, false, func(ctx context.Context, cart *models.Cart) error {
		idx := -1
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return ErrItemNotFound
		}
		if quantity <= 0 {
			cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
			return nil
		}
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if quantity > product.Stock {
			return fmt.Errorf("%w: %d requested, %d available", ErrOutOfStock, quantity, product.Stock)
		}
		cart.Items[idx].Quantity = quantity
		return nil
	})
}

// RemoveItem drops the line for a product. Removing a product that is not in
// the cart succeeds without changing anything; only a missing cart is an
// error.
func (s *CartService) RemoveItem(ctx context.Context, productID primitive.ObjectID) (*models.ResolvedCart, error) {
	return s.mutate(ctx, false, func(ctx context.Context, cart *models.Cart) error {
		kept := cart.Items[:0]
		for _, item := range cart.Items {
			if item.ProductID != productID {
				kept = append(kept, item)
			}
		}
		cart.Items = kept
		return nil
	})
}

// mutate is the single read-modify-write path shared by every operation: load
// (or lazily create) the cart, apply fn, recompute the total from current
// product documents, and persist behind a version check. Losing the version
// race means a concurrent writer got there first; the whole cycle is re-run
// against the fresh document.
func (s *CartService) mutate(ctx context.Context, lazyCreate bool, fn func(ctx context.Context, cart *models.Cart) error) (*models.ResolvedCart, error) {
	var lastErr error
	for attempt := 0; attempt < mutationRetries; attempt++ {
		cart, err := s.carts.FindSingleton(ctx)
		if errors.Is(err, ErrCartNotFound) {
			if !lazyCreate {
				return nil, ErrCartNotFound
			}
			cart = &models.Cart{Items: []models.CartItem{}, UpdatedAt: time.Now().UTC()}
			if err := s.carts.Insert(ctx, cart); err != nil {
				return nil, fmt.Errorf("creating cart: %w", err)
			}
			s.log.Infow("created empty cart", "cartId", cart.ID.Hex())
		} else if err != nil {
			return nil, fmt.Errorf("loading cart: %w", err)
		}

		if err := fn(ctx, cart); err != nil {
			return nil, err
		}

		cart.UpdatedAt = time.Now().UTC()
		resolved, err := s.recompute(ctx, cart)
		if err != nil {
			return nil, err
		}

		if err := s.carts.ReplaceIfVersion(ctx, cart, cart.Version); err != nil {
			if errors.Is(err, ErrConflict) {
				lastErr = err
				s.log.Warnw("cart version conflict, retrying", "attempt", attempt+1)
				continue
			}
			return nil, fmt.Errorf("saving cart: %w", err)
		}
		return resolved, nil
	}
	return nil, lastErr
}

// recompute resolves every line against the product collection, drops lines
// whose product no longer exists, and re-derives the total as the sum of
// quantity times current price. All money arithmetic runs through decimal and
// is rounded to cents so float error cannot accumulate into the stored total.
func (s *CartService) recompute(ctx context.Context, cart *models.Cart) (*models.ResolvedCart, error) {
	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolving cart items: %w", err)
	}
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	kept := cart.Items[:0]
	resolvedItems := make([]models.ResolvedCartItem, 0, len(cart.Items))
	total := decimal.Zero
	for _, item := range cart.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			s.log.Infow("dropping cart line for deleted product", "productId", item.ProductID.Hex())
			continue
		}
		kept = append(kept, item)
		resolvedItems = append(resolvedItems, models.ResolvedCartItem{
			Product:  product,
			Quantity: item.Quantity,
		})
		line := decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	cart.Items = kept
	cart.Total = total.Round(2).InexactFloat64()

	return &models.ResolvedCart{
		ID:        cart.ID,
		Items:     resolvedItems,
		Total:     cart.Total,
		UpdatedAt: cart.UpdatedAt,
	}, nil
}
