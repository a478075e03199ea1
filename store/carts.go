package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-liquorstore/models"
	"go-liquorstore/services"
)

// Carts persists the singleton cart aggregate. The collection is expected to
// hold at most one document; lookups take whichever document exists rather
// than keying by user.
type Carts struct {
	coll *mongo.Collection
}

// NewCarts creates a new Carts store.
func NewCarts(db *mongo.Database) *Carts {
	return &Carts{coll: db.Collection("carts")}
}

// FindSingleton returns the cart document, or ErrCartNotFound when none has
// been created yet.
func (s *Carts) FindSingleton(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	err := s.coll.FindOne(ctx, bson.M{}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding cart: %w", err)
	}
	return &cart, nil
}

// Insert persists a new cart at version 1 and fills in its generated id.
func (s *Carts) Insert(ctx context.Context, cart *models.Cart) error {
	cart.Version = 1
	result, err := s.coll.InsertOne(ctx, cart)
	if err != nil {
		return fmt.Errorf("inserting cart: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		cart.ID = id
	}
	return nil
}

// ReplaceIfVersion writes the cart conditionally on the stored version still
// matching expected, bumping the version in the same write. A non-matching
// version means a concurrent writer won the race and the caller must re-read.
func (s *Carts) ReplaceIfVersion(ctx context.Context, cart *models.Cart, expected int64) error {
	cart.Version = expected + 1
	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": cart.ID, "version": expected}, cart)
	if err != nil {
		cart.Version = expected
		return fmt.Errorf("replacing cart: %w", err)
	}
	if result.MatchedCount == 0 {
		cart.Version = expected
		return services.ErrConflict
	}
	return nil
}
