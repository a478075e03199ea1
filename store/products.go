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

// Products reads product documents for the cart engine.
type Products struct {
	coll *mongo.Collection
}

// NewProducts creates a new Products store.
func NewProducts(db *mongo.Database) *Products {
	return &Products{coll: db.Collection("products")}
}

// FindByID resolves a single product, failing with ErrProductNotFound when no
// document matches.
func (s *Products) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding product %s: %w", id.Hex(), err)
	}
	return &product, nil
}

// FindByIDs resolves a batch of products in one query. Missing ids are simply
// absent from the result; the caller decides what a dangling reference means.
func (s *Products) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("finding products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("reading products: %w", err)
	}
	return products, nil
}
