package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is the closed set of categories a product can belong to.
type Category string

const (
	CategoryWine    Category = "Wine"
	CategoryWhiskey Category = "Whiskey"
	CategoryVodka   Category = "Vodka"
	CategoryGin     Category = "Gin"
	CategoryRum     Category = "Rum"
	CategoryTequila Category = "Tequila"
	CategoryOther   Category = "Other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryWine, CategoryWhiskey, CategoryVodka, CategoryGin,
		CategoryRum, CategoryTequila, CategoryOther:
		return true
	}
	return false
}

// Product represents a catalog entry
type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name           string             `bson:"name" json:"name"`
	Description    string             `bson:"description" json:"description"`
	Price          float64            `bson:"price" json:"price"`
	Category       Category           `bson:"category" json:"category"`
	ImageURL       string             `bson:"imageUrl" json:"imageUrl"`
	Stock          int                `bson:"stock" json:"stock"`
	Vintage        string             `bson:"vintage,omitempty" json:"vintage,omitempty"`
	AlcoholContent float64            `bson:"alcoholContent,omitempty" json:"alcoholContent,omitempty"`
	Origin         string             `bson:"origin,omitempty" json:"origin,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// Validate checks the fields required to store a product.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(p.Description) == "" {
		return errors.New("description is required")
	}
	if p.Price < 0 {
		return errors.New("price must be non-negative")
	}
	if !p.Category.Valid() {
		return fmt.Errorf("unknown category %q", p.Category)
	}
	if strings.TrimSpace(p.ImageURL) == "" {
		return errors.New("imageUrl is required")
	}
	if p.Stock < 0 {
		return errors.New("stock must be non-negative")
	}
	return nil
}
