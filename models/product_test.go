package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-liquorstore/models"
)

func validProduct() models.Product {
	return models.Product{
		Name:        "Lagavulin 16",
		Description: "Islay single malt",
		Price:       89.99,
		Category:    models.CategoryWhiskey,
		ImageURL:    "https://example.com/lagavulin.jpg",
		Stock:       12,
	}
}

func TestProductValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *models.Product)
		wantErr bool
	}{
		{"valid", func(p *models.Product) {}, false},
		{"zero stock ok", func(p *models.Product) { p.Stock = 0 }, false},
		{"free sample ok", func(p *models.Product) { p.Price = 0 }, false},
		{"missing name", func(p *models.Product) { p.Name = " " }, true},
		{"missing description", func(p *models.Product) { p.Description = "" }, true},
		{"negative price", func(p *models.Product) { p.Price = -1 }, true},
		{"unknown category", func(p *models.Product) { p.Category = "Beer" }, true},
		{"empty category", func(p *models.Product) { p.Category = "" }, true},
		{"missing imageUrl", func(p *models.Product) { p.ImageURL = "" }, true},
		{"negative stock", func(p *models.Product) { p.Stock = -3 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range []models.Category{
		models.CategoryWine, models.CategoryWhiskey, models.CategoryVodka,
		models.CategoryGin, models.CategoryRum, models.CategoryTequila,
		models.CategoryOther,
	} {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, models.Category("Cider").Valid())
	assert.False(t, models.Category("wine").Valid(), "categories are case sensitive")
}
