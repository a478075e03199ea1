package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-liquorstore/models"
	"go-liquorstore/services"
)

type fakeProducts struct {
	byID map[primitive.ObjectID]models.Product
}

func (f *fakeProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, services.ErrProductNotFound
	}
	cp := p
	return &cp, nil
}

func (f *fakeProducts) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeCarts struct {
	cart *models.Cart
	// failReplaces makes the next n ReplaceIfVersion calls lose the version
	// race, to exercise the retry path.
	failReplaces int
	replaces     int
}

func copyCart(c *models.Cart) *models.Cart {
	cp := *c
	cp.Items = append([]models.CartItem(nil), c.Items...)
	return &cp
}

func (f *fakeCarts) FindSingleton(_ context.Context) (*models.Cart, error) {
	if f.cart == nil {
		return nil, services.ErrCartNotFound
	}
	return copyCart(f.cart), nil
}

func (f *fakeCarts) Insert(_ context.Context, cart *models.Cart) error {
	cart.ID = primitive.NewObjectID()
	cart.Version = 1
	f.cart = copyCart(cart)
	return nil
}

func (f *fakeCarts) ReplaceIfVersion(_ context.Context, cart *models.Cart, expected int64) error {
	f.replaces++
	if f.failReplaces > 0 {
		f.failReplaces--
		return services.ErrConflict
	}
	if f.cart == nil || f.cart.Version != expected {
		return services.ErrConflict
	}
	cart.Version = expected + 1
	f.cart = copyCart(cart)
	return nil
}

func newTestService(products ...models.Product) (*services.CartService, *fakeCarts, *fakeProducts) {
	fp := &fakeProducts{byID: map[primitive.ObjectID]models.Product{}}
	for _, p := range products {
		fp.byID[p.ID] = p
	}
	fc := &fakeCarts{}
	svc := services.NewCartService(fc, fp, zap.NewNop().Sugar())
	return svc, fc, fp
}

func product(name string, price float64, stock int) models.Product {
	return models.Product{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Price:    price,
		Category: models.CategoryWine,
		Stock:    stock,
	}
}

func TestGetCartCreatesEmptyCart(t *testing.T) {
	svc, fc, _ := newTestService()

	cart, err := svc.GetCart(context.Background())
	require.NoError(t, err)

	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.Total)
	require.NotNil(t, fc.cart, "empty cart should have been persisted")
	assert.False(t, cart.ID.IsZero())
}

func TestAddItemMergesIntoExistingLine(t *testing.T) {
	a := product("Rioja", 10.00, 5)
	svc, fc, _ := newTestService(a)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, a.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 20.00, cart.Total)

	cart, err = svc.AddItem(ctx, a.ID, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 30.00, cart.Total)
	require.Len(t, fc.cart.Items, 1)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	a := product("Rioja", 10.00, 5)
	svc, fc, _ := newTestService(a)

	for _, qty := range []int{0, -1} {
		_, err := svc.AddItem(context.Background(), a.ID, qty)
		assert.ErrorIs(t, err, services.ErrInvalidQuantity)
	}
	assert.Nil(t, fc.cart, "rejected add must not create a cart")
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.AddItem(context.Background(), primitive.NewObjectID(), 1)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}

func TestAddItemEnforcesStockOnMergedQuantity(t *testing.T) {
	a := product("Rioja", 10.00, 5)
	svc, _, _ := newTestService(a)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, a.ID, 6)
	assert.ErrorIs(t, err, services.ErrOutOfStock)

	_, err = svc.AddItem(ctx, a.ID, 3)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, a.ID, 3)
	assert.ErrorIs(t, err, services.ErrOutOfStock)

	cart, err := svc.GetCart(ctx)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 30.00, cart.Total)
}

func TestUpdateQuantityReplacesLine(t *testing.T) {
	a := product("Rioja", 10.00, 5)
	svc, _, _ := newTestService(a)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, a.ID, 2)
	require.NoError(t, err)

	cart, err := svc.UpdateQuantity(ctx, a.ID, 4)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.Equal(t, 40.00, cart.Total)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	a := product("Rioja", 10.00, 5)
	b := product("Mezcal", 25.50, 10)
	svc, _, _ := newTestService(a, b)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, a.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, b.ID, 1)
	require.NoError(t, err)

	cart, err := svc.UpdateQuantity(ctx, a.ID, 0)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, b.ID, cart.Items[0].Product.ID)
	assert.Equal(t, 25.50, cart.Total)
}

func TestUpdateQuantityOverStockLeavesCartUnchanged(t *testing.T) {
	a := product("Rioja", 10.00, 5)
	svc, _, _ := newTestService(a)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, a.ID, 3)
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(ctx, a.ID, 6)
	assert.ErrorIs(t, err, services.ErrOutOfStock)

	cart, err := svc.GetCart(ctx)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 30.00, cart.Total)
}

func TestUpdateQuantityMissingLineAndCart(t *testing.T) {
	a := product("Rioja", 10.00, 5)
	svc, _, _ := newTestService(a)
	ctx := context.Background()

	_, err := svc.UpdateQuantity(ctx, a.ID, 1)
	assert.ErrorIs(t, err, services.ErrCartNotFound)

	_, err = svc.AddItem(ctx, a.ID, 1)
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(ctx, primitive.NewObjectID(), 1)
	assert.ErrorIs(t, err, services.ErrItemNotFound)
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	a := product("Rioja", 10.00, 5)
	svc, _, _ := newTestService(a)
	ctx := context.Background()

	_, err := svc.RemoveItem(ctx, a.ID)
	assert.ErrorIs(t, err, services.ErrCartNotFound)

	_, err = svc.AddItem(ctx, a.ID, 2)
	require.NoError(t, err)

	cart, err := svc.RemoveItem(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 20.00, cart.Total)

	cart, err = svc.RemoveItem(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.Total)
}

func TestGetCartRecomputesAfterPriceChange(t *testing.T) {
	a := product("Rioja", 10.00, 5)
	svc, _, fp := newTestService(a)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, a.ID, 2)
	require.NoError(t, err)

	a.Price = 12.50
	fp.byID[a.ID] = a

	cart, err := svc.GetCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25.00, cart.Total)
}

func TestGetCartDropsDeletedProducts(t *testing.T) {
	a := product("Rioja", 10.00, 5)
	b := product("Mezcal", 25.50, 10)
	svc, fc, fp := newTestService(a, b)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, a.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, b.ID, 1)
	require.NoError(t, err)

	delete(fp.byID, b.ID)

	cart, err := svc.GetCart(ctx)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, a.ID, cart.Items[0].Product.ID)
	assert.Equal(t, 20.00, cart.Total)

	// the dangling line is gone from the persisted document too
	require.Len(t, fc.cart.Items, 1)
}

func TestMutationRetriesOnVersionConflict(t *testing.T) {
	a := product("Rioja", 10.00, 5)
	svc, fc, _ := newTestService(a)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, a.ID, 1)
	require.NoError(t, err)

	fc.failReplaces = 2
	cart, err := svc.AddItem(ctx, a.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.GreaterOrEqual(t, fc.replaces, 3)
}

func TestMutationGivesUpAfterRepeatedConflicts(t *testing.T) {
	a := product("Rioja", 10.00, 5)
	svc, fc, _ := newTestService(a)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, a.ID, 1)
	require.NoError(t, err)

	fc.failReplaces = 10
	_, err = svc.AddItem(ctx, a.ID, 1)
	assert.ErrorIs(t, err, services.ErrConflict)
}

// The worked sequence: add 2 -> 20.00, add 1 -> one line qty 3 / 30.00,
// update to 6 -> out of stock / 30.00, remove -> empty / 0.00.
func TestCartLifecycleSequence(t *testing.T) {
	a := product("Rioja", 10.00, 5)
	svc, _, _ := newTestService(a)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, a.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 20.00, cart.Total)

	cart, err = svc.AddItem(ctx, a.ID, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 30.00, cart.Total)

	_, err = svc.UpdateQuantity(ctx, a.ID, 6)
	assert.ErrorIs(t, err, services.ErrOutOfStock)

	cart, err = svc.GetCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30.00, cart.Total)

	cart, err = svc.RemoveItem(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.Total)
}

func TestTotalUsesDecimalArithmetic(t *testing.T) {
	// 3 * 0.1 in float64 is 0.30000000000000004; the engine must store 0.3.
	a := product("Miniature", 0.1, 100)
	svc, fc, _ := newTestService(a)

	cart, err := svc.AddItem(context.Background(), a.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.3, cart.Total)
	assert.Equal(t, 0.3, fc.cart.Total)
}
