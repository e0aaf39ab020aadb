package services

import (
	"testing"

	"ecommerce_api/internal/apperrors"
	"ecommerce_api/internal/repository/memory"

	"github.com/stretchr/testify/require"
)

func TestAddItemCreatesThenIncrements(t *testing.T) {
	store := memory.NewStore()
	category := seedCategory(t, store, "Denims")
	product := seedProduct(t, store, category.ID, "Classic Jeans", 20.00)

	svc := NewCartService(store)
	require.NoError(t, svc.AddItem(1, product.ID, 2))
	require.NoError(t, svc.AddItem(1, product.ID, 3))

	view, err := svc.GetCart(1)
	require.NoError(t, err)
	require.Len(t, view.Items, 1, "same product must increment, not duplicate")
	require.Equal(t, 5, view.Items[0].Quantity)
	require.Equal(t, 100.00, view.Items[0].Subtotal)
}

func TestAddItemValidation(t *testing.T) {
	store := memory.NewStore()
	category := seedCategory(t, store, "Tops")
	product := seedProduct(t, store, category.ID, "Basic Tee", 19.99)

	svc := NewCartService(store)

	for _, quantity := range []int{0, -1} {
		err := svc.AddItem(1, product.ID, quantity)
		require.Error(t, err)
		require.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
	}

	err := svc.AddItem(1, 9999, 1)
	require.Error(t, err)
	require.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	view, err := svc.GetCart(1)
	require.NoError(t, err)
	require.Empty(t, view.Items, "rejected adds must not create cart items")
}

func TestUpdateItemQuantity(t *testing.T) {
	store := memory.NewStore()
	category := seedCategory(t, store, "Shoes")
	product := seedProduct(t, store, category.ID, "White Sneakers", 89.99)

	svc := NewCartService(store)
	require.NoError(t, svc.AddItem(1, product.ID, 1))

	view, err := svc.GetCart(1)
	require.NoError(t, err)
	itemID := view.Items[0].ItemID

	item, err := svc.UpdateItem(1, itemID, 4)
	require.NoError(t, err)
	require.Equal(t, 4, item.Quantity)

	_, err = svc.UpdateItem(1, itemID, 0)
	require.Error(t, err)
	require.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))

	_, err = svc.UpdateItem(1, 9999, 2)
	require.Error(t, err)
	require.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestCartOwnershipIsEnforced(t *testing.T) {
	store := memory.NewStore()
	category := seedCategory(t, store, "Dresses")
	product := seedProduct(t, store, category.ID, "Floral Dress", 79.99)

	svc := NewCartService(store)
	require.NoError(t, svc.AddItem(1, product.ID, 2))
	require.NoError(t, svc.AddItem(2, product.ID, 1))

	ownerView, err := svc.GetCart(1)
	require.NoError(t, err)
	itemID := ownerView.Items[0].ItemID

	// Another user cannot touch items in someone else's cart.
	_, err = svc.UpdateItem(2, itemID, 9)
	require.Error(t, err)
	require.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	err = svc.RemoveItem(2, itemID)
	require.Error(t, err)
	require.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	ownerView, err = svc.GetCart(1)
	require.NoError(t, err)
	require.Equal(t, 2, ownerView.Items[0].Quantity, "foreign requests must not mutate the cart")
}

func TestRemoveItem(t *testing.T) {
	store := memory.NewStore()
	category := seedCategory(t, store, "Bottoms")
	product := seedProduct(t, store, category.ID, "Pleated Skirt", 44.99)

	svc := NewCartService(store)
	require.NoError(t, svc.AddItem(1, product.ID, 1))

	view, err := svc.GetCart(1)
	require.NoError(t, err)
	itemID := view.Items[0].ItemID

	require.NoError(t, svc.RemoveItem(1, itemID))

	err = svc.RemoveItem(1, itemID)
	require.Error(t, err)
	require.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	view, err = svc.GetCart(1)
	require.NoError(t, err)
	require.Empty(t, view.Items)
}

func TestGetCartWithoutCartIsEmptyNotError(t *testing.T) {
	store := memory.NewStore()
	svc := NewCartService(store)

	view, err := svc.GetCart(42)
	require.NoError(t, err)
	require.Zero(t, view.CartID)
	require.Zero(t, view.TotalPrice)
	require.Empty(t, view.Items)
}

func TestGetCartTotalsAcrossProducts(t *testing.T) {
	store := memory.NewStore()
	category := seedCategory(t, store, "Denims")
	productA := seedProduct(t, store, category.ID, "Classic Jeans", 10.00)
	productB := seedProduct(t, store, category.ID, "Mom Jeans", 5.00)

	svc := NewCartService(store)
	require.NoError(t, svc.AddItem(1, productA.ID, 2))
	require.NoError(t, svc.AddItem(1, productB.ID, 1))

	view, err := svc.GetCart(1)
	require.NoError(t, err)
	require.Equal(t, 25.00, view.TotalPrice)
	require.Len(t, view.Items, 2)
	require.Equal(t, "Classic Jeans", view.Items[0].Name, "items carry joined product data")
}
