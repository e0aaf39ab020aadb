package services

import (
	"testing"

	"ecommerce_api/internal/models"
	"ecommerce_api/internal/repository/memory"

	"github.com/stretchr/testify/require"
)

func seedCategory(t *testing.T, store *memory.Store, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	require.NoError(t, store.Categories().Create(category))
	return category
}

func seedProduct(t *testing.T, store *memory.Store, categoryID uint, name string, price float64) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Description: name + " description",
		Price:       price,
		CategoryID:  categoryID,
	}
	require.NoError(t, store.Products().Create(product))
	return product
}

// seedCart puts quantity of the product into the user's cart through the
// cart service, the same path requests take.
func seedCart(t *testing.T, store *memory.Store, userID, productID uint, quantity int) {
	t.Helper()
	require.NoError(t, NewCartService(store).AddItem(userID, productID, quantity))
}
