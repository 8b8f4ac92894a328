package inventory_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dulceria-api/internal/application/inventory"
	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/pkg/logger"
)

func newRestockUC(products *fakeProductRepo) *inventory.RestockUseCase {
	log := logger.NewWithWriter(logger.Config{Env: "test", Level: "warn"}, &bytes.Buffer{})
	return inventory.NewRestockUseCase(products, log)
}

// Reponer 10 sobre 2 deja 12.
func TestRestock_SumaStock(t *testing.T) {
	p := testProduct()
	p.Quantity = 2
	products := newFakeProductRepo(p)
	uc := newRestockUC(products)

	out, err := uc.Restock(context.Background(), testProdID, 10, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, 12, out.UpdatedQuantity)
	assert.Equal(t, testProdID, out.ProductID)
	assert.Equal(t, 12, products.quantity(t, testProdID))
}

func TestRestock_CantidadInvalida(t *testing.T) {
	products := newFakeProductRepo(testProduct())
	uc := newRestockUC(products)

	for _, qty := range []int{0, -5} {
		_, err := uc.Restock(context.Background(), testProdID, qty, "admin-1")
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "quantity=%d debe rechazarse", qty)
	}
	assert.Equal(t, 5, products.quantity(t, testProdID), "el rechazo no debe mutar stock")
}

func TestRestock_ProductoInexistente(t *testing.T) {
	uc := newRestockUC(newFakeProductRepo())

	_, err := uc.Restock(context.Background(), "no-existe", 10, "admin-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Reposiciones concurrentes se acumulan sin perderse (suma relativa atómica).
func TestRestock_ConcurrenciaAcumula(t *testing.T) {
	p := testProduct()
	p.Quantity = 0
	products := newFakeProductRepo(p)
	uc := newRestockUC(products)

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Restock(context.Background(), testProdID, 3, "admin-1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*3, products.quantity(t, testProdID), "ninguna reposición puede perderse")
}
