package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dulceria-api/internal/application/inventory"
	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	apphttp "github.com/jhoicas/dulceria-api/internal/interfaces/http"
	"github.com/jhoicas/dulceria-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes mínimos del store para probar el borde HTTP de compra/reposición
// ──────────────────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
}

func newStubProductRepo(products ...*entity.Product) *stubProductRepo {
	m := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		cp := *p
		m[p.ID] = &cp
	}
	return &stubProductRepo{products: m}
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *stubProductRepo) UpdateQuantity(_ context.Context, id string, expected, newQty int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || p.Quantity != expected || newQty < 0 {
		return false, nil
	}
	p.Quantity = newQty
	return true, nil
}

func (s *stubProductRepo) AddQuantity(_ context.Context, id string, delta int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return 0, false, nil
	}
	p.Quantity += delta
	return p.Quantity, true, nil
}

func (s *stubProductRepo) Create(_ context.Context, p *entity.Product) error { return nil }
func (s *stubProductRepo) Update(_ context.Context, p *entity.Product) error { return nil }
func (s *stubProductRepo) Delete(_ context.Context, id string) error         { return domain.ErrNotFound }

func (s *stubProductRepo) List(_ context.Context, _, _ int) ([]entity.Product, int, error) {
	return nil, 0, nil
}

func (s *stubProductRepo) Search(_ context.Context, _, _ string, _, _ int) ([]entity.Product, int, error) {
	return nil, 0, nil
}

func (s *stubProductRepo) quantity(t *testing.T, id string) int {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	require.True(t, ok)
	return p.Quantity
}

type stubPurchaseRepo struct {
	mu        sync.Mutex
	purchases []entity.Purchase
}

func (s *stubPurchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchases = append(s.purchases, *p)
	return nil
}

func (s *stubPurchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.purchases {
		if s.purchases[i].ID == id {
			cp := s.purchases[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubPurchaseRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]entity.Purchase, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Purchase
	for _, p := range s.purchases {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

// buildInventoryApp arma la app Fiber con las rutas reales de compra y
// reposición sobre repos fake, igual que las registra el Router.
func buildInventoryApp(products *stubProductRepo) (*fiber.App, *stubPurchaseRepo) {
	log := logger.NewWithWriter(logger.Config{Env: "test", Level: "warn"}, &bytes.Buffer{})
	purchases := &stubPurchaseRepo{}
	purchaseUC := inventory.NewPurchaseUseCase(products, purchases, log)
	restockUC := inventory.NewRestockUseCase(products, log)
	handler := apphttp.NewPurchaseHandler(purchaseUC, restockUC, nil)

	app := fiber.New()
	protected := app.Group("/api", apphttp.AuthMiddleware(testJWTSecret))
	protected.Post("/products/:id/purchase", handler.Purchase)
	protected.Post("/products/:id/restock", apphttp.RequireRole(entity.RoleAdmin), handler.Restock)
	protected.Get("/purchases", handler.ListMine)
	return app, purchases
}

func sweetProduct(qty int) *entity.Product {
	now := time.Now()
	return &entity.Product{
		ID:         "p1",
		Name:       "Alfajor de maicena",
		NameSearch: "alfajor de maicena",
		Category:   "alfajores",
		Price:      decimal.RequireFromString("2.99"),
		Quantity:   qty,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func postJSON(t *testing.T, app *fiber.App, path, token, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests del contrato HTTP de compra
// ──────────────────────────────────────────────────────────────────────────────

// Compra feliz: 200 con el registro y el stock restante.
func TestPurchaseHTTP_Exitosa(t *testing.T) {
	products := newStubProductRepo(sweetProduct(5))
	app, purchases := buildInventoryApp(products)

	resp := postJSON(t, app, "/api/products/p1/purchase", tokenForRole(t, "cliente"), `{"quantity":3}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Purchase struct {
			ID         string          `json:"id"`
			UserID     string          `json:"user_id"`
			TotalPrice decimal.Decimal `json:"total_price"`
		} `json:"purchase"`
		RemainingStock int `json:"remaining_stock"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.RemainingStock)
	assert.Equal(t, testUserID, body.Purchase.UserID)
	assert.True(t, body.Purchase.TotalPrice.Equal(decimal.RequireFromString("8.97")),
		"total 2.99*3, fue %s", body.Purchase.TotalPrice)
	assert.NotEmpty(t, body.Purchase.ID)

	assert.Equal(t, 2, products.quantity(t, "p1"))
	assert.Len(t, purchases.purchases, 1)
}

// Stock insuficiente: 400 con INSUFFICIENT_STOCK y la cantidad disponible.
func TestPurchaseHTTP_StockInsuficiente(t *testing.T) {
	products := newStubProductRepo(sweetProduct(2))
	app, _ := buildInventoryApp(products)

	resp := postJSON(t, app, "/api/products/p1/purchase", tokenForRole(t, "cliente"), `{"quantity":5}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Code      string `json:"code"`
		Available *int   `json:"available"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	require.NotNil(t, body.Available, "la respuesta debe incluir la cantidad disponible")
	assert.Equal(t, 2, *body.Available)

	assert.Equal(t, 2, products.quantity(t, "p1"), "el rechazo no muta stock")
}

func TestPurchaseHTTP_CantidadInvalida(t *testing.T) {
	products := newStubProductRepo(sweetProduct(5))
	app, _ := buildInventoryApp(products)

	resp := postJSON(t, app, "/api/products/p1/purchase", tokenForRole(t, "cliente"), `{"quantity":0}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 5, products.quantity(t, "p1"))
}

func TestPurchaseHTTP_ProductoInexistente(t *testing.T) {
	app, _ := buildInventoryApp(newStubProductRepo())

	resp := postJSON(t, app, "/api/products/nope/purchase", tokenForRole(t, "cliente"), `{"quantity":1}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPurchaseHTTP_SinToken_Retorna401(t *testing.T) {
	products := newStubProductRepo(sweetProduct(5))
	app, _ := buildInventoryApp(products)

	resp := postJSON(t, app, "/api/products/p1/purchase", "", `{"quantity":1}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 5, products.quantity(t, "p1"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests del contrato HTTP de reposición
// ──────────────────────────────────────────────────────────────────────────────

// Admin repone 10 sobre 2 → 200 con updated_quantity 12.
func TestRestockHTTP_AdminRepone(t *testing.T) {
	products := newStubProductRepo(sweetProduct(2))
	app, _ := buildInventoryApp(products)

	resp := postJSON(t, app, "/api/products/p1/restock", tokenForRole(t, "admin"), `{"quantity":10}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		UpdatedQuantity int `json:"updated_quantity"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 12, body.UpdatedQuantity)
	assert.Equal(t, 12, products.quantity(t, "p1"))
}

// Un cliente no puede reponer: 403 y el stock queda intacto.
func TestRestockHTTP_ClienteBloqueado(t *testing.T) {
	products := newStubProductRepo(sweetProduct(2))
	app, _ := buildInventoryApp(products)

	resp := postJSON(t, app, "/api/products/p1/restock", tokenForRole(t, "cliente"), `{"quantity":10}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 2, products.quantity(t, "p1"), "el 403 no debe tocar el stock")
}

func TestRestockHTTP_ProductoInexistente(t *testing.T) {
	app, _ := buildInventoryApp(newStubProductRepo())

	resp := postJSON(t, app, "/api/products/nope/restock", tokenForRole(t, "admin"), `{"quantity":10}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
