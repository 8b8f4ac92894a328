package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dulceria-api/internal/application/auth"
	"github.com/jhoicas/dulceria-api/internal/application/inventory"
	"github.com/jhoicas/dulceria-api/internal/application/receipt"
	"github.com/jhoicas/dulceria-api/internal/application/usecase"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  *usecase.ProductUseCase
	PurchaseUC *inventory.PurchaseUseCase
	RestockUC  *inventory.RestockUseCase
	ReceiptUC  *receipt.UseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo de dulces (protegido; mutaciones solo admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireRole(entity.RoleAdmin), productHandler.Create)
	products.Put("/:id", RequireRole(entity.RoleAdmin), productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	// Núcleo de inventario: compra (cualquier usuario), reposición (solo admin)
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC, deps.RestockUC, deps.ReceiptUC)
	products.Post("/:id/purchase", purchaseHandler.Purchase)
	products.Post("/:id/restock", RequireRole(entity.RoleAdmin), purchaseHandler.Restock)

	// Compras del usuario (protegido)
	purchases := protected.Group("/purchases")
	purchases.Get("/", purchaseHandler.ListMine)
	purchases.Get("/:id/receipt", purchaseHandler.Receipt)
}
