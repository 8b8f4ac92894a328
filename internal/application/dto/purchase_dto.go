package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseRequest entrada para comprar un dulce. El product_id viene en la ruta.
type PurchaseRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// PurchaseRecordResponse registro de compra serializado.
type PurchaseRecordResponse struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	ProductID  string          `json:"product_id"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PurchaseResponse salida de una compra exitosa: el registro más el stock
// restante tras el decremento.
type PurchaseResponse struct {
	Purchase       PurchaseRecordResponse `json:"purchase"`
	RemainingStock int                    `json:"remaining_stock"`
}

// RestockRequest entrada para reponer stock (solo admin).
type RestockRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// RestockResponse salida de una reposición.
type RestockResponse struct {
	ProductID       string `json:"product_id"`
	UpdatedQuantity int    `json:"updated_quantity"`
}

// PurchaseListResponse historial de compras del usuario.
type PurchaseListResponse struct {
	Items []PurchaseRecordResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}
