package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un dulce del catálogo.
// Quantity es el único campo que muta el núcleo de inventario (compra/reposición);
// nunca puede quedar por debajo de cero.
type Product struct {
	ID          string
	Name        string
	NameSearch  string // nombre normalizado (minúsculas, sin tildes) para búsqueda
	Category    string
	Description string
	Price       decimal.Decimal // precio de venta, 2 decimales
	Quantity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
