package repository

import (
	"context"

	"github.com/jhoicas/dulceria-api/internal/domain/entity"
)

// ProductRepository puerto de persistencia para productos.
//
// El núcleo de inventario solo depende de tres capacidades estrechas:
// lectura fresca (GetByID), escritura condicional de cantidad (UpdateQuantity)
// y ajuste relativo atómico (AddQuantity). El resto es CRUD de catálogo.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID lectura fresca del producto; (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]entity.Product, int, error)
	// Search búsqueda por nombre normalizado y/o categoría.
	Search(ctx context.Context, nameNorm, category string, limit, offset int) ([]entity.Product, int, error)

	// UpdateQuantity escritura condicional (compare-and-swap): aplica newQty solo
	// si la cantidad almacenada sigue siendo expected. Devuelve false si la fila
	// cambió entre la lectura y la escritura (o no existe).
	UpdateQuantity(ctx context.Context, id string, expected, newQty int) (bool, error)

	// AddQuantity suma delta de forma atómica en la fila y devuelve la cantidad
	// resultante. found=false si el producto no existe.
	AddQuantity(ctx context.Context, id string, delta int) (newQty int, found bool, err error)
}
