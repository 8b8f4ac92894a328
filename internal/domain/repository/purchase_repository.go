package repository

import (
	"context"

	"github.com/jhoicas/dulceria-api/internal/domain/entity"
)

// PurchaseRepository puerto de persistencia para registros de compra.
// Solo inserción y lectura: el núcleo nunca muta ni borra compras.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	// GetByID (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Purchase, int, error)
}
