package inventory

import (
	"context"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/internal/domain/repository"
	"github.com/jhoicas/dulceria-api/pkg/logger"
)

// RestockUseCase repone stock de un producto. La autorización de admin se
// verifica en el borde HTTP (RequireRole); este caso de uso confía en esa
// decisión y no la recalcula.
type RestockUseCase struct {
	products repository.ProductRepository
	log      *logger.Logger
}

// NewRestockUseCase construye el caso de uso.
func NewRestockUseCase(products repository.ProductRepository, log *logger.Logger) *RestockUseCase {
	return &RestockUseCase{products: products, log: log}
}

// Restock suma quantity unidades al stock del producto y devuelve la cantidad
// resultante. Paso único con UPDATE relativo atómico: no hay segunda escritura
// que pueda fallar, así que no necesita compensación.
func (uc *RestockUseCase) Restock(ctx context.Context, productID string, quantity int, actorID string) (*dto.RestockResponse, error) {
	if quantity <= 0 || productID == "" {
		return nil, domain.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	newQty, found, err := uc.products.AddQuantity(ctx, productID, quantity)
	if err != nil {
		return nil, storeErr("reponer stock", err)
	}
	if !found {
		return nil, domain.ErrNotFound
	}

	uc.log.Info().
		Str("product_id", productID).
		Str("actor_id", actorID).
		Int("added", quantity).
		Int("updated_quantity", newQty).
		Msg("stock repuesto")

	return &dto.RestockResponse{ProductID: productID, UpdatedQuantity: newQty}, nil
}
