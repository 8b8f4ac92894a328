package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/domain/repository"
	"github.com/jhoicas/dulceria-api/pkg/logger"
)

const (
	// Intentos del ciclo leer-validar-escribir cuando la escritura condicional
	// pierde contra una compra concurrente y hay que releer la cantidad.
	casAttempts = 3
	// Tope para el round-trip con el store; al vencer se responde
	// ErrTransactionFailed en vez de colgar la petición.
	storeTimeout = 5 * time.Second
)

// PurchaseUseCase ejecuta la transacción de compra: decremento condicional de
// stock más inserción del registro de compra, con compensación best-effort si
// la inserción falla después del decremento.
type PurchaseUseCase struct {
	products  repository.ProductRepository
	purchases repository.PurchaseRepository
	log       *logger.Logger
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(
	products repository.ProductRepository,
	purchases repository.PurchaseRepository,
	log *logger.Logger,
) *PurchaseUseCase {
	return &PurchaseUseCase{products: products, purchases: purchases, log: log}
}

// Purchase compra quantity unidades del producto para el actor dado.
//
// Orden de validación (la primera falla gana, sin efectos secundarios):
//  1. quantity > 0 y productID no vacío, si no ErrInvalidInput.
//  2. El producto existe, si no ErrNotFound.
//  3. Stock suficiente, si no InsufficientStockError con la cantidad disponible.
//
// La escritura es condicional: "aplica solo si la cantidad sigue siendo la que
// leí". Si otra compra ganó la carrera, se relee y revalida (hasta casAttempts);
// así dos compras concurrentes sobre el mismo producto jamás sobregiran stock.
func (uc *PurchaseUseCase) Purchase(ctx context.Context, productID string, quantity int, actorID string) (*dto.PurchaseResponse, error) {
	if quantity <= 0 || productID == "" || actorID == "" {
		return nil, domain.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	for attempt := 0; attempt < casAttempts; attempt++ {
		// Lectura fresca: nunca se decide sobre una cantidad cacheada.
		product, err := uc.products.GetByID(ctx, productID)
		if err != nil {
			return nil, storeErr("leer producto", err)
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.Quantity < quantity {
			return nil, &domain.InsufficientStockError{
				ProductID: productID,
				Requested: quantity,
				Available: product.Quantity,
			}
		}

		// Foto del precio al momento de la compra.
		totalPrice := product.Price.Mul(decimal.NewFromInt(int64(quantity)))

		ok, err := uc.products.UpdateQuantity(ctx, productID, product.Quantity, product.Quantity-quantity)
		if err != nil {
			return nil, storeErr("decrementar stock", err)
		}
		if !ok {
			// Otra transacción movió la cantidad entre la lectura y la
			// escritura: releer y revalidar contra el valor actual.
			continue
		}

		purchase := &entity.Purchase{
			ID:         uuid.New().String(),
			UserID:     actorID,
			ProductID:  productID,
			Quantity:   quantity,
			TotalPrice: totalPrice,
			CreatedAt:  time.Now(),
		}
		if err := uc.purchases.Create(ctx, purchase); err != nil {
			uc.compensate(ctx, purchase, product.Quantity)
			return nil, fmt.Errorf("insertar registro de compra: %v: %w", err, domain.ErrTransactionFailed)
		}

		return &dto.PurchaseResponse{
			Purchase:       toPurchaseRecordResponse(purchase),
			RemainingStock: product.Quantity - quantity,
		}, nil
	}

	// Contención sostenida: se agotaron los reintentos del ciclo condicional.
	return nil, fmt.Errorf("contención sobre producto %s: %w", productID, domain.ErrTransactionFailed)
}

// compensate devuelve al stock las unidades decrementadas cuando la inserción
// del registro falló. Es best-effort: si la compensación también falla queda
// stock decrementado sin compra registrada, y eso se registra como evento
// crítico de consistencia para reconciliación manual, nunca se silencia.
func (uc *PurchaseUseCase) compensate(ctx context.Context, p *entity.Purchase, originalQty int) {
	// Suma atómica relativa: no pisa compras concurrentes que ya hayan
	// movido la fila después de nuestro decremento.
	newQty, found, err := uc.products.AddQuantity(ctx, p.ProductID, p.Quantity)
	if err != nil || !found {
		uc.log.Error().
			Str("event", "stock_inconsistency").
			Bool("correctness_critical", true).
			Str("purchase_id", p.ID).
			Str("product_id", p.ProductID).
			Int("quantity_lost", p.Quantity).
			Int("expected_quantity", originalQty).
			Err(err).
			Msg("compensación fallida: stock decrementado sin registro de compra, requiere reconciliación manual")
		return
	}
	uc.log.Warn().
		Str("purchase_id", p.ID).
		Str("product_id", p.ProductID).
		Int("restored_quantity", newQty).
		Msg("compra revertida: registro de compra falló, stock restaurado")
}

// storeErr clasifica errores del store: un deadline vencido se reporta como
// transacción fallida (contrato del núcleo), el resto se propaga envuelto.
func storeErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: timeout con el store: %w", op, domain.ErrTransactionFailed)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func toPurchaseRecordResponse(p *entity.Purchase) dto.PurchaseRecordResponse {
	return dto.PurchaseRecordResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		ProductID:  p.ProductID,
		Quantity:   p.Quantity,
		TotalPrice: p.TotalPrice,
		CreatedAt:  p.CreatedAt,
	}
}

// ListByUser historial de compras del usuario autenticado.
func (uc *PurchaseUseCase) ListByUser(ctx context.Context, userID string, page dto.PageRequest) (*dto.PurchaseListResponse, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	purchases, total, err := uc.purchases.ListByUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar compras: %w", err)
	}
	items := make([]dto.PurchaseRecordResponse, 0, len(purchases))
	for i := range purchases {
		items = append(items, toPurchaseRecordResponse(&purchases[i]))
	}
	return &dto.PurchaseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}
