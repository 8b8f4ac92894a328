package receipt

import (
	"context"
	"fmt"

	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/domain/repository"
)

// PDFGenerator puerto para el renderizador de recibos. Lo implementa
// infrastructure/pdf con Maroto; la interfaz evita acoplar el caso de uso a la
// librería de PDF.
type PDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, purchase *entity.Purchase, product *entity.Product, user *entity.User) ([]byte, error)
}

// UseCase genera el recibo PDF de una compra.
type UseCase struct {
	purchases repository.PurchaseRepository
	products  repository.ProductRepository
	users     repository.UserRepository
	generator PDFGenerator
}

// NewUseCase construye el caso de uso de recibos.
func NewUseCase(
	purchases repository.PurchaseRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	generator PDFGenerator,
) *UseCase {
	return &UseCase{purchases: purchases, products: products, users: users, generator: generator}
}

// GenerateForPurchase arma y renderiza el recibo de la compra indicada.
// Solo el dueño de la compra o un admin pueden pedirlo.
func (uc *UseCase) GenerateForPurchase(ctx context.Context, purchaseID, actorID, actorRole string) ([]byte, error) {
	purchase, err := uc.purchases.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("leer compra: %w", err)
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	if purchase.UserID != actorID && actorRole != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	product, err := uc.products.GetByID(ctx, purchase.ProductID)
	if err != nil {
		return nil, fmt.Errorf("leer producto: %w", err)
	}
	user, err := uc.users.GetByID(ctx, purchase.UserID)
	if err != nil {
		return nil, fmt.Errorf("leer usuario: %w", err)
	}
	pdf, err := uc.generator.GenerateReceiptPDF(ctx, purchase, product, user)
	if err != nil {
		return nil, fmt.Errorf("generar recibo PDF: %w", err)
	}
	return pdf, nil
}
