package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase registro de una compra exitosa. Se crea exactamente una vez por
// compra y nunca se muta: TotalPrice es una foto del precio al momento de
// comprar, un cambio de precio posterior no altera totales pasados.
type Purchase struct {
	ID         string
	UserID     string
	ProductID  string
	Quantity   int
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
}
