// Package pdf implementa la generación del recibo de compra en PDF.
//
// Layout de la página A5:
//
//	┌─────────────────────────────────────────────┐
//	│  HEADER: Dulcería + N° Recibo + Fecha       │
//	│  ─────────────────────────────────────────  │
//	│  COMPRADOR: nombre + email                  │
//	│  ─────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Total    │
//	│  ─────────────────────────────────────────  │
//	│  TOTAL PAGADO                               │
//	└─────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/dulceria-api/internal/application/receipt"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 140, Green: 40, Blue: 90}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ receipt.PDFGenerator = (*MarotoReceiptGenerator)(nil)

// MarotoReceiptGenerator implementa receipt.PDFGenerator usando Maroto v2.
type MarotoReceiptGenerator struct {
	ShopName string
}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator(shopName string) *MarotoReceiptGenerator {
	if shopName == "" {
		shopName = "Dulcería"
	}
	return &MarotoReceiptGenerator{ShopName: shopName}
}

// GenerateReceiptPDF genera el PDF del recibo y devuelve sus bytes.
// product y user pueden venir nil (p. ej. producto borrado del catálogo
// después de la compra); en ese caso se imprimen los IDs.
func (g *MarotoReceiptGenerator) GenerateReceiptPDF(
	_ context.Context,
	purchase *entity.Purchase,
	product *entity.Product,
	user *entity.User,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo de compra", true).
		WithAuthor(g.ShopName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(purchase))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(buyerRow(purchase, user))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(tableHeaderRow())
	m.AddRows(detailRow(purchase, product))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(purchase))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la tienda (izq) y N° de recibo + fecha (der).
func (g *MarotoReceiptGenerator) headerRow(purchase *entity.Purchase) core.Row {
	fecha := purchase.CreatedAt.Format("02/01/2006 15:04")
	return row.New(16).Add(
		col.New(6).Add(
			text.New(g.ShopName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(6).Add(
			text.New("RECIBO DE COMPRA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(purchase.ID, props.Text{
				Size: 7, Align: align.Right, Top: 7, Color: colorGray,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

// buyerRow: datos del comprador.
func buyerRow(purchase *entity.Purchase, user *entity.User) core.Row {
	name := purchase.UserID
	email := "—"
	if user != nil {
		name = user.Name
		email = user.Email
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("COMPRADOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Email: %s", name, email),
				props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de la línea de compra.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Producto", 5, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

// detailRow: la línea de compra. El precio unitario sale del total (foto del
// precio al comprar), no del precio actual del catálogo.
func detailRow(purchase *entity.Purchase, product *entity.Product) core.Row {
	name := purchase.ProductID
	if product != nil {
		name = product.Name
	}
	unit := purchase.TotalPrice.Div(decimal.NewFromInt(int64(purchase.Quantity))).Round(2)
	return row.New(7).Add(
		col.New(2).Add(text.New(
			fmt.Sprintf("%d", purchase.Quantity),
			props.Text{Size: 8, Align: align.Center, Top: 1},
		)),
		col.New(5).Add(text.New(name, props.Text{Size: 8, Top: 1})),
		col.New(2).Add(text.New(
			"$"+unit.StringFixed(2),
			props.Text{Size: 8, Align: align.Right, Top: 1},
		)),
		col.New(3).Add(text.New(
			"$"+purchase.TotalPrice.StringFixed(2),
			props.Text{Size: 8, Align: align.Right, Top: 1},
		)),
	)
}

// totalRow: total pagado.
func totalRow(purchase *entity.Purchase) core.Row {
	return row.New(10).Add(
		col.New(9).Add(text.New("TOTAL PAGADO", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2,
		})),
		col.New(3).Add(text.New(
			"$"+purchase.TotalPrice.StringFixed(2),
			props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2, Color: colorPrimary},
		)),
	)
}
