// Package pdf implementa la representación gráfica del documento fiscal
// (factura, nota de crédito/débito) conforme a la Providencia SENIAT 00071.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + RIF  │  Tipo + N° + N° Control      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Dirección / Tel / Email                            │
//	│  CLIENTE: Razón social + RIF + contacto                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Importe               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / IVA / IGTF / TOTAL         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total en Bs a la tasa BCV + leyenda legal          │
//	└─────────────────────────────────────────────────────────────┘
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

	"github.com/smartkubik/facturacion-api/internal/application/billing"
	"github.com/smartkubik/facturacion-api/internal/domain/entity"
)

var _ billing.DocumentPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var docTypeLabels = map[string]string{
	entity.DocTypeInvoice:      "FACTURA",
	entity.DocTypeCreditNote:   "NOTA DE CRÉDITO",
	entity.DocTypeDebitNote:    "NOTA DE DÉBITO",
	entity.DocTypeDeliveryNote: "NOTA DE ENTREGA",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.DocumentPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// Generate genera el PDF del documento y devuelve sus bytes.
func (g *MarotoPDFGenerator) Generate(_ context.Context, doc *entity.FiscalDocument, issuer billing.IssuerInfo) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(docTypeLabels[doc.Type]+" "+doc.FullNumber, true).
		WithAuthor(issuer.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc, issuer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emisorRow(issuer))
	m.AddRows(clienteRow(doc.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(doc.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range totalsRows(doc.Totals) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(doc) {
		m.AddRows(r)
	}

	pdfDoc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return pdfDoc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: razón social + RIF (izq) y tipo + número + control (der).
func headerRow(doc *entity.FiscalDocument, issuer billing.IssuerInfo) core.Row {
	fecha := doc.CreatedAt.Format("02/01/2006")
	if doc.IssuedAt != nil {
		fecha = doc.IssuedAt.Format("02/01/2006")
	}
	control := "N° Control: pendiente"
	if doc.ControlNumber != "" {
		control = "N° Control: " + doc.ControlNumber
	}

	return row.New(22).Add(
		col.New(7).Add(
			text.New(issuer.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("RIF: "+issuer.RIF, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(docTypeLabels[doc.Type], props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(doc.FullNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New(control, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 18, Color: colorGray,
			}),
		),
	)
}

// emisorRow: datos del emisor.
func emisorRow(issuer billing.IssuerInfo) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(issuer.Address, "—"),
				nonEmpty(issuer.Phone, "—"),
				nonEmpty(issuer.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// clienteRow: datos fiscales del cliente congelados en el documento.
func clienteRow(customer entity.CustomerSnapshot) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE / ADQUIRIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.LegalName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("RIF/CI: %s   |   Email: %s   |   Tel: %s",
				customer.TaxID,
				nonEmpty(customer.Email, "—"),
				nonEmpty(customer.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Descripción", 5, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Importe", 3, align.Right),
	)
}

// tableItemRows: una fila por línea del documento. Productos pesados muestran
// la cantidad con tres decimales y la unidad seleccionada.
func tableItemRows(items []entity.LineItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		qty := it.Quantity.StringFixed(0)
		if it.SoldByWeight {
			qty = it.Quantity.StringFixed(3)
		}
		if it.SelectedUnit != "" {
			qty += " " + it.SelectedUnit
		}
		desc := it.Name
		if it.DiscountPct.IsPositive() {
			desc += fmt.Sprintf(" (desc. %s%%: %s)", it.DiscountPct.String(), it.DiscountReason)
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				qty,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				desc,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				it.EffectiveUnitPrice.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				it.Total().String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRows: bloque de totales alineado a la derecha, una fila por figura.
func totalsRows(totals entity.Totals) []core.Row {
	figure := func(label, value string) core.Row {
		return row.New(5).Add(
			col.New(6),
			col.New(3).Add(text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
			})),
			col.New(3).Add(text.New(value, props.Text{
				Size: 9, Align: align.Right, Right: 1,
			})),
		)
	}

	rows := []core.Row{figure("Subtotal:", totals.Subtotal.String())}
	if !totals.GeneralDiscount.IsZero() {
		label := "Descuento:"
		if totals.GeneralDiscountReason != "" {
			label = fmt.Sprintf("Descuento (%s):", totals.GeneralDiscountReason)
		}
		rows = append(rows,
			figure(label, totals.GeneralDiscount.Neg().String()),
			figure("Base imponible:", totals.SubtotalAfterDiscount.String()),
		)
	}
	for _, tax := range totals.Taxes {
		rows = append(rows, figure(
			fmt.Sprintf("%s (%s%%):", tax.Code, tax.Rate.String()),
			tax.Amount.String(),
		))
	}
	if !totals.ShippingCost.IsZero() {
		rows = append(rows, figure("Envío:", totals.ShippingCost.String()))
	}

	rows = append(rows, row.New(7).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL A PAGAR:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 1,
		})),
		col.New(3).Add(text.New(totals.GrandTotal.String(), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 1,
		})),
	))
	return rows
}

// footerRows: equivalente en bolívares a la tasa estampada + leyenda legal.
func footerRows(doc *entity.FiscalDocument) []core.Row {
	var rows []core.Row

	if doc.Totals.ConvertedTotal != nil {
		converted := *doc.Totals.ConvertedTotal
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Equivalente: %s %s   (tasa BCV %s %s/%s)",
				converted.StringFixed(), converted.Currency(),
				doc.ExchangeRate.String(), converted.Currency(), doc.Currency,
			), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right,
				Color: colorPrimary, Top: 2,
			}),
		)))
	}

	if doc.OriginalDocumentID != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Afecta al documento: "+doc.OriginalDocumentID, props.Text{
				Size: 7, Color: colorGray, Top: 1,
			}),
		)))
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Documento emitido conforme a la Providencia Administrativa SENIAT/00071. "+
				"Conserve este documento como soporte fiscal.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
