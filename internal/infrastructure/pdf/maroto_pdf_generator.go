// Package pdf genera el reporte PDF del diario de inventario de una publicación.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Publicación + ID           │  QR + fecha de corte  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FILTROS: sku / tipo / rango / orden                        │
//	│  STOCK: SKU | Bodega | Cantidad | Reservado | Umbral | Bajo │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DIARIO: # | Fecha | SKU | Tipo | Delta | Antes | Después   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de entradas / aviso de truncado              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	appinventory "github.com/jhoicas/catalog-backoffice/internal/application/inventory"
	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appinventory.HistoryPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa inventory.HistoryPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateHistoryPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateHistoryPDF(_ context.Context, r appinventory.HistoryReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Movimientos de inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(filterRow(r.Filter))

	m.AddRows(sectionRow("STOCK ACTUAL"))
	m.AddRows(stockHeaderRow())
	m.AddRows(stockRows(r.Records)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionRow("DIARIO DE MOVIMIENTOS"))
	m.AddRows(movementHeaderRow())
	m.AddRows(movementRows(r.Movements)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: publicación (izq) y QR con el ID + fecha de corte (der).
func headerRow(r appinventory.HistoryReport) core.Row {
	return row.New(24).Add(
		col.New(8).Add(
			text.New(nonEmpty(r.ProductName, "Publicación"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("ID: "+r.ProductID, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
			text.New("Corte: "+r.GeneratedAt.Format("02/01/2006 15:04 MST"), props.Text{
				Size: 8, Top: 15, Color: colorGray,
			}),
		),
		col.New(4).Add(code.NewQr("listing:"+r.ProductID, props.Rect{
			Percent: 90,
			Center:  true,
		})),
	)
}

func filterRow(f entity.MovementFilter) core.Row {
	parts := []string{
		"SKU: " + nonEmpty(f.SKU, "todos"),
		"Tipo: " + nonEmpty(string(f.Type), "todos"),
	}
	if f.StartDate != nil {
		parts = append(parts, "Desde: "+f.StartDate.Format("02/01/2006"))
	}
	if f.EndDate != nil {
		parts = append(parts, "Hasta: "+f.EndDate.Format("02/01/2006"))
	}
	order := "más recientes primero"
	if f.Order == entity.SortOldestFirst {
		order = "más antiguos primero"
	}
	parts = append(parts, "Orden: "+order)

	return row.New(8).Add(col.New(12).Add(
		text.New(strings.Join(parts, "   |   "), props.Text{Size: 8, Top: 2, Color: colorGray}),
	))
}

func sectionRow(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 3}),
	))
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func cell(value string, size int, a align.Type, color *props.Color) core.Col {
	return col.New(size).Add(text.New(value, props.Text{
		Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: color,
	}))
}

func stockHeaderRow() core.Row {
	return row.New(6).Add(
		headerCell("SKU", 3, align.Left),
		headerCell("Bodega", 3, align.Left),
		headerCell("Cantidad", 2, align.Right),
		headerCell("Reservado", 2, align.Right),
		headerCell("Umbral", 1, align.Right),
		headerCell("Bajo", 1, align.Center),
	)
}

func stockRows(records []*entity.InventoryRecord) []core.Row {
	if len(records) == 0 {
		return []core.Row{emptyRow("Sin registros de inventario")}
	}
	rows := make([]core.Row, 0, len(records))
	for _, rec := range records {
		low, color := "no", (*props.Color)(nil)
		if rec.LowStock() {
			low, color = "sí", colorAlert
		}
		rows = append(rows, row.New(6).Add(
			cell(rec.SKU, 3, align.Left, nil),
			cell(nonEmpty(rec.WarehouseID, "—"), 3, align.Left, nil),
			cell(formatQty(rec.Quantity), 2, align.Right, nil),
			cell(formatQty(rec.Reserved), 2, align.Right, nil),
			cell(formatQty(rec.LowStockThreshold), 1, align.Right, nil),
			cell(low, 1, align.Center, color),
		))
	}
	return rows
}

func movementHeaderRow() core.Row {
	return row.New(6).Add(
		headerCell("#", 1, align.Left),
		headerCell("Fecha", 2, align.Left),
		headerCell("SKU", 2, align.Left),
		headerCell("Tipo", 1, align.Left),
		headerCell("Delta", 1, align.Right),
		headerCell("Antes", 1, align.Right),
		headerCell("Después", 1, align.Right),
		headerCell("Nota", 3, align.Left),
	)
}

// movementRows: una fila por entrada del diario.
func movementRows(movements []*entity.InventoryMovement) []core.Row {
	if len(movements) == 0 {
		return []core.Row{emptyRow("Sin movimientos para los filtros aplicados")}
	}
	rows := make([]core.Row, 0, len(movements))
	for _, mv := range movements {
		var color *props.Color
		if mv.Quantity.IsNegative() {
			color = colorAlert
		}
		rows = append(rows, row.New(6).Add(
			cell(fmt.Sprintf("%d", mv.Seq), 1, align.Left, colorGray),
			cell(mv.CreatedAt.Format("02/01/06 15:04"), 2, align.Left, nil),
			cell(mv.SKU, 2, align.Left, nil),
			cell(string(mv.Type), 1, align.Left, nil),
			cell(formatDelta(mv.Quantity), 1, align.Right, color),
			cell(formatQty(mv.QuantityBefore), 1, align.Right, nil),
			cell(formatQty(mv.QuantityAfter), 1, align.Right, nil),
			cell(truncate(mv.Note, 40), 3, align.Left, colorGray),
		))
	}
	return rows
}

func footerRow(r appinventory.HistoryReport) core.Row {
	msg := fmt.Sprintf("Entradas en el reporte: %d.", len(r.Movements))
	if r.Truncated {
		msg += " El reporte fue truncado; use filtros de fecha para acotar el rango."
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 7, Color: colorGray, Top: 2}),
	))
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 1, Align: align.Center}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQty cantidad sin ceros decimales sobrantes. Ej: 12.500 → "12.5".
func formatQty(d decimal.Decimal) string {
	return d.Round(3).String()
}

// formatDelta agrega el signo + a los deltas positivos.
func formatDelta(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + formatQty(d)
	}
	return formatQty(d)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
