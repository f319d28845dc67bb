// Package export escribe el kardex en formatos descargables.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/fishtrade-api/internal/application/reporting"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
)

var _ reporting.LogExporter = (*ExcelExporter)(nil)

// SheetName hoja donde se escribe el kardex.
const SheetName = "Kardex"

var headers = []string{
	"Fecha", "Producto", "Tipo", "Cambio", "Antes", "Después",
	"Documento", "Documento ID", "Nota", "Usuario",
}

// ExcelExporter exporta el kardex a .xlsx con excelize (StreamWriter).
type ExcelExporter struct {
	loc *time.Location
}

// NewExcelExporter construye el exportador; las fechas se escriben en loc (UTC si es nil).
func NewExcelExporter(loc *time.Location) *ExcelExporter {
	if loc == nil {
		loc = time.UTC
	}
	return &ExcelExporter{loc: loc}
}

// WriteInventoryLog escribe una fila por entrada, con encabezado fijo y la primera fila congelada.
func (e *ExcelExporter) WriteInventoryLog(w io.Writer, entries []*entity.InventoryLogEntry) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("excel: renombrar hoja: %w", err)
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("excel: stream writer: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"005C78"}},
	})
	if err != nil {
		return fmt.Errorf("excel: estilo: %w", err)
	}
	if err := sw.SetPanes(&excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("excel: panes: %w", err)
	}
	if err := sw.SetColWidth(1, len(headers), 18); err != nil {
		return fmt.Errorf("excel: ancho de columnas: %w", err)
	}

	head := make([]interface{}, len(headers))
	for i, h := range headers {
		head[i] = excelize.Cell{StyleID: headerStyle, Value: h}
	}
	if err := sw.SetRow("A1", head); err != nil {
		return fmt.Errorf("excel: encabezado: %w", err)
	}

	for i, en := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			en.CreatedAt.In(e.loc).Format("2006-01-02 15:04:05"),
			en.ProductID,
			string(en.Type),
			en.QuantityChange.InexactFloat64(),
			en.QuantityBefore.InexactFloat64(),
			en.QuantityAfter.InexactFloat64(),
			en.ReferenceType,
			en.ReferenceID,
			en.Note,
			en.ActorID,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("excel: fila %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("excel: flush: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("excel: escribir: %w", err)
	}
	return nil
}
