// Package reporting consultas de solo lectura sobre el kardex y el stock.
// Nada aquí modifica el inventario.
package reporting

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fishtrade-api/internal/application/dto"
	"github.com/jhoicas/fishtrade-api/internal/domain"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	domaininv "github.com/jhoicas/fishtrade-api/internal/domain/inventory"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

// LogExporter escribe entradas del kardex en un formato descargable.
type LogExporter interface {
	WriteInventoryLog(w io.Writer, entries []*entity.InventoryLogEntry) error
}

// AuditLog read-model del kardex.
type AuditLog struct {
	logs       repository.InventoryLogRepository
	inventory  repository.InventoryRepository
	exporter   LogExporter
	thresholds domaininv.RiskThresholds
}

// NewAuditLog construye el read-model. exporter puede ser nil si no se exporta.
func NewAuditLog(
	logs repository.InventoryLogRepository,
	inventory repository.InventoryRepository,
	exporter LogExporter,
	thresholds domaininv.RiskThresholds,
) *AuditLog {
	return &AuditLog{logs: logs, inventory: inventory, exporter: exporter, thresholds: thresholds}
}

// GetInventoryLogs entradas del kardex, más recientes primero.
func (a *AuditLog) GetInventoryLogs(ctx context.Context, q repository.LogQuery) ([]*entity.InventoryLogEntry, error) {
	if err := validateLogQuery(q); err != nil {
		return nil, err
	}
	return a.logs.List(ctx, q)
}

// ExportInventoryLogs escribe las entradas filtradas con el exportador configurado.
func (a *AuditLog) ExportInventoryLogs(ctx context.Context, q repository.LogQuery, w io.Writer) error {
	if a.exporter == nil {
		return domain.NewValidationError("format", "exportación no disponible")
	}
	entries, err := a.GetInventoryLogs(ctx, q)
	if err != nil {
		return err
	}
	return a.exporter.WriteInventoryLog(w, entries)
}

// GetInventorySummary totales del stock actual.
func (a *AuditLog) GetInventorySummary(ctx context.Context) (*dto.InventorySummaryDTO, error) {
	levels, err := a.inventory.ListLevels(ctx, repository.StockLevelQuery{})
	if err != nil {
		return nil, err
	}
	out := &dto.InventorySummaryDTO{TotalProducts: len(levels), TotalUnits: decimal.Zero, TotalValue: decimal.Zero}
	for _, l := range levels {
		out.TotalUnits = out.TotalUnits.Add(l.Quantity)
		out.TotalValue = out.TotalValue.Add(l.Quantity.Mul(l.PurchasePrice))
		switch domaininv.StatusFor(l.Quantity, l.MinStock) {
		case domaininv.StockStatusOutOfStock:
			out.OutOfStockCount++
		case domaininv.StockStatusLowStock:
			out.LowStockCount++
		}
	}
	return out, nil
}

// GetStockLevels stock por producto con su estado.
func (a *AuditLog) GetStockLevels(ctx context.Context, q repository.StockLevelQuery) ([]dto.StockLevelDTO, error) {
	levels, err := a.inventory.ListLevels(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockLevelDTO, 0, len(levels))
	for _, l := range levels {
		status := domaininv.StatusFor(l.Quantity, l.MinStock)
		out = append(out, dto.StockLevelDTO{
			ProductID:   l.ProductID,
			SKU:         l.SKU,
			ProductName: l.ProductName,
			Unit:        l.Unit,
			Quantity:    l.Quantity,
			MinStock:    l.MinStock,
			Status:      string(status),
			StatusLabel: status.Label(),
		})
	}
	return out, nil
}

// GetLossReport merma por producto en [from, to], ordenada por tasa de pérdida descendente.
func (a *AuditLog) GetLossReport(ctx context.Context, from, to time.Time) (*dto.LossReportDTO, error) {
	if to.Before(from) {
		return nil, domain.NewValidationError("to", "debe ser posterior a from")
	}
	entries, err := a.logs.List(ctx, repository.LogQuery{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	stats := domaininv.ComputeLossStats(entries)
	report := &dto.LossReportDTO{From: from, To: to, TotalLost: decimal.Zero, Items: []dto.LossReportItemDTO{}}
	if len(stats) == 0 {
		return report, nil
	}

	ids := make([]string, 0, len(stats))
	for _, st := range stats {
		ids = append(ids, st.ProductID)
	}
	levels, err := a.inventory.ListLevels(ctx, repository.StockLevelQuery{ProductIDs: ids})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]repository.StockLevel, len(levels))
	for _, l := range levels {
		byID[l.ProductID] = l
	}

	for _, st := range stats {
		l := byID[st.ProductID]
		status := domaininv.StatusFor(l.Quantity, l.MinStock)
		report.TotalLost = report.TotalLost.Add(st.Lost)
		report.Items = append(report.Items, dto.LossReportItemDTO{
			ProductID:   st.ProductID,
			SKU:         l.SKU,
			ProductName: l.ProductName,
			Imported:    st.Imported,
			Sold:        st.Sold,
			Lost:        st.Lost,
			LossRate:    st.LossRate,
			Quantity:    l.Quantity,
			StockStatus: string(status),
			RiskLevel:   string(domaininv.AssessRisk(st, status, a.thresholds)),
		})
	}
	sort.SliceStable(report.Items, func(i, j int) bool {
		return report.Items[i].LossRate.GreaterThan(report.Items[j].LossRate)
	})
	return report, nil
}

// GetMovementSummary totales por tipo de movimiento.
func (a *AuditLog) GetMovementSummary(ctx context.Context, q repository.LogQuery) ([]dto.MovementSummaryDTO, error) {
	q.Limit, q.Offset = 0, 0
	entries, err := a.GetInventoryLogs(ctx, q)
	if err != nil {
		return nil, err
	}
	sums := domaininv.SummarizeByType(entries)
	out := make([]dto.MovementSummaryDTO, 0, len(sums))
	for _, s := range sums {
		out = append(out, dto.MovementSummaryDTO{
			Type: string(s.Type), Entries: s.Entries, UnitsIn: s.UnitsIn, UnitsOut: s.UnitsOut, Net: s.Net,
		})
	}
	return out, nil
}

// Reconcile productos cuyo kardex no coincide con el stock guardado (debería estar vacío).
func (a *AuditLog) Reconcile(ctx context.Context) (*dto.ReconciliationDTO, error) {
	balances, err := a.logs.Balances(ctx)
	if err != nil {
		return nil, err
	}
	found := domaininv.Reconcile(balances)
	out := &dto.ReconciliationDTO{
		CheckedProducts: len(balances),
		Consistent:      len(found) == 0,
		Discrepancies:   make([]dto.DiscrepancyDTO, 0, len(found)),
	}
	for _, d := range found {
		out.Discrepancies = append(out.Discrepancies, dto.DiscrepancyDTO{
			ProductID: d.ProductID, StoredQty: d.StoredQty, SumChanges: d.SumChanges, LastAfter: d.LastAfter, Reason: d.Reason,
		})
	}
	return out, nil
}

func validateLogQuery(q repository.LogQuery) error {
	if q.Type != "" && !q.Type.Valid() {
		return domain.NewValidationError("type", "tipo de movimiento desconocido %q", q.Type)
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return domain.NewValidationError("to", "debe ser posterior a from")
	}
	if q.Limit < 0 || q.Offset < 0 {
		return domain.NewValidationError("limit", "paginación inválida")
	}
	return nil
}
