package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fishtrade-api/internal/application/dto"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	domaininv "github.com/jhoicas/fishtrade-api/internal/domain/inventory"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

const dashboardTopProducts = 5

// DashboardUseCase resumen para la pantalla principal.
type DashboardUseCase struct {
	audit        *AuditLog
	inventory    repository.InventoryRepository
	logs         repository.InventoryLogRepository
	saleOrders   repository.SaleOrderRepository
	importOrders repository.ImportOrderRepository
	now          func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	audit *AuditLog,
	inventory repository.InventoryRepository,
	logs repository.InventoryLogRepository,
	saleOrders repository.SaleOrderRepository,
	importOrders repository.ImportOrderRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		audit:        audit,
		inventory:    inventory,
		logs:         logs,
		saleOrders:   saleOrders,
		importOrders: importOrders,
		now:          time.Now,
	}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro consultas en paralelo:
//  1. resumen del stock actual
//  2. kardex del mes en curso → vendidos, perdidos, top
//  3. pedidos de venta pending
//  4. órdenes de importación pending
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()
	todayEnd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type summaryResult struct {
		summary *dto.InventorySummaryDTO
		err     error
	}
	type logsResult struct {
		entries []*entity.InventoryLogEntry
		err     error
	}
	type countResult struct {
		n   int
		err error
	}

	summaryCh := make(chan summaryResult, 1)
	logsCh := make(chan logsResult, 1)
	salesCh := make(chan countResult, 1)
	importsCh := make(chan countResult, 1)

	go func() {
		s, err := uc.audit.GetInventorySummary(ctx)
		summaryCh <- summaryResult{s, err}
	}()
	go func() {
		entries, err := uc.logs.List(ctx, repository.LogQuery{From: &monthStart, To: &todayEnd})
		logsCh <- logsResult{entries, err}
	}()
	go func() {
		orders, err := uc.saleOrders.List(ctx, repository.SaleOrderQuery{Status: entity.SaleStatusPending})
		salesCh <- countResult{len(orders), err}
	}()
	go func() {
		orders, err := uc.importOrders.List(ctx, repository.ImportOrderQuery{Status: entity.ImportStatusPending})
		importsCh <- countResult{len(orders), err}
	}()

	summary := <-summaryCh
	month := <-logsCh
	pendingSales := <-salesCh
	pendingImports := <-importsCh

	if summary.err != nil {
		return nil, fmt.Errorf("dashboard: resumen de stock: %w", summary.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: kardex del mes: %w", month.err)
	}
	if pendingSales.err != nil {
		return nil, fmt.Errorf("dashboard: pedidos pendientes: %w", pendingSales.err)
	}
	if pendingImports.err != nil {
		return nil, fmt.Errorf("dashboard: importaciones pendientes: %w", pendingImports.err)
	}

	stats := domaininv.ComputeLossStats(month.entries)
	out := &dto.DashboardSummaryDTO{
		Inventory:           *summary.summary,
		MonthSoldUnits:      decimal.Zero,
		MonthLostUnits:      decimal.Zero,
		MonthLossValue:      decimal.Zero,
		PendingSaleOrders:   pendingSales.n,
		PendingImportOrders: pendingImports.n,
		TopProducts:         []dto.TopProductDTO{},
		DateLabel:           monthLabel(now),
	}
	if len(stats) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(stats))
	for _, st := range stats {
		ids = append(ids, st.ProductID)
	}
	levels, err := uc.inventory.ListLevels(ctx, repository.StockLevelQuery{ProductIDs: ids})
	if err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", err)
	}
	byID := make(map[string]repository.StockLevel, len(levels))
	for _, l := range levels {
		byID[l.ProductID] = l
	}

	for _, st := range stats {
		out.MonthSoldUnits = out.MonthSoldUnits.Add(st.Sold)
		out.MonthLostUnits = out.MonthLostUnits.Add(st.Lost)
		out.MonthLossValue = out.MonthLossValue.Add(st.Lost.Mul(byID[st.ProductID].PurchasePrice))
	}
	out.MonthLossRate = domaininv.LossRate(out.MonthSoldUnits, out.MonthLostUnits)

	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Sold.GreaterThan(stats[j].Sold) })
	for _, st := range stats {
		if len(out.TopProducts) == dashboardTopProducts || !st.Sold.IsPositive() {
			break
		}
		l := byID[st.ProductID]
		out.TopProducts = append(out.TopProducts, dto.TopProductDTO{
			ProductID: st.ProductID, SKU: l.SKU, ProductName: l.ProductName, QuantitySold: st.Sold,
		})
	}
	return out, nil
}

// monthLabel etiqueta legible del mes, ej: "Octubre 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
