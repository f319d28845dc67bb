package http

import (
	"bytes"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fishtrade-api/internal/application/dto"
	"github.com/jhoicas/fishtrade-api/internal/application/inventory"
	"github.com/jhoicas/fishtrade-api/internal/application/reporting"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

const (
	xlsxContentType       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	defaultLossReportDays = 30
)

// InventoryHandler ajustes manuales de stock y lecturas del kardex.
type InventoryHandler struct {
	stock         *inventory.StockUseCase
	audit         *reporting.AuditLog
	replenishment *reporting.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler de inventario.
func NewInventoryHandler(stock *inventory.StockUseCase, audit *reporting.AuditLog, replenishment *reporting.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{stock: stock, audit: audit, replenishment: replenishment}
}

// Adjust godoc
// @Summary      Ajuste por conteo físico
// @Description  quantity es la cantidad contada (absoluta). Se registra la diferencia en el kardex.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "Conteo"
// @Success      200   {object}  dto.InventoryRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rec, err := h.stock.AdjustStock(c.UserContext(), inventory.AdjustStockInput{
		ProductID:   in.ProductID,
		NewQuantity: in.Quantity,
		Type:        entity.LogType(in.Type),
		Note:        in.Note,
		ActorID:     GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToInventoryRecordResponse(rec))
}

// RecordLoss godoc
// @Summary      Registrar merma
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordLossRequest  true  "Merma"
// @Success      200   {object}  dto.InventoryRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente"
// @Router       /api/inventory/losses [post]
func (h *InventoryHandler) RecordLoss(c *fiber.Ctx) error {
	var in dto.RecordLossRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rec, err := h.stock.RecordLoss(c.UserContext(), inventory.RecordLossInput{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		ActorID:   GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToInventoryRecordResponse(rec))
}

func logQueryFromRequest(c *fiber.Ctx) (repository.LogQuery, error) {
	from, to, err := queryRange(c)
	if err != nil {
		return repository.LogQuery{}, err
	}
	return repository.LogQuery{
		ProductID:     c.Query("product_id"),
		Type:          entity.LogType(c.Query("type")),
		ReferenceType: c.Query("reference_type"),
		ReferenceID:   c.Query("reference_id"),
		From:          from,
		To:            to,
	}, nil
}

// Logs godoc
// @Summary      Kardex (historial de movimientos)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id      query  string  false  "Producto"
// @Param        type            query  string  false  "import | sale | adjustment | loss"
// @Param        reference_type  query  string  false  "sale_order | import_order"
// @Param        reference_id    query  string  false  "ID del documento"
// @Param        from            query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to              query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit           query  int     false  "Límite"  default(20)
// @Param        offset          query  int     false  "Offset"  default(0)
// @Success      200             {object}  dto.InventoryLogListResponse
// @Failure      400             {object}  dto.ErrorResponse
// @Router       /api/inventory/logs [get]
func (h *InventoryHandler) Logs(c *fiber.Ctx) error {
	q, err := logQueryFromRequest(c)
	if err != nil {
		return respondError(c, err)
	}
	page := pageFromQuery(c)
	q.Limit, q.Offset = page.Limit, page.Offset
	entries, err := h.audit.GetInventoryLogs(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	out := dto.InventoryLogListResponse{Items: make([]dto.InventoryLogDTO, 0, len(entries)), Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	for _, e := range entries {
		out.Items = append(out.Items, dto.ToInventoryLogDTO(e))
	}
	return c.JSON(out)
}

// ExportLogs godoc
// @Summary      Exportar kardex a Excel
// @Description  Mismos filtros que /logs, sin paginación.
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        product_id  query  string  false  "Producto"
// @Param        type        query  string  false  "import | sale | adjustment | loss"
// @Param        from        query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200         {file}  binary
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/inventory/logs/export [get]
func (h *InventoryHandler) ExportLogs(c *fiber.Ctx) error {
	q, err := logQueryFromRequest(c)
	if err != nil {
		return respondError(c, err)
	}
	var buf bytes.Buffer
	if err := h.audit.ExportInventoryLogs(c.UserContext(), q, &buf); err != nil {
		return respondError(c, err)
	}
	filename := "kardex-" + time.Now().Format("20060102") + ".xlsx"
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

// Summary godoc
// @Summary      Resumen de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventorySummaryDTO
// @Router       /api/inventory/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	out, err := h.audit.GetInventorySummary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Levels godoc
// @Summary      Stock por producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        search    query  string  false  "Texto en nombre o SKU"
// @Param        low_only  query  bool    false  "Solo productos en o bajo el mínimo"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200       {array}  dto.StockLevelDTO
// @Router       /api/inventory/levels [get]
func (h *InventoryHandler) Levels(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	out, err := h.audit.GetStockLevels(c.UserContext(), repository.StockLevelQuery{
		Search:  c.Query("search"),
		LowOnly: c.QueryBool("low_only", false),
		Limit:   page.Limit,
		Offset:  page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LossReport godoc
// @Summary      Reporte de mermas
// @Description  Sin rango se toman los últimos 30 días.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200   {object}  dto.LossReportDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/loss-report [get]
func (h *InventoryHandler) LossReport(c *fiber.Ctx) error {
	from, to, err := queryRange(c)
	if err != nil {
		return respondError(c, err)
	}
	end := time.Now()
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, 0, -defaultLossReportDays)
	if from != nil {
		start = *from
	}
	out, err := h.audit.GetLossReport(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MovementSummary godoc
// @Summary      Totales del kardex por tipo de movimiento
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Producto"
// @Param        from        query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200         {array}  dto.MovementSummaryDTO
// @Router       /api/inventory/movement-summary [get]
func (h *InventoryHandler) MovementSummary(c *fiber.Ctx) error {
	q, err := logQueryFromRequest(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.audit.GetMovementSummary(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reconciliation godoc
// @Summary      Conciliación kardex vs. stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReconciliationDTO
// @Router       /api/inventory/reconciliation [get]
func (h *InventoryHandler) Reconciliation(c *fiber.Ctx) error {
	out, err := h.audit.Reconcile(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Sugerencias de reposición
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReplenishmentSuggestionDTO
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	out, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
