package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fishtrade-api/internal/application/dto"
	"github.com/jhoicas/fishtrade-api/internal/application/purchasing"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

// ImportOrderHandler órdenes de importación (compras a proveedor).
type ImportOrderHandler struct {
	sm *purchasing.StateMachine
}

// NewImportOrderHandler construye el handler.
func NewImportOrderHandler(sm *purchasing.StateMachine) *ImportOrderHandler {
	return &ImportOrderHandler{sm: sm}
}

// Create godoc
// @Summary      Crear orden de importación
// @Description  Queda en pending; el stock solo entra al marcarla delivered.
// @Tags         import-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateImportOrderRequest  true  "Orden"
// @Success      201   {object}  dto.ImportOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/import-orders [post]
func (h *ImportOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateImportOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	items := make([]purchasing.ItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, purchasing.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	order, err := h.sm.Create(c.UserContext(), purchasing.CreateInput{
		SupplierID:   in.SupplierID,
		Notes:        in.Notes,
		ExpectedDate: in.ExpectedDate,
		Items:        items,
	}, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToImportOrderResponse(order))
}

// List godoc
// @Summary      Listar órdenes de importación
// @Tags         import-orders
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "pending | confirmed | delivered | cancelled"
// @Param        supplier_id  query  string  false  "Proveedor"
// @Param        from         query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to           query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200          {object}  dto.ImportOrderListResponse
// @Router       /api/import-orders [get]
func (h *ImportOrderHandler) List(c *fiber.Ctx) error {
	from, to, err := queryRange(c)
	if err != nil {
		return respondError(c, err)
	}
	page := pageFromQuery(c)
	orders, err := h.sm.List(c.UserContext(), repository.ImportOrderQuery{
		Status:     entity.ImportStatus(c.Query("status")),
		SupplierID: c.Query("supplier_id"),
		From:       from,
		To:         to,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := dto.ImportOrderListResponse{Items: make([]dto.ImportOrderResponse, 0, len(orders)), Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	for _, o := range orders {
		out.Items = append(out.Items, dto.ToImportOrderResponse(o))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden de importación
// @Tags         import-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.ImportOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/import-orders/{id} [get]
func (h *ImportOrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.sm.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToImportOrderResponse(order))
}

// UpdateStatus godoc
// @Summary      Cambiar estado de la orden
// @Description  delivered suma cada línea al stock una sola vez y fija la fecha de entrega.
// @Tags         import-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la orden"
// @Param        body  body  dto.UpdateStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.ImportOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/import-orders/{id}/status [patch]
func (h *ImportOrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := h.sm.UpdateStatus(c.UserContext(), c.Params("id"), entity.ImportStatus(in.Status), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToImportOrderResponse(order))
}

// UpdateFields godoc
// @Summary      Editar proveedor, notas o fecha esperada
// @Tags         import-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la orden"
// @Param        body  body  dto.UpdateImportOrderRequest  true  "Campos"
// @Success      200   {object}  dto.ImportOrderResponse
// @Failure      409   {object}  dto.ErrorResponse  "orden ya entregada"
// @Router       /api/import-orders/{id} [put]
func (h *ImportOrderHandler) UpdateFields(c *fiber.Ctx) error {
	var in dto.UpdateImportOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := h.sm.UpdateFields(c.UserContext(), c.Params("id"), purchasing.FieldsInput{
		SupplierID:   in.SupplierID,
		Notes:        in.Notes,
		ExpectedDate: in.ExpectedDate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToImportOrderResponse(order))
}

// Delete godoc
// @Summary      Eliminar orden de importación
// @Description  Solo órdenes pending.
// @Tags         import-orders
// @Security     Bearer
// @Param        id   path  string  true  "ID de la orden"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/import-orders/{id} [delete]
func (h *ImportOrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.sm.Delete(c.UserContext(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
