package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fishtrade-api/internal/application/dto"
	"github.com/jhoicas/fishtrade-api/internal/application/sales"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

// SaleOrderHandler pedidos de venta: ciclo de vida y comprobante.
type SaleOrderHandler struct {
	sm      *sales.StateMachine
	receipt *sales.ReceiptUseCase
}

// NewSaleOrderHandler construye el handler. receipt puede ser nil si no se generan PDFs.
func NewSaleOrderHandler(sm *sales.StateMachine, receipt *sales.ReceiptUseCase) *SaleOrderHandler {
	return &SaleOrderHandler{sm: sm, receipt: receipt}
}

func toSaleItems(in []dto.SaleOrderItemRequest) []sales.ItemInput {
	items := make([]sales.ItemInput, 0, len(in))
	for _, it := range in {
		items = append(items, sales.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return items
}

// Create godoc
// @Summary      Crear pedido de venta
// @Description  Valida el stock de todas las líneas y lo descuenta en una sola transacción.
// @Tags         sale-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleOrderRequest  true  "Pedido"
// @Success      201   {object}  dto.SaleOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente"
// @Router       /api/sale-orders [post]
func (h *SaleOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := h.sm.Create(c.UserContext(), sales.CreateInput{
		CustomerID: in.CustomerID,
		Status:     entity.SaleStatus(in.Status),
		Discount:   in.Discount,
		Notes:      in.Notes,
		Items:      toSaleItems(in.Items),
	}, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToSaleOrderResponse(order))
}

// List godoc
// @Summary      Listar pedidos de venta
// @Tags         sale-orders
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "pending | processing | completed | cancelled"
// @Param        customer_id  query  string  false  "Cliente"
// @Param        from         query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to           query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200          {object}  dto.SaleOrderListResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Router       /api/sale-orders [get]
func (h *SaleOrderHandler) List(c *fiber.Ctx) error {
	from, to, err := queryRange(c)
	if err != nil {
		return respondError(c, err)
	}
	page := pageFromQuery(c)
	orders, err := h.sm.List(c.UserContext(), repository.SaleOrderQuery{
		Status:     entity.SaleStatus(c.Query("status")),
		CustomerID: c.Query("customer_id"),
		From:       from,
		To:         to,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := dto.SaleOrderListResponse{Items: make([]dto.SaleOrderResponse, 0, len(orders)), Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	for _, o := range orders {
		out.Items = append(out.Items, dto.ToSaleOrderResponse(o))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido de venta
// @Tags         sale-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.SaleOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sale-orders/{id} [get]
func (h *SaleOrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.sm.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSaleOrderResponse(order))
}

// UpdateStatus godoc
// @Summary      Cambiar estado del pedido
// @Description  Hacia cancelled devuelve el stock; desde cancelled lo vuelve a validar y descontar.
// @Tags         sale-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del pedido"
// @Param        body  body  dto.UpdateStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.SaleOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sale-orders/{id}/status [patch]
func (h *SaleOrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := h.sm.UpdateStatus(c.UserContext(), c.Params("id"), entity.SaleStatus(in.Status), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSaleOrderResponse(order))
}

// Cancel godoc
// @Summary      Cancelar pedido
// @Tags         sale-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.SaleOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sale-orders/{id}/cancel [post]
func (h *SaleOrderHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.sm.Cancel(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSaleOrderResponse(order))
}

// UpdateFields godoc
// @Summary      Editar cliente o notas del pedido
// @Tags         sale-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del pedido"
// @Param        body  body  dto.UpdateSaleOrderRequest  true  "Campos"
// @Success      200   {object}  dto.SaleOrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sale-orders/{id} [put]
func (h *SaleOrderHandler) UpdateFields(c *fiber.Ctx) error {
	var in dto.UpdateSaleOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := h.sm.UpdateFields(c.UserContext(), c.Params("id"), sales.FieldsInput{CustomerID: in.CustomerID, Notes: in.Notes})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSaleOrderResponse(order))
}

// ReplaceItems godoc
// @Summary      Reemplazar líneas del pedido
// @Description  Solo en pending o processing; el stock se corrige por la diferencia de cada producto.
// @Tags         sale-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                            true  "ID del pedido"
// @Param        body  body  dto.ReplaceSaleOrderItemsRequest  true  "Líneas nuevas"
// @Success      200   {object}  dto.SaleOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sale-orders/{id}/items [put]
func (h *SaleOrderHandler) ReplaceItems(c *fiber.Ctx) error {
	var in dto.ReplaceSaleOrderItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := h.sm.ReplaceItems(c.UserContext(), c.Params("id"), toSaleItems(in.Items), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSaleOrderResponse(order))
}

// Delete godoc
// @Summary      Eliminar pedido
// @Description  Solo pedidos pending; el stock descontado se devuelve.
// @Tags         sale-orders
// @Security     Bearer
// @Param        id   path  string  true  "ID del pedido"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sale-orders/{id} [delete]
func (h *SaleOrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.sm.Delete(c.UserContext(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Receipt godoc
// @Summary      Descargar comprobante PDF
// @Tags         sale-orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse  "pedido cancelado"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sale-orders/{id}/receipt [get]
func (h *SaleOrderHandler) Receipt(c *fiber.Ctx) error {
	if h.receipt == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_AVAILABLE", Message: "comprobantes no habilitados"})
	}
	pdf, filename, err := h.receipt.Download(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+strconv.Quote(filename))
	return c.Send(pdf)
}
