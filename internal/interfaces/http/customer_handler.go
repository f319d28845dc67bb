package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fishtrade-api/internal/application/catalog"
	"github.com/jhoicas/fishtrade-api/internal/application/dto"
)

// contactUseCase lo que clientes y proveedores tienen en común.
type contactUseCase interface {
	Create(ctx context.Context, in dto.ContactRequest) (*dto.ContactResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ContactResponse, error)
	List(ctx context.Context, page dto.PageRequest) (*dto.ContactListResponse, error)
}

var (
	_ contactUseCase = (*catalog.CustomerUseCase)(nil)
	_ contactUseCase = (*catalog.SupplierUseCase)(nil)
)

// ContactHandler CRUD mínimo de clientes o proveedores.
type ContactHandler struct {
	uc contactUseCase
}

// NewCustomerHandler handler de /api/customers.
func NewCustomerHandler(uc *catalog.CustomerUseCase) *ContactHandler {
	return &ContactHandler{uc: uc}
}

// NewSupplierHandler handler de /api/suppliers.
func NewSupplierHandler(uc *catalog.SupplierUseCase) *ContactHandler {
	return &ContactHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cliente o proveedor
// @Tags         customers,suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ContactRequest  true  "Datos de contacto"
// @Success      201   {object}  dto.ContactResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
// @Router       /api/suppliers [post]
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	var in dto.ContactRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener cliente o proveedor
// @Tags         customers,suppliers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.ContactResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
// @Router       /api/suppliers/{id} [get]
func (h *ContactHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar clientes o proveedores
// @Tags         customers,suppliers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.ContactListResponse
// @Router       /api/customers [get]
// @Router       /api/suppliers [get]
func (h *ContactHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
