package dto

import (
	"time"

	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
)

// ContactRequest entrada para crear un cliente o un proveedor.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}

// ContactResponse salida de un cliente o proveedor.
type ContactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactListResponse lista paginada.
type ContactListResponse struct {
	Items []ContactResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ToCustomerResponse mapea un cliente.
func ToCustomerResponse(c *entity.Customer) ContactResponse {
	return ContactResponse{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email, Address: c.Address, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

// ToSupplierResponse mapea un proveedor.
func ToSupplierResponse(s *entity.Supplier) ContactResponse {
	return ContactResponse{ID: s.ID, Name: s.Name, Phone: s.Phone, Email: s.Email, Address: s.Address, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt}
}
