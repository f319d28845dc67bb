package sales

import "github.com/jhoicas/fishtrade-api/internal/domain/entity"

// transitions tabla de estados permitidos del pedido de venta.
// Desde cancelled se puede reactivar a cualquier estado activo.
var transitions = map[entity.SaleStatus][]entity.SaleStatus{
	entity.SaleStatusPending:    {entity.SaleStatusProcessing, entity.SaleStatusCompleted, entity.SaleStatusCancelled},
	entity.SaleStatusProcessing: {entity.SaleStatusCompleted, entity.SaleStatusCancelled},
	entity.SaleStatusCompleted:  {entity.SaleStatusCancelled},
	entity.SaleStatusCancelled:  {entity.SaleStatusPending, entity.SaleStatusProcessing, entity.SaleStatusCompleted},
}

// CanTransition indica si from → to está en la tabla.
func CanTransition(from, to entity.SaleStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
