package entity

import "time"

// Customer cliente que compra pescado (directorio externo al núcleo).
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
