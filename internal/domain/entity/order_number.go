package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prefijos de numeración de pedidos.
const (
	SaleOrderPrefix   = "SO"
	ImportOrderPrefix = "IO"
)

// NewOrderNumber genera "<prefijo>-AAAAMMDD-XXXXXX". La unicidad la garantiza la BD.
func NewOrderNumber(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), suffix)
}
