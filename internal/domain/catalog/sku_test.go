package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldName_QuitaDiacriticos(t *testing.T) {
	assert.Equal(t, "Ca Dieu Hong", FoldName("Cá Điêu Hồng"))
	assert.Equal(t, "Ca Tra phi le", FoldName("Cá Tra phi lê"))
	assert.Equal(t, "Salmon", FoldName("Salmón"))
}

func TestSKUPrefix(t *testing.T) {
	assert.Equal(t, "CDH", SKUPrefix("Cá Điêu Hồng"))
	assert.Equal(t, "SAL", SKUPrefix("salmón"))
	assert.Equal(t, "CTPL", SKUPrefix("Cá tra phi lê đông lạnh"))
	assert.Equal(t, "PRD", SKUPrefix("  -- "))
}

func TestGenerateSKU(t *testing.T) {
	assert.Equal(t, "CDH-0007", GenerateSKU("Cá Điêu Hồng", 7))
}
