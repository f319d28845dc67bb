// Package catalog reglas puras del catálogo de productos.
package catalog

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldName quita tildes y diacríticos ("Cá Điêu Hồng" → "Ca Dieu Hong").
// La đ vietnamita no se descompone en NFD, se mapea a mano.
func FoldName(name string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(func(r rune) rune {
			switch r {
			case 'đ':
				return 'd'
			case 'Đ':
				return 'D'
			}
			return r
		}),
		norm.NFC,
	)
	out, _, err := transform.String(t, name)
	if err != nil {
		return name
	}
	return out
}

// SKUPrefix prefijo derivado del nombre: iniciales de hasta cuatro palabras,
// o las tres primeras letras si el nombre tiene una sola palabra.
func SKUPrefix(name string) string {
	words := strings.FieldsFunc(FoldName(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return "PRD"
	}
	var b strings.Builder
	if len(words) == 1 {
		w := []rune(words[0])
		if len(w) > 3 {
			w = w[:3]
		}
		b.WriteString(string(w))
	} else {
		for i, w := range words {
			if i == 4 {
				break
			}
			b.WriteRune([]rune(w)[0])
		}
	}
	return strings.ToUpper(b.String())
}

// GenerateSKU arma el SKU "<PREFIJO>-<secuencia de 4 dígitos>".
func GenerateSKU(name string, seq int) string {
	return fmt.Sprintf("%s-%04d", SKUPrefix(name), seq)
}
