package postgres

import (
	"fmt"
	"strings"
)

// whereBuilder arma cláusulas WHERE con placeholders posicionales ($1, $2...).
// Las condiciones se combinan con AND.
type whereBuilder struct {
	parts []string
	args  []any
}

// add agrega una condición; cada "?" del fragmento se reemplaza por el siguiente placeholder.
func (b *whereBuilder) add(fragment string, args ...any) *whereBuilder {
	for _, a := range args {
		b.args = append(b.args, a)
		fragment = strings.Replace(fragment, "?", fmt.Sprintf("$%d", len(b.args)), 1)
	}
	b.parts = append(b.parts, fragment)
	return b
}

// addIf agrega la condición solo si cond es true.
func (b *whereBuilder) addIf(cond bool, fragment string, args ...any) *whereBuilder {
	if cond {
		return b.add(fragment, args...)
	}
	return b
}

// sql devuelve " WHERE ..." o cadena vacía.
func (b *whereBuilder) sql() string {
	if len(b.parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.parts, " AND ")
}

// page agrega LIMIT/OFFSET como placeholders y devuelve el fragmento con los args completos.
func (b *whereBuilder) page(limit, offset int) (string, []any) {
	args := append(append([]any(nil), b.args...), limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}

// escapeLike escapa comodines de LIKE en la búsqueda del usuario.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
