package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhereBuilder(t *testing.T) {
	var b whereBuilder
	b.add("product_id = ?", "p1").
		addIf(false, "sku = ?", "x").
		addIf(true, "created_at BETWEEN ? AND ?", 1, 2)

	assert.Equal(t, " WHERE product_id = $1 AND created_at BETWEEN $2 AND $3", b.sql())
	assert.Equal(t, []any{"p1", 1, 2}, b.args)

	pageSQL, args := b.page(20, 40)
	assert.Equal(t, " LIMIT $4 OFFSET $5", pageSQL)
	assert.Equal(t, []any{"p1", 1, 2, 20, 40}, args)
	assert.Len(t, b.args, 3, "page no altera los args del conteo")
}

func TestWhereBuilder_Vacio(t *testing.T) {
	var b whereBuilder
	assert.Equal(t, "", b.sql())
	pageSQL, args := b.page(10, 0)
	assert.Equal(t, " LIMIT $1 OFFSET $2", pageSQL)
	assert.Equal(t, []any{10, 0}, args)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_x`, escapeLike("50% off_x"))
}
