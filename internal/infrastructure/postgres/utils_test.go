package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/catalog-backoffice/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"timeout", fmt.Errorf("query: %w", context.DeadlineExceeded), domain.ErrCollaboratorUnavailable},
		{"serialización", &pgconn.PgError{Code: "40001"}, domain.ErrConcurrentModification},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, domain.ErrConcurrentModification},
		{"conexión", &pgconn.PgError{Code: "08006"}, domain.ErrCollaboratorUnavailable},
		{"shutdown", &pgconn.PgError{Code: "57P01"}, domain.ErrCollaboratorUnavailable},
		{"ya clasificado", domain.ErrConcurrentModification, domain.ErrConcurrentModification},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.True(t, domain.IsTransient(got))
		})
	}
}

func TestClassify_NoTransitorios(t *testing.T) {
	assert.Nil(t, classify(nil))

	check := &pgconn.PgError{Code: "23514"}
	assert.Same(t, error(check), classify(check))

	plain := errors.New("boom")
	assert.False(t, domain.IsTransient(classify(plain)))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, wrap("op", nil))
	err := wrap("get listing", context.DeadlineExceeded)
	assert.ErrorIs(t, err, domain.ErrCollaboratorUnavailable)
	assert.Contains(t, err.Error(), "get listing")
}
