package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/fishtrade-api/internal/domain"
)

func TestWrapErr_TraduceCodigos(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{codeUniqueViolation, domain.ErrDuplicate},
		{codeForeignKeyViolation, domain.ErrNotFound},
		{codeCheckViolation, domain.ErrInvalidInput},
		{"55P03", domain.ErrPersistence}, // lock_not_available
		{"40P01", domain.ErrPersistence}, // deadlock_detected
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			err := wrapErr("op", &pgconn.PgError{Code: tc.code, ConstraintName: "c"})
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.NoError(t, wrapErr("op", nil))

	plain := errors.New("conn reset")
	err := wrapErr("op", plain)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, plain)
}

func TestFilter_NumeraPlaceholders(t *testing.T) {
	var f filter
	assert.Equal(t, "", f.where())

	f.add(`status = $%d`, "pending")
	f.add(`(name ILIKE $%[1]d OR sku ILIKE $%[1]d)`, "%ca%")
	f.add(`created_at >= $%d`, "2024-01-01")

	assert.Equal(t, " WHERE status = $1 AND (name ILIKE $2 OR sku ILIKE $2) AND created_at >= $3", f.where())
	assert.Len(t, f.args, 3)
}

func TestPageClauseYLike(t *testing.T) {
	assert.Equal(t, "", pageClause(0, 0))
	assert.Equal(t, " LIMIT 20", pageClause(20, 0))
	assert.Equal(t, " LIMIT 20 OFFSET 40", pageClause(20, 40))
	assert.Equal(t, `%50\% off\_x%`, likePattern("50% off_x"))
}

func TestValidIDYNullable(t *testing.T) {
	assert.True(t, validID("7f3c1a9e-2b4d-4c6e-8f0a-1b2c3d4e5f60"))
	assert.False(t, validID("no-existe"))
	assert.Nil(t, nullable(""))
	assert.Equal(t, "x", nullable("x"))
}

func TestMigrationVersions_Ordenadas(t *testing.T) {
	versions, err := migrationVersions()
	assert.NoError(t, err)
	assert.NotEmpty(t, versions)
	assert.Equal(t, "001_init.sql", versions[0])
}
