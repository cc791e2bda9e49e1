package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usergate/userauth/internal/core/domain"
)

func TestRoleRepository_FindByNames(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(q("SELECT id, name FROM roles WHERE name = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "admin"))

	roles, err := store.Roles.FindByNames(context.Background(), []string{"admin", "ghost"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Role{{ID: "1", Name: "admin"}}, roles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepository_FindByNamesEmptySkipsQuery(t *testing.T) {
	store, mock := newMockStore(t)

	roles, err := store.Roles.FindByNames(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, roles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepository_EnsureRoles(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(q("INSERT INTO roles (name) SELECT unnest($1::text[]) ON CONFLICT (name) DO NOTHING")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, store.Roles.EnsureRoles(context.Background(), []string{"admin", "user", "admin", ""}))
	require.NoError(t, store.Roles.EnsureRoles(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepository_EnsureRolesError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(q("INSERT INTO roles")).
		WillReturnError(errors.New("connection reset"))

	err := store.Roles.EnsureRoles(context.Background(), []string{"admin"})
	assert.ErrorContains(t, err, "ensure roles")
	assert.NoError(t, mock.ExpectationsWereMet())
}
