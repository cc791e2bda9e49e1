package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usergate/userauth/internal/core/domain"
)

var userColumns = []string{"id", "email", "password_hash", "created_at", "updated_at"}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

func TestUserRepository_Create(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(q("INSERT INTO users")).
		WithArgs("a@x.com", "hash", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec(q("INSERT INTO user_roles")).
		WithArgs(int64(7), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("INSERT INTO user_roles")).
		WithArgs(int64(7), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(q("FROM users WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(7), "a@x.com", "hash", now, now))
	mock.ExpectQuery(q("FROM roles r JOIN user_roles ur")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "admin").AddRow(int64(2), "user"))

	created, err := store.Users.Create(context.Background(), &domain.User{
		Email:        "a@x.com",
		PasswordHash: "hash",
		Roles:        []domain.Role{{ID: "2", Name: "user"}, {ID: "1", Name: "admin"}},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	assert.Equal(t, "7", created.ID)
	// Roles come back in the same order as every other read.
	assert.Equal(t, []string{"admin", "user"}, domain.RoleNames(created.Roles))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: uniqueViolation})
	mock.ExpectRollback()

	_, err := store.Users.Create(context.Background(), &domain.User{Email: "a@x.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	mock.ExpectQuery(q("FROM users WHERE email = $1")).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(7), "a@x.com", "hash", now, now))
	mock.ExpectQuery(q("FROM roles r JOIN user_roles ur")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "admin").AddRow(int64(2), "user"))

	user, err := store.Users.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "7", user.ID)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.Equal(t, []domain.Role{{ID: "1", Name: "admin"}, {ID: "2", Name: "user"}}, user.Roles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByIDNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(q("FROM users WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := store.Users.FindByID(context.Background(), "9")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = store.Users.FindByID(context.Background(), "not-a-number")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	mock.ExpectQuery(q("FROM users ORDER BY id")).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(1), "admin@x.com", "h1", now, now).
			AddRow(int64(2), "b@x.com", "h2", now, now))
	mock.ExpectQuery(q("FROM user_roles ur JOIN roles r")).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "id", "name"}).
			AddRow(int64(1), int64(1), "admin").
			AddRow(int64(1), int64(2), "user").
			AddRow(int64(2), int64(2), "user"))

	users, err := store.Users.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, []string{"admin", "user"}, domain.RoleNames(users[0].Roles))
	assert.Equal(t, []string{"user"}, domain.RoleNames(users[1].Roles))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ListEmpty(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(q("FROM users ORDER BY id")).
		WillReturnRows(sqlmock.NewRows(userColumns))

	users, err := store.Users.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NotNil(t, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateEmailAndRoles(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC().Truncate(time.Second)
	email := "new@x.com"

	mock.ExpectBegin()
	mock.ExpectExec(q("UPDATE users SET email = $1, updated_at = $2 WHERE id = $3")).
		WithArgs(email, sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("DELETE FROM user_roles WHERE user_id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("INSERT INTO user_roles")).
		WithArgs(int64(7), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(q("FROM users WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(7), email, "hash", now, now))
	mock.ExpectQuery(q("FROM roles r JOIN user_roles ur")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "admin"))

	updated, err := store.Users.Update(context.Background(), "7", domain.UserPatch{
		Email: &email,
		Roles: []domain.Role{{ID: "1", Name: "admin"}},
	})
	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)
	assert.Equal(t, []string{"admin"}, domain.RoleNames(updated.Roles))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateMissingUser(t *testing.T) {
	store, mock := newMockStore(t)
	hash := "h"

	mock.ExpectBegin()
	mock.ExpectExec(q("UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3")).
		WithArgs(hash, sqlmock.AnyArg(), int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := store.Users.Update(context.Background(), "8", domain.UserPatch{PasswordHash: &hash})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateDuplicateEmail(t *testing.T) {
	store, mock := newMockStore(t)
	email := "taken@x.com"

	mock.ExpectBegin()
	mock.ExpectExec(q("UPDATE users SET")).
		WillReturnError(&pq.Error{Code: uniqueViolation})
	mock.ExpectRollback()

	_, err := store.Users.Update(context.Background(), "7", domain.UserPatch{Email: &email})
	assert.ErrorIs(t, err, domain.ErrUserExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(q("DELETE FROM users WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("DELETE FROM users WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Users.Delete(context.Background(), "7"))
	assert.ErrorIs(t, store.Users.Delete(context.Background(), "7"), domain.ErrUserNotFound)
	assert.ErrorIs(t, store.Users.Delete(context.Background(), "abc"), domain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
