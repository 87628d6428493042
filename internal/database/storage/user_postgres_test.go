package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GoArmGo/SocialApp/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{"id", "username", "email", "password_hash", "created_at", "updated_at"}

func TestUserStorage_CreateUser(t *testing.T) {
	s, mock := newTestUserStorage(t)

	mock.ExpectExec(`INSERT INTO users \(id, username, email, password_hash, created_at, updated_at\)`).
		WithArgs(sqlmock.AnyArg(), "alice", "a@x.com", "$2a$04$digest", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user := &domain.User{Username: "alice", Email: "a@x.com", PasswordHash: "$2a$04$digest"}
	require.NoError(t, s.CreateUser(context.Background(), user))

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStorage_CreateUser_DuplicateEmail(t *testing.T) {
	s, mock := newTestUserStorage(t)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "users_email_key"`))

	err := s.CreateUser(context.Background(), &domain.User{Username: "alice", Email: "a@x.com", PasswordHash: "h"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert user")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStorage_GetUserByEmail(t *testing.T) {
	s, mock := newTestUserStorage(t)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("A@X.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(id.String(), "alice", "a@x.com", "digest", now, now))

	user, err := s.GetUserByEmail(context.Background(), "A@X.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "digest", user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStorage_GetUserByEmail_NotFound(t *testing.T) {
	s, mock := newTestUserStorage(t)

	mock.ExpectQuery(`FROM users WHERE LOWER\(email\)`).
		WithArgs("ghost@x.com").
		WillReturnError(sql.ErrNoRows)

	user, err := s.GetUserByEmail(context.Background(), "ghost@x.com")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserStorage_GetUserByID(t *testing.T) {
	s, mock := newTestUserStorage(t)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(id.String(), "bob", "b@x.com", "digest", now, now))

	user, err := s.GetUserByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "bob", user.Username)
}

func TestUserStorage_GetUserByID_Errors(t *testing.T) {
	s, mock := newTestUserStorage(t)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).WillReturnError(sql.ErrNoRows)
	user, err := s.GetUserByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, user)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).WillReturnError(errors.New("db down"))
	user, err = s.GetUserByID(context.Background(), uuid.New())
	assert.Nil(t, user)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}
