package storage

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GoArmGo/SocialApp/internal/logger"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func newTestUserStorage(t *testing.T) (*UserStorage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewUserStorage(db, logger.Discard()), mock
}

func newTestPostStorage(t *testing.T) (*PostgresStorage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewPostgresStorage(db, logger.Discard()), mock
}
