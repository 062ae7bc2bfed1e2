package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/guestwifi/internal/server/config"
	"github.com/dmitrijs2005/guestwifi/internal/server/models"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/dynamo/dynamotest"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func stubGoose(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	orig := gooseUpContext
	gooseUpContext = fn
	t.Cleanup(func() { gooseUpContext = orig })
}

func stubOpen(t *testing.T, db *sql.DB, err error) {
	t.Helper()
	orig := sqlOpen
	sqlOpen = func(driver, dsn string) (*sql.DB, error) {
		if driver != "pgx" {
			return nil, errors.New("unexpected driver " + driver)
		}
		return db, err
	}
	t.Cleanup(func() { sqlOpen = orig })
}

func TestNew_Memory(t *testing.T) {
	cfg := &config.Config{StoreBackend: config.StoreMemory}

	m, err := New(context.Background(), cfg)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, m.Devices().Put(ctx, &models.Device{Serial: "Q2AB-CDEF-GHIJ", Email: "a@example.com"}))
	got, err := m.Devices().Get(ctx, "Q2AB-CDEF-GHIJ")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)
	assert.NotNil(t, m.Users())
	assert.NotNil(t, m.AccessRequests())
	assert.NoError(t, m.Close())
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), &config.Config{StoreBackend: "redis"})
	assert.Error(t, err)
}

func TestDynamoRepositoryManager_UsesConfiguredTables(t *testing.T) {
	mem := dynamotest.New(map[string]string{"d": "serial", "u": "email", "r": "id"})
	m := NewDynamoRepositoryManager(mem, Tables{Devices: "d", Users: "u", AccessRequests: "r"})
	ctx := context.Background()

	require.NoError(t, m.Devices().Put(ctx, &models.Device{Serial: "Q2AB-CDEF-GHIJ", Email: "a@example.com"}))
	require.NoError(t, m.AccessRequests().Put(ctx, &models.AccessRequest{ID: "req-1", Status: models.StatusCreated}))

	assert.NotNil(t, mem.Item("d", "Q2AB-CDEF-GHIJ"))
	assert.NotNil(t, mem.Item("r", "req-1"))
	assert.NoError(t, m.Close())
}

func TestNewPostgresRepositoryManager_RunsMigrations(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectPing()
	mock.ExpectClose()
	stubOpen(t, db, nil)

	called := false
	stubGoose(t, func(ctx context.Context, got *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		called = true
		if got != db || dir != "." {
			return errors.New("unexpected goose args")
		}
		return nil
	})

	m, err := NewPostgresRepositoryManager(context.Background(), "postgres://x")
	require.NoError(t, err)
	assert.True(t, called)
	assert.NotNil(t, m.Devices())
	assert.NotNil(t, m.Users())
	assert.NotNil(t, m.AccessRequests())
	require.NoError(t, m.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgresRepositoryManager_MigrationError(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectPing()
	mock.ExpectClose()
	stubOpen(t, db, nil)
	stubGoose(t, func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	})

	_, err := NewPostgresRepositoryManager(context.Background(), "postgres://x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgresRepositoryManager_PingError(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectPing().WillReturnError(errors.New("refused"))
	mock.ExpectClose()
	stubOpen(t, db, nil)

	_, err := NewPostgresRepositoryManager(context.Background(), "postgres://x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping database")
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()
	stubGoose(t, func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	})

	m := newPostgresRepositoryManager(db)
	if err := m.RunMigrations(context.Background()); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}
