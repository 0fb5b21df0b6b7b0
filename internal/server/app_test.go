package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophchat/internal/server/config"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.StorageBackend = config.StorageMemory
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.LogLevel = "error"
	return c
}

func TestNewRepositories_Memory(t *testing.T) {
	db, rm, err := newRepositories(context.Background(), memoryConfig())
	require.NoError(t, err)
	assert.Nil(t, db)
	assert.IsType(t, &repomanager.MemoryRepositoryManager{}, rm)
}

func TestNewRepositories_Unknown(t *testing.T) {
	c := memoryConfig()
	c.StorageBackend = "mongo"
	_, _, err := newRepositories(context.Background(), c)
	assert.Error(t, err)
}

func TestNewRepositories_PostgresPingFails(t *testing.T) {
	orig := openDB
	defer func() { openDB = orig }()

	openDB = func(string) (*sql.DB, error) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		mock.ExpectClose()
		return db, nil
	}

	c := memoryConfig()
	c.StorageBackend = config.StoragePostgres
	_, _, err := newRepositories(context.Background(), c)
	assert.ErrorContains(t, err, "db ping error")
}

func TestNewRepositories_PostgresOpenFails(t *testing.T) {
	orig := openDB
	defer func() { openDB = orig }()

	openDB = func(string) (*sql.DB, error) { return nil, errors.New("bad dsn") }

	c := memoryConfig()
	c.StorageBackend = config.StoragePostgres
	_, _, err := newRepositories(context.Background(), c)
	assert.ErrorContains(t, err, "bad dsn")
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
}

func TestNewApp_UnknownEventsBackend(t *testing.T) {
	c := memoryConfig()
	c.EventsBackend = "smoke-signals"

	_, err := NewApp(context.Background(), c)
	assert.ErrorContains(t, err, "events init error")
}
