package database

import (
	"testing"

	"event-manager-api/core/config"

	"github.com/stretchr/testify/assert"
)

func TestConnectionStrings(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "app",
		Password: "p@ss word",
		Name:     "events",
	}

	assert.Equal(t, "postgres://app:p%40ss%20word@db:5433/events?sslmode=disable", URL(cfg))

	cfg.Password = "secret"
	assert.Equal(t, "host=db port=5433 user=app password=secret dbname=events sslmode=disable", DSN(cfg))

	cfg.SSLMode = "require"
	assert.Contains(t, URL(cfg), "sslmode=require")
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationFiles.ReadDir("migrations")
	assert.NoError(t, err)
	assert.Len(t, entries, 6)
}
