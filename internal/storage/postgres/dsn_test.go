package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imageanchor/artaday-backend/config"
)

func TestDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{Host: "localhost", Port: 5432, User: "diary", Password: "secret", Name: "artaday"}
	assert.Equal(t, "host=localhost port=5432 user=diary password=secret dbname=artaday sslmode=disable", DSN(cfg))

	cfg.Password = "it's a pass"
	cfg.SSLMode = "require"
	assert.Equal(t, `host=localhost port=5432 user=diary password='it\'s a pass' dbname=artaday sslmode=require`, DSN(cfg))

	cfg.Password = ""
	assert.Contains(t, DSN(cfg), "password='' ")
}

func TestURL(t *testing.T) {
	cfg := &config.DatabaseConfig{Host: "db", Port: 5433, User: "diary", Password: "secret", Name: "artaday"}
	assert.Equal(t, "postgres://diary@db:5433/artaday", URL(cfg))
}
