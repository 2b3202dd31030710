package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educontrol/educontrol-api/pkg/config"
)

func TestDSNPostgres(t *testing.T) {
	dsn, err := DSN(config.DatabaseConfig{Driver: config.DriverPostgres, Host: "db", Port: 5432, User: "u", Password: "p", Name: "educontrol", SSLMode: "disable"})
	require.NoError(t, err)
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=educontrol sslmode=disable", dsn)
}

func TestDSNMySQL(t *testing.T) {
	dsn, err := DSN(config.DatabaseConfig{Driver: config.DriverMySQL, Host: "localhost", Port: 3307, User: "app", Password: "secret", Name: "educontrol"})
	require.NoError(t, err)
	assert.Contains(t, dsn, "app:secret@tcp(localhost:3307)/educontrol")
	assert.Contains(t, dsn, "parseTime=true")
}

func TestDSNUnsupported(t *testing.T) {
	_, err := DSN(config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
}

func TestCurrentSchemaExpr(t *testing.T) {
	assert.Equal(t, "DATABASE()", CurrentSchemaExpr(config.DriverMySQL))
	assert.Equal(t, "current_schema()", CurrentSchemaExpr(config.DriverPostgres))
	assert.Equal(t, "current_schema()", CurrentSchemaExpr("sqlmock"))
}
