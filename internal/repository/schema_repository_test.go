package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaRepositoryColumns(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSchemaRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE table_schema = current_schema() AND table_name = $1")).
		WithArgs("grupos").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id").AddRow("Semestre").AddRow("grupo"))

	cols, err := repo.Columns(context.Background(), "grupos")
	require.NoError(t, err)
	assert.True(t, cols.Has("semestre"))
	assert.True(t, cols.Has("grupo"))
	assert.False(t, cols.Has("grado"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaRepositoryColumnsUnknownTable(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSchemaRepository(db)

	mock.ExpectQuery("information_schema.columns").
		WithArgs("reportes_historial").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}))

	cols, err := repo.Columns(context.Background(), "reportes_historial")
	require.NoError(t, err)
	assert.Empty(t, cols)
}

func TestSchemaRepositoryColumnsError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSchemaRepository(db)

	mock.ExpectQuery("information_schema.columns").WillReturnError(errors.New("connection refused"))

	_, err := repo.Columns(context.Background(), "alumnos")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "probe columns of alumnos")
}
