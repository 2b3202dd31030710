package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educontrol/educontrol-api/internal/models"
)

func TestUserRepositoryFindByUsername(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db, fullCapabilities())

	rows := sqlmock.NewRows([]string{"id", "nombre", "password", "rol", "activo", "alumno_id"}).
		AddRow(int64(4), "orienta1", "$2y$10$hash", "orientación", true, nil)
	mock.ExpectQuery(regexp.QuoteMeta("activo AS activo, alumno_id AS alumno_id FROM usuarios WHERE nombre = $1 LIMIT 1")).
		WithArgs("orienta1").
		WillReturnRows(rows)

	user, err := repo.FindByUsername(context.Background(), "orienta1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), user.ID)
	assert.Equal(t, models.RoleOrientation, user.Role())
	assert.True(t, user.IsActive())
	assert.Nil(t, user.StudentID)
}

func TestUserRepositoryFindByUsernameWithoutOptionalColumns(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db, minimalCapabilities())

	rows := sqlmock.NewRows([]string{"id", "nombre", "password", "rol", "activo", "alumno_id"}).
		AddRow(int64(1), "prefecto", "secret", nil, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("NULL AS activo, NULL AS alumno_id FROM usuarios")).
		WithArgs("prefecto").
		WillReturnRows(rows)

	user, err := repo.FindByUsername(context.Background(), "prefecto")
	require.NoError(t, err)
	assert.Equal(t, models.RolePrefect, user.Role())
	assert.True(t, user.IsActive())
}

func TestUserRepositoryFindByUsernameNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db, fullCapabilities())

	mock.ExpectQuery("FROM usuarios").WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db, fullCapabilities())

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO usuarios (nombre, password, rol) VALUES ($1, $2, $3) RETURNING id")).
		WithArgs("prefecta", "hash", "prefecto").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))

	id, err := repo.Create(context.Background(), "prefecta", "hash", models.RolePrefect)
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
}
