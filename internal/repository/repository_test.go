package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/educontrol/educontrol-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

// fullCapabilities describes a schema that has every optional column.
func fullCapabilities() models.SchemaCapabilities {
	return models.BuildCapabilities(map[string]models.ColumnSet{
		models.TableUsers:    models.NewColumnSet("id", "nombre", "password", "rol", "activo", "alumno_id"),
		models.TableStudents: models.NewColumnSet("id", "matricula", "nombre", "foto", "grupo_id", "es_jefe"),
		models.TableGroups:   models.NewColumnSet("id", "grado", "nombre"),
		models.TableReports: models.NewColumnSet("id", "alumno_id", "tipo", "descripcion", "horas", "aplicado_por",
			"ultima_mod_por", "activo", "created_at", "updated_at"),
		models.TableReportHistory: models.NewColumnSet("id", "reporte_id", "horas_prev", "horas_new", "usuario_id", "nota", "creado_at"),
	})
}

// minimalCapabilities describes a legacy schema: reports keyed by matricula, groups with
// semestre/grupo, no history table and no attribution columns.
func minimalCapabilities() models.SchemaCapabilities {
	return models.BuildCapabilities(map[string]models.ColumnSet{
		models.TableUsers:    models.NewColumnSet("id", "nombre", "password", "rol"),
		models.TableStudents: models.NewColumnSet("id", "matricula", "nombre", "grupo_id"),
		models.TableGroups:   models.NewColumnSet("id", "semestre", "grupo"),
		models.TableReports:  models.NewColumnSet("id", "matricula", "tipo", "horas"),
	})
}
