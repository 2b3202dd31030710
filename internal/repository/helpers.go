package repository

import (
	"database/sql"
	"strings"

	"github.com/educontrol/educontrol-api/internal/models"
)

// projection is one selected expression; absent columns are selected as NULL so row structs
// keep a fixed shape whatever the schema looks like.
type projection struct {
	expr    string
	alias   string
	present bool
}

func (p projection) sql() string {
	if !p.present {
		return "NULL AS " + p.alias
	}
	return p.expr + " AS " + p.alias
}

func selectList(cols []projection) string {
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = col.sql()
	}
	return strings.Join(parts, ", ")
}

func groupByList(cols []projection) string {
	parts := make([]string, 0, len(cols))
	for _, col := range cols {
		if col.present {
			parts = append(parts, col.expr)
		}
	}
	return strings.Join(parts, ", ")
}

// studentProjection selects a student with its group's grade and label resolved through the
// schema-wide candidate columns.
func studentProjection(caps models.SchemaCapabilities) ([]projection, string) {
	joinGroups := caps.JoinsGroups()
	cols := []projection{
		{expr: "a.id", alias: "id", present: true},
		{expr: "a.matricula", alias: "matricula", present: true},
		{expr: "a.nombre", alias: "nombre", present: true},
		{expr: "a.foto", alias: "foto", present: caps.StudentHasPhoto},
		{expr: "a.grupo_id", alias: "grupo_id", present: caps.StudentHasGroup},
		{expr: "a.es_jefe", alias: "es_jefe", present: caps.StudentHasLeaderFlag},
		{expr: "g." + caps.GroupGradeColumn, alias: "grado", present: joinGroups && caps.GroupGradeColumn != ""},
		{expr: "g." + caps.GroupLabelColumn, alias: "grupo", present: joinGroups && caps.GroupLabelColumn != ""},
	}
	join := ""
	if joinGroups {
		join = " LEFT JOIN grupos g ON g.id = a.grupo_id"
	}
	return cols, join
}

type studentRow struct {
	ID        int64          `db:"id"`
	Matricula sql.NullString `db:"matricula"`
	Nombre    sql.NullString `db:"nombre"`
	Foto      sql.NullString `db:"foto"`
	GrupoID   sql.NullInt64  `db:"grupo_id"`
	EsJefe    sql.NullBool   `db:"es_jefe"`
	Grado     sql.NullString `db:"grado"`
	Grupo     sql.NullString `db:"grupo"`
}

func (r studentRow) profile() models.StudentProfile {
	profile := models.StudentProfile{
		ID:         r.ID,
		Matricula:  r.Matricula.String,
		Name:       strings.TrimSpace(r.Nombre.String),
		Photo:      r.Foto.String,
		Grade:      strings.TrimSpace(r.Grado.String),
		GroupLabel: strings.TrimSpace(r.Grupo.String),
		IsLeader:   r.EsJefe.Valid && r.EsJefe.Bool,
	}
	if r.GrupoID.Valid {
		id := r.GrupoID.Int64
		profile.GroupID = &id
	}
	return profile
}

// reportLinkCondition returns the predicate joining reportes r to alumnos a.
func reportLinkCondition(link models.ReportLink) string {
	if link == models.ReportLinkMatricula {
		return "r.matricula = a.matricula"
	}
	return "r.alumno_id = a.id"
}
