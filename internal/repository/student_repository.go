package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/educontrol/educontrol-api/internal/models"
)

// StudentRepository reads students and their groups. Enrollment happens elsewhere, so there are
// no write paths.
type StudentRepository struct {
	db   *sqlx.DB
	caps models.SchemaCapabilities
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB, caps models.SchemaCapabilities) *StudentRepository {
	return &StudentRepository{db: db, caps: caps}
}

// FindByMatricula returns the identity columns of a student.
func (r *StudentRepository) FindByMatricula(ctx context.Context, matricula string) (*models.Student, error) {
	query := r.db.Rebind("SELECT id, matricula, nombre FROM alumnos WHERE matricula = ? LIMIT 1")
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, matricula); err != nil {
		return nil, err
	}
	return &student, nil
}

// MatriculaByID resolves the matricula of a student id.
func (r *StudentRepository) MatriculaByID(ctx context.Context, id int64) (string, error) {
	query := r.db.Rebind("SELECT matricula FROM alumnos WHERE id = ? LIMIT 1")
	var matricula sql.NullString
	if err := r.db.GetContext(ctx, &matricula, query, id); err != nil {
		return "", err
	}
	return matricula.String, nil
}

// Profile loads a student joined to its group.
func (r *StudentRepository) Profile(ctx context.Context, matricula string) (*models.StudentProfile, error) {
	cols, join := studentProjection(r.caps)
	query := r.db.Rebind(fmt.Sprintf("SELECT %s FROM alumnos a%s WHERE a.matricula = ? LIMIT 1", selectList(cols), join))
	var row studentRow
	if err := r.db.GetContext(ctx, &row, query, matricula); err != nil {
		return nil, err
	}
	profile := row.profile()
	return &profile, nil
}

type studentTotalRow struct {
	studentRow
	TotalHoras  int64 `db:"total_horas"`
	NumReportes int64 `db:"num_reportes"`
}

// Totals returns every student with the sum of hours and number of active reports. A report is
// active when its flag is true or null; without the column every report counts. Students without
// reports are included with zero totals. Rows come back in id order; callers apply display
// ordering.
func (r *StudentRepository) Totals(ctx context.Context) ([]models.StudentTotal, error) {
	if r.caps.ReportLink == models.ReportLinkNone {
		return nil, r.caps.Validate()
	}
	cols, join := studentProjection(r.caps)
	on := reportLinkCondition(r.caps.ReportLink)
	if r.caps.ReportHasActive {
		on += " AND (r.activo IS NULL OR r.activo = TRUE)"
	}
	query := fmt.Sprintf(`SELECT %s, COALESCE(SUM(r.horas), 0) AS total_horas, COUNT(r.id) AS num_reportes
        FROM alumnos a%s LEFT JOIN reportes r ON %s
        GROUP BY %s ORDER BY a.id`, selectList(cols), join, on, groupByList(cols))

	var rows []studentTotalRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("aggregate student totals: %w", err)
	}
	totals := make([]models.StudentTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, models.StudentTotal{
			StudentProfile: row.profile(),
			TotalHours:     int(row.TotalHoras),
			ReportCount:    int(row.NumReportes),
		})
	}
	return totals, nil
}

type groupRow struct {
	ID    int64          `db:"id"`
	Grado sql.NullString `db:"grado"`
	Grupo sql.NullString `db:"grupo"`
}

// Groups lists every group with its resolved grade and label.
func (r *StudentRepository) Groups(ctx context.Context) ([]models.Group, error) {
	if !r.caps.HasGroupsTable {
		return nil, nil
	}
	cols := []projection{
		{expr: "id", alias: "id", present: true},
		{expr: r.caps.GroupGradeColumn, alias: "grado", present: r.caps.GroupGradeColumn != ""},
		{expr: r.caps.GroupLabelColumn, alias: "grupo", present: r.caps.GroupLabelColumn != ""},
	}
	query := fmt.Sprintf("SELECT %s FROM grupos ORDER BY id", selectList(cols))
	var rows []groupRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	groups := make([]models.Group, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, models.Group{ID: row.ID, Grade: row.Grado.String, Label: row.Grupo.String})
	}
	return groups, nil
}
