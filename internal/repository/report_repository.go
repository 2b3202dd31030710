package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/educontrol/educontrol-api/internal/models"
)

// ReportRepository persists reports and their hour history.
type ReportRepository struct {
	db      *sqlx.DB
	caps    models.SchemaCapabilities
	columns models.ColumnSet
}

// NewReportRepository constructs a ReportRepository.
func NewReportRepository(db *sqlx.DB, caps models.SchemaCapabilities) *ReportRepository {
	return &ReportRepository{db: db, caps: caps, columns: models.NewColumnSet(caps.ReportColumns...)}
}

func (r *ReportRepository) projection() ([]projection, string) {
	creator := r.caps.CreatorLabels()
	modifier := r.caps.ModifierLabels()
	cols := []projection{
		{expr: "r.id", alias: "id", present: true},
		{expr: "r.alumno_id", alias: "alumno_id", present: r.columns.Has("alumno_id")},
		{expr: "r.matricula", alias: "matricula", present: r.columns.Has("matricula")},
		{expr: "COALESCE(r.tipo, '')", alias: "tipo", present: true},
		{expr: "r.descripcion", alias: "descripcion", present: r.caps.ReportHasDescription},
		{expr: "COALESCE(r.horas, 0)", alias: "horas", present: true},
		{expr: "r.aplicado_por", alias: "aplicado_por", present: r.caps.ReportHasCreator},
		{expr: "r.ultima_mod_por", alias: "ultima_mod_por", present: r.caps.ReportHasModifier},
		{expr: "u1.nombre", alias: "aplicado_nombre", present: creator},
		{expr: "u2.nombre", alias: "ultima_mod_nombre", present: modifier},
		{expr: "r.created_at", alias: "created_at", present: r.caps.ReportHasCreatedAt},
		{expr: "r.updated_at", alias: "updated_at", present: r.caps.ReportHasUpdatedAt},
	}
	var joins strings.Builder
	if creator {
		joins.WriteString(" LEFT JOIN usuarios u1 ON u1.id = r.aplicado_por")
	}
	if modifier {
		joins.WriteString(" LEFT JOIN usuarios u2 ON u2.id = r.ultima_mod_por")
	}
	return cols, joins.String()
}

// orderClause lists outstanding reports before completed ones, larger debts first, newest first,
// with the id as a final tie-break.
func (r *ReportRepository) orderClause() string {
	order := []string{"CASE WHEN r.horas > 0 THEN 1 ELSE 0 END DESC", "r.horas DESC"}
	if r.caps.ReportHasCreatedAt {
		order = append(order, "r.created_at DESC")
	}
	order = append(order, "r.id ASC")
	return " ORDER BY " + strings.Join(order, ", ")
}

// ListForStudent returns the reports linked to the student using the detected link column.
func (r *ReportRepository) ListForStudent(ctx context.Context, student models.Student) ([]models.Report, error) {
	var (
		where string
		arg   interface{}
	)
	switch r.caps.ReportLink {
	case models.ReportLinkStudentID:
		where, arg = "r.alumno_id = ?", student.ID
	case models.ReportLinkMatricula:
		where, arg = "r.matricula = ?", student.Matricula
	default:
		return nil, r.caps.Validate()
	}

	cols, joins := r.projection()
	query := r.db.Rebind(fmt.Sprintf("SELECT %s FROM reportes r%s WHERE %s%s",
		selectList(cols), joins, where, r.orderClause()))

	reports := make([]models.Report, 0)
	if err := r.db.SelectContext(ctx, &reports, query, arg); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// GetByID fetches a single report.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	cols, joins := r.projection()
	query := r.db.Rebind(fmt.Sprintf("SELECT %s FROM reportes r%s WHERE r.id = ? LIMIT 1", selectList(cols), joins))
	var report models.Report
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		return nil, err
	}
	return &report, nil
}

// Create inserts a report writing only the columns the table defines.
func (r *ReportRepository) Create(ctx context.Context, report models.NewReport) error {
	columns := []string{"id", "tipo", "horas"}
	args := []interface{}{report.ID, report.Type, report.Hours}
	add := func(column string, value interface{}) {
		if r.columns.Has(column) {
			columns = append(columns, column)
			args = append(args, value)
		}
	}
	add("alumno_id", report.StudentID)
	add("matricula", report.Matricula)
	add("descripcion", report.Description)
	add("aplicado_por", report.ActorID)
	add("ultima_mod_por", report.ActorID)
	add("activo", true)
	add("created_at", report.CreatedAt)
	add("updated_at", report.CreatedAt)

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := r.db.Rebind(fmt.Sprintf("INSERT INTO reportes (%s) VALUES (%s)", strings.Join(columns, ", "), placeholders))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// UpdateHours changes the hours of a report and appends a history row in one transaction. The
// current balance is read under a row lock. sql.ErrNoRows is returned unwrapped when the report
// does not exist.
func (r *ReportRepository) UpdateHours(ctx context.Context, update models.HoursUpdate) (result *models.HoursUpdateResult, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin report transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var previous sql.NullInt64
	if err = tx.GetContext(ctx, &previous, tx.Rebind("SELECT horas FROM reportes WHERE id = ? FOR UPDATE"), update.ReportID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("lock report: %w", err)
	}

	sets := []string{"horas = ?"}
	args := []interface{}{update.Hours}
	if update.Description != nil && r.caps.ReportHasDescription {
		sets = append(sets, "descripcion = ?")
		args = append(args, *update.Description)
	}
	if r.caps.ReportHasUpdatedAt {
		sets = append(sets, "updated_at = ?")
		args = append(args, update.UpdatedAt)
	}
	if r.caps.ReportHasModifier {
		sets = append(sets, "ultima_mod_por = ?")
		args = append(args, update.ActorID)
	}
	args = append(args, update.ReportID)
	updateQuery := tx.Rebind(fmt.Sprintf("UPDATE reportes SET %s WHERE id = ?", strings.Join(sets, ", ")))
	if _, err = tx.ExecContext(ctx, updateQuery, args...); err != nil {
		return nil, fmt.Errorf("update report hours: %w", err)
	}

	if r.caps.HasHistoryTable {
		const historyQuery = `INSERT INTO reportes_historial (reporte_id, horas_prev, horas_new, usuario_id, nota, creado_at)
VALUES (?, ?, ?, ?, ?, ?)`
		if _, err = tx.ExecContext(ctx, tx.Rebind(historyQuery),
			update.ReportID, previous.Int64, update.Hours, update.ActorID, update.Note, update.UpdatedAt); err != nil {
			return nil, fmt.Errorf("insert report history: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit report update: %w", err)
	}
	return &models.HoursUpdateResult{ID: update.ReportID, Hours: update.Hours, PreviousHours: int(previous.Int64)}, nil
}

// History lists the hour changes of a report, newest first.
func (r *ReportRepository) History(ctx context.Context, reportID string) ([]models.ReportHistoryEntry, error) {
	entries := make([]models.ReportHistoryEntry, 0)
	if !r.caps.HasHistoryTable {
		return entries, nil
	}
	// Edits within the same second share creado_at; without an id column the smaller
	// balance is taken as the later edit.
	tieBreak := "horas_new ASC"
	if r.caps.HistoryHasID {
		tieBreak = "id DESC"
	}
	query := r.db.Rebind(`SELECT reporte_id, horas_prev, horas_new, usuario_id, nota, creado_at
FROM reportes_historial WHERE reporte_id = ? ORDER BY creado_at DESC, ` + tieBreak)
	if err := r.db.SelectContext(ctx, &entries, query, reportID); err != nil {
		return nil, fmt.Errorf("list report history: %w", err)
	}
	return entries, nil
}
