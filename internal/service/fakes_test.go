package service

import (
	"context"
	"database/sql"

	"github.com/educontrol/educontrol-api/internal/models"
)

type fakeUsers struct {
	users map[string]*models.StaffUser
	err   error
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (*models.StaffUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

type fakeStudents struct {
	byMatricula map[string]*models.Student
	profiles    map[string]*models.StudentProfile
	totals      []models.StudentTotal
	groups      []models.Group
	err         error
	totalsCalls int
}

func (f *fakeStudents) FindByMatricula(_ context.Context, matricula string) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := f.byMatricula[matricula]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudents) MatriculaByID(_ context.Context, id int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	for _, s := range f.byMatricula {
		if s.ID == id {
			return s.Matricula, nil
		}
	}
	return "", sql.ErrNoRows
}

func (f *fakeStudents) Profile(_ context.Context, matricula string) (*models.StudentProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.profiles[matricula]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudents) Totals(_ context.Context) ([]models.StudentTotal, error) {
	f.totalsCalls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.StudentTotal(nil), f.totals...), nil
}

func (f *fakeStudents) Groups(_ context.Context) ([]models.Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Group(nil), f.groups...), nil
}

// fakeReports is an in-memory report store that mimics the transactional update.
type fakeReports struct {
	reports     map[string]*models.Report
	history     []models.ReportHistoryEntry
	created     []models.NewReport
	updateCalls int
	createErr   error
}

func newFakeReports() *fakeReports {
	return &fakeReports{reports: map[string]*models.Report{}}
}

func (f *fakeReports) ListForStudent(_ context.Context, student models.Student) ([]models.Report, error) {
	var out []models.Report
	for _, r := range f.reports {
		if r.StudentID != nil && *r.StudentID == student.ID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReports) GetByID(_ context.Context, id string) (*models.Report, error) {
	if r, ok := f.reports[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeReports) Create(_ context.Context, report models.NewReport) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, report)
	created := report.CreatedAt
	f.reports[report.ID] = &models.Report{
		ID:          report.ID,
		StudentID:   report.StudentID,
		Matricula:   report.Matricula,
		Type:        report.Type,
		Description: report.Description,
		Hours:       report.Hours,
		CreatedBy:   report.ActorID,
		ModifiedBy:  report.ActorID,
		CreatedAt:   &created,
	}
	return nil
}

func (f *fakeReports) UpdateHours(_ context.Context, update models.HoursUpdate) (*models.HoursUpdateResult, error) {
	f.updateCalls++
	r, ok := f.reports[update.ReportID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	prev := r.Hours
	r.Hours = update.Hours
	if update.Description != nil {
		r.Description = update.Description
	}
	note := update.Note
	f.history = append(f.history, models.ReportHistoryEntry{
		ReportID:      update.ReportID,
		PreviousHours: prev,
		NewHours:      update.Hours,
		UserID:        update.ActorID,
		Note:          &note,
		CreatedAt:     update.UpdatedAt,
	})
	return &models.HoursUpdateResult{ID: update.ReportID, Hours: update.Hours, PreviousHours: prev}, nil
}

func (f *fakeReports) History(_ context.Context, reportID string) ([]models.ReportHistoryEntry, error) {
	var out []models.ReportHistoryEntry
	for i := len(f.history) - 1; i >= 0; i-- {
		if f.history[i].ReportID == reportID {
			out = append(out, f.history[i])
		}
	}
	return out, nil
}

func linkedCapabilities() models.SchemaCapabilities {
	return models.BuildCapabilities(map[string]models.ColumnSet{
		models.TableReports:       models.NewColumnSet("id", "alumno_id", "tipo", "horas", "activo"),
		models.TableReportHistory: models.NewColumnSet("reporte_id"),
	})
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
