package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/educontrol/educontrol-api/internal/models"
	appErrors "github.com/educontrol/educontrol-api/pkg/errors"
	"github.com/educontrol/educontrol-api/pkg/export"
)

const orientationTotalsKey = "orientation:totals"

type totalsSource interface {
	Totals(ctx context.Context) ([]models.StudentTotal, error)
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
}

// OrientationService builds the hours board shown to the orientation office.
type OrientationService struct {
	students  totalsSource
	caps      models.SchemaCapabilities
	cache     *CacheService
	metrics   *MetricsService
	renderers map[models.ExportFormat]tableRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrientationService constructs an OrientationService with the CSV, PDF and XLSX renderers.
func NewOrientationService(students totalsSource, caps models.SchemaCapabilities, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *OrientationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrientationService{
		students: students,
		caps:     caps,
		cache:    cache,
		metrics:  metrics,
		renderers: map[models.ExportFormat]tableRenderer{
			models.ExportCSV:  export.NewCSVExporter(),
			models.ExportPDF:  export.NewPDFExporter(),
			models.ExportXLSX: export.NewXLSXExporter("Orientacion"),
		},
		logger: logger,
		now:    time.Now,
	}
}

// Totals returns every student matching filter with the hours and count of active reports,
// highest debt first and then by name.
func (s *OrientationService) Totals(ctx context.Context, filter models.StudentFilter) ([]models.OrientationRow, error) {
	rows, err := s.board(ctx)
	if err != nil {
		return nil, err
	}
	if filter == (models.StudentFilter{}) {
		return rows, nil
	}
	totals := make([]models.StudentTotal, len(rows))
	for i, row := range rows {
		totals[i] = row.StudentTotal
	}
	filtered := filterTotals(totals, filter)
	out := make([]models.OrientationRow, 0, len(filtered))
	for _, t := range filtered {
		out = append(out, models.OrientationRow{StudentTotal: t, Level: models.DebtLevel(t.TotalHours)})
	}
	return out, nil
}

// Summarize totals the given rows.
func Summarize(rows []models.OrientationRow) models.OrientationSummary {
	summary := models.OrientationSummary{Students: len(rows)}
	for _, row := range rows {
		summary.TotalHours += row.TotalHours
		summary.TotalReports += row.ReportCount
		if row.TotalHours > 0 {
			summary.WithDebt++
		}
		if row.Level == models.DebtLevelHigh {
			summary.HighSeverity++
		}
	}
	return summary
}

// Export renders the filtered board in the requested format.
func (s *OrientationService) Export(ctx context.Context, filter models.StudentFilter, format models.ExportFormat) (*models.ExportFile, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	rows, err := s.Totals(ctx, filter)
	if err != nil {
		return nil, err
	}

	table := export.Table{
		Title:   "Concentrado de horas por alumno",
		Headers: []string{"Matrícula", "Nombre", "Grado", "Grupo", "Reportes", "Horas", "Nivel"},
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			row.Matricula,
			row.Name,
			row.Grade,
			row.GroupLabel,
			strconv.Itoa(row.ReportCount),
			strconv.Itoa(row.TotalHours),
			row.Level,
		})
	}

	body, err := renderer.Render(table)
	if err != nil {
		return nil, appErrors.Classify(err, appErrors.ErrInternal, "failed to render export")
	}
	return &models.ExportFile{
		Filename:    fmt.Sprintf("orientacion-%s.%s", s.now().Format("20060102"), format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

// board returns the sorted, unfiltered board, served from cache when enabled.
func (s *OrientationService) board(ctx context.Context) ([]models.OrientationRow, error) {
	if err := s.caps.Validate(); err != nil {
		return nil, appErrors.Classify(err, appErrors.ErrConfiguration, "")
	}

	var cached []models.OrientationRow
	if s.cache.Fetch(ctx, orientationTotalsKey, &cached) {
		return cached, nil
	}

	start := time.Now()
	totals, err := s.students.Totals(ctx)
	s.metrics.ObserveDBOperation("orientation_totals", time.Since(start), err)
	if err != nil {
		s.logger.Error("aggregate orientation totals", zap.Error(err))
		return nil, appErrors.Classify(err, appErrors.ErrConnectivity, "failed to aggregate totals")
	}

	c := newCollator()
	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].TotalHours != totals[j].TotalHours {
			return totals[i].TotalHours > totals[j].TotalHours
		}
		return c.CompareString(totals[i].Name, totals[j].Name) < 0
	})
	rows := make([]models.OrientationRow, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, models.OrientationRow{StudentTotal: t, Level: models.DebtLevel(t.TotalHours)})
	}

	s.cache.Store(ctx, orientationTotalsKey, rows)
	return rows, nil
}
