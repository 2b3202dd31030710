package service

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/educontrol/educontrol-api/internal/models"
	appErrors "github.com/educontrol/educontrol-api/pkg/errors"
)

type reportRepository interface {
	ListForStudent(ctx context.Context, student models.Student) ([]models.Report, error)
	GetByID(ctx context.Context, id string) (*models.Report, error)
	Create(ctx context.Context, report models.NewReport) error
	UpdateHours(ctx context.Context, update models.HoursUpdate) (*models.HoursUpdateResult, error)
	History(ctx context.Context, reportID string) ([]models.ReportHistoryEntry, error)
}

type studentLookup interface {
	Profile(ctx context.Context, matricula string) (*models.StudentProfile, error)
	ResolveStudent(ctx context.Context, id *int64, matricula string) (*models.Student, error)
}

// ReportConfig tunes report creation.
type ReportConfig struct {
	AllowUnlinked bool
	Redirect      string
}

const (
	orientationCachePattern = "orientation:*"
	maxNoteLabelLength      = 120
)

// ReportService reads and mutates disciplinary reports.
type ReportService struct {
	reports   reportRepository
	students  studentLookup
	caps      models.SchemaCapabilities
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ReportConfig
	now       func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(reports reportRepository, students studentLookup, caps models.SchemaCapabilities, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg ReportConfig) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		reports:   reports,
		students:  students,
		caps:      caps,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// StudentDetail returns a student's profile with its reports split into outstanding and
// completed, each keeping the listing order.
func (s *ReportService) StudentDetail(ctx context.Context, matricula string) (*models.StudentDetail, error) {
	if err := s.caps.Validate(); err != nil {
		return nil, appErrors.Classify(err, appErrors.ErrConfiguration, "")
	}
	profile, err := s.students.Profile(ctx, matricula)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	reports, err := s.reports.ListForStudent(ctx, models.Student{ID: profile.ID, Matricula: profile.Matricula})
	s.metrics.ObserveDBOperation("report_list", time.Since(start), err)
	if err != nil {
		s.logger.Error("list student reports", zap.String("matricula", profile.Matricula), zap.Error(err))
		return nil, appErrors.Classify(err, appErrors.ErrConnectivity, "failed to list reports")
	}
	outstanding, completed := models.PartitionReports(reports)
	return &models.StudentDetail{Student: *profile, Outstanding: outstanding, Completed: completed}, nil
}

// Get returns a single report.
func (s *ReportService) Get(ctx context.Context, id string) (*models.Report, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "report id is required")
	}
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Classify(err, appErrors.ErrConnectivity, "failed to load report")
	}
	return report, nil
}

// History lists the hour changes of an existing report, newest first.
func (s *ReportService) History(ctx context.Context, id string) ([]models.ReportHistoryEntry, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	entries, err := s.reports.History(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, appErrors.Classify(err, appErrors.ErrConnectivity, "failed to load report history")
	}
	return entries, nil
}

// Create applies a new report. The acting staff member, when known, is recorded as both creator
// and last modifier. Negative hours are stored as zero.
func (s *ReportService) Create(ctx context.Context, req models.CreateReportRequest, actor *models.Actor) (*models.CreatedReport, error) {
	req.Type = strings.TrimSpace(req.Type)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Classify(err, appErrors.ErrValidation, "tipo is required")
	}
	if err := s.caps.Validate(); err != nil {
		return nil, appErrors.Classify(err, appErrors.ErrConfiguration, "")
	}

	student, err := s.students.ResolveStudent(ctx, req.StudentID, req.Matricula)
	if err != nil {
		return nil, err
	}
	if student == nil && !s.cfg.AllowUnlinked {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	id, err := newReportID(s.now())
	if err != nil {
		return nil, appErrors.Classify(err, appErrors.ErrInternal, "failed to generate report id")
	}

	hours := int(req.Hours)
	if hours < 0 {
		hours = 0
	}
	report := models.NewReport{
		ID:        id,
		Type:      req.Type,
		Hours:     hours,
		CreatedAt: s.now(),
	}
	if student != nil {
		studentID := student.ID
		matricula := student.Matricula
		report.StudentID = &studentID
		report.Matricula = &matricula
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		report.Description = &desc
	}
	if actor != nil {
		actorID := actor.ID
		report.ActorID = &actorID
	}

	start := time.Now()
	err = s.reports.Create(ctx, report)
	s.metrics.ObserveDBOperation("report_create", time.Since(start), err)
	if err != nil {
		s.logger.Error("create report", zap.String("id", id), zap.Error(err))
		return nil, appErrors.Classify(err, appErrors.ErrInternal, "failed to create report")
	}
	if student == nil {
		s.logger.Warn("report created without student link", zap.String("id", id), zap.String("matricula", req.Matricula))
	}

	s.metrics.CountReportMutation("created")
	s.cache.Invalidate(ctx, orientationCachePattern)
	return &models.CreatedReport{ID: id, Redirect: s.cfg.Redirect}, nil
}

// UpdateHours sets the hours of a report and records the change in the history table. Input is
// validated before the store is touched.
func (s *ReportService) UpdateHours(ctx context.Context, id string, req models.UpdateHoursRequest, actor *models.Actor) (*models.HoursUpdateResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "report id is required")
	}
	if req.Hours == nil || *req.Hours < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "horas must be a non-negative integer")
	}

	update := models.HoursUpdate{
		ReportID:  id,
		Hours:     *req.Hours,
		Note:      historyNote(req.Note, actor),
		UpdatedAt: s.now(),
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		update.Description = &desc
	}
	if actor != nil {
		actorID := actor.ID
		update.ActorID = &actorID
	}

	start := time.Now()
	result, err := s.reports.UpdateHours(ctx, update)
	s.metrics.ObserveDBOperation("report_update", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		s.logger.Error("update report hours", zap.String("id", id), zap.Error(err))
		return nil, appErrors.Classify(err, appErrors.ErrInternal, "failed to update report")
	}

	s.metrics.CountReportMutation("updated")
	s.cache.Invalidate(ctx, orientationCachePattern)
	return result, nil
}

// historyNote prefers an explicit note and otherwise attributes the edit to the actor.
func historyNote(note *string, actor *models.Actor) string {
	if note != nil {
		if trimmed := strings.TrimSpace(*note); trimmed != "" {
			return trimmed
		}
	}
	if actor == nil || strings.TrimSpace(actor.Name) == "" {
		return ""
	}
	return "editado por: " + truncateRunes(strings.TrimSpace(actor.Name), maxNoteLabelLength)
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// newReportID returns "r", twelve random hex characters and the unix time in seconds.
func newReportID(now time.Time) (string, error) {
	token, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("r%s%d", hex.EncodeToString(token[:6]), now.Unix()), nil
}
