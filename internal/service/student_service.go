package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/educontrol/educontrol-api/internal/models"
	appErrors "github.com/educontrol/educontrol-api/pkg/errors"
)

type identityUserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.StaffUser, error)
}

type studentRepository interface {
	FindByMatricula(ctx context.Context, matricula string) (*models.Student, error)
	MatriculaByID(ctx context.Context, id int64) (string, error)
	Profile(ctx context.Context, matricula string) (*models.StudentProfile, error)
	Totals(ctx context.Context) ([]models.StudentTotal, error)
	Groups(ctx context.Context) ([]models.Group, error)
}

// StudentService resolves login keys and student profiles.
type StudentService struct {
	users            identityUserRepository
	students         studentRepository
	caps             models.SchemaCapabilities
	photoPlaceholder string
	logger           *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(users identityUserRepository, students studentRepository, caps models.SchemaCapabilities, photoPlaceholder string, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{users: users, students: students, caps: caps, photoPlaceholder: photoPlaceholder, logger: logger}
}

// ResolveIdentity looks the key up as a staff username first and as a student matricula second.
func (s *StudentService) ResolveIdentity(ctx context.Context, key string) (*models.IdentityMatch, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "usuario is required")
	}

	user, err := s.users.FindByUsername(ctx, key)
	switch {
	case err == nil:
		return &models.IdentityMatch{Kind: models.IdentityStaff, Staff: user}, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, appErrors.Classify(err, appErrors.ErrConnectivity, "failed to look up user")
	}

	student, err := s.students.FindByMatricula(ctx, key)
	switch {
	case err == nil:
		return &models.IdentityMatch{Kind: models.IdentityStudent, Student: student}, nil
	case errors.Is(err, sql.ErrNoRows):
		return nil, appErrors.Clone(appErrors.ErrNotFound, "identity not found")
	default:
		return nil, appErrors.Classify(err, appErrors.ErrConnectivity, "failed to look up student")
	}
}

// Profile loads a student with its group grade and label.
func (s *StudentService) Profile(ctx context.Context, matricula string) (*models.StudentProfile, error) {
	matricula = strings.TrimSpace(matricula)
	if matricula == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "matricula is required")
	}
	profile, err := s.students.Profile(ctx, matricula)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		s.logger.Error("load student profile", zap.String("matricula", matricula), zap.Error(err))
		return nil, appErrors.Classify(err, appErrors.ErrConnectivity, "failed to load student")
	}
	s.withPlaceholder(profile)
	return profile, nil
}

// ResolveStudent finds a student by id or, failing that, by matricula. It returns nil without
// error when neither identifies a student.
func (s *StudentService) ResolveStudent(ctx context.Context, id *int64, matricula string) (*models.Student, error) {
	if id != nil && *id > 0 {
		m, err := s.students.MatriculaByID(ctx, *id)
		switch {
		case err == nil:
			return &models.Student{ID: *id, Matricula: m}, nil
		case !errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Classify(err, appErrors.ErrConnectivity, "failed to look up student")
		}
	}
	matricula = strings.TrimSpace(matricula)
	if matricula == "" {
		return nil, nil
	}
	student, err := s.students.FindByMatricula(ctx, matricula)
	switch {
	case err == nil:
		return student, nil
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	default:
		return nil, appErrors.Classify(err, appErrors.ErrConnectivity, "failed to look up student")
	}
}

// ListStudents returns every student matching filter with the count of active reports, most
// reported first and then by name.
func (s *StudentService) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.StudentTotal, error) {
	if err := s.caps.Validate(); err != nil {
		return nil, appErrors.Classify(err, appErrors.ErrConfiguration, "")
	}
	totals, err := s.students.Totals(ctx)
	if err != nil {
		return nil, appErrors.Classify(err, appErrors.ErrConnectivity, "failed to list students")
	}
	totals = filterTotals(totals, filter)
	for i := range totals {
		s.withPlaceholder(&totals[i].StudentProfile)
	}
	c := newCollator()
	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].ReportCount != totals[j].ReportCount {
			return totals[i].ReportCount > totals[j].ReportCount
		}
		return c.CompareString(totals[i].Name, totals[j].Name) < 0
	})
	return totals, nil
}

// Groups returns the group catalog used to build filters.
func (s *StudentService) Groups(ctx context.Context) (*models.GroupCatalog, error) {
	groups, err := s.students.Groups(ctx)
	if err != nil {
		return nil, appErrors.Classify(err, appErrors.ErrConnectivity, "failed to list groups")
	}
	grades := make([]string, 0, len(groups))
	labels := make([]string, 0, len(groups))
	for _, g := range groups {
		grades = append(grades, g.Grade)
		labels = append(labels, g.Label)
	}
	c := newCollator()
	sort.SliceStable(groups, func(i, j int) bool {
		if cmp := c.CompareString(groups[i].Grade, groups[j].Grade); cmp != 0 {
			return cmp < 0
		}
		return c.CompareString(groups[i].Label, groups[j].Label) < 0
	})
	if groups == nil {
		groups = []models.Group{}
	}
	return &models.GroupCatalog{
		Groups:       groups,
		GradeOptions: naturalSortUnique(grades),
		LabelOptions: naturalSortUnique(labels),
	}, nil
}

func (s *StudentService) withPlaceholder(profile *models.StudentProfile) {
	if strings.TrimSpace(profile.Photo) == "" {
		profile.Photo = s.photoPlaceholder
	}
}

// filterTotals keeps rows matching grade and label exactly (case-insensitive) and the search
// text anywhere in the name or matricula, ignoring accents.
func filterTotals(totals []models.StudentTotal, filter models.StudentFilter) []models.StudentTotal {
	grade := strings.TrimSpace(filter.Grade)
	label := strings.TrimSpace(filter.GroupLabel)
	search := foldText(filter.Search)
	if grade == "" && label == "" && search == "" {
		return totals
	}
	out := make([]models.StudentTotal, 0, len(totals))
	for _, t := range totals {
		if grade != "" && !strings.EqualFold(t.Grade, grade) {
			continue
		}
		if label != "" && !strings.EqualFold(t.GroupLabel, label) {
			continue
		}
		if search != "" && !strings.Contains(foldText(t.Name), search) && !strings.Contains(strings.ToLower(t.Matricula), search) {
			continue
		}
		out = append(out, t)
	}
	return out
}
