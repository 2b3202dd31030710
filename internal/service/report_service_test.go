package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educontrol/educontrol-api/internal/models"
	appErrors "github.com/educontrol/educontrol-api/pkg/errors"
)

func newReportFixture(t *testing.T, cfg ReportConfig) (*ReportService, *fakeReports, *memoryCache) {
	t.Helper()
	users, students := newStudentFixture()
	studentSvc := NewStudentService(users, students, linkedCapabilities(), "", nil)
	reports := newFakeReports()
	cacheRepo := newMemoryCache()
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	svc := NewReportService(reports, studentSvc, linkedCapabilities(), cache, NewMetricsService(), nil, nil, cfg)
	svc.now = func() time.Time { return time.Unix(1700000000, 0).UTC() }
	return svc, reports, cacheRepo
}

var reportIDPattern = regexp.MustCompile(`^r[0-9a-f]{12}1700000000$`)

func TestReportServiceCreateRoundTrip(t *testing.T) {
	svc, reports, cacheRepo := newReportFixture(t, ReportConfig{Redirect: "/students"})
	cacheRepo.items["orientation:totals"] = []byte("[]")
	actor := &models.Actor{ID: 3, Name: "prefecto"}

	created, err := svc.Create(context.Background(), models.CreateReportRequest{
		Matricula:   "20231234",
		Type:        " Retardo ",
		Description: "llegó 20 minutos tarde",
		Hours:       3,
	}, actor)
	require.NoError(t, err)
	assert.Regexp(t, reportIDPattern, created.ID)
	assert.Equal(t, "/students", created.Redirect)
	assert.Empty(t, cacheRepo.items)

	detail, err := svc.StudentDetail(context.Background(), "20231234")
	require.NoError(t, err)
	require.Len(t, detail.Outstanding, 1)
	assert.Empty(t, detail.Completed)
	got := detail.Outstanding[0]
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Retardo", got.Type)
	assert.Equal(t, 3, got.Hours)
	assert.Equal(t, models.BucketOutstanding, got.Bucket())
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, int64(3), *got.CreatedBy)
	require.Len(t, reports.created, 1)
	assert.Equal(t, int64(7), *reports.created[0].StudentID)
}

func TestReportServiceCreateValidation(t *testing.T) {
	svc, reports, _ := newReportFixture(t, ReportConfig{AllowUnlinked: true})

	_, err := svc.Create(context.Background(), models.CreateReportRequest{Matricula: "20231234", Type: "  "}, nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, reports.created)
}

func TestReportServiceCreateNegativeHoursCoercedToZero(t *testing.T) {
	svc, reports, _ := newReportFixture(t, ReportConfig{})

	created, err := svc.Create(context.Background(), models.CreateReportRequest{StudentID: int64Ptr(7), Type: "Uniforme", Hours: -4}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, reports.reports[created.ID].Hours)
	assert.Equal(t, models.BucketCompleted, reports.reports[created.ID].Bucket())
	assert.Nil(t, reports.created[0].ActorID)
}

func TestReportServiceCreateUnresolvedStudent(t *testing.T) {
	svc, reports, _ := newReportFixture(t, ReportConfig{AllowUnlinked: false})
	_, err := svc.Create(context.Background(), models.CreateReportRequest{Matricula: "0000", Type: "Retardo"}, nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.Empty(t, reports.created)

	svc, reports, _ = newReportFixture(t, ReportConfig{AllowUnlinked: true})
	_, err = svc.Create(context.Background(), models.CreateReportRequest{Matricula: "0000", Type: "Retardo"}, nil)
	require.NoError(t, err)
	require.Len(t, reports.created, 1)
	assert.Nil(t, reports.created[0].StudentID)
}

func TestReportServiceCreateWithoutLinkColumn(t *testing.T) {
	users, students := newStudentFixture()
	caps := models.BuildCapabilities(map[string]models.ColumnSet{models.TableReports: models.NewColumnSet("id", "tipo", "horas")})
	svc := NewReportService(newFakeReports(), NewStudentService(users, students, linkedCapabilities(), "", nil), caps, nil, nil, nil, nil, ReportConfig{})

	_, err := svc.Create(context.Background(), models.CreateReportRequest{Matricula: "20231234", Type: "Retardo"}, nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrConfiguration))

	_, err = svc.StudentDetail(context.Background(), "20231234")
	assert.True(t, appErrors.Is(err, appErrors.ErrConfiguration))
}

func TestReportServiceCreateStoreFailure(t *testing.T) {
	svc, reports, _ := newReportFixture(t, ReportConfig{})
	reports.createErr = errors.New("duplicate key")

	_, err := svc.Create(context.Background(), models.CreateReportRequest{StudentID: int64Ptr(7), Type: "Retardo"}, nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}

func TestReportServiceUpdateHoursRecordsHistory(t *testing.T) {
	svc, reports, _ := newReportFixture(t, ReportConfig{})
	created, err := svc.Create(context.Background(), models.CreateReportRequest{StudentID: int64Ptr(7), Type: "Retardo", Hours: 5}, nil)
	require.NoError(t, err)

	actor := &models.Actor{ID: 3, Name: "prefecto"}
	result, err := svc.UpdateHours(context.Background(), created.ID, models.UpdateHoursRequest{Hours: intPtr(0)}, actor)
	require.NoError(t, err)
	assert.Equal(t, 5, result.PreviousHours)
	assert.Equal(t, 0, result.Hours)
	assert.Equal(t, models.BucketCompleted, reports.reports[created.ID].Bucket())

	history, err := svc.History(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "editado por: prefecto", *history[0].Note)
	assert.Equal(t, int64(3), *history[0].UserID)
}

func TestReportServiceUpdateHoursIdempotent(t *testing.T) {
	svc, reports, _ := newReportFixture(t, ReportConfig{})
	created, err := svc.Create(context.Background(), models.CreateReportRequest{StudentID: int64Ptr(7), Type: "Retardo", Hours: 4}, nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		result, err := svc.UpdateHours(context.Background(), created.ID, models.UpdateHoursRequest{Hours: intPtr(4), Note: strPtr("revisado")}, nil)
		require.NoError(t, err)
		assert.Equal(t, result.PreviousHours, result.Hours)
	}
	assert.Equal(t, 4, reports.reports[created.ID].Hours)
	require.Len(t, reports.history, 2)
	for _, entry := range reports.history {
		assert.Equal(t, entry.PreviousHours, entry.NewHours)
		assert.Equal(t, "revisado", *entry.Note)
	}
}

func TestReportServiceUpdateHoursRejectsInvalidInputWithoutStoreAccess(t *testing.T) {
	svc, reports, _ := newReportFixture(t, ReportConfig{})

	_, err := svc.UpdateHours(context.Background(), "r1", models.UpdateHoursRequest{Hours: intPtr(-1)}, nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	_, err = svc.UpdateHours(context.Background(), "r1", models.UpdateHoursRequest{}, nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	_, err = svc.UpdateHours(context.Background(), " ", models.UpdateHoursRequest{Hours: intPtr(1)}, nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Zero(t, reports.updateCalls)
}

func TestReportServiceUpdateHoursUnknownReport(t *testing.T) {
	svc, reports, _ := newReportFixture(t, ReportConfig{})

	_, err := svc.UpdateHours(context.Background(), "rmissing", models.UpdateHoursRequest{Hours: intPtr(1)}, nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.Empty(t, reports.history)
}

func TestHistoryNote(t *testing.T) {
	assert.Equal(t, "nota", historyNote(strPtr(" nota "), &models.Actor{Name: "x"}))
	assert.Equal(t, "", historyNote(nil, nil))
	assert.Equal(t, "editado por: ana", historyNote(strPtr(""), &models.Actor{Name: "ana"}))

	long := strings.Repeat("ñ", 200)
	note := historyNote(nil, &models.Actor{Name: long})
	assert.Equal(t, "editado por: "+strings.Repeat("ñ", 120), note)
}

func TestReportServiceGetNotFound(t *testing.T) {
	svc, _, _ := newReportFixture(t, ReportConfig{})
	_, err := svc.Get(context.Background(), "rnope")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	_, err = svc.History(context.Background(), "rnope")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}
