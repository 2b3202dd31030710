package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educontrol/educontrol-api/internal/models"
	appErrors "github.com/educontrol/educontrol-api/pkg/errors"
)

func TestCreateReportFromForm(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/api/v1/reports", prefectToken, "application/x-www-form-urlencoded",
		"matricula=20231001&tipo=retardo&descripcion=llego+tarde&horas=2")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "20231001", f.reports.created.Matricula)
	assert.Equal(t, models.Hours(2), f.reports.created.Hours)
	require.NotNil(t, f.reports.createdBy)
	assert.Equal(t, int64(7), f.reports.createdBy.ID)
	assert.Contains(t, w.Body.String(), `"redirect":"/students"`)
}

func TestCreateReportFromJSON(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/api/v1/reports", prefectToken, "application/json",
		`{"alumno_id":12,"tipo":"uniforme","horas":0}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, f.reports.created.StudentID)
	assert.Equal(t, int64(12), *f.reports.created.StudentID)
}

func TestCreateReportAcceptsNumericStringHours(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/api/v1/reports", prefectToken, "application/json",
		`{"matricula":"20231001","tipo":"retardo","horas":"4"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.Hours(4), f.reports.created.Hours)

	w = f.do(http.MethodPost, "/api/v1/reports", prefectToken, "application/json",
		`{"matricula":"20231001","tipo":"retardo","horas":"cuatro"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateReportRejectsMalformedHours(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/api/v1/reports", prefectToken, "application/x-www-form-urlencoded", "tipo=x&horas=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportsAreStaffOnly(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/api/v1/reports", studentToken, "application/json", `{"tipo":"x"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodGet, "/api/v1/reports/r1", "", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetReport(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodGet, "/api/v1/reports/r1", prefectToken, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"estado":"adeudo"`)

	w = f.do(http.MethodGet, "/api/v1/reports/missing", prefectToken, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateHours(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPut, "/api/v1/reports/r1", prefectToken, "application/json", `{"horas":0,"nota":"cumplio"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "r1", f.reports.updatedID)
	require.NotNil(t, f.reports.update.Hours)
	assert.Equal(t, 0, *f.reports.update.Hours)
	assert.Equal(t, "cumplio", *f.reports.update.Note)
	assert.Contains(t, w.Body.String(), `"horas_prev":4`)
	assert.Contains(t, w.Body.String(), `"estado":"completado"`)
}

func TestUpdateHoursSurfacesServiceErrors(t *testing.T) {
	f := newFixture(t, nil)
	f.reports.updateErr = appErrors.Clone(appErrors.ErrNotFound, "report not found")

	w := f.do(http.MethodPut, "/api/v1/reports/nope", prefectToken, "application/json", `{"horas":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLegacyActionForm(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/api/v1/reports/actions", prefectToken, "application/x-www-form-urlencoded",
		"action=update_report&id=r9&horas=1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "r9", f.reports.updatedID)
	assert.Equal(t, 1, *f.reports.update.Hours)

	w = f.do(http.MethodPost, "/api/v1/reports/actions", prefectToken, "application/x-www-form-urlencoded",
		"action=delete_report&id=r9")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported action")
}

func TestReportHistory(t *testing.T) {
	f := newFixture(t, nil)
	f.reports.historyLen = 2

	w := f.do(http.MethodGet, "/api/v1/reports/r1/history", prefectToken, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)
}
