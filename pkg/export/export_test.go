package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() Table {
	return Table{
		Title:   "Concentrado de horas",
		Headers: []string{"Matrícula", "Nombre", "Horas"},
		Rows: [][]string{
			{"20231234", "Ana Núñez", "8"},
			{"20231235", "Beto"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleTable())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, utf8BOM))

	records, err := csv.NewReader(bytes.NewReader(out[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Matrícula", "Nombre", "Horas"}, records[0])
	assert.Equal(t, []string{"20231235", "Beto", ""}, records[2])
}

func TestExportersRejectMissingHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Table{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Table{})
	assert.Error(t, err)
	_, err = NewXLSXExporter("").Render(Table{})
	assert.Error(t, err)
}

func TestExportersRejectWideRows(t *testing.T) {
	_, err := NewCSVExporter().Render(Table{Headers: []string{"a"}, Rows: [][]string{{"1", "2"}}})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	table := sampleTable()
	for i := 0; i < 60; i++ {
		table.Rows = append(table.Rows, []string{"2023", "Alumno", "1"})
	}
	out, err := NewPDFExporter().Render(table)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter("Totales").Render(sampleTable())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Totales", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Concentrado de horas", title)

	name, err := f.GetCellValue("Totales", "B4")
	require.NoError(t, err)
	assert.Equal(t, "Ana Núñez", name)

	hours, err := f.GetCellValue("Totales", "C4")
	require.NoError(t, err)
	assert.Equal(t, "8", hours)
}
