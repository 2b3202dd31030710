package models

import (
	"fmt"
	"sort"
	"strings"
)

// Table names of the EduControl schema.
const (
	TableUsers         = "usuarios"
	TableStudents      = "alumnos"
	TableGroups        = "grupos"
	TableReports       = "reportes"
	TableReportHistory = "reportes_historial"
)

// Candidate column lists, highest priority first.
var (
	GroupGradeCandidates = []string{"grado", "semestre", "nivel"}
	GroupLabelCandidates = []string{"nombre", "grupo", "nombre_grupo", "grupo_nombre", "codigo"}
	ReportLinkCandidates = []string{string(ReportLinkStudentID), string(ReportLinkMatricula)}
)

// ReportLink names the column tying a report to its student.
type ReportLink string

const (
	ReportLinkNone      ReportLink = ""
	ReportLinkStudentID ReportLink = "alumno_id"
	ReportLinkMatricula ReportLink = "matricula"
)

// ColumnSet is the set of column names defined on a table.
type ColumnSet map[string]struct{}

// NewColumnSet builds a set from the given names, lower-cased.
func NewColumnSet(columns ...string) ColumnSet {
	set := make(ColumnSet, len(columns))
	for _, col := range columns {
		set[strings.ToLower(strings.TrimSpace(col))] = struct{}{}
	}
	return set
}

// Has reports whether col is defined.
func (s ColumnSet) Has(col string) bool {
	_, ok := s[col]
	return ok
}

// Names returns the columns sorted alphabetically.
func (s ColumnSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FirstPresent returns the first candidate defined in available.
func FirstPresent(candidates []string, available ColumnSet) (string, bool) {
	for _, candidate := range candidates {
		if available.Has(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// SchemaCapabilities records which optional columns and tables exist. It is built once at
// startup and read by every query builder.
type SchemaCapabilities struct {
	GroupGradeColumn string `json:"group_grade_column"`
	GroupLabelColumn string `json:"group_label_column"`
	HasGroupsTable   bool   `json:"has_groups_table"`

	ReportLink           ReportLink `json:"report_link"`
	ReportHasCreator     bool       `json:"report_has_creator"`
	ReportHasModifier    bool       `json:"report_has_modifier"`
	ReportHasActive      bool       `json:"report_has_active"`
	ReportHasDescription bool       `json:"report_has_description"`
	ReportHasCreatedAt   bool       `json:"report_has_created_at"`
	ReportHasUpdatedAt   bool       `json:"report_has_updated_at"`
	ReportColumns        []string   `json:"report_columns"`

	UserHasName        bool `json:"user_has_name"`
	UserHasActive      bool `json:"user_has_active"`
	UserHasStudentLink bool `json:"user_has_student_link"`

	StudentHasPhoto      bool `json:"student_has_photo"`
	StudentHasGroup      bool `json:"student_has_group"`
	StudentHasLeaderFlag bool `json:"student_has_leader_flag"`

	HasHistoryTable bool `json:"has_history_table"`
	HistoryHasID    bool `json:"history_has_id"`
}

// BuildCapabilities derives capabilities from the probed column sets keyed by table name.
// Missing tables are treated as empty sets.
func BuildCapabilities(tables map[string]ColumnSet) SchemaCapabilities {
	groups := tables[TableGroups]
	reports := tables[TableReports]
	users := tables[TableUsers]
	students := tables[TableStudents]

	caps := SchemaCapabilities{
		HasGroupsTable:       len(groups) > 0,
		ReportHasCreator:     reports.Has("aplicado_por"),
		ReportHasModifier:    reports.Has("ultima_mod_por"),
		ReportHasActive:      reports.Has("activo"),
		ReportHasDescription: reports.Has("descripcion"),
		ReportHasCreatedAt:   reports.Has("created_at"),
		ReportHasUpdatedAt:   reports.Has("updated_at"),
		ReportColumns:        reports.Names(),
		UserHasName:          users.Has("nombre"),
		UserHasActive:        users.Has("activo"),
		UserHasStudentLink:   users.Has("alumno_id"),
		StudentHasPhoto:      students.Has("foto"),
		StudentHasGroup:      students.Has("grupo_id"),
		StudentHasLeaderFlag: students.Has("es_jefe"),
		HasHistoryTable:      len(tables[TableReportHistory]) > 0,
		HistoryHasID:         tables[TableReportHistory].Has("id"),
	}
	caps.GroupGradeColumn, _ = FirstPresent(GroupGradeCandidates, groups)
	caps.GroupLabelColumn, _ = FirstPresent(GroupLabelCandidates, groups)
	if link, ok := FirstPresent(ReportLinkCandidates, reports); ok {
		caps.ReportLink = ReportLink(link)
	}
	return caps
}

// JoinsGroups reports whether student queries can left join grupos.
func (c SchemaCapabilities) JoinsGroups() bool {
	return c.StudentHasGroup && c.HasGroupsTable
}

// CreatorLabels reports whether the "created by" name can be resolved.
func (c SchemaCapabilities) CreatorLabels() bool {
	return c.ReportHasCreator && c.UserHasName
}

// ModifierLabels reports whether the "last modified by" name can be resolved.
func (c SchemaCapabilities) ModifierLabels() bool {
	return c.ReportHasModifier && c.UserHasName
}

// Validate returns an error when reports cannot be tied to students.
func (c SchemaCapabilities) Validate() error {
	if c.ReportLink == ReportLinkNone {
		return fmt.Errorf("table %s has neither alumno_id nor matricula (columns detected: %s)",
			TableReports, strings.Join(c.ReportColumns, ", "))
	}
	return nil
}
