package models

// Student is the minimal alumnos row used for identity resolution.
type Student struct {
	ID        int64  `db:"id" json:"id"`
	Matricula string `db:"matricula" json:"matricula"`
	Name      string `db:"nombre" json:"nombre"`
}

// StudentProfile is a student joined to its group with normalised grade and label.
type StudentProfile struct {
	ID         int64  `json:"id"`
	Matricula  string `json:"matricula"`
	Name       string `json:"nombre"`
	Photo      string `json:"foto"`
	GroupID    *int64 `json:"grupo_id,omitempty"`
	Grade      string `json:"grado"`
	GroupLabel string `json:"grupo"`
	IsLeader   bool   `json:"es_jefe"`
}

// StudentTotal aggregates the active reports of one student.
type StudentTotal struct {
	StudentProfile
	TotalHours  int `json:"total_horas"`
	ReportCount int `json:"num_reportes"`
}

// StudentFilter narrows student and aggregate listings.
type StudentFilter struct {
	Grade      string
	GroupLabel string
	Search     string
}

// Debt levels shown on the orientation board.
const (
	DebtLevelLow    = "baja"
	DebtLevelMedium = "media"
	DebtLevelHigh   = "alta"
)

// DebtLevel classifies outstanding hours.
func DebtLevel(hours int) string {
	switch {
	case hours <= 0:
		return DebtLevelLow
	case hours <= 4:
		return DebtLevelMedium
	default:
		return DebtLevelHigh
	}
}

// StudentDetail is a profile plus its reports split by bucket.
type StudentDetail struct {
	Student     StudentProfile `json:"alumno"`
	Outstanding []Report       `json:"adeudos"`
	Completed   []Report       `json:"completados"`
}
