package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ReportBucket is the display bucket derived from a report's hours.
type ReportBucket string

const (
	BucketOutstanding ReportBucket = "adeudo"
	BucketCompleted   ReportBucket = "completado"
)

// BucketFor maps an hour balance to its bucket.
func BucketFor(hours int) ReportBucket {
	if hours > 0 {
		return BucketOutstanding
	}
	return BucketCompleted
}

// Report is a reportes row with optional attribution labels.
type Report struct {
	ID             string     `db:"id" json:"id"`
	StudentID      *int64     `db:"alumno_id" json:"alumno_id,omitempty"`
	Matricula      *string    `db:"matricula" json:"matricula,omitempty"`
	Type           string     `db:"tipo" json:"tipo"`
	Description    *string    `db:"descripcion" json:"descripcion,omitempty"`
	Hours          int        `db:"horas" json:"horas"`
	CreatedBy      *int64     `db:"aplicado_por" json:"aplicado_por,omitempty"`
	ModifiedBy     *int64     `db:"ultima_mod_por" json:"ultima_mod_por,omitempty"`
	CreatedByName  *string    `db:"aplicado_nombre" json:"aplicado_nombre,omitempty"`
	ModifiedByName *string    `db:"ultima_mod_nombre" json:"ultima_mod_nombre,omitempty"`
	CreatedAt      *time.Time `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// Bucket is recomputed from the live hour value on every call.
func (r Report) Bucket() ReportBucket {
	return BucketFor(r.Hours)
}

// MarshalJSON adds the derived bucket to the payload.
func (r Report) MarshalJSON() ([]byte, error) {
	type plain Report
	return json.Marshal(struct {
		plain
		Bucket ReportBucket `json:"estado"`
	}{plain: plain(r), Bucket: r.Bucket()})
}

// PartitionReports splits reports into outstanding and completed, keeping relative order.
func PartitionReports(reports []Report) (outstanding, completed []Report) {
	outstanding = make([]Report, 0, len(reports))
	completed = make([]Report, 0, len(reports))
	for _, report := range reports {
		if report.Bucket() == BucketOutstanding {
			outstanding = append(outstanding, report)
		} else {
			completed = append(completed, report)
		}
	}
	return outstanding, completed
}

// ReportHistoryEntry is an append-only reportes_historial row.
type ReportHistoryEntry struct {
	ReportID      string    `db:"reporte_id" json:"reporte_id"`
	PreviousHours int       `db:"horas_prev" json:"horas_prev"`
	NewHours      int       `db:"horas_new" json:"horas_new"`
	UserID        *int64    `db:"usuario_id" json:"usuario_id,omitempty"`
	Note          *string   `db:"nota" json:"nota,omitempty"`
	CreatedAt     time.Time `db:"creado_at" json:"creado_at"`
}

// NewReport carries the values inserted for a new report.
type NewReport struct {
	ID          string
	StudentID   *int64
	Matricula   *string
	Type        string
	Description *string
	Hours       int
	ActorID     *int64
	CreatedAt   time.Time
}

// HoursUpdate carries a report hour change.
type HoursUpdate struct {
	ReportID    string
	Hours       int
	Description *string
	Note        string
	ActorID     *int64
	UpdatedAt   time.Time
}

// HoursUpdateResult reports the balance before and after an update.
type HoursUpdateResult struct {
	ID            string `json:"id"`
	Hours         int    `json:"horas"`
	PreviousHours int    `json:"horas_prev"`
}

// CreatedReport is returned after a successful insert.
type CreatedReport struct {
	ID       string `json:"id"`
	Redirect string `json:"redirect"`
}

// CreateReportRequest is the payload accepted when applying a report.
type CreateReportRequest struct {
	StudentID   *int64 `json:"alumno_id" form:"alumno_id"`
	Matricula   string `json:"matricula" form:"matricula"`
	Type        string `json:"tipo" form:"tipo" validate:"required"`
	Description string `json:"descripcion" form:"descripcion"`
	Hours       Hours  `json:"horas" form:"horas"`
}

// UpdateHoursRequest is the payload of an hour change. Hours is a pointer so a missing value
// can be told apart from zero.
type UpdateHoursRequest struct {
	Hours       *int    `json:"horas" form:"horas"`
	Description *string `json:"descripcion" form:"descripcion"`
	Note        *string `json:"nota" form:"nota"`
}

// ReportActionRequest is the form posted by the legacy report view.
type ReportActionRequest struct {
	Action      string  `form:"action" json:"action"`
	ID          string  `form:"id" json:"id"`
	Hours       *int    `form:"horas" json:"horas"`
	Description *string `form:"descripcion" json:"descripcion"`
	Note        *string `form:"nota" json:"nota"`
}

// ReportActionUpdate is the only action the legacy form posts.
const ReportActionUpdate = "update_report"

// Hours is an hour count that also decodes from a JSON string such as "4", as sent by the
// legacy report form script. An empty string or null decodes to zero.
type Hours int

// UnmarshalJSON accepts a JSON number or a numeric string.
func (h *Hours) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*h = 0
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*h = 0
			return nil
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("horas: %q is not an integer", raw)
	}
	*h = Hours(n)
	return nil
}
