package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/educontrol/educontrol-api/internal/models"
)

type schemaProber interface {
	Columns(ctx context.Context, table string) (models.ColumnSet, error)
}

var probedTables = []string{
	models.TableUsers,
	models.TableStudents,
	models.TableGroups,
	models.TableReports,
	models.TableReportHistory,
}

// SchemaService detects the optional columns of the deployed schema.
type SchemaService struct {
	prober schemaProber
	logger *zap.Logger
}

// NewSchemaService constructs a SchemaService.
func NewSchemaService(prober schemaProber, logger *zap.Logger) *SchemaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchemaService{prober: prober, logger: logger}
}

// LoadCapabilities probes every known table once. A failed probe degrades to an empty column set
// so the affected features fall back to their defaults instead of failing startup.
func (s *SchemaService) LoadCapabilities(ctx context.Context) models.SchemaCapabilities {
	tables := make(map[string]models.ColumnSet, len(probedTables))
	for _, table := range probedTables {
		cols, err := s.prober.Columns(ctx, table)
		if err != nil {
			s.logger.Warn("schema probe failed", zap.String("table", table), zap.Error(err))
			cols = models.NewColumnSet()
		}
		tables[table] = cols
	}

	caps := models.BuildCapabilities(tables)
	if err := caps.Validate(); err != nil {
		s.logger.Error("reports cannot be linked to students", zap.Error(err))
	}
	s.logger.Info("schema capabilities detected",
		zap.String("group_grade_column", caps.GroupGradeColumn),
		zap.String("group_label_column", caps.GroupLabelColumn),
		zap.String("report_link", string(caps.ReportLink)),
		zap.Bool("history", caps.HasHistoryTable),
	)
	return caps
}
