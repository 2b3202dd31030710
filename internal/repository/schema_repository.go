package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/educontrol/educontrol-api/internal/models"
	"github.com/educontrol/educontrol-api/pkg/database"
)

// SchemaRepository inspects table metadata.
type SchemaRepository struct {
	db *sqlx.DB
}

// NewSchemaRepository constructs a SchemaRepository.
func NewSchemaRepository(db *sqlx.DB) *SchemaRepository {
	return &SchemaRepository{db: db}
}

// Columns returns the columns currently defined on table. The table name is bound as a
// parameter, never interpolated. An unknown table yields an empty set.
func (r *SchemaRepository) Columns(ctx context.Context, table string) (models.ColumnSet, error) {
	query := r.db.Rebind(fmt.Sprintf(`SELECT column_name FROM information_schema.columns
        WHERE table_schema = %s AND table_name = ? ORDER BY ordinal_position`, database.CurrentSchemaExpr(r.db.DriverName())))
	var names []string
	if err := r.db.SelectContext(ctx, &names, query, table); err != nil {
		return nil, fmt.Errorf("probe columns of %s: %w", table, err)
	}
	return models.NewColumnSet(names...), nil
}
