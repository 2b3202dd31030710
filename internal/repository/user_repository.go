package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/educontrol/educontrol-api/internal/models"
)

// UserRepository reads and provisions staff accounts.
type UserRepository struct {
	db   *sqlx.DB
	caps models.SchemaCapabilities
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB, caps models.SchemaCapabilities) *UserRepository {
	return &UserRepository{db: db, caps: caps}
}

// FindByUsername fetches a staff user by exact username match.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.StaffUser, error) {
	cols := []projection{
		{expr: "id", alias: "id", present: true},
		{expr: "nombre", alias: "nombre", present: true},
		{expr: "password", alias: "password", present: true},
		{expr: "rol", alias: "rol", present: true},
		{expr: "activo", alias: "activo", present: r.caps.UserHasActive},
		{expr: "alumno_id", alias: "alumno_id", present: r.caps.UserHasStudentLink},
	}
	query := r.db.Rebind(fmt.Sprintf("SELECT %s FROM usuarios WHERE nombre = ? LIMIT 1", selectList(cols)))
	var user models.StaffUser
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a staff account with an already hashed password.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string, role models.UserRole) (int64, error) {
	query := r.db.Rebind("INSERT INTO usuarios (nombre, password, rol) VALUES (?, ?, ?)")
	if r.db.DriverName() == "postgres" {
		var id int64
		if err := r.db.GetContext(ctx, &id, query+" RETURNING id", username, passwordHash, string(role)); err != nil {
			return 0, fmt.Errorf("create user: %w", err)
		}
		return id, nil
	}
	result, err := r.db.ExecContext(ctx, query, username, passwordHash, string(role))
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read user id: %w", err)
	}
	return id, nil
}
