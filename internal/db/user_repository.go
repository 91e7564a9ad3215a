package db

import (
	"context"
	"database/sql"

	"github.com/eylercore/tracker/internal/models"
	"github.com/google/uuid"
)

// defines methods for user db operations
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListAssignableForOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (id, email, password_hash, created_at, updated_at)
	 VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(
		ctx, query, user.ID, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = $1`
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, notFoundIfNoRows(err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = $1`
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, notFoundIfNoRows(err)
	}
	return user, nil
}

// ListAssignableForOwner returns the users a task may be assigned to when
// its project belongs to ownerID: everyone who owns a project owned by that
// user. With single-owner projects this resolves to the owner, but the
// query leaves room for a membership table.
func (r *UserRepository) ListAssignableForOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.User, error) {
	query := `SELECT DISTINCT u.id, u.email, u.password_hash, u.created_at, u.updated_at
	 FROM users u JOIN projects p ON p.owner_id = u.id
	 WHERE p.owner_id = $1 ORDER BY u.email`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(
			&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Delete removes a user and everything hanging off them in one transaction:
// tasks assigned to the user get assigned_to cleared (the tasks survive),
// then the user's own projects are cascade-deleted, then the user row.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	steps := []string{
		`UPDATE tasks SET assigned_to = NULL WHERE assigned_to = $1`,
		`DELETE FROM task_tags WHERE task_id IN
		   (SELECT t.id FROM tasks t JOIN projects p ON t.project_id = p.id WHERE p.owner_id = $1)`,
		`DELETE FROM tasks WHERE project_id IN (SELECT id FROM projects WHERE owner_id = $1)`,
		`DELETE FROM projects WHERE owner_id = $1`,
		`DELETE FROM users WHERE id = $1`,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}
