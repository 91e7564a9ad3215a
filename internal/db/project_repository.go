package db

import (
	"context"
	"database/sql"

	"github.com/eylercore/tracker/internal/models"
	"github.com/google/uuid"
)

// defines methods for project db operations
type ProjectRepositoryInterface interface {
	Create(ctx context.Context, project *models.Project) error
	GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Project, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `INSERT INTO projects (id, owner_id, name, description, created_at, updated_at)
	 VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(
		ctx, query, project.ID, project.OwnerID, project.Name, project.Description,
		project.CreatedAt, project.UpdatedAt)
	return err
}

// GetForOwner loads a project only when ownerID owns it. A project owned by
// someone else yields ErrNotFound, same as an absent row.
func (r *ProjectRepository) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Project, error) {
	query := `SELECT id, owner_id, name, description, created_at, updated_at
	 FROM projects WHERE id = $1 AND owner_id = $2`
	project := &models.Project{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&project.ID, &project.OwnerID, &project.Name, &project.Description,
		&project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return nil, notFoundIfNoRows(err)
	}
	return project, nil
}

func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error) {
	query := `SELECT id, owner_id, name, description, created_at, updated_at
	 FROM projects WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project := &models.Project{}
		if err := rows.Scan(
			&project.ID, &project.OwnerID, &project.Name, &project.Description,
			&project.CreatedAt, &project.UpdatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	query := `UPDATE projects SET name = $1, description = $2, updated_at = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query,
		project.Name, project.Description, project.UpdatedAt, project.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete cascades explicitly: tag associations of the project's tasks, then
// the tasks, then the project itself, all in one transaction.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	steps := []string{
		`DELETE FROM task_tags WHERE task_id IN (SELECT id FROM tasks WHERE project_id = $1)`,
		`DELETE FROM tasks WHERE project_id = $1`,
		`DELETE FROM projects WHERE id = $1`,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}
