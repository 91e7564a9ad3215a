package db

import (
	"context"
	"database/sql"

	"github.com/eylercore/tracker/internal/models"
	"github.com/google/uuid"
)

// defines methods for tag db operations
type TagRepositoryInterface interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	List(ctx context.Context) ([]*models.Tag, error)
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TagRepository struct {
	db *sql.DB
}

func NewTagRepository(db *sql.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	query := `INSERT INTO tags (id, name, color, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, tag.ID, tag.Name, tag.Color, tag.CreatedAt)
	return err
}

func (r *TagRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	query := `SELECT id, name, color, created_at FROM tags WHERE id = $1`
	tag := &models.Tag{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt)
	if err != nil {
		return nil, notFoundIfNoRows(err)
	}
	return tag, nil
}

// GetByName does a case-sensitive lookup, matching the uniqueness rule.
func (r *TagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	query := `SELECT id, name, color, created_at FROM tags WHERE name = $1`
	tag := &models.Tag{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt)
	if err != nil {
		return nil, notFoundIfNoRows(err)
	}
	return tag, nil
}

func (r *TagRepository) List(ctx context.Context) ([]*models.Tag, error) {
	query := `SELECT id, name, color, created_at FROM tags ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*models.Tag
	for rows.Next() {
		tag := &models.Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *TagRepository) Update(ctx context.Context, tag *models.Tag) error {
	query := `UPDATE tags SET name = $1, color = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, tag.Name, tag.Color, tag.ID)
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

// Delete detaches the tag from every task, then removes it. Tasks survive.
func (r *TagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM tags WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_tags WHERE tag_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit()
}
