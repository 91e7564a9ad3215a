package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/eylercore/tracker/internal/models"
	"github.com/google/uuid"
)

// defines methods for task db operations
type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *models.Task) error
	GetForProject(ctx context.Context, id, projectID uuid.UUID) (*models.Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, project_id, title, description, status, priority,
 due_date, assigned_to, created_at, updated_at`

// Listing order: highest priority first, then nearest due date with undated
// tasks last, then oldest first. "due_date IS NULL" sorts false before true
// on both drivers, which puts NULL dates at the end.
const taskOrder = ` ORDER BY CASE priority
   WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC,
 due_date IS NULL, due_date, created_at`

// Create inserts the task and its tag associations in one transaction, so a
// task is never visible with a partial tag set.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO tasks (` + taskColumns + `)
	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = tx.ExecContext(ctx, query,
		task.ID, task.ProjectID, task.Title, task.Description, task.Status,
		task.Priority, task.DueDate, task.AssignedTo, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return err
	}
	if err := insertTaskTags(ctx, tx, task); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *TaskRepository) GetForProject(ctx context.Context, id, projectID uuid.UUID) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND project_id = $2`
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id, projectID))
	if err != nil {
		return nil, notFoundIfNoRows(err)
	}
	if err := r.loadTags(ctx, []*models.Task{task}); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1` + taskOrder
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update rewrites the task row and its full tag set in one transaction.
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE tasks SET title = $1, description = $2, status = $3,
	 priority = $4, due_date = $5, assigned_to = $6, updated_at = $7 WHERE id = $8`
	res, err := tx.ExecContext(ctx, query,
		task.Title, task.Description, task.Status, task.Priority,
		task.DueDate, task.AssignedTo, task.UpdatedAt, task.ID)
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

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = $1`, task.ID); err != nil {
		return err
	}
	if err := insertTaskTags(ctx, tx, task); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
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
	return tx.Commit()
}

func insertTaskTags(ctx context.Context, tx *sql.Tx, task *models.Task) error {
	for _, tag := range task.Tags {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO task_tags (task_id, tag_id) VALUES ($1, $2)`, task.ID, tag.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var due sql.NullTime
	var assignee sql.NullString
	err := row.Scan(
		&task.ID, &task.ProjectID, &task.Title, &task.Description, &task.Status,
		&task.Priority, &due, &assignee, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if due.Valid {
		d := due.Time
		task.DueDate = &d
	}
	if assignee.Valid {
		id, err := uuid.Parse(assignee.String)
		if err != nil {
			return nil, err
		}
		task.AssignedTo = &id
	}
	return task, nil
}

// loadTags fills Tags for every task in one query, sorted by name.
func (r *TaskRepository) loadTags(ctx context.Context, tasks []*models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*models.Task, len(tasks))
	placeholders := make([]string, len(tasks))
	args := make([]any, len(tasks))
	for i, task := range tasks {
		task.Tags = []*models.Tag{}
		byID[task.ID] = task
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = task.ID
	}

	query := `SELECT tt.task_id, t.id, t.name, t.color, t.created_at
	 FROM task_tags tt
	 JOIN tags t ON t.id = tt.tag_id
	 WHERE tt.task_id IN (` + strings.Join(placeholders, ", ") + `)
	 ORDER BY t.name`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var taskID uuid.UUID
		tag := &models.Tag{}
		if err := rows.Scan(&taskID, &tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
			return err
		}
		if task, ok := byID[taskID]; ok {
			task.Tags = append(task.Tags, tag)
		}
	}
	return rows.Err()
}
