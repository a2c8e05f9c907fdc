package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/taskboard/internal/model"
)

// taskColumns lists the columns mapped onto model.Task, in SELECT order.
const taskColumns = `id, user_id, title, description, due_date, priority,
	status, created_at, updated_at, deleted_at`

// SQLStore implements TaskStore on a SQL database through sqlx. The same
// implementation serves sqlite and postgres; queries are written with '?'
// placeholders and rebound for the active driver.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and serializes
	// writers, which SQLite requires anyway.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	return newSQLStore(db)
}

func newSQLStore(db *sqlx.DB) (*SQLStore, error) {
	s := &SQLStore{db: db}
	if err := s.runMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order, each inside its own transaction.
func (s *SQLStore) runMigrations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		"CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)",
	); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	currentVersion := 0
	err := s.db.GetContext(ctx, &currentVersion,
		"SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

func (s *SQLStore) applyMigration(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range m.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		tx.Rebind("INSERT INTO schema_version (version) VALUES (?)"), m.version,
	); err != nil {
		return fmt.Errorf("recording version: %w", err)
	}

	return tx.Commit()
}

// Append inserts a new task after every existing one.
func (s *SQLStore) Append(ctx context.Context, task model.Task) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var maxSeq int64
	if err := tx.GetContext(ctx, &maxSeq,
		"SELECT COALESCE(MAX(seq), 0) FROM tasks"); err != nil {
		return fmt.Errorf("getting max seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO tasks (
			id, seq, user_id, title, description, due_date,
			priority, status, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		task.ID, maxSeq+1, task.UserID, task.Title, task.Description,
		task.DueDate.UTC(), string(task.Priority), string(task.Status),
		task.CreatedAt.UTC(), task.UpdatedAt.UTC(), utcPtr(task.DeletedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task %s: %w", task.ID, err)
	}

	return tx.Commit()
}

// FindByIDAndOwner retrieves a single active task.
func (s *SQLStore) FindByIDAndOwner(
	ctx context.Context,
	id, ownerID string,
) (*model.Task, error) {
	var task model.Task
	err := s.db.GetContext(ctx, &task, s.db.Rebind(
		"SELECT "+taskColumns+" FROM tasks WHERE id = ? AND user_id = ? AND deleted_at IS NULL"),
		id, ownerID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}

	normalizeTimes(&task)
	return &task, nil
}

// ListByOwner retrieves the owner's active tasks in insertion order.
func (s *SQLStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	var tasks []model.Task
	err := s.db.SelectContext(ctx, &tasks, s.db.Rebind(
		"SELECT "+taskColumns+" FROM tasks WHERE user_id = ? AND deleted_at IS NULL ORDER BY seq"),
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}

	for i := range tasks {
		normalizeTimes(&tasks[i])
	}
	return tasks, nil
}

// Replace overwrites every mutable column of the task with the same id.
func (s *SQLStore) Replace(ctx context.Context, task model.Task) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE tasks SET
			title = ?, description = ?, due_date = ?, priority = ?,
			status = ?, updated_at = ?, deleted_at = ?
		WHERE id = ?`),
		task.Title, task.Description, task.DueDate.UTC(), string(task.Priority),
		string(task.Status), task.UpdatedAt.UTC(), utcPtr(task.DeletedAt),
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", task.ID, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// utcPtr converts an optional timestamp to UTC for storage.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// normalizeTimes puts scanned timestamps in UTC regardless of how the
// driver reports them.
func normalizeTimes(t *model.Task) {
	t.DueDate = t.DueDate.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	if t.DeletedAt != nil {
		d := t.DeletedAt.UTC()
		t.DeletedAt = &d
	}
}
