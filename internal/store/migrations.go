package store

// migration holds a single schema migration with its target version and
// the statements that apply it. Statements run one at a time so the same
// list works for both sqlite and postgres.
type migration struct {
	version    int
	statements []string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	seq         BIGINT NOT NULL,
	user_id     TEXT NOT NULL,
	title       TEXT NOT NULL,
	description TEXT,
	due_date    TIMESTAMP NOT NULL,
	priority    TEXT NOT NULL DEFAULT 'medium'
		CHECK(priority IN ('low', 'medium', 'high')),
	status      TEXT NOT NULL DEFAULT 'pending'
		CHECK(status IN ('pending', 'in_progress', 'completed')),
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL,
	deleted_at  TIMESTAMP
)`,
			`CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_seq ON tasks(seq)`,
		},
	},
	{
		version: 2,
		statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_tasks_user_active
	ON tasks(user_id, deleted_at)`,
		},
	},
}
