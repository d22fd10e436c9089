// Package record reads the system-of-record task database that planning
// sessions diff their snapshots against.
package record

import (
	"database/sql"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/felixgeelhaar/flowplan/pkg/domain/planning"
)

// Store provides read access to the projects task database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the task database read-only.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open task database: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// TasksForProject reads every task belonging to a project, in stable ID
// order. depends_on is stored as a JSON array of task IDs.
func (s *Store) TasksForProject(projectID string) ([]planning.Task, error) {
	rows, err := s.db.Query(`
		SELECT id, title, duration_minutes, depends_on, goal_id, start_date, due_date
		FROM tasks
		WHERE project_id = ?
		ORDER BY id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []planning.Task
	for rows.Next() {
		var (
			t         planning.Task
			duration  sql.NullInt64
			dependsOn sql.NullString
			goalID    sql.NullString
			startDate sql.NullString
			dueDate   sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Title, &duration, &dependsOn, &goalID, &startDate, &dueDate); err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		if duration.Valid {
			t.EstimatedDuration = int(duration.Int64)
		}
		if dependsOn.Valid && dependsOn.String != "" {
			if err := json.Unmarshal([]byte(dependsOn.String), &t.DependsOn); err != nil {
				return nil, fmt.Errorf("task %s: invalid depends_on: %w", t.ID, err)
			}
		}
		if goalID.Valid {
			t.GoalID = goalID.String
		}
		if d, ok := parseDate(startDate); ok {
			t.StartDate = d
		}
		if d, ok := parseDate(dueDate); ok {
			t.DueDate = d
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task rows: %w", err)
	}
	return tasks, nil
}

func parseDate(v sql.NullString) (*time.Time, bool) {
	if !v.Valid || v.String == "" {
		return nil, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, v.String); err == nil {
			return &t, true
		}
	}
	return nil, false
}
