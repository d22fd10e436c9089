package record

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func seedTaskDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open seed db: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`
		CREATE TABLE tasks (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			title TEXT NOT NULL,
			duration_minutes INTEGER,
			depends_on TEXT,
			goal_id TEXT,
			start_date TEXT,
			due_date TEXT
		)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	rows := []struct {
		id, project, title string
		duration           int
		dependsOn, goalID  string
		startDate, dueDate string
	}{
		{"t1", "proj-1", "Design", 60, "", "g1", "2026-01-01", "2026-01-01"},
		{"t2", "proj-1", "Build", 120, `["t1"]`, "g1", "", ""},
		{"t3", "proj-2", "Other project", 30, "", "", "", ""},
	}
	for _, r := range rows {
		if _, err := db.Exec(
			`INSERT INTO tasks (id, project_id, title, duration_minutes, depends_on, goal_id, start_date, due_date)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.id, r.project, r.title, r.duration,
			nullable(r.dependsOn), nullable(r.goalID), nullable(r.startDate), nullable(r.dueDate),
		); err != nil {
			t.Fatalf("insert %s: %v", r.id, err)
		}
	}
	return path
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func TestStore_TasksForProject(t *testing.T) {
	store, err := Open(seedTaskDB(t))
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	defer store.Close()

	tasks, err := store.TasksForProject("proj-1")
	if err != nil {
		t.Fatalf("TasksForProject() = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(tasks))
	}

	if tasks[0].ID != "t1" || tasks[1].ID != "t2" {
		t.Errorf("tasks not in ID order: %s, %s", tasks[0].ID, tasks[1].ID)
	}
	if tasks[0].EstimatedDuration != 60 || tasks[0].GoalID != "g1" {
		t.Errorf("t1 = %+v", tasks[0])
	}
	if tasks[0].StartDate == nil || tasks[0].StartDate.Format("2006-01-02") != "2026-01-01" {
		t.Errorf("t1 start date = %v", tasks[0].StartDate)
	}
	if !tasks[1].DependsOnTask("t1") {
		t.Errorf("t2 depends_on = %v, want [t1]", tasks[1].DependsOn)
	}
}

func TestStore_UnknownProject(t *testing.T) {
	store, err := Open(seedTaskDB(t))
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	defer store.Close()

	tasks, err := store.TasksForProject("ghost")
	if err != nil {
		t.Fatalf("TasksForProject() = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("tasks = %v, want none", tasks)
	}
}
