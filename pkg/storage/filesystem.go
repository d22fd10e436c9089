package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/flowplan/pkg/domain"
	"github.com/felixgeelhaar/flowplan/pkg/domain/planning"
	"github.com/felixgeelhaar/fortify/retry"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

const FlowplanDir = ".flowplan"
const ConfigFile = "config.yaml"
const EventsFile = "events.jsonl"

const planFilePrefix = "plan-"

type FilesystemRepository struct {
	root        string
	retryConfig retry.Config
}

func NewFilesystemRepository(root string) *FilesystemRepository {
	return &FilesystemRepository{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Root returns the workspace root directory.
func (r *FilesystemRepository) Root() string {
	return r.root
}

// ResolvePath ensures the path is within the .flowplan directory and
// prevents traversal.
func (r *FilesystemRepository) ResolvePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	baseDir := filepath.Join(r.root, FlowplanDir)
	fullPath := filepath.Join(baseDir, filename)
	cleanPath := filepath.Clean(fullPath)

	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}

	return cleanPath, nil
}

func (r *FilesystemRepository) Initialize() error {
	path := filepath.Join(r.root, FlowplanDir)
	if err := os.MkdirAll(path, 0700); err != nil {
		return fmt.Errorf("failed to create .flowplan directory: %w", err)
	}
	return nil
}

func (r *FilesystemRepository) IsInitialized() bool {
	_, err := os.Stat(filepath.Join(r.root, FlowplanDir))
	return err == nil
}

func planFilename(planID string) string {
	return planFilePrefix + planID + ".json"
}

// SavePlan writes the full plan snapshot. Updates replace the whole file;
// a plan is never partially overwritten.
func (r *FilesystemRepository) SavePlan(plan *planning.Plan) error {
	if plan == nil || plan.ID == "" {
		return planning.ErrNoPlan
	}
	path, err := r.ResolvePath(planFilename(plan.ID))
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

func (r *FilesystemRepository) LoadPlan(planID string) (*planning.Plan, error) {
	retryer := retry.New[*planning.Plan](r.retryConfig)

	return retryer.Do(context.Background(), func(ctx context.Context) (*planning.Plan, error) {
		path, err := r.ResolvePath(planFilename(planID))
		if err != nil {
			return nil, err
		}

		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, planning.ErrPlanNotFound
			}
			return nil, fmt.Errorf("failed to read plan file: %w", err)
		}

		var p planning.Plan
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
		}
		return &p, nil
	})
}

// ListPlans returns plans for a project, newest first. An empty projectID
// lists every plan in the workspace.
func (r *FilesystemRepository) ListPlans(projectID string) ([]*planning.Plan, error) {
	baseDir := filepath.Join(r.root, FlowplanDir)
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read workspace directory: %w", err)
	}

	plans := make([]*planning.Plan, 0)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, planFilePrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(name, planFilePrefix), ".json")
		p, err := r.LoadPlan(id)
		if err != nil {
			continue
		}
		if projectID != "" && p.ProjectID != projectID {
			continue
		}
		plans = append(plans, p)
	}

	sort.Slice(plans, func(i, j int) bool {
		return plans[i].UpdatedAt.After(plans[j].UpdatedAt)
	})
	return plans, nil
}

func (r *FilesystemRepository) DeletePlan(planID string) error {
	path, err := r.ResolvePath(planFilename(planID))
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return planning.ErrPlanNotFound
		}
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return nil
}

func (r *FilesystemRepository) SaveConfig(cfg *domain.WorkspaceConfig) error {
	path, err := r.ResolvePath(ConfigFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

func (r *FilesystemRepository) LoadConfig() (*domain.WorkspaceConfig, error) {
	retryer := retry.New[*domain.WorkspaceConfig](r.retryConfig)

	return retryer.Do(context.Background(), func(ctx context.Context) (*domain.WorkspaceConfig, error) {
		path, err := r.ResolvePath(ConfigFile)
		if err != nil {
			return nil, err
		}

		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		var cfg domain.WorkspaceConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
		return &cfg, nil
	})
}
