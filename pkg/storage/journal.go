package storage

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/felixgeelhaar/flowplan/pkg/domain"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// RecordEvent appends a workflow checkpoint to the JSON Lines journal.
func (r *FilesystemRepository) RecordEvent(event domain.Event) error {
	if err := r.Initialize(); err != nil {
		return err
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	path, err := r.ResolvePath(EventsFile)
	if err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open events file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// LoadEvents reads the full checkpoint journal in order.
func (r *FilesystemRepository) LoadEvents() ([]domain.Event, error) {
	path, err := r.ResolvePath(EventsFile)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open events file: %w", err)
	}
	defer f.Close()

	var events []domain.Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e domain.Event
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event: %w", err)
		}
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events file: %w", err)
	}
	return events, nil
}

// JournalWriter adapts the repository to the domain.Journal interface.
type JournalWriter struct {
	repo *FilesystemRepository
}

// NewJournalWriter creates a journal backed by the workspace repository.
func NewJournalWriter(repo *FilesystemRepository) *JournalWriter {
	return &JournalWriter{repo: repo}
}

func (j *JournalWriter) Record(action string, planID string, metadata map[string]interface{}) error {
	return j.repo.RecordEvent(domain.Event{
		Action:   action,
		PlanID:   planID,
		Metadata: metadata,
	})
}
