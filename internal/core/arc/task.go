package arc

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arcmind/prism/internal/core/validation"
)

// GridPair is one demonstration or test case of an ARC task.
type GridPair struct {
	Input  validation.Grid `json:"input"`
	Output validation.Grid `json:"output"`
}

// Task is an ARC puzzle: training pairs that demonstrate the transformation
// and one or more test cases the model must solve.
type Task struct {
	ID    string     `json:"id"`
	Train []GridPair `json:"train"`
	Test  []GridPair `json:"test"`
}

// ExpectedOutputs returns the known-correct output grids of the test cases,
// in test-case order. Order is the join key between predicted and expected
// grids downstream.
func (t *Task) ExpectedOutputs() []validation.Grid {
	outputs := make([]validation.Grid, len(t.Test))
	for i, pair := range t.Test {
		outputs[i] = pair.Output
	}
	return outputs
}

// LoadTask reads a single ARC task JSON file. The task ID is the file name
// without extension, matching the public dataset layout.
func LoadTask(path string) (*Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task file '%s': %w", path, err)
	}

	var task Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("failed to parse task file '%s': %w", path, err)
	}
	task.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if len(task.Test) == 0 {
		return nil, fmt.Errorf("task '%s' has no test cases", task.ID)
	}
	return &task, nil
}

// LoadTasks reads every .json task in a directory, sorted by ID for a stable
// processing order.
func LoadTasks(dir string) ([]*Task, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read task directory '%s': %w", dir, err)
	}

	var tasks []*Task
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		task, err := LoadTask(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}
