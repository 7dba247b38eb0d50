package world

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mlaurent/officeday/pkg/assets"

	opt "github.com/repeale/fp-go/option"
	"gopkg.in/yaml.v3"
)

type TaskKind string

const (
	TaskMain TaskKind = "main"
	TaskSide TaskKind = "side"
)

// A Task is one work item on the day's list. Floor, InteractableID and
// NPCID tie it to the building; zero values mean the task has no such
// binding.
type Task struct {
	ID             string
	Kind           TaskKind
	Title          string
	Description    string
	Floor          int
	InteractableID string
	NPCID          string
	RewardPoints   int
	Dependencies   []string
}

// A TaskList holds the day's tasks in authoring order, main before side.
type TaskList struct {
	order []string
	table map[string]*Task
}

type taskFile struct {
	ID             string   `json:"id" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description" yaml:"description"`
	Floor          int      `json:"floor" yaml:"floor"`
	InteractableID string   `json:"interactable_id" yaml:"interactable_id"`
	NPCID          string   `json:"npc_id" yaml:"npc_id"`
	RewardPoints   int      `json:"reward_points" yaml:"reward_points"`
	Dependencies   []string `json:"dependencies" yaml:"dependencies"`
}

type tasksFile struct {
	MainTasks []taskFile `json:"main_tasks" yaml:"main_tasks"`
	SideTasks []taskFile `json:"side_tasks" yaml:"side_tasks"`
}

// LoadTasks reads the tasks data file (.json or .yaml).
func LoadTasks(path string) (*TaskList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTasks(data, filepath.Ext(path))
}

// ParseTasks parses tasks data. A task without an id, or two tasks sharing
// one, is a *assets.SchemaError.
func ParseTasks(data []byte, format string) (*TaskList, error) {
	var file tasksFile
	switch format {
	case ".json", "json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("could not parse tasks data: %w", err)
		}
	case ".yaml", ".yml", "yaml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("could not parse tasks data: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported tasks format %q", format)
	}

	list := &TaskList{
		table: make(map[string]*Task),
	}

	add := func(entries []taskFile, kind TaskKind) error {
		for _, entry := range entries {
			if entry.ID == "" {
				return &assets.SchemaError{
					Key:    string(kind),
					Field:  "id",
					Reason: "task is missing an id",
				}
			}
			if _, ok := list.table[entry.ID]; ok {
				return &assets.SchemaError{
					Key:    entry.ID,
					Field:  "id",
					Reason: "duplicate task id",
				}
			}

			list.order = append(list.order, entry.ID)
			list.table[entry.ID] = &Task{
				ID:             entry.ID,
				Kind:           kind,
				Title:          entry.Title,
				Description:    entry.Description,
				Floor:          entry.Floor,
				InteractableID: entry.InteractableID,
				NPCID:          entry.NPCID,
				RewardPoints:   entry.RewardPoints,
				Dependencies:   entry.Dependencies,
			}
		}
		return nil
	}

	if err := add(file.MainTasks, TaskMain); err != nil {
		return nil, err
	}
	if err := add(file.SideTasks, TaskSide); err != nil {
		return nil, err
	}

	return list, nil
}

func (l *TaskList) Get(id string) opt.Option[*Task] {
	if task, ok := l.table[id]; ok {
		return opt.Some(task)
	}
	return opt.None[*Task]()
}

func (l *TaskList) Len() int {
	return len(l.order)
}

func (l *TaskList) All() []*Task {
	tasks := make([]*Task, 0, len(l.order))
	for _, id := range l.order {
		tasks = append(tasks, l.table[id])
	}
	return tasks
}

func (l *TaskList) Main() []*Task {
	return l.ofKind(TaskMain)
}

func (l *TaskList) Side() []*Task {
	return l.ofKind(TaskSide)
}

func (l *TaskList) ofKind(kind TaskKind) []*Task {
	tasks := make([]*Task, 0)
	for _, id := range l.order {
		if task := l.table[id]; task.Kind == kind {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// Validate cross-checks every task against the building: referenced floors
// must exist, referenced objects must be placed somewhere, an npc binding
// must actually point at an npc, and dependencies must name known tasks.
// Problems are reported as human-readable issues, not errors; a day with a
// dangling task is playable, just wrong.
func (l *TaskList) Validate(b *Building) []string {
	var issues []string

	for _, id := range l.order {
		task := l.table[id]

		if task.Floor != 0 && !b.HasFloor(task.Floor) {
			issues = append(issues, fmt.Sprintf(
				"task %q references floor %d, which does not exist", id, task.Floor))
		}

		if task.InteractableID != "" {
			found := b.FindObject(task.InteractableID)
			if opt.IsNone(found) {
				issues = append(issues, fmt.Sprintf(
					"task %q references interactable %q, which is not placed on any floor",
					id, task.InteractableID))
			}
		}

		if task.NPCID != "" {
			found := b.FindObject(task.NPCID)
			if opt.IsNone(found) {
				issues = append(issues, fmt.Sprintf(
					"task %q references npc %q, which is not placed on any floor",
					id, task.NPCID))
			} else if found.Value.Object.Kind != KindNPC {
				issues = append(issues, fmt.Sprintf(
					"task %q references %q as an npc, but it is a %s",
					id, task.NPCID, found.Value.Object.Kind))
			}
		}

		for _, dep := range task.Dependencies {
			if _, ok := l.table[dep]; !ok {
				issues = append(issues, fmt.Sprintf(
					"task %q depends on unknown task %q", id, dep))
			}
		}
	}

	return issues
}
