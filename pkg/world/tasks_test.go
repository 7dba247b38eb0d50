package world

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mlaurent/officeday/pkg/assets"

	opt "github.com/repeale/fp-go/option"
	"github.com/stretchr/testify/require"
)

const tasksData = `{
  "main_tasks": [
    {
      "id": "fix_printer",
      "title": "Fix the printer",
      "floor": 91,
      "interactable_id": "printer_91",
      "reward_points": 10
    },
    {
      "id": "report_back",
      "title": "Report back to reception",
      "floor": 90,
      "npc_id": "receptionist",
      "dependencies": ["fix_printer"]
    }
  ],
  "side_tasks": [
    {
      "id": "water_plant",
      "title": "Water the lobby plant",
      "floor": 90,
      "interactable_id": "lobby_plant",
      "reward_points": 5
    }
  ]
}`

func TestParseTasks(t *testing.T) {
	list, err := ParseTasks([]byte(tasksData), ".json")
	require.NoError(t, err)
	require.Equal(t, 3, list.Len())

	main := list.Main()
	require.Len(t, main, 2)
	require.Equal(t, "fix_printer", main[0].ID)
	require.Equal(t, TaskMain, main[0].Kind)
	require.Equal(t, 10, main[0].RewardPoints)

	side := list.Side()
	require.Len(t, side, 1)
	require.Equal(t, TaskSide, side[0].Kind)

	report := list.Get("report_back")
	require.True(t, opt.IsSome(report))
	require.Equal(t, []string{"fix_printer"}, report.Value.Dependencies)

	require.True(t, opt.IsNone(list.Get("slack_off")))
	require.Len(t, list.All(), 3)
}

func TestParseTasksSchemaErrors(t *testing.T) {
	var schemaErr *assets.SchemaError

	_, err := ParseTasks([]byte(`{"main_tasks": [{"title": "anonymous"}]}`), ".json")
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, "id", schemaErr.Field)

	// Ids are unique across both sections.
	_, err = ParseTasks([]byte(`{
  "main_tasks": [{"id": "dup", "title": "a"}],
  "side_tasks": [{"id": "dup", "title": "b"}]
}`), ".json")
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, "dup", schemaErr.Key)
}

func TestLoadTasksYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
main_tasks:
  - id: greet
    title: Greet everyone
`), 0644))

	list, err := LoadTasks(path)
	require.NoError(t, err)
	require.Equal(t, 1, list.Len())
}

func TestValidateTasks(t *testing.T) {
	b := testBuilding(t)

	list, err := ParseTasks([]byte(tasksData), ".json")
	require.NoError(t, err)

	// Everything in the fixture lines up with the building.
	require.Empty(t, list.Validate(b))
}

func TestValidateTasksReportsDanglingReferences(t *testing.T) {
	b := testBuilding(t)

	list, err := ParseTasks([]byte(`{
  "main_tasks": [
    {"id": "bad_floor", "title": "a", "floor": 42},
    {"id": "bad_object", "title": "b", "interactable_id": "nonexistent_desk"},
    {"id": "bad_npc", "title": "c", "npc_id": "lobby_plant"},
    {"id": "bad_dep", "title": "d", "dependencies": ["imaginary"]}
  ]
}`), ".json")
	require.NoError(t, err)

	issues := list.Validate(b)
	require.Len(t, issues, 4)
	require.Contains(t, issues[0], "floor 42")
	require.Contains(t, issues[1], "nonexistent_desk")
	// lobby_plant exists but is not an npc.
	require.Contains(t, issues[2], "lobby_plant")
	require.Contains(t, issues[3], "imaginary")
}
