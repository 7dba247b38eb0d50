package world

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/mlaurent/officeday/pkg/assets"

	opt "github.com/repeale/fp-go/option"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// A PlacedObject is one data-declared entity instance within a floor. Its
// id is unique within the floor, not globally.
type PlacedObject struct {
	ID    string
	Kind  Kind
	X     float64
	Y     float64
	Props Props
}

// A FloorDefinition is one level of the building: a display name, a
// background asset key, and the ordered objects placed on it.
type FloorDefinition struct {
	Number  int
	Name    string
	BgKey   string
	Objects []PlacedObject
}

func (f *FloorDefinition) Object(id string) opt.Option[*PlacedObject] {
	for i := range f.Objects {
		if f.Objects[i].ID == id {
			return opt.Some(&f.Objects[i])
		}
	}
	return opt.None[*PlacedObject]()
}

// ObjectRef locates a placed object within the building.
type ObjectRef struct {
	Floor  int
	Object *PlacedObject
}

// Building holds every floor plus the global geometry shared by all of
// them: the cut-away view is FloorWidth wide, floors stack FloorHeight
// apart, and the elevator shaft sits at ElevatorX.
type Building struct {
	FloorWidth   float64
	FloorHeight  int
	ElevatorX    int
	MinFloor     int
	MaxFloor     int
	DefaultBgKey string

	floors  map[int]*FloorDefinition
	visited map[int]struct{}
}

type objectFile struct {
	ID    string         `json:"id" yaml:"id"`
	Kind  string         `json:"kind" yaml:"kind"`
	X     float64        `json:"x" yaml:"x"`
	Y     float64        `json:"y" yaml:"y"`
	Props map[string]any `json:"props" yaml:"props"`
}

type floorFile struct {
	Name    string       `json:"name" yaml:"name"`
	BgKey   string       `json:"bg_key" yaml:"bg_key"`
	Objects []objectFile `json:"objects" yaml:"objects"`
}

type buildingFile struct {
	FloorWidth   float64              `json:"floor_width" yaml:"floor_width"`
	FloorHeight  int                  `json:"floor_height" yaml:"floor_height"`
	ElevatorX    int                  `json:"elevator_position_x" yaml:"elevator_position_x"`
	MinFloor     *int                 `json:"min_floor" yaml:"min_floor"`
	MaxFloor     *int                 `json:"max_floor" yaml:"max_floor"`
	DefaultBgKey string               `json:"default_bg_key" yaml:"default_bg_key"`
	Floors       map[string]floorFile `json:"floors" yaml:"floors"`
}

// LoadBuilding reads and validates the floors data file (.json or .yaml).
func LoadBuilding(path string) (*Building, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBuilding(data, filepath.Ext(path))
}

// ParseBuilding parses floors data. Structural problems (non-integer floor
// identifiers, objects without an id or kind, duplicate ids within a
// floor) are *assets.SchemaError and abort the load. Placement is checked
// later, at compose time, against the floor width.
func ParseBuilding(data []byte, format string) (*Building, error) {
	var file buildingFile
	switch format {
	case ".json", "json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("could not parse floors data: %w", err)
		}
	case ".yaml", ".yml", "yaml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("could not parse floors data: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported floors format %q", format)
	}

	b := &Building{
		FloorWidth:   1200,
		FloorHeight:  120,
		ElevatorX:    64,
		MinFloor:     90,
		MaxFloor:     98,
		DefaultBgKey: file.DefaultBgKey,
		floors:       make(map[int]*FloorDefinition),
		visited:      make(map[int]struct{}),
	}
	if file.FloorWidth > 0 {
		b.FloorWidth = file.FloorWidth
	}
	if file.FloorHeight > 0 {
		b.FloorHeight = file.FloorHeight
	}
	if file.ElevatorX > 0 {
		b.ElevatorX = file.ElevatorX
	}
	if file.MinFloor != nil {
		b.MinFloor = *file.MinFloor
	}
	if file.MaxFloor != nil {
		b.MaxFloor = *file.MaxFloor
	}

	for floorStr, floorData := range file.Floors {
		number, err := strconv.Atoi(floorStr)
		if err != nil {
			return nil, &assets.SchemaError{
				Key:    floorStr,
				Field:  "floors",
				Reason: "floor identifier must be an integer",
			}
		}
		if number < b.MinFloor || number > b.MaxFloor {
			log.Warn().
				Int("floor", number).
				Int("min", b.MinFloor).
				Int("max", b.MaxFloor).
				Msg("floor outside the building's range; skipping")
			continue
		}

		floor := &FloorDefinition{
			Number: number,
			Name:   floorData.Name,
			BgKey:  floorData.BgKey,
		}
		if floor.Name == "" {
			floor.Name = fmt.Sprintf("Floor %d", number)
		}

		seen := make(map[string]struct{})
		for _, obj := range floorData.Objects {
			if obj.ID == "" {
				return nil, &assets.SchemaError{
					Key:    floorStr,
					Field:  "id",
					Reason: "placed object is missing an id",
				}
			}
			if _, ok := seen[obj.ID]; ok {
				return nil, &assets.SchemaError{
					Key:    obj.ID,
					Field:  "id",
					Reason: fmt.Sprintf("duplicate object id on floor %d", number),
				}
			}
			seen[obj.ID] = struct{}{}

			if obj.Kind == "" {
				return nil, &assets.SchemaError{
					Key:    obj.ID,
					Field:  "kind",
					Reason: "placed object is missing a kind",
				}
			}

			floor.Objects = append(floor.Objects, PlacedObject{
				ID:    obj.ID,
				Kind:  Kind(obj.Kind),
				X:     obj.X,
				Y:     obj.Y,
				Props: Props(obj.Props),
			})
		}

		b.floors[number] = floor
	}

	log.Info().Int("floors", len(b.floors)).Msg("building loaded")
	return b, nil
}

func (b *Building) Floor(number int) opt.Option[*FloorDefinition] {
	if floor, ok := b.floors[number]; ok {
		return opt.Some(floor)
	}
	return opt.None[*FloorDefinition]()
}

func (b *Building) HasFloor(number int) bool {
	_, ok := b.floors[number]
	return ok
}

func (b *Building) AllFloors() []int {
	numbers := make([]int, 0, len(b.floors))
	for number := range b.floors {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)
	return numbers
}

// VisibleFloors lists the loaded floors within radius of a center floor,
// sorted. The cut-away renderer only draws these.
func (b *Building) VisibleFloors(center, radius int) []int {
	visible := make([]int, 0)
	for number := range b.floors {
		if abs(number-center) <= radius {
			visible = append(visible, number)
		}
	}
	sort.Ints(visible)
	return visible
}

func (b *Building) BottomFloor() int {
	numbers := b.AllFloors()
	if len(numbers) == 0 {
		return b.MinFloor
	}
	return numbers[0]
}

func (b *Building) TopFloor() int {
	numbers := b.AllFloors()
	if len(numbers) == 0 {
		return b.MaxFloor
	}
	return numbers[len(numbers)-1]
}

func (b *Building) Visit(number int) {
	if b.HasFloor(number) {
		b.visited[number] = struct{}{}
	}
}

func (b *Building) VisitedCount() int {
	return len(b.visited)
}

// FindObject searches every floor for an object id. Ids are only unique
// per floor; the first match in floor order wins.
func (b *Building) FindObject(id string) opt.Option[ObjectRef] {
	for _, number := range b.AllFloors() {
		floor := b.floors[number]
		if found := floor.Object(id); opt.IsSome(found) {
			return opt.Some(ObjectRef{Floor: number, Object: found.Value})
		}
	}
	return opt.None[ObjectRef]()
}

type BuildingStats struct {
	Floors  int
	Visited int
	Objects int
	NPCs    int
}

func (b *Building) Stats() BuildingStats {
	stats := BuildingStats{
		Floors:  len(b.floors),
		Visited: len(b.visited),
	}
	for _, floor := range b.floors {
		for _, obj := range floor.Objects {
			stats.Objects++
			if obj.Kind == KindNPC {
				stats.NPCs++
			}
		}
	}
	return stats
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
