package world

import (
	"fmt"
	"image"
	"strconv"

	"github.com/mlaurent/officeday/pkg/assets"
	"github.com/mlaurent/officeday/pkg/utils"

	opt "github.com/repeale/fp-go/option"
	"github.com/rs/zerolog/log"
)

// Kind classifies what a placed object is. The set is closed: an unknown
// kind still composes, drawn with the fallback sprite.
type Kind string

const (
	KindPlant         Kind = "plant"
	KindPapers        Kind = "papers"
	KindPrinter       Kind = "printer"
	KindNPC           Kind = "npc"
	KindDecoration    Kind = "decoration"
	KindLightbulb     Kind = "lightbulb"
	KindFilingCabinet Kind = "filing_cabinet"
	KindServer        Kind = "server"
	KindPresentation  Kind = "presentation"
	KindPhone         Kind = "phone"
	KindBoxes         Kind = "boxes"
	KindReception     Kind = "reception"
)

// FallbackSpriteKey stands in for kinds with no sprite mapping, so a typo
// in data shows up on screen as an obviously wrong plant instead of a hole.
const FallbackSpriteKey = "interactable_plant"

var spriteKeys = map[Kind]string{
	KindPlant:         "interactable_plant",
	KindPapers:        "interactable_papers",
	KindPrinter:       "interactable_printer",
	KindNPC:           "npc_generic",
	KindDecoration:    "decoration_generic",
	KindLightbulb:     "interactable_lightbulb",
	KindFilingCabinet: "interactable_filing_cabinet",
	KindServer:        "interactable_server",
	KindPresentation:  "interactable_presentation",
	KindPhone:         "interactable_phone",
	KindBoxes:         "decoration_boxes",
	KindReception:     "decoration_reception",
}

// SpriteKey maps a kind to its asset key. NPCs may carry an explicit
// sprite_key prop (set by authoring or by sprite randomization), which
// wins over the generic mapping.
func SpriteKey(kind Kind, props Props) string {
	if kind == KindNPC {
		if key, ok := props.String("sprite_key"); ok && key != "" {
			return key
		}
	}
	if key, ok := spriteKeys[kind]; ok {
		return key
	}
	return FallbackSpriteKey
}

type Blend int

const (
	BlendAdd Blend = iota
	BlendMultiply
)

// A Modifier is a state-driven tint applied over an entity's sprite when
// it is drawn. Modifiers are recomputed from props every frame; nothing
// about them is cached in the entity.
type Modifier struct {
	Blend Blend
	Color utils.Color
	Alpha byte
}

var (
	// warningTint marks a plant past the thirst threshold.
	warningTint = Modifier{Blend: BlendAdd, Color: utils.Color{R: 255, G: 255, B: 0}, Alpha: 50}
	// alertTint marks a jammed printer.
	alertTint = Modifier{Blend: BlendAdd, Color: utils.Color{R: 255, G: 0, B: 0}, Alpha: 50}
	// desaturate grays out anything consumed or already interacted with.
	desaturate = Modifier{Blend: BlendMultiply, Color: utils.Color{R: 128, G: 128, B: 128}, Alpha: 128}
)

// ThirstThreshold is how thirsty a plant gets before it shows it.
const ThirstThreshold = 0.7

// Modifiers evaluates the tints an object's current props call for. Pure:
// same kind and props, same result.
func Modifiers(kind Kind, props Props) []Modifier {
	var mods []Modifier

	if kind == KindPlant {
		if thirst, ok := props.Float("thirst"); ok && thirst > ThirstThreshold {
			mods = append(mods, warningTint)
		}
	}
	if kind == KindPrinter {
		if jammed, ok := props.Bool("jammed"); ok && jammed {
			mods = append(mods, alertTint)
		}
	}

	if consumed, ok := props.Bool("consumed"); ok && consumed {
		mods = append(mods, desaturate)
	} else if interacted, ok := props.Bool("interacted"); ok && interacted {
		mods = append(mods, desaturate)
	}

	return mods
}

// ApplyModifier returns a tinted copy of src. The source pixels are never
// touched; cached assets stay pristine.
func ApplyModifier(src *image.RGBA, m Modifier) *image.RGBA {
	bounds := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := src.PixOffset(x, y)
			o := out.PixOffset(x-bounds.Min.X, y-bounds.Min.Y)

			r, g, b, a := src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3]
			switch m.Blend {
			case BlendAdd:
				r = utils.AddBlend(r, m.Color.R, m.Alpha)
				g = utils.AddBlend(g, m.Color.G, m.Alpha)
				b = utils.AddBlend(b, m.Color.B, m.Alpha)
			case BlendMultiply:
				r = utils.MultBlend(r, m.Color.R, m.Alpha)
				g = utils.MultBlend(g, m.Color.G, m.Alpha)
				b = utils.MultBlend(b, m.Color.B, m.Alpha)
			}

			out.Pix[o], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = r, g, b, a
		}
	}

	return out
}

// An Entity is a composed, drawable instance of a placed object. Its
// Sprite is a handle, so a hot reload swaps the pixels without the entity
// noticing; its Props alias the building data, so simulation writes there
// are reflected in the next Modifiers evaluation.
type Entity struct {
	ID    string
	Kind  Kind
	X     float64
	Y     float64
	Props Props

	Sprite assets.Handle
}

func (e *Entity) Modifiers() []Modifier {
	return Modifiers(e.Kind, e.Props)
}

// A Scene is one composed floor: its background plus its entities in
// authoring order.
type Scene struct {
	Floor      int
	Name       string
	Background assets.Handle
	Entities   []*Entity
}

func (s *Scene) Entity(id string) *Entity {
	for _, entity := range s.Entities {
		if entity.ID == id {
			return entity
		}
	}
	return nil
}

// Composer turns floor definitions into drawable scenes backed by one
// asset store.
type Composer struct {
	store *assets.Store
}

func NewComposer(store *assets.Store) *Composer {
	return &Composer{store: store}
}

// Compose builds the scene for one floor. Horizontal placement is checked
// here against the building's floor width; an out-of-range x is a
// *assets.SchemaError and aborts the compose. Vertical placement is not
// authored: every entity sits on the floor line, so y is forced to zero.
func (c *Composer) Compose(b *Building, number int) (*Scene, error) {
	found := b.Floor(number)
	if opt.IsNone(found) {
		return nil, fmt.Errorf("floor %d is not defined", number)
	}
	floor := found.Value

	bgKey := floor.BgKey
	if bgKey == "" {
		bgKey = b.DefaultBgKey
	}

	scene := &Scene{
		Floor:      number,
		Name:       floor.Name,
		Background: c.store.Handle(bgKey),
		Entities:   make([]*Entity, 0, len(floor.Objects)),
	}

	for i := range floor.Objects {
		obj := &floor.Objects[i]

		if obj.X < 0 || obj.X > b.FloorWidth {
			return nil, &assets.SchemaError{
				Key:   obj.ID,
				Field: "x",
				Reason: fmt.Sprintf(
					"position %s is outside the floor width %s",
					strconv.FormatFloat(obj.X, 'f', -1, 64),
					strconv.FormatFloat(b.FloorWidth, 'f', -1, 64),
				),
			}
		}

		scene.Entities = append(scene.Entities, &Entity{
			ID:     obj.ID,
			Kind:   obj.Kind,
			X:      obj.X,
			Y:      0,
			Props:  obj.Props,
			Sprite: c.store.Handle(SpriteKey(obj.Kind, obj.Props)),
		})
	}

	log.Debug().
		Int("floor", number).
		Int("entities", len(scene.Entities)).
		Msg("floor composed")

	return scene, nil
}
