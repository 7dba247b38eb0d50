package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	opt "github.com/repeale/fp-go/option"
	"gopkg.in/yaml.v3"
)

type Kind string

const (
	KindImage       Kind = "image"
	KindSpritesheet Kind = "spritesheet"
	KindSFX         Kind = "sfx"
	KindMusic       Kind = "music"
	KindFont        Kind = "font"
)

// Descriptor is the parsed form of one manifest entry. Immutable once the
// manifest is loaded.
type Descriptor struct {
	Key    string
	Path   string
	Kind   Kind
	FrameW int
	FrameH int

	// Spritesheets only.
	Frames int
	FPS    float64

	// Audio only.
	Volume float64

	// Fonts only.
	Size int
}

// Manifest maps asset keys to descriptors. Keys are unique across every
// section of the source file.
type Manifest struct {
	Version string

	keys  []string
	table map[string]Descriptor
}

func (m *Manifest) Lookup(key string) opt.Option[Descriptor] {
	if d, ok := m.table[key]; ok {
		return opt.Some(d)
	}
	return opt.None[Descriptor]()
}

func (m *Manifest) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

func (m *Manifest) Len() int {
	return len(m.table)
}

type manifestEntry struct {
	Path   string   `json:"path" yaml:"path"`
	FrameW int      `json:"frame_w" yaml:"frame_w"`
	FrameH int      `json:"frame_h" yaml:"frame_h"`
	Frames int      `json:"frames" yaml:"frames"`
	FPS    float64  `json:"fps" yaml:"fps"`
	Volume *float64 `json:"volume" yaml:"volume"`
	Size   int      `json:"size" yaml:"size"`
}

type manifestFile struct {
	Version      string                              `json:"version" yaml:"version"`
	Images       map[string]manifestEntry            `json:"images" yaml:"images"`
	Backgrounds  map[string]manifestEntry            `json:"backgrounds" yaml:"backgrounds"`
	Spritesheets map[string]manifestEntry            `json:"spritesheets" yaml:"spritesheets"`
	Fonts        map[string]manifestEntry            `json:"fonts" yaml:"fonts"`
	Audio        map[string]map[string]manifestEntry `json:"audio" yaml:"audio"`
}

// The original data nests audio under named subsections and exposes the
// keys with the subsection as a prefix, e.g. audio.sfx.click -> sfx_click.
const (
	audioSectionSFX   = "sfx"
	audioSectionMusic = "music"

	defaultVolume = 0.7
)

// LoadManifest reads and validates a manifest file. The format follows the
// extension; .json and .yaml/.yml are accepted. It touches nothing on the
// filesystem beyond the manifest itself.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseManifest(data, filepath.Ext(path))
}

// ParseManifest parses manifest data in the given format (an extension
// string, ".json" or ".yaml"). All validation happens here, at load time:
// schema violations surface as *SchemaError naming the offending key and
// field, never later at resolve time.
func ParseManifest(data []byte, format string) (*Manifest, error) {
	var file manifestFile
	switch format {
	case ".json", "json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("could not parse manifest: %w", err)
		}
	case ".yaml", ".yml", "yaml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("could not parse manifest: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", format)
	}

	m := &Manifest{
		Version: file.Version,
		table:   make(map[string]Descriptor),
	}

	add := func(key string, d Descriptor) error {
		if _, ok := m.table[key]; ok {
			return &SchemaError{Key: key, Reason: "duplicate asset key"}
		}
		d.Key = key
		m.table[key] = d
		m.keys = append(m.keys, key)
		return nil
	}

	for _, key := range sortedKeys(file.Images) {
		d, err := imageDescriptor(key, file.Images[key])
		if err != nil {
			return nil, err
		}
		if err := add(key, d); err != nil {
			return nil, err
		}
	}

	// Backgrounds are images; the section only exists so authors can keep
	// full-floor art apart from object sprites.
	for _, key := range sortedKeys(file.Backgrounds) {
		d, err := imageDescriptor(key, file.Backgrounds[key])
		if err != nil {
			return nil, err
		}
		if err := add(key, d); err != nil {
			return nil, err
		}
	}

	for _, key := range sortedKeys(file.Spritesheets) {
		entry := file.Spritesheets[key]
		d, err := imageDescriptor(key, entry)
		if err != nil {
			return nil, err
		}
		d.Kind = KindSpritesheet
		d.Frames = entry.Frames
		d.FPS = entry.FPS
		if d.Frames < 1 {
			return nil, &SchemaError{Key: key, Field: "frames", Reason: "spritesheet needs at least one frame"}
		}
		if d.FPS <= 0 {
			return nil, &SchemaError{Key: key, Field: "fps", Reason: "playback rate must be positive"}
		}
		if err := add(key, d); err != nil {
			return nil, err
		}
	}

	for _, key := range sortedKeys(file.Fonts) {
		entry := file.Fonts[key]
		if entry.Path == "" {
			return nil, &SchemaError{Key: key, Field: "path", Reason: "missing required field"}
		}
		if entry.Size <= 0 {
			return nil, &SchemaError{Key: key, Field: "size", Reason: "font size must be positive"}
		}
		if err := add(key, Descriptor{
			Path: entry.Path,
			Kind: KindFont,
			Size: entry.Size,
		}); err != nil {
			return nil, err
		}
	}

	for _, section := range sortedKeys(file.Audio) {
		var kind Kind
		switch section {
		case audioSectionSFX:
			kind = KindSFX
		case audioSectionMusic:
			kind = KindMusic
		default:
			return nil, &SchemaError{Key: section, Field: "audio", Reason: "unknown audio section"}
		}

		entries := file.Audio[section]
		for _, key := range sortedKeys(entries) {
			entry := entries[key]
			if entry.Path == "" {
				return nil, &SchemaError{Key: key, Field: "path", Reason: "missing required field"}
			}
			volume := defaultVolume
			if entry.Volume != nil {
				volume = *entry.Volume
				if volume < 0 || volume > 1 {
					return nil, &SchemaError{Key: key, Field: "volume", Reason: "volume must lie in [0, 1]"}
				}
			}
			if err := add(fmt.Sprintf("%s_%s", section, key), Descriptor{
				Path:   entry.Path,
				Kind:   kind,
				Volume: volume,
			}); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

func imageDescriptor(key string, entry manifestEntry) (Descriptor, error) {
	if entry.Path == "" {
		return Descriptor{}, &SchemaError{Key: key, Field: "path", Reason: "missing required field"}
	}
	if entry.FrameW <= 0 {
		return Descriptor{}, &SchemaError{Key: key, Field: "frame_w", Reason: "declared width must be positive"}
	}
	if entry.FrameH <= 0 {
		return Descriptor{}, &SchemaError{Key: key, Field: "frame_h", Reason: "declared height must be positive"}
	}
	return Descriptor{
		Path:   entry.Path,
		Kind:   KindImage,
		FrameW: entry.FrameW,
		FrameH: entry.FrameH,
		Frames: 1,
	}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
