package assets

import (
	"image"
	"sort"

	opt "github.com/repeale/fp-go/option"
	"github.com/rs/zerolog/log"
)

// SourcePlaceholder is the provenance label of generated stand-in assets.
const SourcePlaceholder = "placeholder"

// A Clip is a resolved audio asset: the container bytes plus the declared
// playback volume. Decoding samples is the mixer's business, not ours.
type Clip struct {
	Data   []byte
	Volume float64
}

// A Font is a resolved font asset. DefaultFace marks the placeholder case:
// no file was found and the renderer should fall back to its built-in face.
type Font struct {
	Data        []byte
	Size        int
	DefaultFace bool
}

// A Resolved is a loaded asset shared read-only by every consumer. Exactly
// one of Image, Clip, Font is set, matching Kind. FrameW/FrameH always
// carry the declared dimensions; Image is scaled to fit that box with its
// aspect ratio preserved, so its bounds never exceed it.
type Resolved struct {
	Key    string
	Kind   Kind
	FrameW int
	FrameH int
	Frames int
	FPS    float64

	Image *image.RGBA
	Clip  *Clip
	Font  *Font

	// Source is the root that satisfied the lookup, or SourcePlaceholder.
	Source      string
	Placeholder bool
}

type slot struct {
	res    *Resolved
	frames *FrameSet
}

// Store is the asset resolver and cache. It owns every Resolved in the
// process; consumers hold Handles into it so a reload can swap resource
// content without touching scene state.
//
// The game loop is single-threaded and cooperative, so the Store does no
// locking; Resolve and Reload must not be called concurrently with each
// other or with a draw pass.
type Store struct {
	manifestPath string
	manifest     *Manifest
	roots        []Root
	scale        int

	slots   map[string]*slot
	missing map[string]struct{}
	warned  map[string]struct{}

	generation uint64
}

// NewStore loads and validates the manifest at manifestPath. Roots are
// consulted in the given order on every resolution. A schema violation in
// the manifest aborts startup here; missing asset files do not.
func NewStore(manifestPath string, roots []Root, scale int) (*Store, error) {
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	s := NewStoreFromManifest(manifest, roots)
	s.manifestPath = manifestPath
	if scale > 0 {
		s.scale = scale
	}
	return s, nil
}

// NewStoreFromManifest wires a store around an already-parsed manifest.
// Reload is unavailable without a manifest path; use ReloadFrom instead.
func NewStoreFromManifest(manifest *Manifest, roots []Root) *Store {
	return &Store{
		manifest: manifest,
		roots:    roots,
		scale:    1,
		slots:    make(map[string]*slot),
		missing:  make(map[string]struct{}),
		warned:   make(map[string]struct{}),
	}
}

func (s *Store) Manifest() *Manifest {
	return s.manifest
}

// Generation increments on every applied reload. Derived data (frame sets,
// animations) uses it to notice that a parent asset was replaced.
func (s *Store) Generation() uint64 {
	return s.generation
}

// Handle returns a stable reference to an asset. Handles survive reloads:
// they re-read the cache slot on every access, so entities holding one
// observe replaced content without their own state changing.
func (s *Store) Handle(key string) Handle {
	return Handle{store: s, key: key}
}

// Resolve loads the asset for key, memoized. Repeated calls return the
// identical *Resolved until a reload replaces it. Resolution cannot fail:
// schema problems were rejected when the manifest loaded, and a missing
// file degrades to a placeholder with a once-per-key warning.
func (s *Store) Resolve(key string) *Resolved {
	if sl, ok := s.slots[key]; ok {
		return sl.res
	}

	res := s.resolve(s.manifest, key, s.missing)
	s.slots[key] = &slot{res: res}
	return res
}

// Cached reports the Resolved for key only if it is already in the cache.
func (s *Store) Cached(key string) opt.Option[*Resolved] {
	if sl, ok := s.slots[key]; ok {
		return opt.Some(sl.res)
	}
	return opt.None[*Resolved]()
}

// Frames returns the sliced frame set of a spritesheet, derived lazily and
// cached alongside the Resolved. It is invalidated together with its
// parent: after a reload the next call re-derives from the fresh sheet.
func (s *Store) Frames(key string) (*FrameSet, error) {
	s.Resolve(key)
	sl := s.slots[key]
	if sl.frames != nil {
		return sl.frames, nil
	}

	frames, err := Slice(sl.res)
	if err != nil {
		return nil, err
	}
	sl.frames = frames
	return frames, nil
}

// Reload re-reads the manifest and re-resolves every key already cached,
// building the full replacement table before swapping it in, so a consumer
// sees either the old cache or the new one, never a torn mix. Keys that
// were never referenced stay lazy. On a schema error the reload is refused
// and the old cache stays untouched.
func (s *Store) Reload() error {
	if s.manifestPath == "" {
		return &SchemaError{Key: "manifest", Reason: "store was built without a manifest path"}
	}

	manifest, err := LoadManifest(s.manifestPath)
	if err != nil {
		return err
	}

	s.ReloadFrom(manifest)
	return nil
}

// ReloadFrom applies a reload using an already-validated manifest.
func (s *Store) ReloadFrom(manifest *Manifest) {
	fresh := make(map[string]*slot, len(s.slots))
	missing := make(map[string]struct{})

	for key := range s.slots {
		fresh[key] = &slot{res: s.resolve(manifest, key, missing)}
	}

	s.manifest = manifest
	s.slots = fresh
	s.missing = missing
	s.generation++

	log.Info().
		Int("assets", len(fresh)).
		Uint64("generation", s.generation).
		Msg("asset cache reloaded")
}

// MissingAssets lists the keys that fell back to a placeholder since the
// last (re)load, sorted.
func (s *Store) MissingAssets() []string {
	keys := make([]string, 0, len(s.missing))
	for key := range s.missing {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

type Stats struct {
	Declared     int
	Cached       int
	Missing      int
	Placeholders int
}

func (s *Store) Stats() Stats {
	stats := Stats{
		Declared: s.manifest.Len(),
		Cached:   len(s.slots),
		Missing:  len(s.missing),
	}
	for _, sl := range s.slots {
		if sl.res.Placeholder {
			stats.Placeholders++
		}
	}
	return stats
}

func (s *Store) resolve(manifest *Manifest, key string, missing map[string]struct{}) *Resolved {
	var desc Descriptor
	if found := manifest.Lookup(key); opt.IsSome(found) {
		desc = found.Value
	} else {
		desc = s.fallbackDescriptor(key)
		s.warnOnce(key, "", "asset key not declared in manifest")
	}

	data, source, ok := s.discover(desc.Path)
	if !ok {
		missing[key] = struct{}{}
		s.warnOnce(key, desc.Path, "asset missing from all roots; using placeholder")
		return s.placeholder(desc)
	}

	switch desc.Kind {
	case KindImage, KindSpritesheet:
		decoded, err := decodeImage(data)
		if err != nil {
			missing[key] = struct{}{}
			s.warnOnce(key, desc.Path, "asset failed to decode; using placeholder")
			return s.placeholder(desc)
		}
		return &Resolved{
			Key:    key,
			Kind:   desc.Kind,
			FrameW: desc.FrameW,
			FrameH: desc.FrameH,
			Frames: desc.Frames,
			FPS:    desc.FPS,
			Image:  scaleToFit(decoded, desc.FrameW*desc.Frames, desc.FrameH),
			Source: source,
		}
	case KindSFX, KindMusic:
		return &Resolved{
			Key:    key,
			Kind:   desc.Kind,
			Clip:   &Clip{Data: data, Volume: desc.Volume},
			Source: source,
		}
	case KindFont:
		return &Resolved{
			Key:    key,
			Kind:   desc.Kind,
			Font:   &Font{Data: data, Size: desc.Size},
			Source: source,
		}
	}

	// Unreachable: the manifest loader only emits the kinds above.
	return s.placeholder(desc)
}

// discover walks the roots in priority order. Priority is fixed per
// lookup: a hit in a later root never overrides anything an earlier root
// already satisfied during this pass.
func (s *Store) discover(path string) ([]byte, string, bool) {
	if path == "" {
		return nil, "", false
	}

	for _, root := range s.roots {
		if !root.Exists(path) {
			continue
		}
		data, err := root.ReadFile(path)
		if err != nil {
			log.Warn().
				Err(err).
				Str("root", root.Source()).
				Str("path", path).
				Msg("root failed to read an existing asset")
			continue
		}
		return data, root.Source(), true
	}

	return nil, "", false
}

func (s *Store) placeholder(desc Descriptor) *Resolved {
	res := &Resolved{
		Key:         desc.Key,
		Kind:        desc.Kind,
		FrameW:      desc.FrameW,
		FrameH:      desc.FrameH,
		Frames:      desc.Frames,
		FPS:         desc.FPS,
		Source:      SourcePlaceholder,
		Placeholder: true,
	}

	switch desc.Kind {
	case KindImage:
		res.Image = placeholderImage(desc.FrameW, desc.FrameH, desc.Key)
	case KindSpritesheet:
		res.Image = placeholderSheet(desc.FrameW, desc.FrameH, desc.Frames, desc.Key)
	case KindSFX, KindMusic:
		res.Clip = &Clip{Volume: desc.Volume}
	case KindFont:
		res.Font = &Font{Size: desc.Size, DefaultFace: true}
	}

	return res
}

func (s *Store) fallbackDescriptor(key string) Descriptor {
	size := 64 * s.scale
	return Descriptor{
		Key:    key,
		Kind:   KindImage,
		FrameW: size,
		FrameH: size,
		Frames: 1,
	}
}

// warnOnce logs a degradation once per key per process, so a missing asset
// referenced every frame does not flood the diagnostic channel.
func (s *Store) warnOnce(key, path, msg string) {
	if _, ok := s.warned[key]; ok {
		return
	}
	s.warned[key] = struct{}{}
	log.Warn().Str("key", key).Str("path", path).Msg(msg)
}

// A Handle is an indirect reference into the store. Entities keep handles
// instead of resource pointers so a reload only has to update the store's
// one indirection table.
type Handle struct {
	store *Store
	key   string
}

func (h Handle) Key() string {
	return h.key
}

func (h Handle) Valid() bool {
	return h.store != nil
}

func (h Handle) Resolved() *Resolved {
	return h.store.Resolve(h.key)
}

func (h Handle) Frames() (*FrameSet, error) {
	return h.store.Frames(h.key)
}
