package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	opt "github.com/repeale/fp-go/option"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w int, h int, fill color.RGBA) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, fill)
		}
	}

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func writeManifest(t *testing.T, path string, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

const storeManifest = `{
  "images": {
    "interactable_plant": {"path": "images/plant.png", "frame_w": 32, "frame_h": 48},
    "bg_office": {"path": "images/office.png", "frame_w": 200, "frame_h": 120}
  },
  "spritesheets": {
    "employee_1": {"path": "spritesheets/employee_1.png", "frame_w": 32, "frame_h": 48, "frames": 4, "fps": 8}
  },
  "audio": {
    "sfx": {"click": {"path": "audio/click.ogg"}}
  }
}`

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.json")
	writeManifest(t, manifestPath, storeManifest)

	rootDir := filepath.Join(dir, "assets")
	writePNG(t, filepath.Join(rootDir, "images", "plant.png"), 32, 48, color.RGBA{0, 255, 0, 255})
	writePNG(t, filepath.Join(rootDir, "spritesheets", "employee_1.png"), 128, 48, color.RGBA{0, 0, 255, 255})

	store, err := NewStore(manifestPath, []Root{FSRoot(rootDir)}, 1)
	require.NoError(t, err)
	return store, dir
}

func TestResolve(t *testing.T) {
	store, _ := newTestStore(t)

	// A present file resolves from its root.
	plant := store.Resolve("interactable_plant")
	require.False(t, plant.Placeholder)
	require.NotEqual(t, SourcePlaceholder, plant.Source)
	require.Equal(t, 32, plant.Image.Bounds().Dx())
	require.Equal(t, 48, plant.Image.Bounds().Dy())

	// Repeated resolution returns the identical value.
	require.Same(t, plant, store.Resolve("interactable_plant"))

	// A missing file degrades to a placeholder with the declared geometry.
	office := store.Resolve("bg_office")
	require.True(t, office.Placeholder)
	require.Equal(t, SourcePlaceholder, office.Source)
	require.Equal(t, 200, office.Image.Bounds().Dx())
	require.Equal(t, 120, office.Image.Bounds().Dy())
	require.Same(t, office, store.Resolve("bg_office"))

	require.Equal(t, []string{"bg_office"}, store.MissingAssets())

	// An undeclared key still resolves, as a square placeholder.
	ghost := store.Resolve("never_declared")
	require.True(t, ghost.Placeholder)
	require.Equal(t, 64, ghost.Image.Bounds().Dx())
	require.Equal(t, 64, ghost.Image.Bounds().Dy())

	// Audio resolves to a clip with the declared volume even when missing.
	click := store.Resolve("sfx_click")
	require.True(t, click.Placeholder)
	require.NotNil(t, click.Clip)
	require.Equal(t, 0.7, click.Clip.Volume)
}

func TestResolveScalesToFit(t *testing.T) {
	store, dir := newTestStore(t)

	// The authored office art is larger than its declared box; the resolved
	// image is scaled down to fit it with aspect preserved.
	writePNG(t, filepath.Join(dir, "assets", "images", "office.png"), 400, 120, color.RGBA{200, 200, 200, 255})

	office := store.Resolve("bg_office")
	require.False(t, office.Placeholder)
	require.Equal(t, 200, office.Image.Bounds().Dx())
	require.Equal(t, 60, office.Image.Bounds().Dy())
}

func TestRootPrecedence(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.json")
	writeManifest(t, manifestPath, storeManifest)

	override := filepath.Join(dir, "override")
	base := filepath.Join(dir, "base")
	writePNG(t, filepath.Join(base, "images", "plant.png"), 32, 48, color.RGBA{0, 0, 255, 255})

	store, err := NewStore(manifestPath, []Root{FSRoot(override), FSRoot(base)}, 1)
	require.NoError(t, err)

	// Only the lower-priority root has the file.
	plant := store.Resolve("interactable_plant")
	require.Equal(t, base, plant.Source)

	// The file later appearing in the higher-priority root does not disturb
	// the cached value; precedence is re-evaluated on reload only.
	writePNG(t, filepath.Join(override, "images", "plant.png"), 32, 48, color.RGBA{255, 0, 0, 255})
	require.Same(t, plant, store.Resolve("interactable_plant"))
	require.Equal(t, base, store.Resolve("interactable_plant").Source)

	require.NoError(t, store.Reload())
	require.Equal(t, override, store.Resolve("interactable_plant").Source)
}

func TestReload(t *testing.T) {
	store, dir := newTestStore(t)

	handle := store.Handle("interactable_plant")
	before := handle.Resolved()
	require.Equal(t, uint8(0), before.Image.RGBAAt(0, 0).R)
	require.Equal(t, uint64(0), store.Generation())

	// The artist saves new pixels; a reload swaps them in under the handle.
	writePNG(t, filepath.Join(dir, "assets", "images", "plant.png"), 32, 48, color.RGBA{255, 0, 0, 255})
	require.NoError(t, store.Reload())

	after := handle.Resolved()
	require.NotSame(t, before, after)
	require.Equal(t, uint8(255), after.Image.RGBAAt(0, 0).R)
	require.Equal(t, uint64(1), store.Generation())

	// A missing asset that appears on disk stops being a placeholder.
	require.True(t, store.Resolve("bg_office").Placeholder)
	writePNG(t, filepath.Join(dir, "assets", "images", "office.png"), 200, 120, color.RGBA{9, 9, 9, 255})
	require.NoError(t, store.Reload())
	require.False(t, store.Resolve("bg_office").Placeholder)
	require.Empty(t, store.MissingAssets())
}

func TestReloadRefusesBadManifest(t *testing.T) {
	store, dir := newTestStore(t)

	before := store.Resolve("interactable_plant")
	generation := store.Generation()

	// Break the manifest: the reload is refused and the cache is untouched.
	writeManifest(t, filepath.Join(dir, "manifest.json"),
		`{"images": {"interactable_plant": {"path": "images/plant.png", "frame_w": -1, "frame_h": 48}}}`)

	err := store.Reload()
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Same(t, before, store.Resolve("interactable_plant"))
	require.Equal(t, generation, store.Generation())
}

func TestFrames(t *testing.T) {
	store, dir := newTestStore(t)

	frames, err := store.Frames("employee_1")
	require.NoError(t, err)
	require.Equal(t, 4, frames.Len())

	// Derived frame sets are cached with their parent.
	again, err := store.Frames("employee_1")
	require.NoError(t, err)
	require.Same(t, frames, again)

	// A reload invalidates the derivation along with the sheet.
	writePNG(t, filepath.Join(dir, "assets", "spritesheets", "employee_1.png"), 128, 48, color.RGBA{7, 7, 7, 255})
	require.NoError(t, store.Reload())

	fresh, err := store.Frames("employee_1")
	require.NoError(t, err)
	require.NotSame(t, frames, fresh)
	require.Equal(t, uint8(7), fresh.Frame(0).RGBAAt(2, 2).R)

	// Slicing a non-spritesheet is an error.
	_, err = store.Frames("interactable_plant")
	require.Error(t, err)
}

func TestCached(t *testing.T) {
	store, _ := newTestStore(t)

	require.True(t, opt.IsNone(store.Cached("interactable_plant")))
	res := store.Resolve("interactable_plant")
	cached := store.Cached("interactable_plant")
	require.True(t, opt.IsSome(cached))
	require.Same(t, res, cached.Value)
}

func TestStats(t *testing.T) {
	store, _ := newTestStore(t)

	store.Resolve("interactable_plant")
	store.Resolve("bg_office")

	stats := store.Stats()
	require.Equal(t, 4, stats.Declared)
	require.Equal(t, 2, stats.Cached)
	require.Equal(t, 1, stats.Missing)
	require.Equal(t, 1, stats.Placeholders)
}
