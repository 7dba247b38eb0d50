package assets

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnimation(t *testing.T) {
	store, _ := newTestStore(t)

	// employee_1 is a 4-frame sheet at 8 fps.
	anim := NewAnimation(store.Handle("employee_1"), true, true)
	require.True(t, anim.Playing())

	frame, err := anim.Current()
	require.NoError(t, err)
	require.Equal(t, 32, frame.Bounds().Dx())

	// One frame lasts 125ms.
	anim.Update(0.125)
	require.Equal(t, 32, mustCurrent(t, anim).Bounds().Dx())

	// A whole cycle wraps back around when looping.
	anim.Update(0.375)
	require.True(t, anim.Playing())

	anim.SetFrame(99)
	frame, err = anim.Current()
	require.NoError(t, err)
	require.NotNil(t, frame)
}

func TestAnimationOneShot(t *testing.T) {
	store, _ := newTestStore(t)

	anim := NewAnimation(store.Handle("employee_1"), false, true)

	// Play well past the end: a one-shot parks on the last frame and stops.
	anim.Update(10)
	require.False(t, anim.Playing())
	require.True(t, anim.Finished())

	anim.Reset()
	anim.Play()
	require.True(t, anim.Playing())
	require.False(t, anim.Finished())
}

func TestAnimationSurvivesReload(t *testing.T) {
	store, dir := newTestStore(t)

	anim := NewAnimation(store.Handle("employee_1"), true, true)
	anim.Update(0.25)

	before, err := anim.Current()
	require.NoError(t, err)

	// Replace the sheet's pixels; playback position is untouched but the
	// frame now comes from the new sheet.
	writePNG(t, filepath.Join(dir, "assets", "spritesheets", "employee_1.png"), 128, 48, color.RGBA{42, 0, 0, 255})
	require.NoError(t, store.Reload())

	after, err := anim.Current()
	require.NoError(t, err)
	require.NotSame(t, before, after)
	require.Equal(t, uint8(42), after.RGBAAt(after.Bounds().Min.X, after.Bounds().Min.Y).R)
}

func TestAnimationSet(t *testing.T) {
	store, _ := newTestStore(t)

	set := NewAnimationSet()
	set.Add("idle", store.Handle("employee_1"), true)
	set.Add("wave", store.Handle("employee_1"), false)

	require.True(t, set.Has("idle"))
	require.False(t, set.Has("dance"))
	require.False(t, set.Play("dance", false))

	require.True(t, set.Play("wave", false))
	require.Equal(t, "wave", set.Current())

	// The one-shot runs out and control falls back to the first clip added.
	set.Update(10)
	set.Update(0.01)
	require.Equal(t, "idle", set.Current())

	frame, err := set.Frame()
	require.NoError(t, err)
	require.NotNil(t, frame)
}

func mustCurrent(t *testing.T, anim *Animation) *image.RGBA {
	t.Helper()
	frame, err := anim.Current()
	require.NoError(t, err)
	return frame
}
