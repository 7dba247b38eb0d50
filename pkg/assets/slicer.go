package assets

import (
	"fmt"
	"image"
)

// A FrameSet is an ordered sequence of frame views sliced out of a
// spritesheet. Frames share the sheet's pixels; lookups are O(1). A
// FrameSet dies with the Resolved it came from — after a reload the store
// hands out a fresh one.
type FrameSet struct {
	Key    string
	FrameW int
	FrameH int

	frames []*image.RGBA
}

func (f *FrameSet) Len() int {
	return len(f.frames)
}

// Frame returns the i-th frame, counted left to right. Out-of-range
// indices clamp to the ends so a stale animation index never panics.
func (f *FrameSet) Frame(i int) *image.RGBA {
	if i < 0 {
		i = 0
	}
	if i >= len(f.frames) {
		i = len(f.frames) - 1
	}
	return f.frames[i]
}

// Slice cuts a resolved spritesheet into its declared frames, left to
// right along the sheet's first row. A sheet with fewer pixels than the
// declared geometry needs is a content-authoring bug and fails with
// *ContentError instead of being silently truncated.
func Slice(res *Resolved) (*FrameSet, error) {
	if res.Kind != KindSpritesheet {
		return nil, fmt.Errorf("cannot slice %s asset %q", res.Kind, res.Key)
	}

	sheet := res.Image
	width := sheet.Bounds().Dx()
	height := sheet.Bounds().Dy()

	if width < res.FrameW*res.Frames {
		return nil, &ContentError{
			Key: res.Key,
			Reason: fmt.Sprintf(
				"sheet is %dpx wide but %d frames of %dpx need %dpx",
				width, res.Frames, res.FrameW, res.FrameW*res.Frames,
			),
		}
	}
	if height < res.FrameH {
		return nil, &ContentError{
			Key: res.Key,
			Reason: fmt.Sprintf(
				"sheet is %dpx tall but frames are %dpx",
				height, res.FrameH,
			),
		}
	}

	min := sheet.Bounds().Min
	frames := make([]*image.RGBA, res.Frames)
	for i := range frames {
		rect := image.Rect(
			min.X+i*res.FrameW,
			min.Y,
			min.X+(i+1)*res.FrameW,
			min.Y+res.FrameH,
		)
		frames[i] = sheet.SubImage(rect).(*image.RGBA)
	}

	return &FrameSet{
		Key:    res.Key,
		FrameW: res.FrameW,
		FrameH: res.FrameH,
		frames: frames,
	}, nil
}
