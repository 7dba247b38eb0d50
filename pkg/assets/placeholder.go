package assets

import (
	"fmt"
	"image"
	"image/color"

	"github.com/mlaurent/officeday/pkg/utils"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Placeholders make a missing asset loudly visible without crashing the
// scene: a checkerboard in the declared frame box, a red border, and the
// asset key stamped in the middle when it fits.

const placeholderTile = 8

var (
	checkerLight = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	checkerDark  = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	borderColor  = color.RGBA{R: 255, A: 255}
)

func placeholderImage(w, h int, label string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/placeholderTile+y/placeholderTile)%2 == 0 {
				img.SetRGBA(x, y, checkerLight)
			} else {
				img.SetRGBA(x, y, checkerDark)
			}
		}
	}

	for x := 0; x < w; x++ {
		for t := 0; t < 2 && t < h; t++ {
			img.SetRGBA(x, t, borderColor)
			img.SetRGBA(x, h-1-t, borderColor)
		}
	}
	for y := 0; y < h; y++ {
		for t := 0; t < 2 && t < w; t++ {
			img.SetRGBA(t, y, borderColor)
			img.SetRGBA(w-1-t, y, borderColor)
		}
	}

	drawLabel(img, label)
	return img
}

func drawLabel(img *image.RGBA, label string) {
	if label == "" {
		return
	}

	face := basicfont.Face7x13
	width := font.MeasureString(face, label).Ceil()
	bounds := img.Bounds()
	if width > bounds.Dx()-4 || face.Height > bounds.Dy()-4 {
		return
	}

	drawer := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(borderColor),
		Face: face,
		Dot: fixed.P(
			bounds.Min.X+(bounds.Dx()-width)/2,
			bounds.Min.Y+(bounds.Dy()+face.Ascent)/2,
		),
	}
	drawer.DrawString(label)
}

// placeholderSheet lays out one checkerboard per frame, each shifted 60
// degrees around the hue wheel so a playing animation is visibly alive.
func placeholderSheet(frameW, frameH, frames int, key string) *image.RGBA {
	sheet := image.NewRGBA(image.Rect(0, 0, frameW*frames, frameH))

	for i := 0; i < frames; i++ {
		frame := placeholderImage(frameW, frameH, fmt.Sprintf("%s_%d", key, i))
		tint := utils.HSL(float64(i*60), 0.5, 0.75)

		offset := i * frameW
		for y := 0; y < frameH; y++ {
			for x := 0; x < frameW; x++ {
				c := frame.RGBAAt(x, y)
				sheet.SetRGBA(offset+x, y, color.RGBA{
					R: utils.AddBlend(c.R, tint.R, 50),
					G: utils.AddBlend(c.G, tint.G, 50),
					B: utils.AddBlend(c.B, tint.B, 50),
					A: c.A,
				})
			}
		}
	}

	return sheet
}
