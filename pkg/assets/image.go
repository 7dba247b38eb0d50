package assets

import (
	"bytes"
	"image"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"
)

func decodeImage(data []byte) (image.Image, error) {
	return png.Decode(bytes.NewReader(data))
}

// scaleToFit fits src into a boxW x boxH box, preserving aspect ratio. The
// result is at most the box in each dimension and is never stretched;
// undersized sources are scaled up by the same rule. Nearest-neighbor keeps
// pixel art crisp.
func scaleToFit(src image.Image, boxW, boxH int) *image.RGBA {
	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return image.NewRGBA(image.Rect(0, 0, boxW, boxH))
	}

	ratio := math.Min(
		float64(boxW)/float64(srcW),
		float64(boxH)/float64(srcH),
	)

	dstW := clampDim(int(math.Round(float64(srcW)*ratio)), boxW)
	dstH := clampDim(int(math.Round(float64(srcH)*ratio)), boxH)

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, bounds, xdraw.Src, nil)
	return dst
}

func clampDim(v, max int) int {
	if v < 1 {
		return 1
	}
	if v > max {
		return max
	}
	return v
}
