package capture

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Scale resizes img to fit within a w×h box, preserving aspect ratio, and
// centers it on a transparent canvas of exactly w×h. A nil img yields an
// empty canvas.
func Scale(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	if img == nil || w <= 0 || h <= 0 {
		return dst
	}
	sb := img.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return dst
	}

	ratio := min(float64(w)/float64(sb.Dx()), float64(h)/float64(sb.Dy()))
	tw := max(int(float64(sb.Dx())*ratio+0.5), 1)
	th := max(int(float64(sb.Dy())*ratio+0.5), 1)
	x0 := (w - tw) / 2
	y0 := (h - th) / 2

	xdraw.CatmullRom.Scale(dst, image.Rect(x0, y0, x0+tw, y0+th), img, sb, xdraw.Over, nil)
	return dst
}
