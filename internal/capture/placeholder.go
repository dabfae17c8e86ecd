package capture

import (
	"image"
	"image/color"
	"image/draw"
	"unicode"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	placeholderFill   = color.RGBA{R: 0x3a, G: 0x3a, B: 0x3c, A: 0xff}
	placeholderBorder = color.RGBA{R: 0x63, G: 0x63, B: 0x66, A: 0xff}
	placeholderText   = color.RGBA{R: 0xf2, G: 0xf2, B: 0xf7, A: 0xff}
)

// Placeholder renders a tile showing the first letter of label. It stands in
// for an icon until its capture arrives, or for good when capture is denied.
func Placeholder(label string, w, h int) *image.RGBA {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(placeholderFill), image.Point{}, draw.Src)

	for x := 0; x < w; x++ {
		img.SetRGBA(x, 0, placeholderBorder)
		img.SetRGBA(x, h-1, placeholderBorder)
	}
	for y := 0; y < h; y++ {
		img.SetRGBA(0, y, placeholderBorder)
		img.SetRGBA(w-1, y, placeholderBorder)
	}

	initial := initialOf(label)
	if initial == "" {
		return img
	}
	// basicfont.Face7x13 glyphs are 7 wide with an ascent of 11.
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(placeholderText),
		Face: basicfont.Face7x13,
		Dot:  fixed.P((w-7)/2, (h+11)/2-1),
	}
	d.DrawString(initial)
	return img
}

// initialOf returns the first letter or digit of s, upper-cased. The basic
// font only covers ASCII, so anything else yields "?".
func initialOf(s string) string {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		if r >= utf8.RuneSelf {
			return "?"
		}
		return string(unicode.ToUpper(r))
	}
	return ""
}
