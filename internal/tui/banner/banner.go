// Package banner renders short strings as large block art using half-block characters.
package banner

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var face = basicfont.Face7x13

// Render draws text with the built-in 7x13 bitmap font, enlarged scale times,
// and returns it as rows of half-block characters (▀▄█).
func Render(text string, scale int) string {
	if text == "" {
		return ""
	}
	if scale < 1 {
		scale = 1
	}

	width := font.MeasureString(face, text).Ceil()
	height := face.Metrics().Height.Ceil()
	if height%2 == 1 {
		height++
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)

	return toHalfBlocks(scaleUp(img, scale))
}

// scaleUp enlarges img by pixel replication.
func scaleUp(src *image.Gray, scale int) *image.Gray {
	if scale == 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	for y := 0; y < dst.Bounds().Dy(); y++ {
		for x := 0; x < dst.Bounds().Dx(); x++ {
			dst.SetGray(x, y, src.GrayAt(x/scale, y/scale))
		}
	}
	return dst
}

// toHalfBlocks maps each pair of pixel rows to one line of text.
func toHalfBlocks(img *image.Gray) string {
	const threshold = 40

	b := img.Bounds()
	rows := (b.Dy() + 1) / 2
	lines := make([]string, 0, rows)

	for row := 0; row < rows; row++ {
		var line strings.Builder
		for x := 0; x < b.Dx(); x++ {
			top := brightness(img, x, row*2) > threshold
			bottom := brightness(img, x, row*2+1) > threshold

			switch {
			case top && bottom:
				line.WriteRune('█')
			case top:
				line.WriteRune('▀')
			case bottom:
				line.WriteRune('▄')
			default:
				line.WriteRune(' ')
			}
		}
		lines = append(lines, strings.TrimRight(line.String(), " "))
	}

	// Drop blank rows above and below the glyphs.
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func brightness(img *image.Gray, x, y int) uint8 {
	if x < 0 || y < 0 || x >= img.Bounds().Max.X || y >= img.Bounds().Max.Y {
		return 0
	}
	return img.GrayAt(x, y).Y
}
