package chart

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// fallbackImage desenha um PNG mínimo com a mensagem centralizada.
func fallbackImage(message string, width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	border := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	for x := 0; x < width; x++ {
		img.Set(x, 0, border)
		img.Set(x, height-1, border)
	}
	for y := 0; y < height; y++ {
		img.Set(0, y, border)
		img.Set(width-1, y, border)
	}

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 180, G: 30, B: 30, A: 255}),
		Face: face,
	}
	textWidth := d.MeasureString(message).Ceil()
	x := (width - textWidth) / 2
	if x < 4 {
		x = 4
	}
	d.Dot = fixed.P(x, height/2)
	d.DrawString(message)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}
