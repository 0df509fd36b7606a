package qrcard

import (
	"image"
	"image/color"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// blend pinta c sobre el pixel (x,y) respetando su alpha (c no premultiplicado).
func blend(img *image.RGBA, x, y int, c color.RGBA) {
	if !(image.Point{X: x, Y: y}).In(img.Rect) {
		return
	}
	if c.A == 0xFF {
		img.SetRGBA(x, y, c)
		return
	}
	dst := img.RGBAAt(x, y)
	a := uint32(c.A)
	mix := func(s, d uint8) uint8 {
		return uint8((uint32(s)*a + uint32(d)*(255-a)) / 255)
	}
	img.SetRGBA(x, y, color.RGBA{
		R: mix(c.R, dst.R),
		G: mix(c.G, dst.G),
		B: mix(c.B, dst.B),
		A: 0xFF,
	})
}

func fillShape(img *image.RGBA, box image.Rectangle, inside func(x, y int) bool, c color.RGBA) {
	box = box.Intersect(img.Rect)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			if inside(x, y) {
				blend(img, x, y, c)
			}
		}
	}
}

func fillGradient(img *image.RGBA, top, bottom color.RGBA) {
	h := img.Rect.Dy()
	for y := 0; y < h; y++ {
		t := 0
		if h > 1 {
			t = y * 255 / (h - 1)
		}
		lerp := func(a, b uint8) uint8 {
			return uint8((int(a)*(255-t) + int(b)*t) / 255)
		}
		row := color.RGBA{R: lerp(top.R, bottom.R), G: lerp(top.G, bottom.G), B: lerp(top.B, bottom.B), A: 0xFF}
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			img.SetRGBA(x, y+img.Rect.Min.Y, row)
		}
	}
}

func fillRoundedRect(img *image.RGBA, r image.Rectangle, radius int, c color.RGBA) {
	inside := func(x, y int) bool {
		// Distancia a la esquina más cercana solo importa en los cuadrantes de esquina.
		cx, cy := x, y
		switch {
		case x < r.Min.X+radius:
			cx = r.Min.X + radius
		case x >= r.Max.X-radius:
			cx = r.Max.X - radius - 1
		}
		switch {
		case y < r.Min.Y+radius:
			cy = r.Min.Y + radius
		case y >= r.Max.Y-radius:
			cy = r.Max.Y - radius - 1
		}
		dx, dy := x-cx, y-cy
		return dx*dx+dy*dy <= radius*radius
	}
	fillShape(img, r, inside, c)
}

func fillCircle(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	fillEllipse(img, cx, cy, radius, radius, c)
}

func fillEllipse(img *image.RGBA, cx, cy, rx, ry int, c color.RGBA) {
	if rx <= 0 || ry <= 0 {
		return
	}
	box := image.Rect(cx-rx, cy-ry, cx+rx+1, cy+ry+1)
	inside := func(x, y int) bool {
		dx, dy := x-cx, y-cy
		return dx*dx*ry*ry+dy*dy*rx*rx <= rx*rx*ry*ry
	}
	fillShape(img, box, inside, c)
}

// drawPaw dibuja una huellita (almohadilla + 4 dedos) de lado aproximado size
// centrada en (cx, cy).
func drawPaw(img *image.RGBA, cx, cy, size int, c color.RGBA) {
	s := float64(size)
	at := func(fx, fy float64) (int, int) {
		return cx + int(fx*s), cy + int(fy*s)
	}
	px, py := at(0, 0.15)
	fillEllipse(img, px, py, int(0.28*s), int(0.22*s), c)

	toe := int(0.11 * s)
	for _, off := range [][2]float64{{-0.3, -0.15}, {-0.11, -0.32}, {0.11, -0.32}, {0.3, -0.15}} {
		tx, ty := at(off[0], off[1])
		fillCircle(img, tx, ty, toe, c)
	}
}

// drawBadge: círculo blanco con aro y huellita en el color primario.
func drawBadge(img *image.RGBA, cx, cy, radius int, primary color.RGBA) {
	ring := max(2, radius/6)
	fillCircle(img, cx, cy, radius, primary)
	fillCircle(img, cx, cy, radius-ring, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	drawPaw(img, cx, cy, radius, primary)
}

// drawText escribe s centrado en centerX con la fuente 7x13 escalada.
// Si no entra en maxWidth reduce escala y, en última instancia, trunca.
// Devuelve la altura usada.
func drawText(img *image.RGBA, s string, centerX, top, scale int, c color.RGBA, maxWidth int) int {
	face := basicfont.Face7x13
	s = foldASCII(s)
	width := func(str string) int { return font.MeasureString(face, str).Ceil() }

	for scale > 1 && width(s)*scale > maxWidth {
		scale--
	}
	if width(s)*scale > maxWidth {
		runes := []rune(s)
		for len(runes) > 1 && width(string(runes)+"...")*scale > maxWidth {
			runes = runes[:len(runes)-1]
		}
		s = string(runes) + "..."
	}
	if utf8.RuneCountInString(s) == 0 {
		return 0
	}

	w, h := width(s), face.Height
	src := image.NewRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  src,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)

	left := centerX - w*scale/2
	dr := image.Rect(left, top, left+w*scale, top+h*scale)
	draw.NearestNeighbor.Scale(img, dr, src, src.Bounds(), draw.Over, nil)
	return h * scale
}

var accentFold = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	"Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U", "Ü", "U", "Ñ", "N",
)

// foldASCII: la fuente 7x13 solo cubre ASCII imprimible.
func foldASCII(s string) string {
	s = accentFold.Replace(s)
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '?'
		}
		return r
	}, s)
}
