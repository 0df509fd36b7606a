// Package qrcard dibuja la tarjeta "Pet Friendly" de un comercio: fondo en
// degradé, tarjeta redondeada, nombre, matriz QR con insignia central,
// huellitas decorativas y pie con el código. El resultado es un PNG.
package qrcard

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
)

const (
	MinWidth     = 320
	MaxWidth     = 1600
	DefaultWidth = 600

	// Level H tolera la insignia central (cubre ~3% de los módulos).
	recoveryLevel = qrcode.High
	quietModules  = 4
)

var (
	ErrEmptyURL    = errors.New("qrcard: url required")
	ErrTooDense    = errors.New("qrcard: url too long for card width")
	ErrLowContrast = errors.New("qrcard: foreground color too light")
)

type Style struct {
	Primary    color.RGBA
	Secondary  color.RGBA
	Foreground color.RGBA
	Width      int
}

func DefaultStyle() Style {
	return Style{
		Primary:    color.RGBA{R: 0x0F, G: 0x76, B: 0x6E, A: 0xFF},
		Secondary:  color.RGBA{R: 0xF5, G: 0x9E, B: 0x0B, A: 0xFF},
		Foreground: color.RGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xFF},
		Width:      DefaultWidth,
	}
}

type Input struct {
	URL   string
	Name  string
	Code  string
	Style Style
}

// Layout expone dónde quedó cada parte; sirve para verificar la matriz dibujada.
type Layout struct {
	Width    int
	Height   int
	Card     image.Rectangle
	QR       image.Rectangle
	Modules  int
	ModulePx int
	Badge    image.Rectangle
}

type Card struct {
	PNG    []byte
	Layout Layout
}

func (c Card) DataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(c.PNG)
}

func Compose(in Input) (Card, error) {
	url := strings.TrimSpace(in.URL)
	if url == "" {
		return Card{}, ErrEmptyURL
	}
	st := normalize(in.Style)
	if luminance(st.Foreground) > 160 {
		return Card{}, ErrLowContrast
	}

	q, err := qrcode.New(url, recoveryLevel)
	if err != nil {
		return Card{}, fmt.Errorf("qrcard: encode: %w", err)
	}
	q.DisableBorder = true
	bitmap := q.Bitmap()
	n := len(bitmap)

	W := st.Width
	H := W * 4 / 3
	modulePx := (W * 3 / 5) / n
	if modulePx < 2 {
		return Card{}, ErrTooDense
	}

	img := image.NewRGBA(image.Rect(0, 0, W, H))
	lay := Layout{Width: W, Height: H, Modules: n, ModulePx: modulePx}

	// 1) fondo
	fillGradient(img, st.Primary, st.Secondary)

	// 2) tarjeta
	margin := W / 20
	lay.Card = image.Rect(margin, margin, W-margin, H-margin)
	fillRoundedRect(img, lay.Card, W/25, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})

	// 3) encabezado
	inner := lay.Card.Dx() - 2*margin
	nameScale := max(2, W/200)
	subScale := max(1, nameScale-1)
	y := lay.Card.Min.Y + W/24
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = "Comercio Pet Friendly"
	}
	y += drawText(img, name, W/2, y, nameScale, st.Primary, inner)
	y += W / 60
	y += drawText(img, "PET FRIENDLY", W/2, y, subScale, st.Secondary, inner)

	// 4) matriz (quiet zone = blanco de la tarjeta)
	side := modulePx * n
	quiet := quietModules * modulePx
	qx := (W - side) / 2
	qy := y + quiet
	lay.QR = image.Rect(qx, qy, qx+side, qy+side)
	fg := image.NewUniform(st.Foreground)
	for row := range bitmap {
		for col, dark := range bitmap[row] {
			if !dark {
				continue
			}
			r := image.Rect(qx+col*modulePx, qy+row*modulePx, qx+(col+1)*modulePx, qy+(row+1)*modulePx)
			draw.Draw(img, r, fg, image.Point{}, draw.Src)
		}
	}

	// 5) insignia central
	d := side / 5
	cx, cy := qx+side/2, qy+side/2
	lay.Badge = image.Rect(cx-d/2, cy-d/2, cx+d/2, cy+d/2)
	drawBadge(img, cx, cy, d/2, st.Primary)

	// 6) huellitas en las esquinas inferiores, fuera de la columna del QR
	paw := W / 10
	pawColor := withAlpha(st.Secondary, 0x90)
	drawPaw(img, lay.Card.Min.X+paw, lay.Card.Max.Y-paw, paw, pawColor)
	drawPaw(img, lay.Card.Max.X-paw, lay.Card.Max.Y-paw, paw, pawColor)

	// 7) pie
	y = lay.QR.Max.Y + quiet
	code := strings.TrimSpace(in.Code)
	if code != "" {
		y += drawText(img, "CODIGO: "+code, W/2, y, subScale, st.Foreground, inner)
		y += W / 60
	}
	drawText(img, "Escanea y conoce este comercio", W/2, y, 1, color.RGBA{R: 0x6B, G: 0x72, B: 0x80, A: 0xFF}, inner)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Card{}, fmt.Errorf("qrcard: png: %w", err)
	}
	return Card{PNG: buf.Bytes(), Layout: lay}, nil
}

func normalize(st Style) Style {
	def := DefaultStyle()
	if st.Primary.A == 0 {
		st.Primary = def.Primary
	}
	if st.Secondary.A == 0 {
		st.Secondary = def.Secondary
	}
	if st.Foreground.A == 0 {
		st.Foreground = def.Foreground
	}
	switch {
	case st.Width == 0:
		st.Width = DefaultWidth
	case st.Width < MinWidth:
		st.Width = MinWidth
	case st.Width > MaxWidth:
		st.Width = MaxWidth
	}
	return st
}

// ParseHexColor acepta "#RRGGBB", "RRGGBB" o "#RGB".
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("qrcard: invalid color %q", s)
	}
	var v [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexNibble(s[2*i])
		lo, ok2 := hexNibble(s[2*i+1])
		if !ok1 || !ok2 {
			return color.RGBA{}, fmt.Errorf("qrcard: invalid color %q", s)
		}
		v[i] = hi<<4 | lo
	}
	return color.RGBA{R: v[0], G: v[1], B: v[2], A: 0xFF}, nil
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func luminance(c color.RGBA) int {
	return (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
}

func withAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}
