package qrcard

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleMatrix relee la matriz desde el PNG muestreando el centro de cada
// módulo. Los módulos bajo la insignia se devuelven como nil.
func sampleMatrix(t *testing.T, img image.Image, lay Layout) [][]*bool {
	t.Helper()
	out := make([][]*bool, lay.Modules)
	guard := lay.Badge.Inset(-lay.ModulePx)
	for row := 0; row < lay.Modules; row++ {
		out[row] = make([]*bool, lay.Modules)
		for col := 0; col < lay.Modules; col++ {
			cell := image.Rect(
				lay.QR.Min.X+col*lay.ModulePx, lay.QR.Min.Y+row*lay.ModulePx,
				lay.QR.Min.X+(col+1)*lay.ModulePx, lay.QR.Min.Y+(row+1)*lay.ModulePx,
			)
			if cell.Overlaps(guard) {
				continue
			}
			c := color.RGBAModel.Convert(img.At(cell.Min.X+lay.ModulePx/2, cell.Min.Y+lay.ModulePx/2)).(color.RGBA)
			dark := luminance(c) < 128
			out[row][col] = &dark
		}
	}
	return out
}

func expectedMatrix(t *testing.T, url string) [][]bool {
	t.Helper()
	q, err := qrcode.New(url, recoveryLevel)
	require.NoError(t, err)
	q.DisableBorder = true
	return q.Bitmap()
}

func TestCompose_EmbedsURLMatrix(t *testing.T) {
	urls := []string{
		"http://localhost:8080/comercios/PF-1A2B3C",
		"https://adopciones.municipio.gob.ar/comercios/PF-ZZ9999?utm_source=qr",
		"https://x.io",
	}
	for _, url := range urls {
		t.Run(url, func(t *testing.T) {
			card, err := Compose(Input{URL: url, Name: "Café Patitas", Code: "PF-1A2B3C"})
			require.NoError(t, err)
			require.NotEmpty(t, card.PNG)

			img, err := png.Decode(bytes.NewReader(card.PNG))
			require.NoError(t, err)
			assert.Equal(t, card.Layout.Width, img.Bounds().Dx())
			assert.Equal(t, card.Layout.Height, img.Bounds().Dy())

			want := expectedMatrix(t, url)
			require.Len(t, want, card.Layout.Modules)

			got := sampleMatrix(t, img, card.Layout)
			checked := 0
			for row := range want {
				for col := range want[row] {
					if got[row][col] == nil {
						continue
					}
					checked++
					require.Equalf(t, want[row][col], *got[row][col], "module (%d,%d)", row, col)
				}
			}
			// La insignia no puede tapar más de una fracción chica de la matriz.
			total := card.Layout.Modules * card.Layout.Modules
			assert.Greater(t, checked, total*85/100)
		})
	}
}

func TestCompose_QuietZoneIsLight(t *testing.T) {
	card, err := Compose(Input{URL: "https://x.io/a", Name: "Tienda"})
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(card.PNG))
	require.NoError(t, err)

	lay := card.Layout
	quiet := lay.QR.Inset(-quietModules * lay.ModulePx)
	for x := quiet.Min.X; x < quiet.Max.X; x++ {
		for _, y := range []int{quiet.Min.Y, quiet.Max.Y - 1} {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			require.Greaterf(t, luminance(c), 200, "pixel (%d,%d)", x, y)
		}
	}
}

func TestCard_DataURI(t *testing.T) {
	card, err := Compose(Input{URL: "https://x.io", Name: "Vete"})
	require.NoError(t, err)

	uri := card.DataURI()
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(raw))
	assert.NoError(t, err)
}

func TestCompose_Errors(t *testing.T) {
	_, err := Compose(Input{URL: "  "})
	assert.ErrorIs(t, err, ErrEmptyURL)

	light, _ := ParseHexColor("#f0f0f0")
	_, err = Compose(Input{URL: "https://x.io", Style: Style{Foreground: light}})
	assert.ErrorIs(t, err, ErrLowContrast)

	_, err = Compose(Input{URL: "https://x.io/" + strings.Repeat("a", 1200), Style: Style{Width: MinWidth}})
	assert.ErrorIs(t, err, ErrTooDense)
}

func TestCompose_ClampsWidth(t *testing.T) {
	card, err := Compose(Input{URL: "https://x.io", Style: Style{Width: 10}})
	require.NoError(t, err)
	assert.Equal(t, MinWidth, card.Layout.Width)
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#0F766E")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x0F, G: 0x76, B: 0x6E, A: 0xFF}, c)

	c, err = ParseHexColor("fff")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, c)

	_, err = ParseHexColor("#12345g")
	assert.Error(t, err)
	_, err = ParseHexColor("#1234")
	assert.Error(t, err)
}

func TestFoldASCII(t *testing.T) {
	assert.Equal(t, "Cafe Nandu", foldASCII("Café Ñandú"))
	assert.Equal(t, "a?b", foldASCII("a☃b"))
}
