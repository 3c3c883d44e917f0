package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"coin-gauge/internal/domain/entity"
)

func whiteImagePNG(t *testing.T, size int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeNRGBA(t *testing.T, data []byte) *image.NRGBA {
	t.Helper()

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	out := image.NewNRGBA(img.Bounds())
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}

func TestOverlayAnnotator_PassIsGreen(t *testing.T) {
	annotator := NewOverlayAnnotator()
	src := whiteImagePNG(t, 200)

	out, err := annotator.Annotate(src, []entity.Measurement{
		{Index: 1, DiameterMM: 19.75, CenterX: 100, CenterY: 100, RadiusPX: 30, Passed: true},
	})
	require.NoError(t, err)

	img := decodeNRGBA(t, out)
	center := img.NRGBAAt(100, 100)
	require.Greater(t, center.G, center.R)
	require.Greater(t, center.G, center.B)

	// Вне круга пиксели не тронуты
	corner := img.NRGBAAt(5, 5)
	require.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, corner)
}

func TestOverlayAnnotator_FailIsRed(t *testing.T) {
	annotator := NewOverlayAnnotator()
	src := whiteImagePNG(t, 200)

	out, err := annotator.Annotate(src, []entity.Measurement{
		{Index: 1, DiameterMM: 22.57, CenterX: 100, CenterY: 100, RadiusPX: 30, Passed: false},
	})
	require.NoError(t, err)

	img := decodeNRGBA(t, out)
	center := img.NRGBAAt(100, 100)
	require.Greater(t, center.R, center.G)
	require.Greater(t, center.R, center.B)
}

func TestOverlayAnnotator_EmptyMeasurements(t *testing.T) {
	annotator := NewOverlayAnnotator()
	src := whiteImagePNG(t, 100)

	out, err := annotator.Annotate(src, nil)
	require.NoError(t, err)

	img := decodeNRGBA(t, out)
	require.Equal(t, 100, img.Bounds().Dx())
	require.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, img.NRGBAAt(50, 50))
}

func TestOverlayAnnotator_BadInput(t *testing.T) {
	annotator := NewOverlayAnnotator()

	_, err := annotator.Annotate([]byte("not an image"), nil)
	require.Error(t, err)
}
