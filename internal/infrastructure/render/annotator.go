package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"coin-gauge/internal/domain/entity"
	"coin-gauge/internal/domain/port"
)

// OverlayAnnotator рисует полупрозрачные области и подписи диаметров
// без OpenCV, чтобы разметка работала и в сборке без тега gocv.
type OverlayAnnotator struct {
	Opacity float64 // доля цвета заливки при смешении, 0..1
}

// NewOverlayAnnotator создаёт аннотатор с полупрозрачной заливкой.
func NewOverlayAnnotator() *OverlayAnnotator {
	return &OverlayAnnotator{Opacity: 0.5}
}

// Annotate закрашивает каждую измеренную область кругом её радиуса:
// зелёным в допуске, красным вне, и подписывает диаметр справа сверху.
func (a *OverlayAnnotator) Annotate(imageData []byte, measurements []entity.Measurement) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	canvas := imaging.Clone(src)
	if canvas.Bounds().Empty() {
		return nil, errors.New("empty image")
	}

	pass := colorful.Hsv(120, 0.9, 0.8)
	fail := colorful.Hsv(0, 0.9, 0.8)

	for _, m := range measurements {
		fill := fail
		if m.Passed {
			fill = pass
		}

		a.fillCircle(canvas, m.CenterX, m.CenterY, m.RadiusPX, fill)

		// Подпись смещена от центра на радиус по обеим осям.
		label := fmt.Sprintf("d = %.1f", m.DiameterMM)
		drawLabel(canvas, label, int(m.CenterX+m.RadiusPX), int(m.CenterY-m.RadiusPX))
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	return buf.Bytes(), nil
}

// fillCircle смешивает цвет заливки с исходными пикселями внутри круга.
func (a *OverlayAnnotator) fillCircle(canvas *image.NRGBA, cx, cy, radius float64, fill colorful.Color) {
	bounds := canvas.Bounds()
	minX := maxInt(bounds.Min.X, int(math.Floor(cx-radius)))
	maxX := minInt(bounds.Max.X-1, int(math.Ceil(cx+radius)))
	minY := maxInt(bounds.Min.Y, int(math.Floor(cy-radius)))
	maxY := minInt(bounds.Max.Y-1, int(math.Ceil(cy+radius)))

	r2 := radius * radius
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy > r2 {
				continue
			}

			orig := canvas.NRGBAAt(x, y)
			if orig.A == 0 {
				continue
			}

			base, ok := colorful.MakeColor(color.NRGBA{R: orig.R, G: orig.G, B: orig.B, A: 255})
			if !ok {
				continue
			}

			blended := base.BlendRgb(fill, a.Opacity)
			br, bg, bb := blended.RGB255()
			canvas.SetNRGBA(x, y, color.NRGBA{R: br, G: bg, B: bb, A: orig.A})
		}
	}
}

func drawLabel(canvas *image.NRGBA, text string, x, y int) {
	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Проверка реализации интерфейса
var _ port.Annotator = (*OverlayAnnotator)(nil)
