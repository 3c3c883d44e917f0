package render

import (
	"bytes"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"coin-gauge/internal/domain/port"
)

// ImageQualityGate отсекает снимки, непригодные для измерения:
// слишком маленькие, смазанные или с плохой экспозицией.
type ImageQualityGate struct {
	MinImageSide          int
	MinSharpnessEdgeRatio float64
	MaxOverexposedRatio   float64
	MaxUnderexposedRatio  float64
}

// NewImageQualityGate создаёт проверку с порогами для фото с телефона.
func NewImageQualityGate() *ImageQualityGate {
	return &ImageQualityGate{
		MinImageSide:          400,
		MinSharpnessEdgeRatio: 0.008,
		MaxOverexposedRatio:   0.35,
		MaxUnderexposedRatio:  0.45,
	}
}

// Check возвращает ошибку с причиной, если снимок не проходит проверку.
func (g *ImageQualityGate) Check(imageData []byte, label string) error {
	img, err := imaging.Decode(bytes.NewReader(imageData))
	if err != nil {
		return fmt.Errorf("quality gate failed for %s: %w", label, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() < g.MinImageSide || bounds.Dy() < g.MinImageSide {
		return fmt.Errorf("quality gate failed for %s: image is too small (%dx%d)",
			label, bounds.Dx(), bounds.Dy())
	}

	gray := effect.Grayscale(img)

	// Резкость: доля сильных границ после оператора Собеля.
	edges := effect.Sobel(gray)
	edgeRatio := ratioAbove(edges, 128)
	if edgeRatio < g.MinSharpnessEdgeRatio {
		return fmt.Errorf("quality gate failed for %s: image is blurry (edge_ratio=%.4f)", label, edgeRatio)
	}

	overexposed := ratioAbove(gray, 250)
	if overexposed > g.MaxOverexposedRatio {
		return fmt.Errorf("quality gate failed for %s: overexposed image (ratio=%.4f)", label, overexposed)
	}

	underexposed := ratioBelow(gray, 20)
	if underexposed > g.MaxUnderexposedRatio {
		return fmt.Errorf("quality gate failed for %s: underexposed image (ratio=%.4f)", label, underexposed)
	}

	return nil
}

// ratioAbove считает долю пикселей с яркостью не ниже порога.
// Вход — серое изображение, яркость берётся из красного канала.
func ratioAbove(img *image.RGBA, threshold uint8) float64 {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total <= 0 {
		return 0
	}

	count := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.RGBAAt(x, y).R >= threshold {
				count++
			}
		}
	}

	return float64(count) / float64(total)
}

// ratioBelow считает долю пикселей с яркостью не выше порога.
func ratioBelow(img *image.RGBA, threshold uint8) float64 {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total <= 0 {
		return 0
	}

	count := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.RGBAAt(x, y).R <= threshold {
				count++
			}
		}
	}

	return float64(count) / float64(total)
}

// Проверка реализации интерфейса
var _ port.QualityGate = (*ImageQualityGate)(nil)
