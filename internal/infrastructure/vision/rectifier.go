//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"

	"coin-gauge/internal/domain/entity"
	"coin-gauge/internal/domain/port"
)

// GoCVRectifier строит преобразование снимка в координаты измерительного поля.
type GoCVRectifier struct {
	OutputSizePX int // сторона выправленного изображения в пикселях
}

// NewGoCVRectifier создаёт ректификатор с заданным размером выхода.
func NewGoCVRectifier(outputSizePX int) *GoCVRectifier {
	return &GoCVRectifier{OutputSizePX: outputSizePX}
}

// BuildTransform совмещает гомографию калибровки с переносом поля в пиксели
// выхода. Преобразование строится один раз и далее неизменяемо.
func (r *GoCVRectifier) BuildTransform(model *entity.CameraModel, field entity.WorldField) (port.Transform, error) {
	if model == nil {
		return nil, errors.New("camera model is required")
	}
	if field.SizeMM <= 0 || r.OutputSizePX <= 0 {
		return nil, errors.New("invalid measuring field")
	}

	scale := float64(r.OutputSizePX) / field.SizeMM
	originX := field.CenterXMM - field.SizeMM/2
	originY := field.CenterYMM - field.SizeMM/2

	// мир (мм) → пиксели выхода
	toOutput := mat.NewDense(3, 3, []float64{
		scale, 0, -scale * originX,
		0, scale, -scale * originY,
		0, 0, 1,
	})

	h := model.Homography
	toWorld := mat.NewDense(3, 3, []float64{
		h[0][0], h[0][1], h[0][2],
		h[1][0], h[1][1], h[1][2],
		h[2][0], h[2][1], h[2][2],
	})

	var combined mat.Dense
	combined.Mul(toOutput, toWorld)

	var warp [3][3]float64
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			warp[row][col] = combined.At(row, col)
		}
	}

	return &gocvTransform{
		warp:    warp,
		outPX:   r.OutputSizePX,
		pxPerMM: scale,
	}, nil
}

// gocvTransform применяет готовую гомографию к произвольным снимкам.
type gocvTransform struct {
	warp    [3][3]float64
	outPX   int
	pxPerMM float64
}

// Apply выправляет снимок. Чистая функция: одинаковый вход даёт одинаковый выход.
func (t *gocvTransform) Apply(ctx context.Context, imageData []byte) ([]byte, error) {
	_ = ctx
	src, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	warp := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	defer warp.Close()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			warp.SetDoubleAt(row, col, t.warp[row][col])
		}
	}

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.WarpPerspective(src, &dst, warp, image.Pt(t.outPX, t.outPX))

	img, err := dst.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (t *gocvTransform) PixelsPerMM() float64 {
	return t.pxPerMM
}

// Проверка реализации интерфейса
var _ port.Rectifier = (*GoCVRectifier)(nil)
