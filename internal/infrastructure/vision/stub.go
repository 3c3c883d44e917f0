//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"coin-gauge/internal/domain/entity"
	"coin-gauge/internal/domain/port"
)

var errNoGoCV = errors.New("gocv build tag is not enabled")

// GoCVCalibrator — заглушка без OpenCV.
type GoCVCalibrator struct {
	PatternCols  int
	PatternRows  int
	SquareSizeMM float64
}

// NewGoCVCalibrator создаёт калибратор-заглушку (без OpenCV).
func NewGoCVCalibrator(cols, rows int, squareSizeMM float64) *GoCVCalibrator {
	return &GoCVCalibrator{
		PatternCols:  cols,
		PatternRows:  rows,
		SquareSizeMM: squareSizeMM,
	}
}

// Calibrate возвращает ошибку, если сборка без тега gocv.
func (c *GoCVCalibrator) Calibrate(ctx context.Context, imageData []byte) (*entity.CameraModel, error) {
	_ = ctx
	_ = imageData
	return nil, errNoGoCV
}

// GoCVRectifier — заглушка без OpenCV.
type GoCVRectifier struct {
	OutputSizePX int
}

// NewGoCVRectifier создаёт ректификатор-заглушку (без OpenCV).
func NewGoCVRectifier(outputSizePX int) *GoCVRectifier {
	return &GoCVRectifier{OutputSizePX: outputSizePX}
}

// BuildTransform возвращает ошибку, если сборка без тега gocv.
func (r *GoCVRectifier) BuildTransform(model *entity.CameraModel, field entity.WorldField) (port.Transform, error) {
	_ = model
	_ = field
	return nil, errNoGoCV
}

// GoCVBlobDetector — заглушка без OpenCV.
type GoCVBlobDetector struct {
	ThresholdLow   float64
	ThresholdHigh  float64
	ClosingRadius  int
	MinAreaPX      float64
	MinCompactness float64
	MaxCompactness float64
}

// NewGoCVBlobDetector создаёт детектор-заглушку (без OpenCV).
func NewGoCVBlobDetector() *GoCVBlobDetector {
	return &GoCVBlobDetector{
		ThresholdLow:   1,
		ThresholdHigh:  125,
		ClosingRadius:  5,
		MinAreaPX:      1000,
		MinCompactness: 0.7,
		MaxCompactness: 1.0,
	}
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *GoCVBlobDetector) Detect(ctx context.Context, imageData []byte) ([]entity.Blob, error) {
	_ = ctx
	_ = imageData
	return nil, errNoGoCV
}

// Проверка реализации интерфейсов
var (
	_ port.Calibrator   = (*GoCVCalibrator)(nil)
	_ port.Rectifier    = (*GoCVRectifier)(nil)
	_ port.BlobDetector = (*GoCVBlobDetector)(nil)
)
