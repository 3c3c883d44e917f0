//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"

	"coin-gauge/internal/domain/entity"
	"coin-gauge/internal/domain/port"
)

// GoCVCalibrator оценивает модель камеры по снимку шахматной доски.
type GoCVCalibrator struct {
	PatternCols  int     // внутренние углы по горизонтали
	PatternRows  int     // внутренние углы по вертикали
	SquareSizeMM float64 // размер клетки в мм
}

// NewGoCVCalibrator создаёт калибратор под доску с заданной сеткой углов.
func NewGoCVCalibrator(cols, rows int, squareSizeMM float64) *GoCVCalibrator {
	return &GoCVCalibrator{
		PatternCols:  cols,
		PatternRows:  rows,
		SquareSizeMM: squareSizeMM,
	}
}

// Calibrate находит углы доски и строит гомографию снимок → мир (мм).
func (c *GoCVCalibrator) Calibrate(ctx context.Context, imageData []byte) (*entity.CameraModel, error) {
	_ = ctx
	src, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	pattern := image.Pt(c.PatternCols, c.PatternRows)
	corners := gocv.NewMat()
	defer corners.Close()

	found := gocv.FindChessboardCorners(gray, pattern, &corners,
		gocv.CalibCBAdaptiveThresh|gocv.CalibCBNormalizeImage)
	if !found || corners.Rows() != c.PatternCols*c.PatternRows {
		return nil, entity.ErrPatternNotFound
	}

	// Уточняем углы до субпиксельной точности.
	term := gocv.NewTermCriteria(gocv.MaxIter|gocv.EPS, 30, 0.001)
	gocv.CornerSubPix(gray, &corners, image.Pt(11, 11), image.Pt(-1, -1), term)

	points := make([]gocv.Point2f, corners.Rows())
	for i := range points {
		vec := corners.GetVecfAt(i, 0)
		points[i] = gocv.Point2f{X: vec[0], Y: vec[1]}
	}

	homography, err := c.solveHomography(points)
	if err != nil {
		return nil, err
	}

	reproj, err := c.reprojectionError(homography, points)
	if err != nil {
		return nil, err
	}

	return &entity.CameraModel{
		Homography:        homography,
		ReprojectionError: reproj,
	}, nil
}

// solveHomography строит перспективное преобразование по четырём крайним
// внутренним углам доски и их известным мировым позициям.
func (c *GoCVCalibrator) solveHomography(points []gocv.Point2f) ([3][3]float64, error) {
	var h [3][3]float64

	cols, rows := c.PatternCols, c.PatternRows
	src := gocv.NewPoint2fVectorFromPoints([]gocv.Point2f{
		points[0],
		points[cols-1],
		points[(rows-1)*cols],
		points[rows*cols-1],
	})
	defer src.Close()

	w := float32(float64(cols-1) * c.SquareSizeMM)
	hgt := float32(float64(rows-1) * c.SquareSizeMM)
	dst := gocv.NewPoint2fVectorFromPoints([]gocv.Point2f{
		{X: 0, Y: 0},
		{X: w, Y: 0},
		{X: 0, Y: hgt},
		{X: w, Y: hgt},
	})
	defer dst.Close()

	m := gocv.GetPerspectiveTransform2f(src, dst)
	defer m.Close()

	if m.Empty() || m.Rows() != 3 || m.Cols() != 3 {
		return h, errors.New("degenerate homography")
	}

	for r := 0; r < 3; r++ {
		for cc := 0; cc < 3; cc++ {
			h[r][cc] = m.GetDoubleAt(r, cc)
		}
	}

	return h, nil
}

// reprojectionError проецирует идеальную сетку обратно на снимок и сравнивает
// с найденными углами. Возвращает среднеквадратичную ошибку в пикселях.
func (c *GoCVCalibrator) reprojectionError(h [3][3]float64, points []gocv.Point2f) (float64, error) {
	forward := mat.NewDense(3, 3, []float64{
		h[0][0], h[0][1], h[0][2],
		h[1][0], h[1][1], h[1][2],
		h[2][0], h[2][1], h[2][2],
	})

	var inverse mat.Dense
	if err := inverse.Inverse(forward); err != nil {
		return 0, fmt.Errorf("degenerate homography: %w", err)
	}

	var sum float64
	for i := 0; i < c.PatternRows; i++ {
		for j := 0; j < c.PatternCols; j++ {
			wx := float64(j) * c.SquareSizeMM
			wy := float64(i) * c.SquareSizeMM
			px, py := projectPoint(&inverse, wx, wy)

			corner := points[i*c.PatternCols+j]
			dx := px - float64(corner.X)
			dy := py - float64(corner.Y)
			sum += dx*dx + dy*dy
		}
	}

	n := float64(c.PatternRows * c.PatternCols)
	return math.Sqrt(sum / n), nil
}

func projectPoint(m *mat.Dense, x, y float64) (float64, float64) {
	px := m.At(0, 0)*x + m.At(0, 1)*y + m.At(0, 2)
	py := m.At(1, 0)*x + m.At(1, 1)*y + m.At(1, 2)
	pw := m.At(2, 0)*x + m.At(2, 1)*y + m.At(2, 2)
	return px / pw, py / pw
}

// Проверка реализации интерфейса
var _ port.Calibrator = (*GoCVCalibrator)(nil)
