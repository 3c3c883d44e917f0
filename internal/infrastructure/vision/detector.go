//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"sort"

	"gocv.io/x/gocv"

	"coin-gauge/internal/domain/entity"
	"coin-gauge/internal/domain/port"
)

// GoCVBlobDetector выделяет монетоподобные области на выправленном снимке.
type GoCVBlobDetector struct {
	ThresholdLow   float64 // нижняя граница бинаризации
	ThresholdHigh  float64 // верхняя граница бинаризации
	ClosingRadius  int     // радиус дилатации и эрозии
	MinAreaPX      float64 // минимальная площадь области в пикселях
	MinCompactness float64 // нижняя граница округлости
	MaxCompactness float64 // верхняя граница округлости
}

// NewGoCVBlobDetector создаёт детектор с порогами для тёмных монет на светлом фоне.
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

// Detect выполняет фиксированный конвейер: бинаризация → дилатация → эрозия →
// заливка дыр → выделение областей. Порядок существенен: замыкание до заливки
// склеивает близкие фрагменты.
func (d *GoCVBlobDetector) Detect(ctx context.Context, imageData []byte) ([]entity.Blob, error) {
	_ = ctx
	src, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if src.Empty() {
		return nil, errors.New("empty image")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.InRangeWithScalar(gray,
		gocv.NewScalar(d.ThresholdLow, 0, 0, 0),
		gocv.NewScalar(d.ThresholdHigh, 0, 0, 0),
		&binary)

	side := 2*d.ClosingRadius + 1
	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(side, side))
	defer kernel.Close()

	dilated := gocv.NewMat()
	defer dilated.Close()
	gocv.Dilate(binary, &dilated, kernel)

	closed := gocv.NewMat()
	defer closed.Close()
	gocv.Erode(dilated, &closed, kernel)

	// Заливаем дыры: внешние контуры перерисовываются сплошными.
	outer := gocv.FindContours(closed, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer outer.Close()

	filled := gocv.NewMatWithSize(closed.Rows(), closed.Cols(), gocv.MatTypeCV8U)
	defer filled.Close()
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	gocv.DrawContours(&filled, outer, -1, white, -1)

	components := gocv.FindContours(filled, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer components.Close()

	blobs := make([]entity.Blob, 0, components.Size())
	for i := 0; i < components.Size(); i++ {
		contour := components.At(i)

		area := gocv.ContourArea(contour)
		if area < d.MinAreaPX {
			continue
		}

		perimeter := gocv.ArcLength(contour, true)
		if perimeter <= 0 {
			continue
		}

		compactness := 4 * math.Pi * area / (perimeter * perimeter)
		if compactness > 1 {
			compactness = 1
		}
		if compactness < d.MinCompactness || compactness > d.MaxCompactness {
			continue
		}

		cx, cy, _ := gocv.MinEnclosingCircle(contour)
		blobs = append(blobs, entity.Blob{
			AreaPX:      area,
			Compactness: compactness,
			CenterX:     float64(cx),
			CenterY:     float64(cy),
		})
	}

	// Стабильный порядок отчёта: по возрастанию площади.
	sort.Slice(blobs, func(i, j int) bool {
		return blobs[i].AreaPX < blobs[j].AreaPX
	})

	return blobs, nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}

// Проверка реализации интерфейса
var _ port.BlobDetector = (*GoCVBlobDetector)(nil)
