package entity

import "math"

// Blob представляет связную область на выправленном изображении.
type Blob struct {
	AreaPX      float64 // площадь в пикселях
	Compactness float64 // округлость формы, 1.0 — идеальный круг
	CenterX     float64 // центр области в пикселях
	CenterY     float64
}

// RadiusPX возвращает радиус круга той же площади, в пикселях.
func (b Blob) RadiusPX() float64 {
	return math.Sqrt(b.AreaPX / math.Pi)
}
