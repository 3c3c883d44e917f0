package entity

import "errors"

// ErrPatternNotFound возвращается, если калибровочная доска не найдена на снимке.
var ErrPatternNotFound = errors.New("calibration pattern not found")

// CameraModel — результат калибровки камеры по снимку доски.
// Потребляется только ректификатором.
type CameraModel struct {
	Homography        [3][3]float64 // гомография из пикселей снимка в мм мира
	ReprojectionError float64       // среднеквадратичная ошибка репроекции в пикселях
}

// WorldField задаёт измерительное поле: квадрат в мировых координатах.
type WorldField struct {
	CenterXMM float64 // центр поля в мм
	CenterYMM float64
	SizeMM    float64 // сторона квадрата в мм
}
