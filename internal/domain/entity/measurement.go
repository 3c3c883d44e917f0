package entity

import (
	"math"
	"time"
)

// ToleranceBand — допуск на диаметр монеты, задаётся один раз при старте.
type ToleranceBand struct {
	ExpectedMM  float64 // ожидаемый диаметр в мм
	ToleranceMM float64 // допустимое отклонение в мм
}

// Classify возвращает true, если диаметр укладывается в допуск.
func (t ToleranceBand) Classify(diameterMM float64) bool {
	return math.Abs(diameterMM-t.ExpectedMM) <= t.ToleranceMM
}

// DiameterFromArea выводит диаметр круга из его площади в мм².
func DiameterFromArea(areaMM2 float64) float64 {
	return 2 * math.Sqrt(areaMM2/math.Pi)
}

// Measurement — результат измерения одной монеты.
type Measurement struct {
	Index      int     // порядковый номер в отчёте, с единицы
	DiameterMM float64 // диаметр, выведенный из площади
	AreaMM2    float64 // площадь в мм²
	CenterX    float64 // центр области в пикселях выправленного снимка
	CenterY    float64
	RadiusPX   float64 // радиус области в пикселях
	Passed     bool    // укладывается ли в допуск
}

// GaugeSummary — сводка по прогону.
type GaugeSummary struct {
	Count     int     // всего измерено
	PassCount int     // из них в допуске
	MeanMM    float64 // средний диаметр
	StdDevMM  float64 // разброс диаметров
}

// GaugeReport хранит итог одного измерительного прогона.
type GaugeReport struct {
	TakenAt      time.Time
	Measurements []Measurement
	Summary      GaugeSummary
}
