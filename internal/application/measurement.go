package app

import (
	"gonum.org/v1/gonum/stat"

	"coin-gauge/internal/domain/entity"
)

// MeasurementService переводит области в диаметры и проверяет допуск.
type MeasurementService struct {
	band entity.ToleranceBand
}

// NewMeasurementService создаёт сервис с заданным допуском.
func NewMeasurementService(band entity.ToleranceBand) *MeasurementService {
	return &MeasurementService{band: band}
}

// Band возвращает действующий допуск.
func (s *MeasurementService) Band() entity.ToleranceBand {
	return s.band
}

// Measure измеряет области в порядке, в котором их вернул детектор.
// pxPerMM — масштаб выправленного снимка.
func (s *MeasurementService) Measure(blobs []entity.Blob, pxPerMM float64) []entity.Measurement {
	measurements := make([]entity.Measurement, 0, len(blobs))
	for i, b := range blobs {
		areaMM2 := b.AreaPX / (pxPerMM * pxPerMM)
		diameter := entity.DiameterFromArea(areaMM2)

		measurements = append(measurements, entity.Measurement{
			Index:      i + 1,
			DiameterMM: diameter,
			AreaMM2:    areaMM2,
			CenterX:    b.CenterX,
			CenterY:    b.CenterY,
			RadiusPX:   b.RadiusPX(),
			Passed:     s.band.Classify(diameter),
		})
	}

	return measurements
}

// Summarize строит сводку по измерениям.
func (s *MeasurementService) Summarize(measurements []entity.Measurement) entity.GaugeSummary {
	summary := entity.GaugeSummary{Count: len(measurements)}
	if len(measurements) == 0 {
		return summary
	}

	diameters := make([]float64, 0, len(measurements))
	for _, m := range measurements {
		diameters = append(diameters, m.DiameterMM)
		if m.Passed {
			summary.PassCount++
		}
	}

	summary.MeanMM = stat.Mean(diameters, nil)
	if len(diameters) > 1 {
		summary.StdDevMM = stat.StdDev(diameters, nil)
	}

	return summary
}
