package port

import (
	"context"

	"coin-gauge/internal/domain/entity"
)

// MeasurementRepository интерфейс истории измерений
type MeasurementRepository interface {
	// SaveReport сохраняет итог одного прогона.
	SaveReport(ctx context.Context, report *entity.GaugeReport) error

	// Recent возвращает последние прогоны, новые первыми.
	Recent(ctx context.Context, limit int) ([]entity.GaugeReport, error)
}
