package storage

import (
	"context"
	"sync"

	"coin-gauge/internal/domain/entity"
	"coin-gauge/internal/domain/port"
)

// MemoryMeasurementRepository in-memory история измерений
type MemoryMeasurementRepository struct {
	mu      sync.RWMutex
	reports []entity.GaugeReport
}

// NewMemoryMeasurementRepository создаёт пустую историю в памяти
func NewMemoryMeasurementRepository() *MemoryMeasurementRepository {
	return &MemoryMeasurementRepository{}
}

// SaveReport сохраняет итог одного прогона
func (r *MemoryMeasurementRepository) SaveReport(ctx context.Context, report *entity.GaugeReport) error {
	r.mu.Lock()
	r.reports = append(r.reports, *report)
	r.mu.Unlock()

	return nil
}

// Recent возвращает последние прогоны, новые первыми
func (r *MemoryMeasurementRepository) Recent(ctx context.Context, limit int) ([]entity.GaugeReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.reports) {
		limit = len(r.reports)
	}

	out := make([]entity.GaugeReport, 0, limit)
	for i := len(r.reports) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.reports[i])
	}

	return out, nil
}

// Проверка реализации интерфейса
var _ port.MeasurementRepository = (*MemoryMeasurementRepository)(nil)
