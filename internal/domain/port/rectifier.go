package port

import (
	"context"

	"coin-gauge/internal/domain/entity"
)

// Rectifier интерфейс построения выправляющего преобразования
type Rectifier interface {
	// BuildTransform строит преобразование из модели камеры и измерительного поля.
	BuildTransform(model *entity.CameraModel, field entity.WorldField) (Transform, error)
}

// Transform переводит снимки в мировые координаты.
// Неизменяемо после построения, Apply можно звать многократно.
type Transform interface {
	// Apply выправляет снимок в координаты измерительного поля.
	Apply(ctx context.Context, imageData []byte) ([]byte, error)

	// PixelsPerMM возвращает масштаб выправленного снимка.
	PixelsPerMM() float64
}
