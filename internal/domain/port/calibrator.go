package port

import (
	"context"

	"coin-gauge/internal/domain/entity"
)

// Calibrator интерфейс оценки модели камеры по снимку калибровочной доски
type Calibrator interface {
	// Calibrate находит доску на снимке и строит модель камеры.
	// Если доска не найдена — возвращает entity.ErrPatternNotFound.
	Calibrate(ctx context.Context, imageData []byte) (*entity.CameraModel, error)
}
