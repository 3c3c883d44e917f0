package port

import (
	"context"

	"coin-gauge/internal/domain/entity"
)

// BlobDetector интерфейс сегментации монетоподобных областей
type BlobDetector interface {
	// Detect выделяет на выправленном снимке связные области,
	// фильтрует их по округлости и возвращает по возрастанию площади.
	Detect(ctx context.Context, imageData []byte) ([]entity.Blob, error)
}
