package port

import "coin-gauge/internal/domain/entity"

// Annotator интерфейс отрисовки результатов измерения
type Annotator interface {
	// Annotate накладывает на снимок полупрозрачные области и подписи диаметров.
	Annotate(imageData []byte, measurements []entity.Measurement) ([]byte, error)
}

// QualityGate интерфейс предварительной проверки снимка
type QualityGate interface {
	// Check возвращает ошибку, если снимок непригоден для измерения.
	Check(imageData []byte, label string) error
}
