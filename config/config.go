package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config собирает все настройки измерительного конвейера из окружения.
type Config struct {
	TelegramToken string // токен бота, пустой — бот не запускается

	CalibImagePath string // путь к снимку калибровочной доски
	SceneImagePath string // путь к снимку сцены с монетами
	OutputPath     string // куда сохранить размеченный результат
	DBPath         string // путь к базе истории измерений, пустой — память

	SquareSizeMM float64 // размер клетки доски в мм
	PatternCols  int     // внутренние углы доски по горизонтали
	PatternRows  int     // внутренние углы доски по вертикали

	FieldCenterXMM float64 // центр измерительного поля в мм
	FieldCenterYMM float64
	FieldSizeMM    float64 // сторона поля в мм
	OutputSizePX   int     // сторона выправленного изображения в пикселях

	ExpectedDiameterMM float64 // ожидаемый диаметр монеты
	ToleranceMM        float64 // допуск на диаметр

	StepDelayMS int // пауза между шагами демо-прогона
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		CalibImagePath: os.Getenv("CALIB_IMAGE"),
		SceneImagePath: os.Getenv("SCENE_IMAGE"),
		OutputPath:     getEnv("OUTPUT_IMAGE", "measured.png"),
		DBPath:         os.Getenv("DB_PATH"),

		SquareSizeMM: getEnvFloat("SQUARE_SIZE_MM", 10.0),
		PatternCols:  getEnvInt("PATTERN_COLS", 7),
		PatternRows:  getEnvInt("PATTERN_ROWS", 7),

		FieldCenterXMM: getEnvFloat("FIELD_CENTER_X_MM", 50.0),
		FieldCenterYMM: getEnvFloat("FIELD_CENTER_Y_MM", 50.0),
		FieldSizeMM:    getEnvFloat("FIELD_SIZE_MM", 100.0),
		OutputSizePX:   getEnvInt("OUTPUT_SIZE_PX", 500),

		ExpectedDiameterMM: getEnvFloat("EXPECTED_DIAMETER_MM", 19.75),
		ToleranceMM:        getEnvFloat("TOLERANCE_MM", 1.0),

		StepDelayMS: getEnvInt("STEP_DELAY_MS", 1000),
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
