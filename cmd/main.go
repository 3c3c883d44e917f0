package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"coin-gauge/config"
	telegram "coin-gauge/internal/api"
	app "coin-gauge/internal/application"
	"coin-gauge/internal/container"
	"coin-gauge/internal/domain/entity"
	"coin-gauge/internal/domain/port"
	"coin-gauge/internal/infrastructure/render"
	"coin-gauge/internal/infrastructure/storage"
	"coin-gauge/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.TelegramToken == "" && cfg.CalibImagePath == "" {
		log.Fatal("Either TELEGRAM_TOKEN or CALIB_IMAGE is required")
	}

	// История измерений: sqlite если задан путь, иначе память
	var history port.MeasurementRepository
	if cfg.DBPath != "" {
		repo, err := storage.NewSQLiteMeasurementRepository(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open history db: %v", err)
		}
		defer repo.Close()
		history = repo
	} else {
		history = storage.NewMemoryMeasurementRepository()
	}

	deps := container.Deps{
		UserRepo:   storage.NewMemoryUserRepository(),
		Calibrator: vision.NewGoCVCalibrator(cfg.PatternCols, cfg.PatternRows, cfg.SquareSizeMM),
		Rectifier:  vision.NewGoCVRectifier(cfg.OutputSizePX),
		Detector:   vision.NewGoCVBlobDetector(),
		Annotator:  render.NewOverlayAnnotator(),
		Quality:    render.NewImageQualityGate(),
		History:    history,
	}

	band := entity.ToleranceBand{
		ExpectedMM:  cfg.ExpectedDiameterMM,
		ToleranceMM: cfg.ToleranceMM,
	}
	field := entity.WorldField{
		CenterXMM: cfg.FieldCenterXMM,
		CenterYMM: cfg.FieldCenterYMM,
		SizeMM:    cfg.FieldSizeMM,
	}

	c := container.New(deps, band, field)

	// Разовый демо-прогон по снимкам с диска
	if cfg.CalibImagePath != "" {
		if err := runOnce(c.GaugeService, cfg); err != nil {
			log.Fatalf("Measurement run failed: %v", err)
		}
	}

	if cfg.TelegramToken == "" {
		return
	}

	bot, err := telegram.NewBot(cfg.TelegramToken, c.UserService, c.SessionService, history)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	log.Println("Bot is running...")
	if err := bot.Run(); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
}

// runOnce выполняет один прогон: калибровка, выправление, измерение, отчёт.
func runOnce(gauge *app.GaugeService, cfg *config.Config) error {
	if cfg.SceneImagePath == "" {
		return errors.New("SCENE_IMAGE is required for a measurement run")
	}

	ctx := context.Background()

	calibImage, err := os.ReadFile(cfg.CalibImagePath)
	if err != nil {
		return err
	}
	sceneImage, err := os.ReadFile(cfg.SceneImagePath)
	if err != nil {
		return err
	}

	// Пауза между этапами нужна только для наблюдения за процессом
	if cfg.StepDelayMS > 0 {
		delay := time.Duration(cfg.StepDelayMS) * time.Millisecond
		gauge.OnStep = func(step app.Step) {
			log.Printf("Step done: %s", step)
			time.Sleep(delay)
		}
	}

	transform, err := gauge.Setup(ctx, calibImage)
	if err != nil {
		return err
	}

	output, err := gauge.MeasureScene(ctx, transform, sceneImage)
	if err != nil {
		return err
	}

	for _, m := range output.Report.Measurements {
		log.Printf("Coin %d: d = %.2f mm", m.Index, m.DiameterMM)
	}
	summary := output.Report.Summary
	log.Printf("Measured %d coins, %d within tolerance", summary.Count, summary.PassCount)

	if len(output.Annotated) > 0 && cfg.OutputPath != "" {
		if err := os.WriteFile(cfg.OutputPath, output.Annotated, 0o644); err != nil {
			return err
		}
		log.Printf("Annotated image saved to %s", cfg.OutputPath)
	}

	return nil
}
