package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"coin-gauge/internal/domain/entity"
	"coin-gauge/internal/domain/port"
)

// Step — этап измерительного прогона, передаётся в хук OnStep.
type Step string

const (
	StepCalibrated Step = "calibrated"
	StepRectified  Step = "rectified"
	StepDetected   Step = "detected"
	StepMeasured   Step = "measured"
)

// GaugeService управляет прогоном: калибровка, выправление, сегментация, измерение.
type GaugeService struct {
	measurements *MeasurementService
	calibrator   port.Calibrator
	rectifier    port.Rectifier
	detector     port.BlobDetector
	annotator    port.Annotator
	history      port.MeasurementRepository
	field        entity.WorldField

	// OnStep зовётся после каждого этапа; nil — без пауз и уведомлений.
	OnStep func(step Step)
}

// GaugeOutput содержит отчёт и снимок с разметкой.
type GaugeOutput struct {
	Report    *entity.GaugeReport
	Annotated []byte
}

// NewGaugeService создаёт сервис измерения монет.
func NewGaugeService(
	measurements *MeasurementService,
	calibrator port.Calibrator,
	rectifier port.Rectifier,
	detector port.BlobDetector,
	annotator port.Annotator,
	history port.MeasurementRepository,
	field entity.WorldField,
) *GaugeService {
	return &GaugeService{
		measurements: measurements,
		calibrator:   calibrator,
		rectifier:    rectifier,
		detector:     detector,
		annotator:    annotator,
		history:      history,
		field:        field,
	}
}

// Setup калибрует камеру по снимку доски и строит выправляющее преобразование.
// Любая ошибка здесь фатальна для прогона.
func (s *GaugeService) Setup(ctx context.Context, calibImage []byte) (port.Transform, error) {
	if s.calibrator == nil || s.rectifier == nil {
		return nil, errors.New("vision backend is not configured")
	}

	model, err := s.calibrator.Calibrate(ctx, calibImage)
	if err != nil {
		return nil, fmt.Errorf("calibrate: %w", err)
	}

	log.Printf("Calibration done, reprojection error %.3f px", model.ReprojectionError)
	s.step(StepCalibrated)

	transform, err := s.rectifier.BuildTransform(model, s.field)
	if err != nil {
		return nil, fmt.Errorf("build transform: %w", err)
	}

	return transform, nil
}

// MeasureScene выправляет снимок сцены, сегментирует монеты и измеряет их.
// Пустой набор областей — валидный результат, а не ошибка.
func (s *GaugeService) MeasureScene(ctx context.Context, transform port.Transform, sceneImage []byte) (*GaugeOutput, error) {
	if s.detector == nil {
		return nil, errors.New("detector is not configured")
	}

	rectified, err := transform.Apply(ctx, sceneImage)
	if err != nil {
		return nil, fmt.Errorf("rectify: %w", err)
	}
	s.step(StepRectified)

	blobs, err := s.detector.Detect(ctx, rectified)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}
	s.step(StepDetected)

	measurements := s.measurements.Measure(blobs, transform.PixelsPerMM())

	report := &entity.GaugeReport{
		TakenAt:      time.Now(),
		Measurements: measurements,
		Summary:      s.measurements.Summarize(measurements),
	}

	var annotated []byte
	if s.annotator != nil {
		annotated, err = s.annotator.Annotate(rectified, measurements)
		if err != nil {
			log.Printf("Annotation failed: %v", err)
			annotated = rectified
		}
	}
	s.step(StepMeasured)

	if s.history != nil {
		if err := s.history.SaveReport(ctx, report); err != nil {
			log.Printf("Failed to save report: %v", err)
		}
	}

	return &GaugeOutput{Report: report, Annotated: annotated}, nil
}

func (s *GaugeService) step(step Step) {
	if s.OnStep != nil {
		s.OnStep(step)
	}
}
