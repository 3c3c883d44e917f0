package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"coin-gauge/internal/domain/entity"
	"coin-gauge/internal/domain/port"
	"coin-gauge/internal/infrastructure/storage"
)

type fakeTransform struct {
	rectified []byte
	pxPerMM   float64
}

func (f *fakeTransform) Apply(ctx context.Context, imageData []byte) ([]byte, error) {
	return f.rectified, nil
}

func (f *fakeTransform) PixelsPerMM() float64 { return f.pxPerMM }

type fakeCalibrator struct {
	model *entity.CameraModel
	err   error
}

func (f *fakeCalibrator) Calibrate(ctx context.Context, imageData []byte) (*entity.CameraModel, error) {
	return f.model, f.err
}

type fakeRectifier struct {
	transform port.Transform
}

func (f *fakeRectifier) BuildTransform(model *entity.CameraModel, field entity.WorldField) (port.Transform, error) {
	return f.transform, nil
}

type fakeDetector struct {
	blobs []entity.Blob
	err   error
}

func (f *fakeDetector) Detect(ctx context.Context, imageData []byte) ([]entity.Blob, error) {
	return f.blobs, f.err
}

type fakeAnnotator struct{}

func (f *fakeAnnotator) Annotate(imageData []byte, ms []entity.Measurement) ([]byte, error) {
	return append([]byte("annotated:"), imageData...), nil
}

func testField() entity.WorldField {
	return entity.WorldField{CenterXMM: 50, CenterYMM: 50, SizeMM: 100}
}

func newTestGauge(calibrator port.Calibrator, detector port.BlobDetector, history port.MeasurementRepository) *GaugeService {
	transform := &fakeTransform{rectified: []byte("rectified"), pxPerMM: 1.0}
	return NewGaugeService(
		NewMeasurementService(testBand),
		calibrator,
		&fakeRectifier{transform: transform},
		detector,
		&fakeAnnotator{},
		history,
		testField(),
	)
}

func TestGaugeService_Setup(t *testing.T) {
	calibrator := &fakeCalibrator{model: &entity.CameraModel{ReprojectionError: 0.4}}
	svc := newTestGauge(calibrator, &fakeDetector{}, nil)

	transform, err := svc.Setup(context.Background(), []byte("board"))
	require.NoError(t, err)
	require.NotNil(t, transform)
	require.Equal(t, 1.0, transform.PixelsPerMM())
}

func TestGaugeService_SetupCalibrationFailure(t *testing.T) {
	calibrator := &fakeCalibrator{err: entity.ErrPatternNotFound}
	svc := newTestGauge(calibrator, &fakeDetector{}, nil)

	transform, err := svc.Setup(context.Background(), []byte("board"))
	require.Error(t, err)
	require.ErrorIs(t, err, entity.ErrPatternNotFound)
	require.Nil(t, transform)
}

func TestGaugeService_MeasureScene(t *testing.T) {
	detector := &fakeDetector{blobs: []entity.Blob{
		{AreaPX: 306.0, CenterX: 50, CenterY: 60},
		{AreaPX: 400.0, CenterX: 200, CenterY: 210},
	}}
	history := storage.NewMemoryMeasurementRepository()
	svc := newTestGauge(&fakeCalibrator{model: &entity.CameraModel{}}, detector, history)

	transform := &fakeTransform{rectified: []byte("rectified"), pxPerMM: 1.0}
	output, err := svc.MeasureScene(context.Background(), transform, []byte("scene"))
	require.NoError(t, err)

	ms := output.Report.Measurements
	require.Len(t, ms, 2)
	require.Equal(t, 1, ms[0].Index)
	require.True(t, ms[0].Passed)
	require.Equal(t, 2, ms[1].Index)
	require.False(t, ms[1].Passed)

	require.Equal(t, []byte("annotated:rectified"), output.Annotated)

	// Прогон попадает в историю
	saved, err := history.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	require.Equal(t, 2, saved[0].Summary.Count)
}

func TestGaugeService_MeasureSceneEmpty(t *testing.T) {
	svc := newTestGauge(&fakeCalibrator{model: &entity.CameraModel{}}, &fakeDetector{}, nil)

	transform := &fakeTransform{rectified: []byte("rectified"), pxPerMM: 1.0}
	output, err := svc.MeasureScene(context.Background(), transform, []byte("scene"))
	require.NoError(t, err)
	require.Empty(t, output.Report.Measurements)
	require.Equal(t, 0, output.Report.Summary.Count)
}

func TestGaugeService_MeasureSceneDetectorError(t *testing.T) {
	detector := &fakeDetector{err: errors.New("boom")}
	svc := newTestGauge(&fakeCalibrator{model: &entity.CameraModel{}}, detector, nil)

	transform := &fakeTransform{rectified: []byte("rectified"), pxPerMM: 1.0}
	_, err := svc.MeasureScene(context.Background(), transform, []byte("scene"))
	require.Error(t, err)
}

func TestGaugeService_StepHookOrder(t *testing.T) {
	svc := newTestGauge(&fakeCalibrator{model: &entity.CameraModel{}}, &fakeDetector{}, nil)

	var steps []Step
	svc.OnStep = func(step Step) { steps = append(steps, step) }

	transform, err := svc.Setup(context.Background(), []byte("board"))
	require.NoError(t, err)

	_, err = svc.MeasureScene(context.Background(), transform, []byte("scene"))
	require.NoError(t, err)

	require.Equal(t, []Step{StepCalibrated, StepRectified, StepDetected, StepMeasured}, steps)
}
