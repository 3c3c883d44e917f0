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

type fakeQualityGate struct {
	err error
}

func (f *fakeQualityGate) Check(imageData []byte, label string) error {
	return f.err
}

func newTestSession(t *testing.T, gate port.QualityGate) *SessionService {
	t.Helper()

	users := NewUserService(storage.NewMemoryUserRepository())
	gauge := newTestGauge(&fakeCalibrator{model: &entity.CameraModel{}},
		&fakeDetector{blobs: []entity.Blob{{AreaPX: 306.0}}}, nil)

	return NewSessionService(users, gauge, gate)
}

func TestSessionService_AcceptCalibrationPhoto(t *testing.T) {
	svc := newTestSession(t, nil)
	ctx := context.Background()

	user, err := svc.AcceptCalibrationPhoto(ctx, 1, 10, []byte("board"))
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingScene, user.State)
	require.True(t, svc.Calibrated(1))
}

func TestSessionService_AcceptScenePhotoWithoutCalibration(t *testing.T) {
	svc := newTestSession(t, nil)

	_, err := svc.AcceptScenePhoto(context.Background(), 1, []byte("scene"))
	require.ErrorIs(t, err, ErrNotCalibrated)
}

func TestSessionService_AcceptScenePhoto(t *testing.T) {
	svc := newTestSession(t, nil)
	ctx := context.Background()

	_, err := svc.AcceptCalibrationPhoto(ctx, 1, 10, []byte("board"))
	require.NoError(t, err)

	output, err := svc.AcceptScenePhoto(ctx, 1, []byte("scene"))
	require.NoError(t, err)
	require.Len(t, output.Report.Measurements, 1)
}

func TestSessionService_QualityGateRejects(t *testing.T) {
	svc := newTestSession(t, &fakeQualityGate{err: errors.New("blurry")})
	ctx := context.Background()

	_, err := svc.AcceptCalibrationPhoto(ctx, 1, 10, []byte("board"))
	require.NoError(t, err)

	_, err = svc.AcceptScenePhoto(ctx, 1, []byte("scene"))
	require.Error(t, err)
}

func TestSessionService_Reset(t *testing.T) {
	svc := newTestSession(t, nil)
	ctx := context.Background()

	_, err := svc.AcceptCalibrationPhoto(ctx, 1, 10, []byte("board"))
	require.NoError(t, err)
	require.True(t, svc.Calibrated(1))

	svc.Reset(1)
	require.False(t, svc.Calibrated(1))
}
