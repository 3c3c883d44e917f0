//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"coin-gauge/internal/domain/entity"
)

func TestStubsReturnError(t *testing.T) {
	ctx := context.Background()

	_, err := NewGoCVCalibrator(7, 7, 10.0).Calibrate(ctx, []byte("img"))
	require.ErrorIs(t, err, errNoGoCV)

	_, err = NewGoCVRectifier(500).BuildTransform(&entity.CameraModel{}, entity.WorldField{SizeMM: 100})
	require.ErrorIs(t, err, errNoGoCV)

	_, err = NewGoCVBlobDetector().Detect(ctx, []byte("img"))
	require.ErrorIs(t, err, errNoGoCV)
}
