package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"coin-gauge/internal/domain/entity"
	"coin-gauge/internal/infrastructure/storage"
)

func TestUserService_BeginCalibrationAndCancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.BeginCalibration(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingCalibration, user.State)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestUserService_SetState(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetState(ctx, 2, 20, entity.StateAwaitingScene)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingScene, user.State)
}
