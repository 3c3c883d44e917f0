package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coin-gauge/internal/domain/entity"
)

func TestSQLiteMeasurementRepository_RoundTrip(t *testing.T) {
	repo, err := NewSQLiteMeasurementRepository(filepath.Join(t.TempDir(), "gauge.db"))
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	takenAt := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	report := &entity.GaugeReport{
		TakenAt: takenAt,
		Measurements: []entity.Measurement{
			{Index: 1, DiameterMM: 19.74, AreaMM2: 306.0, CenterX: 100, CenterY: 120, RadiusPX: 9.87, Passed: true},
			{Index: 2, DiameterMM: 22.57, AreaMM2: 400.0, CenterX: 300, CenterY: 280, RadiusPX: 11.28, Passed: false},
		},
		Summary: entity.GaugeSummary{Count: 2, PassCount: 1, MeanMM: 21.15, StdDevMM: 2.0},
	}

	require.NoError(t, repo.SaveReport(ctx, report))

	recent, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)

	got := recent[0]
	require.True(t, got.TakenAt.Equal(takenAt))
	require.Equal(t, 2, got.Summary.Count)
	require.Equal(t, 1, got.Summary.PassCount)

	require.Len(t, got.Measurements, 2)
	require.Equal(t, 1, got.Measurements[0].Index)
	require.InDelta(t, 19.74, got.Measurements[0].DiameterMM, 1e-9)
	require.True(t, got.Measurements[0].Passed)
	require.False(t, got.Measurements[1].Passed)
}

func TestSQLiteMeasurementRepository_RecentOrder(t *testing.T) {
	repo, err := NewSQLiteMeasurementRepository(filepath.Join(t.TempDir(), "gauge.db"))
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveReport(ctx, testReport(base, 19.7)))
	require.NoError(t, repo.SaveReport(ctx, testReport(base.Add(time.Minute), 19.8)))

	recent, err := repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.True(t, recent[0].TakenAt.Equal(base.Add(time.Minute)))
}
