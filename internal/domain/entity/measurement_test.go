package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiameterFromArea(t *testing.T) {
	// Площадь круга радиуса 9.875 мм даёт ровно его диаметр
	area := math.Pi * 9.875 * 9.875
	require.InDelta(t, 19.75, DiameterFromArea(area), 1e-12)

	require.Equal(t, 2*math.Sqrt(400.0/math.Pi), DiameterFromArea(400.0))
	require.Equal(t, 0.0, DiameterFromArea(0))
}

func TestDiameterFromArea_Monotonic(t *testing.T) {
	prev := 0.0
	for _, area := range []float64{1, 10, 100, 306, 400, 1000} {
		d := DiameterFromArea(area)
		require.Greater(t, d, prev)
		prev = d
	}
}

func TestToleranceBand_Boundaries(t *testing.T) {
	band := ToleranceBand{ExpectedMM: 19.75, ToleranceMM: 1.0}

	require.True(t, band.Classify(19.75))
	require.True(t, band.Classify(18.75))
	require.True(t, band.Classify(20.75))
	require.False(t, band.Classify(18.74))
	require.False(t, band.Classify(20.76))
}

func TestToleranceBand_SyntheticAreas(t *testing.T) {
	band := ToleranceBand{ExpectedMM: 19.75, ToleranceMM: 1.0}

	good := DiameterFromArea(306.0)
	require.InDelta(t, 19.74, good, 0.01)
	require.True(t, band.Classify(good))

	bad := DiameterFromArea(400.0)
	require.InDelta(t, 22.57, bad, 0.01)
	require.False(t, band.Classify(bad))
}
