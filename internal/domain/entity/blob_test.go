package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlobRadiusPX(t *testing.T) {
	b := Blob{AreaPX: math.Pi * 25}
	require.InDelta(t, 5.0, b.RadiusPX(), 1e-12)
}
