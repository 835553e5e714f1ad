package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDistance(t *testing.T) {
	tests := []struct {
		name               string
		lat1, lng1         float64
		lat2, lng2         float64
		wantKm             float64
		tolerance          float64
	}{
		{
			name: "Same point",
			lat1: 37.4979, lng1: 127.0276,
			lat2: 37.4979, lng2: 127.0276,
			wantKm: 0, tolerance: 0.001,
		},
		{
			name: "Gangnam to Yeoksam (short hop)",
			lat1: 37.4979, lng1: 127.0276,
			lat2: 37.5006, lng2: 127.0364,
			wantKm: 0.83, tolerance: 0.1,
		},
		{
			name: "Seoul to Busan",
			lat1: 37.5665, lng1: 126.9780,
			lat2: 35.1796, lng2: 129.0756,
			wantKm: 325, tolerance: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateDistance(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			assert.InDelta(t, tt.wantKm, got, tt.tolerance)
		})
	}
}
