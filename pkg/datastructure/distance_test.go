package datastructure

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanarDistance(t *testing.T) {
	tests := []struct {
		name           string
		latOne, lonOne float64
		latTwo, lonTwo float64
		expected       float64
	}{
		{name: "same point", latOne: 39.92, lonOne: 32.85, latTwo: 39.92, lonTwo: 32.85, expected: 0},
		{name: "3-4-5", latOne: 0, lonOne: 0, latTwo: 3, lonTwo: 4, expected: 5},
		{name: "negative coordinates", latOne: -1, lonOne: -1, latTwo: -1, lonTwo: -2, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, PlanarDistance(tt.latOne, tt.lonOne, tt.latTwo, tt.lonTwo), 1e-9)
			assert.InDelta(t, tt.expected, PlanarDistance(tt.latTwo, tt.lonTwo, tt.latOne, tt.lonOne), 1e-9)
		})
	}
}

func TestValidCoordinate(t *testing.T) {
	assert.True(t, ValidCoordinate(0, 0))
	assert.True(t, ValidCoordinate(-90, 180))
	assert.False(t, ValidCoordinate(90.1, 0))
	assert.False(t, ValidCoordinate(0, -180.5))
	assert.False(t, ValidCoordinate(math.NaN(), 0))
	assert.False(t, ValidCoordinate(0, math.Inf(1)))
}
