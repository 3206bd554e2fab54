package insighting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThresholdCalculator(t *testing.T) {
	calc := ThresholdCalculator{
		Default:    0.10,
		Strict:     0.08,
		Relaxed:    0.15,
		LowCVBand:  0.1,
		HighCVBand: 0.3,
	}

	tests := []struct {
		name     string
		sample   []float64
		expected float64
	}{
		{
			name:     "Amostra vazia usa o limiar padrão",
			sample:   []float64{},
			expected: 0.10,
		},
		{
			name:     "Amostra unitária usa o limiar padrão",
			sample:   []float64{-0.3},
			expected: 0.10,
		},
		{
			name:     "Média zero usa o limiar padrão",
			sample:   []float64{-0.2, 0.2},
			expected: 0.10,
		},
		{
			name: "CV baixo (dados estáveis) usa o limiar rígido",
			// desvio quase nulo em torno de -0.2
			sample:   []float64{-0.2, -0.201, -0.199, -0.2},
			expected: 0.08,
		},
		{
			name: "CV intermediário usa o limiar padrão",
			// std/|mean| ≈ 0.2
			sample:   []float64{-0.2, -0.25, -0.15, -0.2, -0.26, -0.14},
			expected: 0.10,
		},
		{
			name:     "CV alto (dados ruidosos) usa o limiar relaxado",
			sample:   []float64{-0.05, -0.5, -0.1, -0.45, -0.02},
			expected: 0.15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, calc.Calculate(tt.sample))
		})
	}
}
