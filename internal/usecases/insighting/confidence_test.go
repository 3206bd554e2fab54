package insighting

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceScorer(t *testing.T) {
	scorer := ConfidenceScorer{Min: 0.4, Max: 0.95}

	tests := []struct {
		name            string
		magnitude       float64
		threshold       float64
		outliersRemoved bool
		evidenceCount   int
		expected        float64
	}{
		{
			name:      "Magnitude zero fica no piso da banda",
			magnitude: 0,
			threshold: 0.10,
			expected:  0.4,
		},
		{
			name:      "Abaixo do limiar interpola entre 0.4 e 0.6",
			magnitude: 0.05,
			threshold: 0.10,
			expected:  0.5,
		},
		{
			name:      "Exatamente no limiar vale 0.6",
			magnitude: 0.10,
			threshold: 0.10,
			expected:  0.6,
		},
		{
			name:      "Entre o limiar e o dobro interpola entre 0.6 e 0.75",
			magnitude: 0.15,
			threshold: 0.10,
			expected:  0.675,
		},
		{
			name:      "No dobro do limiar vale 0.75",
			magnitude: 0.20,
			threshold: 0.10,
			expected:  0.75,
		},
		{
			name:      "Acima do dobro sobe em direção a 0.95",
			magnitude: 0.30,
			threshold: 0.10,
			expected:  0.85,
		},
		{
			name:      "Saturação em quatro vezes o limiar",
			magnitude: 0.40,
			threshold: 0.10,
			expected:  0.95,
		},
		{
			name:            "Bônus de outlier soma 0.05",
			magnitude:       0.10,
			threshold:       0.10,
			outliersRemoved: true,
			expected:        0.65,
		},
		{
			name:          "Bônus de evidência soma 0.02 por ponto além do primeiro",
			magnitude:     0.10,
			threshold:     0.10,
			evidenceCount: 3,
			expected:      0.64,
		},
		{
			name:          "Bônus de evidência satura em 0.10",
			magnitude:     0.10,
			threshold:     0.10,
			evidenceCount: 20,
			expected:      0.70,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(tt.magnitude, tt.threshold, tt.outliersRemoved, tt.evidenceCount)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}

	t.Run("Resultado sempre dentro da banda, inclusive para magnitude infinita", func(t *testing.T) {
		for _, magnitude := range []float64{0, 0.001, 0.5, 10, 1e9, math.Inf(1)} {
			got := scorer.Score(magnitude, 0.10, true, 50)
			assert.GreaterOrEqual(t, got, 0.4)
			assert.LessOrEqual(t, got, 0.95)
		}
	})

	t.Run("Limiar inválido cai no piso", func(t *testing.T) {
		assert.Equal(t, 0.4, scorer.Score(0.3, 0, false, 1))
	})
}
