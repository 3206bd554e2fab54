package evaluating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/campaign-insight-engine/internal/domain"
)

func TestSignificanceValidator(t *testing.T) {
	validator := SignificanceValidator{
		SevereThreshold:   0.25,
		ModerateThreshold: 0.15,
	}

	tests := []struct {
		name                string
		evidence            domain.Evidence
		expectedSignificant bool
		expectedLevel       string
		expectedNormalized  float64
	}{
		{
			name: "Variação acima do limiar severo é significativa com nível high",
			evidence: domain.Evidence{
				BaselineValue: 10,
				AbsoluteDelta: -4,
				RelativeDelta: -0.4,
			},
			expectedSignificant: true,
			expectedLevel:       "high",
			expectedNormalized:  0.4,
		},
		{
			name: "Variação entre os limiares é significativa com nível moderate",
			evidence: domain.Evidence{
				BaselineValue: 10,
				AbsoluteDelta: -2,
				RelativeDelta: -0.2,
			},
			expectedSignificant: true,
			expectedLevel:       "moderate",
			expectedNormalized:  0.2,
		},
		{
			name: "Variação abaixo do limiar moderado não é significativa",
			evidence: domain.Evidence{
				BaselineValue: 10,
				AbsoluteDelta: -1,
				RelativeDelta: -0.1,
			},
			expectedSignificant: false,
			expectedLevel:       "moderate",
			expectedNormalized:  0.1,
		},
		{
			name: "Baseline zero usa o delta relativo direto",
			evidence: domain.Evidence{
				BaselineValue: 0,
				AbsoluteDelta: -3,
				RelativeDelta: -0.3,
			},
			expectedSignificant: true,
			expectedLevel:       "high",
			expectedNormalized:  0.3,
		},
		{
			name:                "Evidência vazia não é significativa",
			evidence:            domain.Evidence{},
			expectedSignificant: false,
			expectedLevel:       "moderate",
			expectedNormalized:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validation := validator.Validate(tt.evidence)

			assert.Equal(t, tt.expectedSignificant, validation.IsSignificant)
			assert.Equal(t, tt.expectedLevel, validation.SignificanceLevel)
			assert.InDelta(t, tt.expectedNormalized, validation.NormalizedChange, 1e-9)
			assert.Equal(t, "percentile_threshold", validation.ValidationMethod)
		})
	}
}

func TestNormalizeConfidence(t *testing.T) {
	tests := []struct {
		name       string
		original   float64
		validation *domain.StatisticalValidation
		expected   float64
	}{
		{
			name:       "Significância high soma 0.1",
			original:   0.8,
			validation: &domain.StatisticalValidation{IsSignificant: true, SignificanceLevel: "high"},
			expected:   0.9,
		},
		{
			name:       "Significância high satura em 1.0",
			original:   0.95,
			validation: &domain.StatisticalValidation{IsSignificant: true, SignificanceLevel: "high"},
			expected:   1.0,
		},
		{
			name:       "Não significativo subtrai 0.2",
			original:   0.6,
			validation: &domain.StatisticalValidation{IsSignificant: false, SignificanceLevel: "moderate"},
			expected:   0.4,
		},
		{
			name:       "Não significativo tem piso em 0.0",
			original:   0.1,
			validation: &domain.StatisticalValidation{IsSignificant: false, SignificanceLevel: "moderate"},
			expected:   0.0,
		},
		{
			name:       "High e não significativo aplicam os dois ajustes",
			original:   0.5,
			validation: &domain.StatisticalValidation{IsSignificant: false, SignificanceLevel: "high"},
			expected:   0.4,
		},
		{
			name:       "Significativo moderate não ajusta",
			original:   0.7,
			validation: &domain.StatisticalValidation{IsSignificant: true, SignificanceLevel: "moderate"},
			expected:   0.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeConfidence(tt.original, tt.validation))
		})
	}
}
