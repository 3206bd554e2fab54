package insighting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/campaign-insight-engine/internal/domain"
)

func TestClassifierDiagnoseROAS(t *testing.T) {
	classifier := Classifier{HighSpendThreshold: 5000}

	tests := []struct {
		name     string
		record   *domain.DropRecord
		expected string
	}{
		{
			name:     "Queda severa acumula também a tag moderada",
			record:   &domain.DropRecord{RelativeDelta: -0.45},
			expected: "severe_performance_degradation + moderate_performance_decline",
		},
		{
			name:     "Queda exatamente em -0.4 conta como severa",
			record:   &domain.DropRecord{RelativeDelta: -0.4},
			expected: "severe_performance_degradation + moderate_performance_decline",
		},
		{
			name:     "Queda moderada isolada",
			record:   &domain.DropRecord{RelativeDelta: -0.25},
			expected: "moderate_performance_decline",
		},
		{
			name:     "Queda moderada com gasto alto acumula ineficiência",
			record:   &domain.DropRecord{RelativeDelta: -0.25, Spend: 8000},
			expected: "moderate_performance_decline + high_spend_inefficiency",
		},
		{
			name:     "Queda leve com gasto alto marca só ineficiência",
			record:   &domain.DropRecord{RelativeDelta: -0.12, Spend: 8000},
			expected: "high_spend_inefficiency",
		},
		{
			name:     "Queda leve sem gasto alto vira variância",
			record:   &domain.DropRecord{RelativeDelta: -0.12, Spend: 1000},
			expected: "performance_variance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Diagnose(tt.record, domain.MetricROAS))
		})
	}
}

func TestClassifierDiagnoseCTR(t *testing.T) {
	classifier := Classifier{HighSpendThreshold: 5000}

	tests := []struct {
		name     string
		record   *domain.DropRecord
		expected string
	}{
		{
			name:     "CTR caindo com impressões estáveis é fadiga de criativo",
			record:   &domain.DropRecord{RelativeDelta: -0.2, ImpressionsChange: 0.01},
			expected: "creative_fatigue",
		},
		{
			name:     "CTR e impressões caindo juntos é saturação de audiência",
			record:   &domain.DropRecord{RelativeDelta: -0.2, ImpressionsChange: -0.15},
			expected: "audience_saturation",
		},
		{
			name:     "Queda leve cai na regra residual de engajamento",
			record:   &domain.DropRecord{RelativeDelta: -0.1, ImpressionsChange: -0.02},
			expected: "engagement_decline",
		},
		{
			name:     "Impressões na zona morta caem na regra residual",
			record:   &domain.DropRecord{RelativeDelta: -0.2, ImpressionsChange: -0.07},
			expected: "engagement_decline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Diagnose(tt.record, domain.MetricCTR))
		})
	}
}
