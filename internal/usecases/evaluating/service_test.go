package evaluating

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-insight-engine/internal/config"
	"github.com/vfg2006/campaign-insight-engine/internal/domain"
	"github.com/vfg2006/campaign-insight-engine/pkg/log"
)

func newTestService() *Service {
	log.SetupTestLogger()
	return NewService(config.NewTestConfig())
}

func TestServiceEvaluate_QuedaSeveraDeROAS(t *testing.T) {
	service := newTestService()

	insights := &domain.InsightsDocument{
		Insights: []*domain.Insight{
			{
				Hypothesis: "ROAS drop in campaign Campanha Verão is consistent with severe performance degradation.",
				Evidence: domain.Evidence{
					Campaign:      "Campanha Verão",
					BaselineValue: 10.0,
					CurrentValue:  6.0,
					AbsoluteDelta: -4.0,
					RelativeDelta: -0.4,
					Diagnosis:     "severe_performance_degradation + high_spend_inefficiency",
					Spend:         12000,
				},
				Confidence:    0.95,
				SchemaVersion: "2.0",
			},
		},
		SchemaVersion: "2.0",
	}

	doc := service.Evaluate(context.Background(), insights)

	require.Len(t, doc.Validated, 1)
	validated := doc.Validated[0]

	// impacto de receita 48000 < 50000 e |rel| 0.4 não excede 0.5: resolve na faixa high
	assert.Equal(t, domain.SeverityHigh, validated.Severity)

	require.NotNil(t, validated.StatisticalValidation)
	assert.True(t, validated.StatisticalValidation.IsSignificant)
	assert.Equal(t, "high", validated.StatisticalValidation.SignificanceLevel)
	assert.InDelta(t, 0.4, validated.StatisticalValidation.NormalizedChange, 1e-9)
	assert.Equal(t, "percentile_threshold", validated.StatisticalValidation.ValidationMethod)

	// +0.1 por significância high, teto em 1.0
	assert.Equal(t, 1.0, validated.Confidence)

	assert.Contains(t, validated.ValidationNotes, "Statistically significant (high) change detected")
	assert.Contains(t, validated.ValidationNotes, "Severity: high (revenue impact method)")
	assert.Equal(t, "2.0", validated.SchemaVersion)
}

func TestServiceEvaluate_EvidenciaVaziaNuncaFalha(t *testing.T) {
	service := newTestService()

	insights := &domain.InsightsDocument{
		Insights: []*domain.Insight{
			{
				Hypothesis: "Insight sem evidência",
				Evidence:   domain.Evidence{},
				Confidence: 0.5,
			},
		},
	}

	doc := service.Evaluate(context.Background(), insights)

	require.Len(t, doc.Validated, 1)
	validated := doc.Validated[0]

	assert.Equal(t, domain.SeverityLow, validated.Severity)
	assert.GreaterOrEqual(t, validated.Confidence, 0.0)
	assert.LessOrEqual(t, validated.Confidence, 1.0)
	assert.Equal(t, "unknown", validated.Evidence.Diagnosis)
	assert.Contains(t, validated.ValidationNotes, "below significance threshold")
}

func TestServiceEvaluate_InsightNuloViraResultadoDegradado(t *testing.T) {
	service := newTestService()

	insights := &domain.InsightsDocument{
		Insights: []*domain.Insight{nil},
	}

	doc := service.Evaluate(context.Background(), insights)

	require.Len(t, doc.Validated, 1)
	validated := doc.Validated[0]

	assert.Equal(t, 0.0, validated.Confidence)
	assert.Equal(t, domain.SeverityLow, validated.Severity)
	assert.Contains(t, validated.ValidationNotes, "Validation failed")
}

func TestServiceEvaluate_DocumentoNuloRetornaLoteVazio(t *testing.T) {
	service := newTestService()

	doc := service.Evaluate(context.Background(), nil)

	require.NotNil(t, doc)
	assert.Empty(t, doc.Validated)
	assert.Equal(t, "2.0", doc.SchemaVersion)
}

func TestServiceEvaluate_PreservaOrdemDoLote(t *testing.T) {
	service := newTestService()

	insights := &domain.InsightsDocument{
		Insights: []*domain.Insight{
			{Hypothesis: "primeiro", Evidence: domain.Evidence{RelativeDelta: -0.3, BaselineValue: 5, AbsoluteDelta: -1.5, Diagnosis: "moderate_performance_decline"}, Confidence: 0.7},
			{Hypothesis: "segundo", Evidence: domain.Evidence{RelativeDelta: -0.05, BaselineValue: 5, AbsoluteDelta: -0.25, Diagnosis: "performance_variance"}, Confidence: 0.5},
		},
	}

	doc := service.Evaluate(context.Background(), insights)

	require.Len(t, doc.Validated, 2)
	assert.Equal(t, "primeiro", doc.Validated[0].Hypothesis)
	assert.Equal(t, "segundo", doc.Validated[1].Hypothesis)
}
