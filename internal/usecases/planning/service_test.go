package planning_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-insight-engine/internal/usecases/planning"
)

func TestPlan(t *testing.T) {
	planner := planning.NewService()

	tests := []struct {
		name          string
		query         string
		expectedSteps []string
	}{
		{
			name:  "Consulta genérica gera o plano base de sete etapas",
			query: "Analyze campaign performance",
			expectedSteps: []string{
				"load_and_summarize_data",
				"analyze_roas_trend",
				"identify_top_underperformers",
				"generate_hypotheses",
				"validate_hypotheses",
				"generate_creative_recommendations",
				"save_outputs",
			},
		},
		{
			name:  "Consulta mencionando ROAS insere a etapa de série temporal",
			query: "Why did ROAS drop last week?",
			expectedSteps: []string{
				"load_and_summarize_data",
				"focus_on_roas_time_series",
				"analyze_roas_trend",
				"identify_top_underperformers",
				"generate_hypotheses",
				"validate_hypotheses",
				"generate_creative_recommendations",
				"save_outputs",
			},
		},
		{
			name:  "Detecção de ROAS ignora caixa",
			query: "roas trend please",
			expectedSteps: []string{
				"load_and_summarize_data",
				"focus_on_roas_time_series",
				"analyze_roas_trend",
				"identify_top_underperformers",
				"generate_hypotheses",
				"validate_hypotheses",
				"generate_creative_recommendations",
				"save_outputs",
			},
		},
		{
			name:  "Consulta vazia ainda gera o plano base",
			query: "",
			expectedSteps: []string{
				"load_and_summarize_data",
				"analyze_roas_trend",
				"identify_top_underperformers",
				"generate_hypotheses",
				"validate_hypotheses",
				"generate_creative_recommendations",
				"save_outputs",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := planner.Plan(context.Background(), tt.query)

			require.NotNil(t, plan)
			assert.Equal(t, tt.query, plan.Query)
			assert.Equal(t, tt.expectedSteps, plan.Steps)
		})
	}
}

func TestPlanDoesNotMutateBaseSteps(t *testing.T) {
	planner := planning.NewService()

	withFocus := planner.Plan(context.Background(), "roas")
	plain := planner.Plan(context.Background(), "performance")

	assert.Len(t, withFocus.Steps, 8)
	assert.Len(t, plain.Steps, 7)
	assert.Equal(t, "analyze_roas_trend", plain.Steps[1])
}
