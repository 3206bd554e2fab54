package analyzing

import (
	"github.com/vfg2006/campaign-insight-engine/internal/domain"
	"github.com/vfg2006/campaign-insight-engine/internal/usecases/planning"
	"github.com/vfg2006/campaign-insight-engine/pkg/schema"
)

// Fallbacks degradados retornados quando um estágio esgota as tentativas.
// Todos carregam schema 2.0 para que a validação de saída continue passando

func fallbackPlan(query string) *planning.Plan {
	return &planning.Plan{
		Query: query,
		Steps: []string{"load_and_summarize_data"},
	}
}

func fallbackSummary() *domain.PeriodSummary {
	return &domain.PeriodSummary{
		DateRange:      "N/A",
		Campaigns:      []string{},
		OverallMetrics: &domain.OverallMetrics{},
		TopDrops: domain.TopDrops{
			ROASDropCampaigns: []*domain.DropRecord{},
			CTRDropCampaigns:  []*domain.DropRecord{},
		},
	}
}

func fallbackInsights() *domain.InsightsDocument {
	return &domain.InsightsDocument{
		Insights: []*domain.Insight{
			{
				Hypothesis:      "Unable to generate insights due to data or processing error.",
				Evidence:        domain.Evidence{},
				ExpectedImpact:  "Unknown",
				Confidence:      0.0,
				ConfidenceLevel: domain.ConfidenceLow,
				AnalysisType:    "error",
				SchemaVersion:   schema.Version,
			},
		},
		DecisionLogs:  []*domain.DecisionLog{},
		SchemaVersion: schema.Version,
	}
}

func fallbackValidated() *domain.ValidatedDocument {
	return &domain.ValidatedDocument{
		Validated: []*domain.ValidatedInsight{
			{
				Hypothesis:      "Unable to validate due to processing error",
				Confidence:      0.0,
				Severity:        domain.SeverityLow,
				ValidationNotes: "System error during validation",
				SchemaVersion:   schema.Version,
			},
		},
		SchemaVersion: schema.Version,
	}
}

func fallbackCreatives() *domain.CreativesDocument {
	return &domain.CreativesDocument{
		Creatives: []*domain.CreativeSet{
			{
				Campaign:             nil,
				Diagnosis:            "error",
				Rationale:            "An error occurred during creative generation",
				Issue:                "System error",
				Creatives:            []*domain.CreativeVariant{},
				RecommendedHeadlines: []string{"Please review data and retry"},
				RecommendedMessages:  []string{"An error occurred during creative generation"},
				CTA:                  nil,
				SchemaVersion:        schema.Version,
			},
		},
		SchemaVersion: schema.Version,
	}
}
