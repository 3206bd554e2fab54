package analyzing

import (
	"fmt"
	"strings"

	"github.com/vfg2006/campaign-insight-engine/internal/domain"
	"github.com/vfg2006/campaign-insight-engine/pkg/utils"
)

// BuildReport monta o relatório markdown da execução a partir dos quatro
// documentos produzidos pelo pipeline
func BuildReport(
	summary *domain.PeriodSummary,
	insights *domain.InsightsDocument,
	validated *domain.ValidatedDocument,
	creatives *domain.CreativesDocument,
) string {
	var b strings.Builder

	b.WriteString("# Campaign Performance Report\n\n")
	b.WriteString(fmt.Sprintf("**Date Range:** %s\n\n", orNA(summary.DateRange)))

	b.WriteString("## Overall Metrics\n")
	writeMetric(&b, "avg_ctr", summary.OverallMetrics.AvgCTR)
	writeMetric(&b, "avg_roas", summary.OverallMetrics.AvgROAS)
	writeMetric(&b, "total_spend", summary.OverallMetrics.TotalSpend)
	writeMetric(&b, "total_revenue", summary.OverallMetrics.TotalRevenue)

	b.WriteString("\n## Key Insights\n")
	for _, ins := range insights.Insights {
		b.WriteString(fmt.Sprintf("- **Hypothesis:** %s\n", ins.Hypothesis))
		b.WriteString(fmt.Sprintf("  - Confidence: %v [%s]\n", ins.Confidence, ins.ConfidenceLevel))
		b.WriteString(fmt.Sprintf("  - Evidence: %s\n", utils.PrettyJSON(ins.Evidence)))
		b.WriteString(fmt.Sprintf("  - Expected Impact: %s\n\n", orNA(ins.ExpectedImpact)))
	}

	b.WriteString("\n## Validated Insights\n")
	for _, v := range validated.Validated {
		b.WriteString(fmt.Sprintf("- %s\n", v.Hypothesis))
		b.WriteString(fmt.Sprintf("  - Confidence: %v\n", v.Confidence))
		b.WriteString(fmt.Sprintf("  - Severity: %s\n", v.Severity))
		b.WriteString(fmt.Sprintf("  - Notes: %s\n\n", orNA(v.ValidationNotes)))
	}

	b.WriteString("\n## Creative Recommendations\n")
	for _, c := range creatives.Creatives {
		campaign := "Unknown"
		if c.Campaign != nil {
			campaign = *c.Campaign
		}
		b.WriteString(fmt.Sprintf("- **Campaign:** %s\n", campaign))
		b.WriteString(fmt.Sprintf("  - Issue: %s\n", orNA(c.Issue)))
		b.WriteString(fmt.Sprintf("  - Headlines: %s\n", strings.Join(c.RecommendedHeadlines, " | ")))
		b.WriteString(fmt.Sprintf("  - Messages: %s\n", strings.Join(c.RecommendedMessages, " | ")))
		cta := "N/A"
		if c.CTA != nil {
			cta = *c.CTA
		}
		b.WriteString(fmt.Sprintf("  - CTA: %s\n\n", cta))
	}

	return b.String()
}

func writeMetric(b *strings.Builder, name string, value *float64) {
	if value == nil {
		b.WriteString(fmt.Sprintf("- **%s**: N/A\n", name))
		return
	}
	b.WriteString(fmt.Sprintf("- **%s**: %v\n", name, *value))
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}
