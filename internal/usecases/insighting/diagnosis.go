package insighting

import (
	"strings"

	"github.com/vfg2006/campaign-insight-engine/internal/domain"
)

// Tags de diagnóstico atribuídas aos registros de queda
const (
	DiagnosisSevereDegradation    = "severe_performance_degradation"
	DiagnosisModerateDecline      = "moderate_performance_decline"
	DiagnosisHighSpendInefficient = "high_spend_inefficiency"
	DiagnosisCreativeFatigue      = "creative_fatigue"
	DiagnosisAudienceSaturation   = "audience_saturation"
	DiagnosisEngagementDecline    = "engagement_decline"
	DiagnosisPerformanceVariance  = "performance_variance"
	DiagnosisStablePerformance    = "stable_performance"
	DiagnosisError                = "error"
)

// diagnosisRule é um par (predicado, tag). As regras de cada família são
// avaliadas em sequência fixa acumulando todas as tags que casarem, sem
// curto-circuito, para preservar co-ocorrências como
// "moderate_performance_decline + high_spend_inefficiency"
type diagnosisRule struct {
	matches func(*domain.DropRecord) bool
	tag     string
}

// Classifier atribui diagnósticos heurísticos de causa raiz por família de métrica
type Classifier struct {
	// HighSpendThreshold marca ineficiência de gasto nas quedas de ROAS
	HighSpendThreshold float64
}

func (c Classifier) roasRules() []diagnosisRule {
	return []diagnosisRule{
		{
			matches: func(r *domain.DropRecord) bool { return r.RelativeDelta <= -0.4 },
			tag:     DiagnosisSevereDegradation,
		},
		{
			matches: func(r *domain.DropRecord) bool { return r.RelativeDelta <= -0.2 },
			tag:     DiagnosisModerateDecline,
		},
		{
			matches: func(r *domain.DropRecord) bool { return r.Spend > c.HighSpendThreshold },
			tag:     DiagnosisHighSpendInefficient,
		},
	}
}

func (c Classifier) ctrRules() []diagnosisRule {
	return []diagnosisRule{
		{
			// CTR caindo com impressões estáveis ou subindo: o público vê mas não clica
			matches: func(r *domain.DropRecord) bool {
				return r.RelativeDelta < -0.15 && r.ImpressionsChange > -0.05
			},
			tag: DiagnosisCreativeFatigue,
		},
		{
			// CTR e impressões caindo juntos: alcance esgotado
			matches: func(r *domain.DropRecord) bool {
				return r.RelativeDelta < -0.15 && r.ImpressionsChange < -0.1
			},
			tag: DiagnosisAudienceSaturation,
		},
		{
			matches: func(r *domain.DropRecord) bool { return true },
			tag:     DiagnosisEngagementDecline,
		},
	}
}

// Diagnose avalia as regras da família na ordem definida e retorna as tags
// acumuladas, unidas por " + ". Sem regra casada, o diagnóstico é
// "performance_variance"
func (c Classifier) Diagnose(record *domain.DropRecord, family domain.MetricFamily) string {
	var rules []diagnosisRule
	switch family {
	case domain.MetricROAS:
		rules = c.roasRules()
	case domain.MetricCTR:
		rules = c.ctrRules()
	}

	tags := []string{}
	for _, rule := range rules {
		if rule.matches(record) {
			tags = append(tags, rule.tag)
			// na família CTR as condições são disjuntas; a regra "otherwise"
			// só vale quando nenhuma anterior casou
			if family == domain.MetricCTR {
				break
			}
		}
	}

	if len(tags) == 0 {
		return DiagnosisPerformanceVariance
	}

	return strings.Join(tags, " + ")
}
