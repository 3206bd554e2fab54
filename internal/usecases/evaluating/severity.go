package evaluating

import (
	"math"

	"github.com/vfg2006/campaign-insight-engine/internal/domain"
)

// SeverityClassifier mapeia a evidência para uma faixa de impacto de negócio.
// Os limiares vêm de configuração, não de constantes
type SeverityClassifier struct {
	SevereThreshold       float64
	ModerateThreshold     float64
	HighSpendThreshold    float64
	CriticalRevenueImpact float64
	CriticalRelativeDelta float64
}

// Classify é uma função total: qualquer evidência, mesmo com campos ausentes
// ou zerados, resolve para exatamente uma faixa. Primeira regra que casar vence
func (c SeverityClassifier) Classify(evidence domain.Evidence) domain.Severity {
	relativeDelta := math.Abs(evidence.RelativeDelta)
	absoluteDelta := math.Abs(evidence.AbsoluteDelta)

	// Impacto de receita estimado: |delta absoluto × gasto|, zero quando o
	// baseline é zero (sem referência de escala)
	revenueImpact := 0.0
	if evidence.BaselineValue != 0 {
		revenueImpact = math.Abs(absoluteDelta * evidence.Spend)
	}

	switch {
	case revenueImpact > c.CriticalRevenueImpact || relativeDelta > c.CriticalRelativeDelta:
		return domain.SeverityCritical
	case relativeDelta > c.SevereThreshold || evidence.Spend > c.HighSpendThreshold:
		return domain.SeverityHigh
	case relativeDelta > c.ModerateThreshold:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

// RevenueImpact expõe a estimativa usada na classificação, para as notas de validação
func (c SeverityClassifier) RevenueImpact(evidence domain.Evidence) float64 {
	if evidence.BaselineValue == 0 {
		return 0
	}
	return math.Abs(evidence.AbsoluteDelta * evidence.Spend)
}
