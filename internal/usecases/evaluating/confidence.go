package evaluating

import (
	"github.com/vfg2006/campaign-insight-engine/internal/domain"
	"github.com/vfg2006/campaign-insight-engine/pkg/utils"
)

// NormalizeConfidence reconcilia a confiança original do gerador com o
// veredito estatístico: +0.1 (teto 1.0) quando a significância é "high",
// -0.2 (piso 0.0) quando o veredito é não-significativo. Os dois ajustes podem
// se aplicar em sequência; o resultado é arredondado para duas casas
func NormalizeConfidence(original float64, validation *domain.StatisticalValidation) float64 {
	confidence := original

	if validation.SignificanceLevel == "high" {
		confidence += 0.1
		if confidence > 1.0 {
			confidence = 1.0
		}
	}

	if !validation.IsSignificant {
		confidence -= 0.2
		if confidence < 0.0 {
			confidence = 0.0
		}
	}

	return utils.RoundWithTwoDecimalPlace(confidence)
}
