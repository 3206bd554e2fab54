package evaluating

import (
	"math"

	"github.com/vfg2006/campaign-insight-engine/internal/domain"
	"github.com/vfg2006/campaign-insight-engine/pkg/utils"
)

// SignificanceValidator é a segunda checagem, independente do teste de
// magnitude do gerador, sobre a evidência de um insight. As duas definições de
// "significativo" são ajustáveis separadamente e podem discordar sobre o mesmo
// registro; isso é intencional e não deve ser unificado
type SignificanceValidator struct {
	SevereThreshold   float64
	ModerateThreshold float64
}

// Validate calcula a variação normalizada (|delta absoluto| / |baseline|, ou o
// delta relativo direto quando o baseline é zero) e produz o veredito de
// significância: significativo acima do limiar moderado, nível "high" acima do
// limiar severo
func (v SignificanceValidator) Validate(evidence domain.Evidence) *domain.StatisticalValidation {
	var normalized float64
	if evidence.BaselineValue != 0 {
		normalized = math.Abs(evidence.AbsoluteDelta / evidence.BaselineValue)
	} else {
		normalized = math.Abs(evidence.RelativeDelta)
	}

	level := "moderate"
	if normalized > v.SevereThreshold {
		level = "high"
	}

	return &domain.StatisticalValidation{
		IsSignificant:     normalized > v.ModerateThreshold,
		SignificanceLevel: level,
		NormalizedChange:  utils.RoundWithFourDecimalPlace(normalized),
		ValidationMethod:  "percentile_threshold",
	}
}
