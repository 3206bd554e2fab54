package insighting

import (
	"math"

	"github.com/vfg2006/campaign-insight-engine/pkg/utils"
)

// ThresholdCalculator deriva o limiar de significância a partir do coeficiente
// de variação (CV) da amostra já filtrada. Dados estáveis permitem um limiar
// mais rígido; dados ruidosos exigem um limiar relaxado
type ThresholdCalculator struct {
	Default    float64
	Strict     float64
	Relaxed    float64
	LowCVBand  float64
	HighCVBand float64
}

// Calculate seleciona o limiar pela banda de CV (desvio padrão populacional
// dividido pela média absoluta). Amostras com menos de 2 valores ou média
// zero caem no limiar padrão; o cálculo nunca falha
func (c ThresholdCalculator) Calculate(sample []float64) float64 {
	if len(sample) < 2 {
		return c.Default
	}

	mean := utils.Mean(sample)
	if mean == 0 {
		return c.Default
	}

	cv := utils.Std(sample) / math.Abs(mean)
	if math.IsNaN(cv) || math.IsInf(cv, 0) {
		return c.Default
	}

	switch {
	case cv < c.LowCVBand:
		return c.Strict
	case cv < c.HighCVBand:
		return c.Default
	default:
		return c.Relaxed
	}
}
