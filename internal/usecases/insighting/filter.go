package insighting

import (
	"math"

	"github.com/vfg2006/campaign-insight-engine/pkg/utils"
)

// OutlierFilter remove valores extremos de uma amostra de deltas antes do
// cálculo do limiar adaptativo, retendo apenas a faixa entre os percentis
// configurados (default p10-p90)
type OutlierFilter struct {
	LowerPct float64
	UpperPct float64
}

// Filter retorna a amostra filtrada e a quantidade de valores removidos.
// Amostras com menos de 2 valores voltam inalteradas. Qualquer resultado
// degenerado do cálculo de percentis devolve a amostra original; o filtro
// nunca falha
func (f OutlierFilter) Filter(sample []float64) ([]float64, int) {
	if len(sample) < 2 {
		return sample, 0
	}

	lower := utils.Percentile(sample, f.LowerPct)
	upper := utils.Percentile(sample, f.UpperPct)
	if math.IsNaN(lower) || math.IsNaN(upper) || lower > upper {
		return sample, 0
	}

	filtered := make([]float64, 0, len(sample))
	for _, v := range sample {
		if v >= lower && v <= upper {
			filtered = append(filtered, v)
		}
	}

	return filtered, len(sample) - len(filtered)
}
