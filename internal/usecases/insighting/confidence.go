package insighting

// ConfidenceScorer mapeia a magnitude da variação, relativa ao limiar da
// família, em um valor de confiança limitado à banda [Min, Max]
type ConfidenceScorer struct {
	Min float64
	Max float64
}

// Score calcula a confiança de um insight. A curva é composta por três
// segmentos lineares: abaixo do limiar sobe de 0.4 a 0.6; entre o limiar e o
// dobro sobe de 0.6 a 0.75; acima do dobro sobe até o teto de 0.95, saturando
// em quatro vezes o limiar. Bônus: +0.05 quando outliers foram removidos da
// amostra e até +0.10 por volume de evidência (+0.02 por ponto além do primeiro)
func (s ConfidenceScorer) Score(magnitude, threshold float64, outliersRemoved bool, evidenceCount int) float64 {
	if threshold <= 0 {
		return s.Min
	}

	var confidence float64
	switch {
	case magnitude < threshold:
		confidence = 0.4 + (magnitude/threshold)*0.2
	case magnitude < 2*threshold:
		confidence = 0.6 + ((magnitude-threshold)/threshold)*0.15
	default:
		extra := (magnitude - 2*threshold) / (2 * threshold)
		if extra > 1 {
			extra = 1
		}
		confidence = 0.75 + extra*0.2
	}

	if outliersRemoved {
		confidence += 0.05
	}

	if evidenceCount > 1 {
		bonus := 0.02 * float64(evidenceCount-1)
		if bonus > 0.10 {
			bonus = 0.10
		}
		confidence += bonus
	}

	if confidence < s.Min {
		confidence = s.Min
	}
	if confidence > s.Max {
		confidence = s.Max
	}

	return confidence
}
