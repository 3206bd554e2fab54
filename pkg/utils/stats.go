package utils

import (
	"math"
	"sort"
)

// RoundWithTwoDecimalPlace arredonda para duas casas decimais
func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// RoundWithFourDecimalPlace arredonda para quatro casas decimais
func RoundWithFourDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*10000) / 10000
}

// Mean calcula a média aritmética da amostra. Amostra vazia retorna 0
func Mean(sample []float64) float64 {
	if len(sample) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range sample {
		sum += v
	}

	return sum / float64(len(sample))
}

// Std calcula o desvio padrão populacional da amostra
func Std(sample []float64) float64 {
	if len(sample) == 0 {
		return 0
	}

	mean := Mean(sample)
	sumSq := 0.0
	for _, v := range sample {
		d := v - mean
		sumSq += d * d
	}

	return math.Sqrt(sumSq / float64(len(sample)))
}

// Median calcula a mediana da amostra
func Median(sample []float64) float64 {
	return Percentile(sample, 50)
}

// Percentile calcula o percentil p (0-100) com interpolação linear entre os
// valores mais próximos, sobre uma cópia ordenada da amostra
func Percentile(sample []float64, p float64) float64 {
	if len(sample) == 0 {
		return 0
	}

	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}

	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// PercentChange calcula a variação relativa entre dois valores:
// (current - previous) / |previous|. Casos indefinidos retornam o default:
//   - previous == 0 e current == 0: variação nula (0)
//   - previous == 0 e current != 0: indefinido, retorna default
//
// Quando os sinais se cruzam (previous < 0 e current > 0), a variação é
// interpretada em magnitude absoluta para preservar a semântica de queda
func PercentChange(current, previous, def float64) float64 {
	if current == 0 && previous == 0 {
		return 0
	}

	if previous == 0 {
		return def
	}

	if previous < 0 && current > 0 {
		return (math.Abs(current) - math.Abs(previous)) / math.Abs(previous)
	}

	return (current - previous) / math.Abs(previous)
}
