package domain

// Severity é a faixa de impacto de negócio, distinta da confiança estatística
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// StatisticalValidation é o veredito da checagem independente de significância
type StatisticalValidation struct {
	IsSignificant     bool    `json:"is_significant"`
	SignificanceLevel string  `json:"significance_level"`
	NormalizedChange  float64 `json:"normalized_change"`
	ValidationMethod  string  `json:"validation_method"`
}

// ValidatedInsight envolve a hipótese e a evidência de um Insight com o
// resultado da avaliação. Nunca é mutado após a criação
type ValidatedInsight struct {
	Hypothesis            string                 `json:"hypothesis"`
	Evidence              Evidence               `json:"evidence"`
	Confidence            float64                `json:"confidence"`
	Severity              Severity               `json:"severity"`
	ValidationNotes       string                 `json:"validation_notes"`
	StatisticalValidation *StatisticalValidation `json:"statistical_validation,omitempty"`
	SchemaVersion         string                 `json:"schema_version"`
}

// ValidatedDocument é o contrato de saída do avaliador (schema 2.0)
type ValidatedDocument struct {
	Validated     []*ValidatedInsight `json:"validated"`
	SchemaVersion string              `json:"schema_version"`
}
