package domain

// ConfidenceLevel é a faixa qualitativa derivada do valor numérico de confiança
type ConfidenceLevel string

const (
	ConfidenceHigh     ConfidenceLevel = "high"
	ConfidenceModerate ConfidenceLevel = "moderate"
	ConfidenceLow      ConfidenceLevel = "low"
)

// LevelFromConfidence deriva a faixa de confiança a partir do valor em [0,1].
// As mesmas bandas são usadas na atualização de schema legado
func LevelFromConfidence(confidence float64) ConfidenceLevel {
	switch {
	case confidence > 0.7:
		return ConfidenceHigh
	case confidence > 0.5:
		return ConfidenceModerate
	default:
		return ConfidenceLow
	}
}

// Evidence carrega os dados que sustentam uma hipótese. É criada uma única vez
// pelo gerador de insights e lida pelos estágios seguintes
type Evidence struct {
	Campaign      string  `json:"campaign,omitempty"`
	BaselineValue float64 `json:"baseline_value"`
	CurrentValue  float64 `json:"current_value"`
	AbsoluteDelta float64 `json:"absolute_delta"`
	RelativeDelta float64 `json:"relative_delta"`
	Diagnosis     string  `json:"diagnosis"`
	Spend         float64 `json:"spend,omitempty"`
	// ImpressionsChange só aparece em evidências de CTR
	ImpressionsChange *float64 `json:"impressions_change,omitempty"`
	// Error carrega a mensagem de falha quando o insight é o sentinela de erro
	Error string `json:"error,omitempty"`
}

// Insight é uma hipótese ranqueada sobre a variação de desempenho de uma campanha
type Insight struct {
	Hypothesis      string          `json:"hypothesis"`
	Evidence        Evidence        `json:"evidence"`
	ExpectedImpact  string          `json:"expected_impact"`
	Confidence      float64         `json:"confidence"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
	AnalysisType    string          `json:"analysis_type"`
	SchemaVersion   string          `json:"schema_version"`
}

// DecisionLog registra a decisão tomada para cada registro de queda analisado,
// servindo de trilha de auditoria do gerador de insights
type DecisionLog struct {
	Campaign      string       `json:"campaign"`
	Metric        MetricFamily `json:"metric"`
	Trigger       string       `json:"trigger"`
	Diagnosis     string       `json:"diagnosis"`
	BaselineValue float64      `json:"baseline_value"`
	CurrentValue  float64      `json:"current_value"`
}

// InsightsDocument é o contrato de saída do gerador de insights (schema 2.0)
type InsightsDocument struct {
	Insights      []*Insight     `json:"insights"`
	DecisionLogs  []*DecisionLog `json:"decision_logs"`
	SchemaVersion string         `json:"schema_version"`
}
