package domain

// MetricFamily identifica a família de métrica analisada pelo motor de insights
type MetricFamily string

const (
	MetricROAS MetricFamily = "roas"
	MetricCTR  MetricFamily = "ctr"
)

// SchemaVersion é a versão vigente do contrato de saída dos documentos
const SchemaVersion = "2.0"

// OverallMetrics agrega as métricas gerais do período. Os campos são ponteiros
// porque o coletor de dados pode não conseguir calculá-los (colunas ausentes)
type OverallMetrics struct {
	AvgCTR       *float64 `json:"avg_ctr"`
	AvgROAS      *float64 `json:"avg_roas"`
	TotalSpend   *float64 `json:"total_spend"`
	TotalRevenue *float64 `json:"total_revenue"`
}

// DropRecord representa uma campanha cuja métrica caiu no período recente
// em relação ao período imediatamente anterior de mesma duração
type DropRecord struct {
	Campaign      string  `json:"campaign"`
	BaselineValue float64 `json:"baseline_value"`
	CurrentValue  float64 `json:"current_value"`
	AbsoluteDelta float64 `json:"absolute_delta"`
	RelativeDelta float64 `json:"relative_delta"`
	// Spend só é preenchido para quedas de ROAS
	Spend float64 `json:"spend,omitempty"`
	// ImpressionsChange é o sinal auxiliar de impressões, usado apenas para CTR
	ImpressionsChange float64 `json:"impressions_change,omitempty"`
}

// TopDrops agrupa os registros de queda por família de métrica
type TopDrops struct {
	ROASDropCampaigns []*DropRecord `json:"roas_drop_campaigns"`
	CTRDropCampaigns  []*DropRecord `json:"ctr_drop_campaigns"`
}

// PeriodSummary é o resumo do período produzido pelo carregador de dados e
// consumido por todo o motor de análise
type PeriodSummary struct {
	DateRange      string          `json:"date_range"`
	Campaigns      []string        `json:"campaigns"`
	OverallMetrics *OverallMetrics `json:"overall_metrics"`
	TopDrops       TopDrops        `json:"top_drops"`
}

// DropsByFamily retorna os registros de queda da família informada
func (s *PeriodSummary) DropsByFamily(family MetricFamily) []*DropRecord {
	switch family {
	case MetricROAS:
		return s.TopDrops.ROASDropCampaigns
	case MetricCTR:
		return s.TopDrops.CTRDropCampaigns
	}
	return nil
}
