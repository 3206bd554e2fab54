package domain

// CampaignStats resume o conjunto de campanhas observado em uma execução
type CampaignStats struct {
	Count int      `json:"count"`
	List  []string `json:"list"`
}

// DropCounts contabiliza os registros de queda por família de métrica
type DropCounts struct {
	ROASCount int `json:"roas_count"`
	CTRCount  int `json:"ctr_count"`
}

// ChangeStats guarda as estatísticas distribucionais de uma amostra de
// deltas relativos (quedas de uma família de métrica)
type ChangeStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q10    float64 `json:"q10"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
	Q90    float64 `json:"q90"`
	Count  int     `json:"count"`
}

// SnapshotStats é o retrato estatístico de uma execução. O baseline persistido
// e o snapshot corrente compartilham este formato; o arquivo de baseline é
// sobrescrito por inteiro a cada atualização
type SnapshotStats struct {
	RunTimestamp     string                        `json:"run_timestamp"`
	Campaigns        CampaignStats                 `json:"campaigns"`
	PerformanceDrops DropCounts                    `json:"performance_drops"`
	OverallMetrics   map[string]float64            `json:"overall_metrics,omitempty"`
	MetricChanges    map[MetricFamily]*ChangeStats `json:"metric_changes,omitempty"`
}

// DriftSeverity é o grau de desvio detectado em relação ao baseline
type DriftSeverity string

const (
	DriftNone   DriftSeverity = "none"
	DriftMedium DriftSeverity = "medium"
	DriftHigh   DriftSeverity = "high"
)

// DriftDetection é um desvio individual detectado entre baseline e execução atual
type DriftDetection struct {
	Type     string        `json:"type"`
	Baseline float64       `json:"baseline"`
	Current  float64       `json:"current"`
	DriftPct float64       `json:"drift_pct"`
	Severity DriftSeverity `json:"severity"`
}

// DriftReport consolida as detecções de drift de uma execução. É efêmero:
// produzido e consumido dentro de uma mesma execução
type DriftReport struct {
	HasDrift   bool              `json:"has_drift"`
	Severity   DriftSeverity     `json:"severity"`
	Detections []*DriftDetection `json:"detections"`
}
