package domain

import "time"

// AnalysisRun agrupa todos os artefatos produzidos por uma execução do
// pipeline de análise. É o registro persistido no histórico de execuções
type AnalysisRun struct {
	ID             int64              `json:"id,omitempty"`
	RunID          string             `json:"run_id"`
	RunAt          time.Time          `json:"run_at"`
	DateRange      string             `json:"date_range"`
	Summary        *PeriodSummary     `json:"summary,omitempty"`
	Insights       *InsightsDocument  `json:"insights"`
	Validated      *ValidatedDocument `json:"validated"`
	Creatives      *CreativesDocument `json:"creatives,omitempty"`
	Drift          *DriftReport       `json:"drift,omitempty"`
	ReportMarkdown string             `json:"report_markdown,omitempty"`
	CreatedAt      time.Time          `json:"created_at,omitempty"`
}
