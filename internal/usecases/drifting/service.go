package drifting

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-insight-engine/internal/config"
	"github.com/vfg2006/campaign-insight-engine/internal/domain"
	"github.com/vfg2006/campaign-insight-engine/pkg/utils"
)

// Detector compara as estatísticas agregadas da execução corrente com o
// baseline persistido e reporta desvios por sinal
type Detector interface {
	ComputeStats(summary *domain.PeriodSummary) *domain.SnapshotStats
	DetectDrift(current *domain.SnapshotStats) *domain.DriftReport
	SaveBaseline(stats *domain.SnapshotStats) error
	HasBaseline() bool
}

// Service implementa o detector de drift. O baseline é lido uma única vez na
// construção e gravado no máximo uma vez por execução
type Service struct {
	cfg      *config.Config
	store    BaselineStore
	baseline *domain.SnapshotStats
}

// NewService cria o detector carregando o baseline do store injetado. A
// ausência de baseline (primeira execução) não é erro: as comparações são
// simplesmente puladas
func NewService(cfg *config.Config, store BaselineStore) *Service {
	baseline, err := store.Load()
	if err != nil {
		logrus.WithError(err).Warn("Falha ao carregar baseline; iniciando sem referência")
		baseline = nil
	}

	if baseline == nil {
		logrus.Info("Baseline não encontrado; primeira execução sem comparação de drift")
	}

	return &Service{
		cfg:      cfg,
		store:    store,
		baseline: baseline,
	}
}

// HasBaseline indica se existe um baseline carregado para comparação
func (s *Service) HasBaseline() bool {
	return s.baseline != nil
}

// ComputeStats deriva o snapshot estatístico da execução corrente a partir do
// resumo do período
func (s *Service) ComputeStats(summary *domain.PeriodSummary) *domain.SnapshotStats {
	stats := &domain.SnapshotStats{
		RunTimestamp:   time.Now().Format(time.RFC3339),
		OverallMetrics: map[string]float64{},
		MetricChanges:  map[domain.MetricFamily]*domain.ChangeStats{},
	}

	if summary == nil {
		return stats
	}

	stats.Campaigns = domain.CampaignStats{
		Count: len(summary.Campaigns),
		List:  summary.Campaigns,
	}
	stats.PerformanceDrops = domain.DropCounts{
		ROASCount: len(summary.TopDrops.ROASDropCampaigns),
		CTRCount:  len(summary.TopDrops.CTRDropCampaigns),
	}

	if m := summary.OverallMetrics; m != nil {
		if m.AvgCTR != nil {
			stats.OverallMetrics["avg_ctr"] = *m.AvgCTR
		}
		if m.AvgROAS != nil {
			stats.OverallMetrics["avg_roas"] = *m.AvgROAS
		}
		if m.TotalSpend != nil {
			stats.OverallMetrics["total_spend"] = *m.TotalSpend
		}
		if m.TotalRevenue != nil {
			stats.OverallMetrics["total_revenue"] = *m.TotalRevenue
		}
	}

	for _, family := range []domain.MetricFamily{domain.MetricROAS, domain.MetricCTR} {
		records := summary.DropsByFamily(family)
		if len(records) == 0 {
			continue
		}

		sample := make([]float64, 0, len(records))
		for _, record := range records {
			sample = append(sample, record.RelativeDelta)
		}

		stats.MetricChanges[family] = &domain.ChangeStats{
			Mean:   utils.Mean(sample),
			Median: utils.Median(sample),
			Std:    utils.Std(sample),
			Min:    minOf(sample),
			Max:    maxOf(sample),
			Q10:    utils.Percentile(sample, 10),
			Q25:    utils.Percentile(sample, 25),
			Q75:    utils.Percentile(sample, 75),
			Q90:    utils.Percentile(sample, 90),
			Count:  len(sample),
		}
	}

	return stats
}

// DetectDrift compara o snapshot corrente com o baseline. Sem baseline, o
// relatório é sempre livre de drift
func (s *Service) DetectDrift(current *domain.SnapshotStats) *domain.DriftReport {
	report := &domain.DriftReport{
		HasDrift:   false,
		Severity:   domain.DriftNone,
		Detections: []*domain.DriftDetection{},
	}

	if s.baseline == nil || current == nil {
		return report
	}

	s.compare(report, "campaign_count",
		float64(s.baseline.Campaigns.Count), float64(current.Campaigns.Count))
	s.compare(report, "roas_drop_count",
		float64(s.baseline.PerformanceDrops.ROASCount), float64(current.PerformanceDrops.ROASCount))
	s.compare(report, "ctr_drop_count",
		float64(s.baseline.PerformanceDrops.CTRCount), float64(current.PerformanceDrops.CTRCount))

	for _, family := range []domain.MetricFamily{domain.MetricROAS, domain.MetricCTR} {
		baseChanges := s.baseline.MetricChanges[family]
		currChanges := current.MetricChanges[family]
		if baseChanges == nil || currChanges == nil {
			continue
		}
		s.compare(report, fmt.Sprintf("%s_changes_mean", family), baseChanges.Mean, currChanges.Mean)
	}

	if len(report.Detections) > 0 {
		report.HasDrift = true
		report.Severity = domain.DriftMedium
		for _, detection := range report.Detections {
			if detection.Severity == domain.DriftHigh {
				report.Severity = domain.DriftHigh
				break
			}
		}
	}

	return report
}

// compare registra uma detecção quando o desvio relativo entre baseline e
// valor corrente excede o limiar configurado. Baselines zerados são pulados
// (sem referência de escala)
func (s *Service) compare(report *domain.DriftReport, signalType string, baseline, current float64) {
	if baseline == 0 {
		return
	}

	drift := math.Abs(current-baseline) / math.Abs(baseline)
	if drift <= s.cfg.Drift.Threshold {
		return
	}

	severity := domain.DriftMedium
	if drift > s.cfg.Drift.HighSeverityThreshold {
		severity = domain.DriftHigh
	}

	report.Detections = append(report.Detections, &domain.DriftDetection{
		Type:     signalType,
		Baseline: utils.RoundWithFourDecimalPlace(baseline),
		Current:  utils.RoundWithFourDecimalPlace(current),
		DriftPct: math.Round(drift*1000) / 10,
		Severity: severity,
	})
}

// SaveBaseline persiste o snapshot corrente como novo baseline, substituindo
// o anterior por inteiro
func (s *Service) SaveBaseline(stats *domain.SnapshotStats) error {
	if err := s.store.Save(stats); err != nil {
		return err
	}

	s.baseline = stats
	logrus.Info("Baseline de estatísticas atualizado")
	return nil
}

func minOf(sample []float64) float64 {
	m := sample[0]
	for _, v := range sample[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(sample []float64) float64 {
	m := sample[0]
	for _, v := range sample[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
