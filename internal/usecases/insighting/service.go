package insighting

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/vfg2006/campaign-insight-engine/internal/config"
	"github.com/vfg2006/campaign-insight-engine/internal/domain"
	"github.com/vfg2006/campaign-insight-engine/pkg/log"
)

// Generator produz hipóteses ranqueadas a partir do resumo do período
type Generator interface {
	Generate(ctx context.Context, summary *domain.PeriodSummary) *domain.InsightsDocument
}

// Service implementa o gerador de insights: para cada família de métrica,
// filtra outliers da amostra de deltas, deriva o limiar adaptativo e emite um
// insight diagnosticado e pontuado para cada queda que exceder o limiar
type Service struct {
	cfg        *config.Config
	filter     OutlierFilter
	thresholds ThresholdCalculator
	scorer     ConfidenceScorer
	classifier Classifier
}

// NewService cria uma nova instância do gerador de insights
func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg: cfg,
		filter: OutlierFilter{
			LowerPct: cfg.Insight.OutlierLowerPct,
			UpperPct: cfg.Insight.OutlierUpperPct,
		},
		thresholds: ThresholdCalculator{
			Default:    cfg.Insight.DefaultThreshold,
			Strict:     cfg.Insight.StrictThreshold,
			Relaxed:    cfg.Insight.RelaxedThreshold,
			LowCVBand:  cfg.Insight.LowCVBand,
			HighCVBand: cfg.Insight.HighCVBand,
		},
		scorer: ConfidenceScorer{
			Min: cfg.Insight.MinConfidence,
			Max: cfg.Insight.MaxConfidence,
		},
		classifier: Classifier{
			HighSpendThreshold: cfg.Insight.HighSpendThreshold,
		},
	}
}

// Generate analisa as duas famílias de métrica do resumo e produz o documento
// de insights. A geração nunca propaga falha: qualquer pânico interno vira um
// único insight de erro com a mensagem embutida na evidência
func (s *Service) Generate(ctx context.Context, summary *domain.PeriodSummary) (doc *domain.InsightsDocument) {
	logger := log.ForContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.WithField("error", fmt.Sprint(r)).Error("Geração de insights falhou; emitindo insight de erro")
			doc = errorDocument(fmt.Sprint(r))
		}
	}()

	if summary == nil {
		return errorDocument("resumo do período ausente")
	}

	doc = &domain.InsightsDocument{
		Insights:      []*domain.Insight{},
		DecisionLogs:  []*domain.DecisionLog{},
		SchemaVersion: domain.SchemaVersion,
	}

	for _, family := range []domain.MetricFamily{domain.MetricROAS, domain.MetricCTR} {
		s.generateForFamily(ctx, summary, family, doc)
	}

	// Sem nenhuma queda qualificada nas duas famílias, emitir exatamente um
	// insight de estabilidade
	if len(doc.Insights) == 0 {
		logger.Info("Nenhuma queda significativa detectada; emitindo insight de estabilidade")
		doc.Insights = append(doc.Insights, stableInsight())
	}

	return doc
}

func (s *Service) generateForFamily(
	ctx context.Context,
	summary *domain.PeriodSummary,
	family domain.MetricFamily,
	doc *domain.InsightsDocument,
) {
	logger := log.ForContext(ctx)

	records := summary.DropsByFamily(family)
	if len(records) == 0 {
		return
	}

	sample := make([]float64, 0, len(records))
	for _, record := range records {
		sample = append(sample, record.RelativeDelta)
	}

	filtered, removed := s.filter.Filter(sample)
	threshold := s.thresholds.Calculate(filtered)

	logger.WithFields(log.Fields{
		"metric":           string(family),
		"sample_size":      len(sample),
		"outliers_removed": removed,
		"threshold":        threshold,
	}).Debug("Limiar adaptativo calculado para a família")

	for _, record := range records {
		// apenas quedas estritamente além do limiar negativo geram insight;
		// as demais são descartadas sem registro
		if record.RelativeDelta >= -threshold {
			continue
		}

		diagnosis := s.classifier.Diagnose(record, family)
		confidence := s.scorer.Score(
			math.Abs(record.RelativeDelta),
			threshold,
			removed > 0,
			len(records),
		)

		insight := s.buildInsight(record, family, diagnosis, confidence)
		doc.Insights = append(doc.Insights, insight)
		doc.DecisionLogs = append(doc.DecisionLogs, &domain.DecisionLog{
			Campaign:      record.Campaign,
			Metric:        family,
			Trigger:       fmt.Sprintf("relative_delta %.4f exceeded adaptive threshold -%.2f", record.RelativeDelta, threshold),
			Diagnosis:     diagnosis,
			BaselineValue: record.BaselineValue,
			CurrentValue:  record.CurrentValue,
		})

		logger.WithFields(log.Fields{
			"campaign": record.Campaign,
			"metric":   string(family),
		}).Debug("Insight emitido para registro de queda")
	}
}

func (s *Service) buildInsight(
	record *domain.DropRecord,
	family domain.MetricFamily,
	diagnosis string,
	confidence float64,
) *domain.Insight {
	evidence := domain.Evidence{
		Campaign:      record.Campaign,
		BaselineValue: record.BaselineValue,
		CurrentValue:  record.CurrentValue,
		AbsoluteDelta: record.AbsoluteDelta,
		RelativeDelta: record.RelativeDelta,
		Diagnosis:     diagnosis,
	}

	var hypothesis, impact, analysisType string
	switch family {
	case domain.MetricROAS:
		evidence.Spend = record.Spend
		hypothesis = fmt.Sprintf(
			"ROAS drop in campaign %s is consistent with %s; conversion efficiency fell %.0f%% versus the prior period.",
			record.Campaign, humanize(diagnosis), math.Abs(record.RelativeDelta)*100,
		)
		impact = "Moderate to High"
		analysisType = "roas_trend_analysis"
	case domain.MetricCTR:
		impressions := record.ImpressionsChange
		evidence.ImpressionsChange = &impressions
		hypothesis = fmt.Sprintf(
			"CTR drop in campaign %s indicates %s; engagement fell %.0f%% versus the prior period.",
			record.Campaign, humanize(diagnosis), math.Abs(record.RelativeDelta)*100,
		)
		impact = "High on engagement"
		analysisType = "ctr_trend_analysis"
	}

	return &domain.Insight{
		Hypothesis:      hypothesis,
		Evidence:        evidence,
		ExpectedImpact:  impact,
		Confidence:      confidence,
		ConfidenceLevel: domain.LevelFromConfidence(confidence),
		AnalysisType:    analysisType,
		SchemaVersion:   domain.SchemaVersion,
	}
}

// stableInsight é o insight único emitido quando nenhuma família apresenta
// queda qualificada
func stableInsight() *domain.Insight {
	return &domain.Insight{
		Hypothesis:      "No significant campaign-level drops detected; investigate audience targeting and bid strategies for incremental gains.",
		Evidence:        domain.Evidence{Diagnosis: DiagnosisStablePerformance},
		ExpectedImpact:  "Uncertain",
		Confidence:      0.5,
		ConfidenceLevel: domain.ConfidenceLow,
		AnalysisType:    "stability_check",
		SchemaVersion:   domain.SchemaVersion,
	}
}

// errorDocument é o documento emitido quando a geração falha por inteiro
func errorDocument(message string) *domain.InsightsDocument {
	return &domain.InsightsDocument{
		Insights: []*domain.Insight{
			{
				Hypothesis:      "Unable to generate insights due to data or processing error.",
				Evidence:        domain.Evidence{Diagnosis: DiagnosisError, Error: message},
				ExpectedImpact:  "Unknown",
				Confidence:      0.0,
				ConfidenceLevel: domain.ConfidenceLow,
				AnalysisType:    "error",
				SchemaVersion:   domain.SchemaVersion,
			},
		},
		DecisionLogs:  []*domain.DecisionLog{},
		SchemaVersion: domain.SchemaVersion,
	}
}

func humanize(diagnosis string) string {
	return strings.ReplaceAll(diagnosis, "_", " ")
}
