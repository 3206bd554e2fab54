package evaluating

import (
	"context"
	"fmt"
	"strings"

	"github.com/vfg2006/campaign-insight-engine/internal/config"
	"github.com/vfg2006/campaign-insight-engine/internal/domain"
	"github.com/vfg2006/campaign-insight-engine/pkg/log"
)

// Evaluator valida um lote de insights, produzindo um ValidatedInsight por
// entrada, na mesma ordem
type Evaluator interface {
	Evaluate(ctx context.Context, insights *domain.InsightsDocument) *domain.ValidatedDocument
}

// Service orquestra, por insight: validação de significância estatística,
// classificação de severidade e normalização de confiança. Evidência malformada
// é tolerada; uma falha em um insight nunca aborta o lote
type Service struct {
	cfg          *config.Config
	significance SignificanceValidator
	severity     SeverityClassifier
}

// NewService cria uma nova instância do avaliador
func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg: cfg,
		significance: SignificanceValidator{
			SevereThreshold:   cfg.Evaluator.SevereThresholdPct,
			ModerateThreshold: cfg.Evaluator.ModerateThresholdPct,
		},
		severity: SeverityClassifier{
			SevereThreshold:       cfg.Evaluator.SevereThresholdPct,
			ModerateThreshold:     cfg.Evaluator.ModerateThresholdPct,
			HighSpendThreshold:    cfg.Evaluator.HighSpendThreshold,
			CriticalRevenueImpact: cfg.Evaluator.CriticalRevenueImpact,
			CriticalRelativeDelta: cfg.Evaluator.CriticalRelativeDelta,
		},
	}
}

// Evaluate valida cada insight do documento, em ordem de entrada
func (s *Service) Evaluate(ctx context.Context, insights *domain.InsightsDocument) *domain.ValidatedDocument {
	doc := &domain.ValidatedDocument{
		Validated:     []*domain.ValidatedInsight{},
		SchemaVersion: domain.SchemaVersion,
	}

	if insights == nil {
		return doc
	}

	for _, insight := range insights.Insights {
		doc.Validated = append(doc.Validated, s.evaluateOne(ctx, insight))
	}

	return doc
}

// evaluateOne valida um único insight. Qualquer pânico vira um
// ValidatedInsight degradado com confiança zero e a mensagem na nota
func (s *Service) evaluateOne(ctx context.Context, insight *domain.Insight) (validated *domain.ValidatedInsight) {
	logger := log.ForContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.WithField("error", fmt.Sprint(r)).Error("Falha ao validar insight; emitindo resultado degradado")
			validated = &domain.ValidatedInsight{
				Hypothesis:      hypothesisOf(insight),
				Evidence:        evidenceOf(insight),
				Confidence:      0.0,
				Severity:        domain.SeverityLow,
				ValidationNotes: fmt.Sprintf("Validation failed: %v", r),
				SchemaVersion:   domain.SchemaVersion,
			}
		}
	}()

	if insight == nil {
		panic("insight nulo no lote")
	}

	evidence := insight.Evidence
	if evidence.Diagnosis == "" {
		logger.WithField("campaign", evidence.Campaign).Warn("Evidência sem diagnóstico; substituindo por 'unknown'")
		evidence.Diagnosis = "unknown"
	}

	validation := s.significance.Validate(evidence)
	severity := s.severity.Classify(evidence)
	confidence := NormalizeConfidence(insight.Confidence, validation)

	notes := []string{}
	if validation.IsSignificant {
		notes = append(notes, fmt.Sprintf("Statistically significant (%s) change detected", validation.SignificanceLevel))
		notes = append(notes, fmt.Sprintf("Normalized change: %.2f%%", validation.NormalizedChange*100))
	} else {
		notes = append(notes, "Change below significance threshold - flagged for monitoring")
	}
	notes = append(notes, fmt.Sprintf("Severity: %s (revenue impact method)", severity))

	return &domain.ValidatedInsight{
		Hypothesis:            insight.Hypothesis,
		Evidence:              evidence,
		Confidence:            confidence,
		Severity:              severity,
		ValidationNotes:       strings.Join(notes, " | "),
		StatisticalValidation: validation,
		SchemaVersion:         domain.SchemaVersion,
	}
}

func hypothesisOf(insight *domain.Insight) string {
	if insight == nil {
		return "Unknown"
	}
	return insight.Hypothesis
}

func evidenceOf(insight *domain.Insight) domain.Evidence {
	if insight == nil {
		return domain.Evidence{}
	}
	return insight.Evidence
}
