package analyzing

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/campaign-insight-engine/infrastructure/memory"
	"github.com/vfg2006/campaign-insight-engine/infrastructure/repository"
	"github.com/vfg2006/campaign-insight-engine/internal/config"
	"github.com/vfg2006/campaign-insight-engine/internal/domain"
	"github.com/vfg2006/campaign-insight-engine/internal/usecases/creating"
	"github.com/vfg2006/campaign-insight-engine/internal/usecases/drifting"
	"github.com/vfg2006/campaign-insight-engine/internal/usecases/evaluating"
	"github.com/vfg2006/campaign-insight-engine/internal/usecases/insighting"
	"github.com/vfg2006/campaign-insight-engine/internal/usecases/planning"
	"github.com/vfg2006/campaign-insight-engine/pkg/log"
	"github.com/vfg2006/campaign-insight-engine/pkg/resilience"
	"github.com/vfg2006/campaign-insight-engine/pkg/schema"
	"github.com/vfg2006/campaign-insight-engine/pkg/utils"
)

// Summarizer carrega o dataset e produz o resumo do período analisado
type Summarizer interface {
	Summarize(ctx context.Context) (*domain.PeriodSummary, error)
}

// MemoryStore mantém o histórico curto de insights validados entre execuções
type MemoryStore interface {
	Load() (*memory.Memory, error)
	Update(mem *memory.Memory, validated []*domain.ValidatedInsight) error
}

// Analyzer é o orquestrador do pipeline de análise de ponta a ponta
type Analyzer interface {
	Run(ctx context.Context, query string) (*domain.AnalysisRun, error)
	RefreshBaseline(ctx context.Context) error
}

// Dependencies agrupa os colaboradores do orquestrador. Drift, Memory e
// Repository são opcionais; quando ausentes o estágio correspondente é pulado
type Dependencies struct {
	Planner    planning.Planner
	Loader     Summarizer
	Insights   insighting.Generator
	Evaluator  evaluating.Evaluator
	Creatives  creating.Generator
	Drift      drifting.Detector
	Memory     MemoryStore
	Repository repository.AnalysisRunRepository
}

// Service executa os estágios do pipeline em sequência, cada um dentro do
// envelope resiliente com fallback degradado. Uma execução sempre produz um
// AnalysisRun completo, ainda que com documentos de fallback
type Service struct {
	cfg       *config.Config
	validator *schema.Validator
	deps      Dependencies
}

func NewService(cfg *config.Config, deps Dependencies) *Service {
	return &Service{
		cfg:       cfg,
		validator: schema.NewValidator(),
		deps:      deps,
	}
}

func (s *Service) Run(ctx context.Context, query string) (*domain.AnalysisRun, error) {
	runID, err := utils.GenerateRunID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar o identificador da execução")
	}

	ctx = log.WithRunID(ctx, runID)
	logger := log.ForContext(ctx)
	logger.WithField("query", query).Info("Iniciando pipeline de análise")

	mem := s.loadMemory(ctx)

	plan := s.runPlanning(ctx, query)
	logger.Infof("Plano gerado com %d etapas", len(plan.Steps))

	summary := s.runSummarize(ctx)
	logger.WithFields(log.Fields{
		"campaigns":  len(summary.Campaigns),
		"roas_drops": len(summary.TopDrops.ROASDropCampaigns),
		"ctr_drops":  len(summary.TopDrops.CTRDropCampaigns),
	}).Info("Resumo do período carregado")

	drift := s.runDriftDetection(ctx, summary)

	insights := s.runInsights(ctx, summary)
	logger.Infof("%d insights gerados", len(insights.Insights))

	validated := s.runEvaluation(ctx, insights)
	logger.Infof("%d insights validados (%d de alta confiança)",
		len(validated.Validated), highConfidenceCount(validated))

	creatives := s.runCreatives(ctx, summary, insights)

	s.validateOutputs(ctx, insights, validated, creatives)

	report := BuildReport(summary, insights, validated, creatives)

	if err := s.persistOutputs(ctx, insights, validated, creatives, report); err != nil {
		logger.WithError(err).Error("Falha ao gravar os artefatos da execução")
	}

	s.maybeRefreshBaseline(ctx, summary, drift)
	s.updateMemory(ctx, mem, validated)

	run := &domain.AnalysisRun{
		RunID:          runID,
		RunAt:          time.Now(),
		DateRange:      summary.DateRange,
		Summary:        summary,
		Insights:       insights,
		Validated:      validated,
		Creatives:      creatives,
		Drift:          drift,
		ReportMarkdown: report,
	}

	s.persistRun(ctx, run)

	logger.Info("Pipeline de análise concluído")

	return run, nil
}

// RefreshBaseline recalcula e regrava o baseline de drift a partir do
// dataset corrente
func (s *Service) RefreshBaseline(ctx context.Context) error {
	if s.deps.Drift == nil {
		return errors.New("detector de drift desabilitado")
	}

	summary, err := s.deps.Loader.Summarize(ctx)
	if err != nil {
		return errors.Wrap(err, "erro ao resumir o dataset para o baseline")
	}

	stats := s.deps.Drift.ComputeStats(summary)
	if err := s.deps.Drift.SaveBaseline(stats); err != nil {
		return errors.Wrap(err, "erro ao gravar o baseline")
	}

	log.ForContext(ctx).Info("Baseline de drift atualizado")

	return nil
}

func (s *Service) runPlanning(ctx context.Context, query string) *planning.Plan {
	fallback := fallbackPlan(query)
	plan, _ := resilience.Call(ctx, resilience.Options[*planning.Plan]{
		Stage:      "planning",
		Kind:       resilience.KindPlanner,
		MaxRetries: s.cfg.Pipeline.StageMaxRetries,
		BaseDelay:  s.cfg.Pipeline.RetryBaseDelay,
		Fallback:   &fallback,
	}, func(ctx context.Context) (*planning.Plan, error) {
		return s.deps.Planner.Plan(ctx, query), nil
	})
	return plan
}

func (s *Service) runSummarize(ctx context.Context) *domain.PeriodSummary {
	fallback := fallbackSummary()
	summary, _ := resilience.Call(ctx, resilience.Options[*domain.PeriodSummary]{
		Stage:      "data",
		Kind:       resilience.KindData,
		MaxRetries: s.cfg.Pipeline.DataMaxRetries,
		BaseDelay:  s.cfg.Pipeline.RetryBaseDelay,
		Fallback:   &fallback,
	}, func(ctx context.Context) (*domain.PeriodSummary, error) {
		return s.deps.Loader.Summarize(ctx)
	})
	return summary
}

func (s *Service) runDriftDetection(ctx context.Context, summary *domain.PeriodSummary) *domain.DriftReport {
	if s.deps.Drift == nil {
		return nil
	}

	logger := log.ForContext(ctx)

	stats := s.deps.Drift.ComputeStats(summary)
	report := s.deps.Drift.DetectDrift(stats)

	if report.HasDrift {
		logger.WithField("severity", string(report.Severity)).Warn("Drift detectado em relação ao baseline")
		for _, d := range report.Detections {
			logger.WithFields(log.Fields{
				"type":      d.Type,
				"drift_pct": d.DriftPct,
				"severity":  string(d.Severity),
			}).Warn("Sinal com desvio do baseline")
		}
	} else {
		logger.Info("Nenhum drift significativo em relação ao baseline")
	}

	return report
}

func (s *Service) runInsights(ctx context.Context, summary *domain.PeriodSummary) *domain.InsightsDocument {
	fallback := fallbackInsights()
	doc, _ := resilience.Call(ctx, resilience.Options[*domain.InsightsDocument]{
		Stage:      "insighting",
		Kind:       resilience.KindInsight,
		MaxRetries: s.cfg.Pipeline.StageMaxRetries,
		BaseDelay:  s.cfg.Pipeline.RetryBaseDelay,
		Fallback:   &fallback,
	}, func(ctx context.Context) (*domain.InsightsDocument, error) {
		return s.deps.Insights.Generate(ctx, summary), nil
	})
	return doc
}

func (s *Service) runEvaluation(ctx context.Context, insights *domain.InsightsDocument) *domain.ValidatedDocument {
	fallback := fallbackValidated()
	doc, _ := resilience.Call(ctx, resilience.Options[*domain.ValidatedDocument]{
		Stage:      "evaluating",
		Kind:       resilience.KindEvaluator,
		MaxRetries: s.cfg.Pipeline.StageMaxRetries,
		BaseDelay:  s.cfg.Pipeline.RetryBaseDelay,
		Fallback:   &fallback,
	}, func(ctx context.Context) (*domain.ValidatedDocument, error) {
		return s.deps.Evaluator.Evaluate(ctx, insights), nil
	})
	return doc
}

func (s *Service) runCreatives(ctx context.Context, summary *domain.PeriodSummary, insights *domain.InsightsDocument) *domain.CreativesDocument {
	fallback := fallbackCreatives()
	doc, _ := resilience.Call(ctx, resilience.Options[*domain.CreativesDocument]{
		Stage:      "creating",
		Kind:       resilience.KindCreative,
		MaxRetries: s.cfg.Pipeline.StageMaxRetries,
		BaseDelay:  s.cfg.Pipeline.RetryBaseDelay,
		Fallback:   &fallback,
	}, func(ctx context.Context) (*domain.CreativesDocument, error) {
		return s.deps.Creatives.Generate(ctx, summary, insights), nil
	})
	return doc
}

// validateOutputs checa os documentos contra o schema 2.0, aplicando a
// atualização de versão quando necessário. Falha de validação não aborta a
// execução: é reportada nos logs
func (s *Service) validateOutputs(
	ctx context.Context,
	insights *domain.InsightsDocument,
	validated *domain.ValidatedDocument,
	creatives *domain.CreativesDocument,
) {
	logger := log.ForContext(ctx)

	insightsDoc, err := schema.ToDocument(insights)
	if err == nil {
		if version, _ := insightsDoc["schema_version"].(string); version != schema.Version {
			logger.Info("Atualizando documento de insights para o schema 2.0")
			insightsDoc = schema.UpgradeInsightsToV2(insightsDoc)
		}
		if ok, validationErrs := s.validator.ValidateInsights(insightsDoc); !ok {
			logger.WithField("errors", validationErrs).Warn("Documento de insights fora do schema 2.0")
		}
	}

	creativesDoc, err := schema.ToDocument(creatives)
	if err == nil {
		if version, _ := creativesDoc["schema_version"].(string); version != schema.Version {
			logger.Info("Atualizando documento de criativos para o schema 2.0")
			creativesDoc = schema.UpgradeCreativesToV2(creativesDoc)
		}
		if ok, validationErrs := s.validator.ValidateCreatives(creativesDoc); !ok {
			logger.WithField("errors", validationErrs).Warn("Documento de criativos fora do schema 2.0")
		}
	}

	validatedDoc, err := schema.ToDocument(validated)
	if err == nil {
		if ok, validationErrs := s.validator.ValidateValidated(validatedDoc); !ok {
			logger.WithField("errors", validationErrs).Warn("Documento de insights validados fora do schema 2.0")
		}
	}
}

func (s *Service) persistOutputs(
	ctx context.Context,
	insights *domain.InsightsDocument,
	validated *domain.ValidatedDocument,
	creatives *domain.CreativesDocument,
	report string,
) error {
	writer := newOutputWriter(s.cfg.Pipeline.OutputDir)

	if err := writer.writeJSON(insightsFileName, insights); err != nil {
		return err
	}
	if err := writer.writeJSON(validatedFileName, validated); err != nil {
		return err
	}
	if err := writer.writeJSON(creativesFileName, creatives); err != nil {
		return err
	}
	if err := writer.write(reportFileName, []byte(report)); err != nil {
		return err
	}

	log.ForContext(ctx).WithField("dir", s.cfg.Pipeline.OutputDir).Info("Artefatos da execução gravados")

	return nil
}

// maybeRefreshBaseline grava o baseline na primeira execução e, quando
// habilitado, regrava após drift severo para reancorar as comparações
func (s *Service) maybeRefreshBaseline(ctx context.Context, summary *domain.PeriodSummary, drift *domain.DriftReport) {
	if s.deps.Drift == nil {
		return
	}

	logger := log.ForContext(ctx)

	refresh := !s.deps.Drift.HasBaseline()
	if !refresh && drift != nil && drift.Severity == domain.DriftHigh &&
		s.cfg.AnalysisSync.RefreshBaselineOnHighDrift {
		refresh = true
		logger.Warn("Drift severo: baseline será reancorado na execução corrente")
	}

	if !refresh {
		return
	}

	stats := s.deps.Drift.ComputeStats(summary)
	if err := s.deps.Drift.SaveBaseline(stats); err != nil {
		logger.WithError(err).Error("Falha ao gravar o baseline de drift")
		return
	}

	logger.Info("Baseline estatístico gravado para detecção de drift")
}

func (s *Service) loadMemory(ctx context.Context) *memory.Memory {
	if s.deps.Memory == nil {
		return nil
	}

	mem, err := s.deps.Memory.Load()
	if err != nil {
		log.ForContext(ctx).WithError(err).Warn("Falha ao carregar a memória de execuções")
		return nil
	}

	return mem
}

func (s *Service) updateMemory(ctx context.Context, mem *memory.Memory, validated *domain.ValidatedDocument) {
	if s.deps.Memory == nil {
		return
	}

	if err := s.deps.Memory.Update(mem, validated.Validated); err != nil {
		log.ForContext(ctx).WithError(err).Warn("Falha ao atualizar a memória de execuções")
		return
	}

	log.ForContext(ctx).Info("Memória atualizada com os insights validados")
}

func (s *Service) persistRun(ctx context.Context, run *domain.AnalysisRun) {
	if s.deps.Repository == nil || !s.cfg.Pipeline.PersistRuns {
		return
	}

	if err := s.deps.Repository.Save(run); err != nil {
		log.ForContext(ctx).WithError(err).Error("Falha ao persistir a execução no histórico")
		return
	}

	log.ForContext(ctx).Info("Execução persistida no histórico")
}

func highConfidenceCount(validated *domain.ValidatedDocument) int {
	count := 0
	for _, v := range validated.Validated {
		if v.Confidence > 0.7 {
			count++
		}
	}
	return count
}
