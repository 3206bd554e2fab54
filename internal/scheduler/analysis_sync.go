package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-insight-engine/internal/config"
	"github.com/vfg2006/campaign-insight-engine/internal/usecases/analyzing"
)

const scheduledQuery = "Scheduled performance analysis"

// AnalysisSyncConfig representa a configuração do agendador de análises
type AnalysisSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// AnalysisSyncService gerencia o agendamento e execução periódica do pipeline
// de análise de campanhas
type AnalysisSyncService struct {
	scheduler          *gocron.Scheduler
	config             AnalysisSyncConfig
	appConfig          *config.Config
	analyzer           analyzing.Analyzer
	runRunning         bool
	runMutex           sync.Mutex
	lastRunStartedAt   time.Time
	lastRunCompletedAt time.Time
}

// NewAnalysisSyncService cria uma nova instância do serviço de análise periódica
func NewAnalysisSyncService(
	analyzer analyzing.Analyzer,
	appConfig *config.Config,
) *AnalysisSyncService {
	syncConfig := AnalysisSyncConfig{
		CronSchedule: appConfig.AnalysisSync.CronSchedule,
		SyncEnabled:  appConfig.AnalysisSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.UTC)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de análises carregada")

	return &AnalysisSyncService{
		scheduler: scheduler,
		config:    syncConfig,
		appConfig: appConfig,
		analyzer:  analyzer,
	}
}

// Start inicia o agendador
func (s *AnalysisSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Execução periódica de análises desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de análises de desempenho")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runScheduledAnalysis(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar execução de análise: %w", err)
	}

	s.scheduler.StartAsync()

	// Parar o agendador quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de análises de desempenho")
		s.scheduler.Stop()
	}()

	return nil
}

// runScheduledAnalysis executa o pipeline completo; execuções sobrepostas
// são ignoradas
func (s *AnalysisSyncService) runScheduledAnalysis(ctx context.Context) {
	s.runMutex.Lock()
	if s.runRunning {
		s.runMutex.Unlock()
		logrus.Info("Análise agendada já em andamento, ignorando")
		return
	}
	s.runRunning = true
	s.runMutex.Unlock()

	startTime := time.Now()
	s.lastRunStartedAt = startTime

	defer func() {
		s.runMutex.Lock()
		s.runRunning = false
		s.runMutex.Unlock()
	}()

	logrus.Info("Iniciando análise de desempenho agendada")

	run, err := s.analyzer.Run(ctx, scheduledQuery)
	if err != nil {
		logrus.WithError(err).Error("Erro na execução agendada do pipeline de análise")
		return
	}

	duration := time.Since(startTime)
	logrus.WithFields(logrus.Fields{
		"run_id":   run.RunID,
		"duration": duration.String(),
		"insights": len(run.Insights.Insights),
	}).Info("Análise de desempenho agendada concluída")

	s.lastRunCompletedAt = time.Now()
}

// LastRunTimes expõe os horários da última execução para diagnóstico
func (s *AnalysisSyncService) LastRunTimes() (startedAt, completedAt time.Time) {
	s.runMutex.Lock()
	defer s.runMutex.Unlock()
	return s.lastRunStartedAt, s.lastRunCompletedAt
}
