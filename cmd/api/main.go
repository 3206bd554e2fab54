package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-insight-engine/infrastructure/baseline"
	"github.com/vfg2006/campaign-insight-engine/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-insight-engine/infrastructure/dataset"
	"github.com/vfg2006/campaign-insight-engine/infrastructure/memory"
	"github.com/vfg2006/campaign-insight-engine/infrastructure/repository"
	"github.com/vfg2006/campaign-insight-engine/internal/api"
	"github.com/vfg2006/campaign-insight-engine/internal/api/handler"
	"github.com/vfg2006/campaign-insight-engine/internal/config"
	"github.com/vfg2006/campaign-insight-engine/internal/scheduler"
	"github.com/vfg2006/campaign-insight-engine/internal/usecases/analyzing"
	"github.com/vfg2006/campaign-insight-engine/internal/usecases/creating"
	"github.com/vfg2006/campaign-insight-engine/internal/usecases/drifting"
	"github.com/vfg2006/campaign-insight-engine/internal/usecases/evaluating"
	"github.com/vfg2006/campaign-insight-engine/internal/usecases/insighting"
	"github.com/vfg2006/campaign-insight-engine/internal/usecases/planning"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Histórico de execuções é opcional: sem banco, a API serve apenas
	// execuções sob demanda
	var runRepo repository.AnalysisRunRepository
	if cfg.Database.Enabled {
		pgConn := pgconn(ctx, cfg.Database)
		defer pgConn.Close()

		runRepo = repository.NewAnalysisRunRepository(pgConn)
	} else {
		logrus.Info("Banco de dados desabilitado; histórico de execuções indisponível")
	}

	loader := dataset.NewLoader(cfg.Dataset)

	var driftDetector drifting.Detector
	if cfg.Drift.Enabled {
		driftDetector = drifting.NewService(cfg, baseline.NewFileStore(cfg.Drift.BaselinePath))
	} else {
		logrus.Info("Detector de drift desabilitado por configuração")
	}

	memoryStore := memory.NewStore(cfg.Pipeline.MemoryPath, cfg.Pipeline.MemoryMaxEntries)

	analyzer := analyzing.NewService(cfg, analyzing.Dependencies{
		Planner:    planning.NewService(),
		Loader:     loader,
		Insights:   insighting.NewService(cfg),
		Evaluator:  evaluating.NewService(cfg),
		Creatives:  creating.NewService(),
		Drift:      driftDetector,
		Memory:     memoryStore,
		Repository: runRepo,
	})

	// Agendador de execuções periódicas
	analysisSyncService := scheduler.NewAnalysisSyncService(analyzer, cfg)
	if err := analysisSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de análises")
	} else {
		logrus.Info("Agendador de análises iniciado com sucesso")
	}

	server, err := api.New(cfg, handler.AnalysisServices{
		Analyzer:   analyzer,
		Repository: runRepo,
		Loader:     loader,
		Drift:      driftDetector,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
