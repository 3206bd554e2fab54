package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Dataset      Dataset      `mapstructure:",squash"`
	Insight      Insight      `mapstructure:",squash"`
	Evaluator    Evaluator    `mapstructure:",squash"`
	Drift        Drift        `mapstructure:",squash"`
	Pipeline     Pipeline     `mapstructure:",squash"`
	AnalysisSync AnalysisSync `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
	Enabled  bool   `mapstructure:"database_enabled"`
}

// Dataset configura o carregador de dados de campanhas
type Dataset struct {
	CSVPath string `mapstructure:"dataset_csv_path"`
	// RecentDays é o tamanho em dias do período recente comparado com o anterior
	RecentDays int `mapstructure:"dataset_recent_days"`
	// DropThreshold é a queda relativa mínima para registrar um DropRecord
	DropThreshold float64 `mapstructure:"dataset_drop_threshold"`
}

// Insight configura os limiares do gerador de insights
type Insight struct {
	// DefaultThreshold é o limiar de significância padrão (banda intermediária de CV)
	DefaultThreshold float64 `mapstructure:"insight_default_threshold"`
	// StrictThreshold é aplicado a amostras de baixo ruído (CV abaixo de LowCVBand)
	StrictThreshold float64 `mapstructure:"insight_strict_threshold"`
	// RelaxedThreshold é aplicado a amostras ruidosas (CV acima de HighCVBand)
	RelaxedThreshold float64 `mapstructure:"insight_relaxed_threshold"`
	LowCVBand        float64 `mapstructure:"insight_low_cv_band"`
	HighCVBand       float64 `mapstructure:"insight_high_cv_band"`
	MinConfidence    float64 `mapstructure:"insight_min_confidence"`
	MaxConfidence    float64 `mapstructure:"insight_max_confidence"`
	// OutlierLowerPct/OutlierUpperPct delimitam o filtro de percentis
	OutlierLowerPct float64 `mapstructure:"insight_outlier_lower_pct"`
	OutlierUpperPct float64 `mapstructure:"insight_outlier_upper_pct"`
	// HighSpendThreshold marca gasto alto no diagnóstico de ROAS
	HighSpendThreshold float64 `mapstructure:"insight_high_spend_threshold"`
}

// Evaluator configura os limiares do avaliador estatístico
type Evaluator struct {
	SevereThresholdPct    float64 `mapstructure:"evaluator_severe_threshold_pct"`
	ModerateThresholdPct  float64 `mapstructure:"evaluator_moderate_threshold_pct"`
	HighSpendThreshold    float64 `mapstructure:"evaluator_high_spend_threshold"`
	CriticalRevenueImpact float64 `mapstructure:"evaluator_critical_revenue_impact"`
	CriticalRelativeDelta float64 `mapstructure:"evaluator_critical_relative_delta"`
}

// Drift configura o detector de desvio de baseline
type Drift struct {
	BaselinePath string  `mapstructure:"drift_baseline_path"`
	Threshold    float64 `mapstructure:"drift_threshold"`
	// HighSeverityThreshold separa detecções medium de high
	HighSeverityThreshold float64 `mapstructure:"drift_high_severity_threshold"`
	Enabled               bool    `mapstructure:"drift_enabled"`
}

// Pipeline configura o orquestrador e o envelope resiliente dos estágios
type Pipeline struct {
	OutputDir        string        `mapstructure:"pipeline_output_dir"`
	MemoryPath       string        `mapstructure:"pipeline_memory_path"`
	DataMaxRetries   int           `mapstructure:"pipeline_data_max_retries"`
	StageMaxRetries  int           `mapstructure:"pipeline_stage_max_retries"`
	RetryBaseDelay   time.Duration `mapstructure:"pipeline_retry_base_delay"`
	PersistRuns      bool          `mapstructure:"pipeline_persist_runs"`
	MemoryMaxEntries int           `mapstructure:"pipeline_memory_max_entries"`
}

// AnalysisSync configura o agendador de execuções periódicas
type AnalysisSync struct {
	CronSchedule string `mapstructure:"analysis_sync_cron"`
	Enabled      bool   `mapstructure:"analysis_sync_enabled"`
	// RefreshBaselineOnHighDrift regrava o baseline quando o drift é high
	RefreshBaselineOnHighDrift bool `mapstructure:"analysis_sync_refresh_baseline_on_high_drift"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/insights")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_ENABLED", false)

	viper.SetDefault("DATASET_CSV_PATH", "data/campaigns.csv")
	viper.SetDefault("DATASET_RECENT_DAYS", 14) // períodos de 14 dias (recente vs anterior)
	viper.SetDefault("DATASET_DROP_THRESHOLD", 0.10)

	viper.SetDefault("INSIGHT_DEFAULT_THRESHOLD", 0.10)
	viper.SetDefault("INSIGHT_STRICT_THRESHOLD", 0.08)
	viper.SetDefault("INSIGHT_RELAXED_THRESHOLD", 0.15)
	viper.SetDefault("INSIGHT_LOW_CV_BAND", 0.1)
	viper.SetDefault("INSIGHT_HIGH_CV_BAND", 0.3)
	viper.SetDefault("INSIGHT_MIN_CONFIDENCE", 0.4)
	viper.SetDefault("INSIGHT_MAX_CONFIDENCE", 0.95)
	viper.SetDefault("INSIGHT_OUTLIER_LOWER_PCT", 10)
	viper.SetDefault("INSIGHT_OUTLIER_UPPER_PCT", 90)
	viper.SetDefault("INSIGHT_HIGH_SPEND_THRESHOLD", 5000)

	viper.SetDefault("EVALUATOR_SEVERE_THRESHOLD_PCT", 0.25)
	viper.SetDefault("EVALUATOR_MODERATE_THRESHOLD_PCT", 0.15)
	viper.SetDefault("EVALUATOR_HIGH_SPEND_THRESHOLD", 10000)
	viper.SetDefault("EVALUATOR_CRITICAL_REVENUE_IMPACT", 50000)
	viper.SetDefault("EVALUATOR_CRITICAL_RELATIVE_DELTA", 0.5)

	viper.SetDefault("DRIFT_BASELINE_PATH", "reports/baseline_stats.json")
	viper.SetDefault("DRIFT_THRESHOLD", 0.15)
	viper.SetDefault("DRIFT_HIGH_SEVERITY_THRESHOLD", 0.5)
	viper.SetDefault("DRIFT_ENABLED", true)

	viper.SetDefault("PIPELINE_OUTPUT_DIR", "reports")
	viper.SetDefault("PIPELINE_MEMORY_PATH", "memory.json")
	viper.SetDefault("PIPELINE_DATA_MAX_RETRIES", 2)
	viper.SetDefault("PIPELINE_STAGE_MAX_RETRIES", 1)
	viper.SetDefault("PIPELINE_RETRY_BASE_DELAY", "500ms")
	viper.SetDefault("PIPELINE_PERSIST_RUNS", false)
	viper.SetDefault("PIPELINE_MEMORY_MAX_ENTRIES", 5)

	viper.SetDefault("ANALYSIS_SYNC_CRON", "0 7 * * *") // Todos os dias às 7h da manhã
	viper.SetDefault("ANALYSIS_SYNC_ENABLED", false)
	viper.SetDefault("ANALYSIS_SYNC_REFRESH_BASELINE_ON_HIGH_DRIFT", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s?sslmode=disable",
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// NewTestConfig retorna uma configuração com os defaults do motor, para testes
func NewTestConfig() *Config {
	return &Config{
		App: App{LogLevel: "debug"},
		Dataset: Dataset{
			CSVPath:       "data/campaigns.csv",
			RecentDays:    14,
			DropThreshold: 0.10,
		},
		Insight: Insight{
			DefaultThreshold:   0.10,
			StrictThreshold:    0.08,
			RelaxedThreshold:   0.15,
			LowCVBand:          0.1,
			HighCVBand:         0.3,
			MinConfidence:      0.4,
			MaxConfidence:      0.95,
			OutlierLowerPct:    10,
			OutlierUpperPct:    90,
			HighSpendThreshold: 5000,
		},
		Evaluator: Evaluator{
			SevereThresholdPct:    0.25,
			ModerateThresholdPct:  0.15,
			HighSpendThreshold:    10000,
			CriticalRevenueImpact: 50000,
			CriticalRelativeDelta: 0.5,
		},
		Drift: Drift{
			BaselinePath:          "reports/baseline_stats.json",
			Threshold:             0.15,
			HighSeverityThreshold: 0.5,
			Enabled:               true,
		},
		Pipeline: Pipeline{
			OutputDir:        "reports",
			MemoryPath:       "memory.json",
			DataMaxRetries:   2,
			StageMaxRetries:  1,
			RetryBaseDelay:   time.Millisecond,
			MemoryMaxEntries: 5,
		},
	}
}

// loadEnvFile carrega o arquivo .env se existir
func loadEnvFile() {
	envPath := ".env"
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			logrus.Warn("Erro ao carregar arquivo .env:", err)
		}
		return
	}

	// Procurar o .env a partir do diretório de trabalho (execução via make/testes)
	if wd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(wd, ".env")
		if _, err := os.Stat(candidate); err == nil {
			if err := godotenv.Load(candidate); err != nil {
				logrus.Warn("Erro ao carregar arquivo .env:", err)
			}
		}
	}
}
