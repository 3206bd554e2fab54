package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/campaign-insight-engine/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-insight-engine/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	analysisRunsTable = "analysis_runs ar"
)

// AnalysisRunRepository persiste o histórico de execuções do pipeline
type AnalysisRunRepository interface {
	Save(run *domain.AnalysisRun) error
	GetByRunID(runID string) (*domain.AnalysisRun, error)
	GetLatest() (*domain.AnalysisRun, error)
	DeleteOlderThan(days int) (int64, error)
}

type analysisRunRepository struct {
	conn *postgres.Connection
}

func NewAnalysisRunRepository(conn *postgres.Connection) AnalysisRunRepository {
	return &analysisRunRepository{
		conn: conn,
	}
}

func (r *analysisRunRepository) Save(run *domain.AnalysisRun) error {
	insightsJSON, err := json.Marshal(run.Insights)
	if err != nil {
		return fmt.Errorf("erro ao serializar insights: %w", err)
	}

	validatedJSON, err := json.Marshal(run.Validated)
	if err != nil {
		return fmt.Errorf("erro ao serializar insights validados: %w", err)
	}

	creativesJSON, err := json.Marshal(run.Creatives)
	if err != nil {
		return fmt.Errorf("erro ao serializar criativos: %w", err)
	}

	driftJSON, err := json.Marshal(run.Drift)
	if err != nil {
		return fmt.Errorf("erro ao serializar relatório de drift: %w", err)
	}

	query, args, err := squirrel.
		Insert("analysis_runs").
		Columns("run_id", "run_at", "date_range", "insights", "validated", "creatives", "drift", "created_at").
		Values(run.RunID, run.RunAt, run.DateRange, insightsJSON, validatedJSON, creativesJSON, driftJSON, time.Now()).
		Suffix("ON CONFLICT (run_id) DO UPDATE SET insights = EXCLUDED.insights, validated = EXCLUDED.validated, creatives = EXCLUDED.creatives, drift = EXCLUDED.drift").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("erro ao salvar execução de análise: %w", err)
	}

	return nil
}

func (r *analysisRunRepository) GetByRunID(runID string) (*domain.AnalysisRun, error) {
	query, args, err := squirrel.
		Select("ar.id, ar.run_id, ar.run_at, ar.date_range, ar.insights, ar.validated, ar.creatives, ar.drift, ar.created_at").
		From(analysisRunsTable).
		Where(squirrel.Eq{"ar.run_id": runID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	run, err := r.scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear execução: %w", err)
	}

	return run, nil
}

func (r *analysisRunRepository) GetLatest() (*domain.AnalysisRun, error) {
	query, args, err := squirrel.
		Select("ar.id, ar.run_id, ar.run_at, ar.date_range, ar.insights, ar.validated, ar.creatives, ar.drift, ar.created_at").
		From(analysisRunsTable).
		OrderBy("ar.run_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	run, err := r.scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear execução: %w", err)
	}

	return run, nil
}

func (r *analysisRunRepository) DeleteOlderThan(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	query, args, err := squirrel.
		Delete("analysis_runs").
		Where(squirrel.Lt{"run_at": cutoff}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao remover execuções antigas: %w", err)
	}

	return result.RowsAffected()
}

type scannable interface {
	Scan(dest ...any) error
}

func (r *analysisRunRepository) scanRun(row scannable) (*domain.AnalysisRun, error) {
	var (
		run           domain.AnalysisRun
		insightsJSON  []byte
		validatedJSON []byte
		creativesJSON []byte
		driftJSON     []byte
	)

	err := row.Scan(
		&run.ID,
		&run.RunID,
		&run.RunAt,
		&run.DateRange,
		&insightsJSON,
		&validatedJSON,
		&creativesJSON,
		&driftJSON,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(insightsJSON) > 0 {
		if err := json.Unmarshal(insightsJSON, &run.Insights); err != nil {
			return nil, fmt.Errorf("erro ao decodificar insights: %w", err)
		}
	}
	if len(validatedJSON) > 0 {
		if err := json.Unmarshal(validatedJSON, &run.Validated); err != nil {
			return nil, fmt.Errorf("erro ao decodificar insights validados: %w", err)
		}
	}
	if len(creativesJSON) > 0 {
		if err := json.Unmarshal(creativesJSON, &run.Creatives); err != nil {
			return nil, fmt.Errorf("erro ao decodificar criativos: %w", err)
		}
	}
	if len(driftJSON) > 0 {
		if err := json.Unmarshal(driftJSON, &run.Drift); err != nil {
			return nil, fmt.Errorf("erro ao decodificar relatório de drift: %w", err)
		}
	}

	return &run, nil
}
