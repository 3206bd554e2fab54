package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/campaign-insight-engine/infrastructure/repository"
	"github.com/vfg2006/campaign-insight-engine/internal/usecases/analyzing"
	"github.com/vfg2006/campaign-insight-engine/internal/usecases/drifting"
	"github.com/vfg2006/campaign-insight-engine/pkg/apiErrors"
	"github.com/vfg2006/campaign-insight-engine/pkg/log"
)

const defaultQuery = "Analyze campaign performance"

// AnalysisServices agrupa os serviços expostos pelos handlers de análise.
// Repository e Drift podem ser nulos quando desabilitados por configuração
type AnalysisServices struct {
	Analyzer   analyzing.Analyzer
	Repository repository.AnalysisRunRepository
	Loader     analyzing.Summarizer
	Drift      drifting.Detector
}

type runAnalysisRequest struct {
	Query string `json:"query"`
}

// RunAnalysis dispara uma execução completa do pipeline e retorna os
// artefatos produzidos
func RunAnalysis(services AnalysisServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req runAnalysisRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				logger.WithError(err).Warn("analysis: corpo da requisição inválido")
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "corpo da requisição inválido", nil)
				return
			}
		}

		query := req.Query
		if query == "" {
			query = defaultQuery
		}

		logger.WithField("query", query).Info("analysis: executando pipeline sob demanda")

		run, err := services.Analyzer.Run(r.Context(), query)
		if err != nil {
			logger.WithError(err).Error("analysis: falha na execução do pipeline")
			apiErrors.WriteError(w, apiErrors.ErrAnalysisFailed, err.Error(), nil)
			return
		}

		writeJSON(w, http.StatusOK, run)
	})
}

// GetLatestRun retorna a execução mais recente do histórico persistido
func GetLatestRun(services AnalysisServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		if services.Repository == nil {
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "histórico de execuções desabilitado", nil)
			return
		}

		run, err := services.Repository.GetLatest()
		if err != nil {
			logger.WithError(err).Error("analysis: falha ao buscar a última execução")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, err.Error(), nil)
			return
		}

		if run == nil {
			apiErrors.WriteError(w, apiErrors.ErrRunNotFound, "nenhuma execução encontrada", nil)
			return
		}

		writeJSON(w, http.StatusOK, run)
	})
}

// GetRunByID retorna uma execução específica pelo seu identificador
func GetRunByID(services AnalysisServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		if services.Repository == nil {
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "histórico de execuções desabilitado", nil)
			return
		}

		runID := httprouter.ParamsFromContext(r.Context()).ByName("run_id")
		if runID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "run_id é obrigatório", nil)
			return
		}

		run, err := services.Repository.GetByRunID(runID)
		if err != nil {
			logger.WithError(err).WithField("run_id", runID).Error("analysis: falha ao buscar execução")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, err.Error(), nil)
			return
		}

		if run == nil {
			apiErrors.WriteError(w, apiErrors.ErrRunNotFound, "execução não encontrada", map[string]string{"run_id": runID})
			return
		}

		writeJSON(w, http.StatusOK, run)
	})
}

// GetDriftReport compara o dataset corrente com o baseline sem executar o
// pipeline completo
func GetDriftReport(services AnalysisServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		if services.Drift == nil {
			apiErrors.WriteError(w, apiErrors.ErrDriftUnavailable, "detector de drift desabilitado", nil)
			return
		}

		summary, err := services.Loader.Summarize(r.Context())
		if err != nil {
			logger.WithError(err).Error("analysis: falha ao resumir o dataset para drift")
			apiErrors.WriteError(w, apiErrors.ErrAnalysisFailed, err.Error(), nil)
			return
		}

		stats := services.Drift.ComputeStats(summary)
		report := services.Drift.DetectDrift(stats)

		writeJSON(w, http.StatusOK, report)
	})
}

// RefreshBaseline regrava o baseline de drift a partir do dataset corrente
func RefreshBaseline(services AnalysisServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		if err := services.Analyzer.RefreshBaseline(r.Context()); err != nil {
			logger.WithError(err).Error("analysis: falha ao atualizar o baseline")
			apiErrors.WriteError(w, apiErrors.ErrBaselineRefresh, err.Error(), nil)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "baseline atualizado"})
	})
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		log.L.WithError(err).Error("analysis: falha ao serializar resposta")
	}
}
