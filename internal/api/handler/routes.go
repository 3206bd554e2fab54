package handler

import (
	"net/http"

	"github.com/vfg2006/campaign-insight-engine/internal/api/handler/router"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Analysis(services AnalysisServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/analysis/run",
			Method:  http.MethodPost,
			Handler: RunAnalysis(services),
		},
		{
			Path:    "/v1/analysis/latest",
			Method:  http.MethodGet,
			Handler: GetLatestRun(services),
		},
		{
			Path:    "/v1/analysis/runs/:run_id",
			Method:  http.MethodGet,
			Handler: GetRunByID(services),
		},
		{
			Path:    "/v1/analysis/drift",
			Method:  http.MethodGet,
			Handler: GetDriftReport(services),
		},
		{
			Path:    "/v1/analysis/baseline/refresh",
			Method:  http.MethodPost,
			Handler: RefreshBaseline(services),
		},
	}
}
