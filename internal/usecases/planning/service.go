package planning

import (
	"context"
	"strings"

	"github.com/vfg2006/campaign-insight-engine/pkg/log"
)

// Plan é a sequência de etapas que o orquestrador executa para responder
// a uma consulta de análise
type Plan struct {
	Query string   `json:"query"`
	Steps []string `json:"steps"`
}

// Planner decompõe uma consulta em etapas acionáveis do pipeline
type Planner interface {
	Plan(ctx context.Context, query string) *Plan
}

type service struct{}

func NewService() Planner {
	return &service{}
}

var baseSteps = []string{
	"load_and_summarize_data",
	"analyze_roas_trend",
	"identify_top_underperformers",
	"generate_hypotheses",
	"validate_hypotheses",
	"generate_creative_recommendations",
	"save_outputs",
}

// Plan usa decomposição simples por palavra-chave: consultas que mencionam
// ROAS ganham uma etapa de série temporal dedicada
func (s *service) Plan(ctx context.Context, query string) *Plan {
	steps := make([]string, 0, len(baseSteps)+1)
	steps = append(steps, baseSteps...)

	if strings.Contains(strings.ToLower(query), "roas") {
		steps = append(steps[:1], append([]string{"focus_on_roas_time_series"}, steps[1:]...)...)
	}

	log.ForContext(ctx).WithField("stage", "planning").Infof("plano gerado com %d etapas", len(steps))

	return &Plan{
		Query: query,
		Steps: steps,
	}
}
