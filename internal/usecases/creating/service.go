package creating

import (
	"context"
	"strings"

	"github.com/vfg2006/campaign-insight-engine/internal/domain"
	"github.com/vfg2006/campaign-insight-engine/pkg/log"
	"github.com/vfg2006/campaign-insight-engine/pkg/schema"
)

const fallbackTemplateKey = "performance_degradation"

// Generator produz recomendações de criativo orientadas pelo diagnóstico
// de cada campanha
type Generator interface {
	Generate(ctx context.Context, summary *domain.PeriodSummary, insights *domain.InsightsDocument) *domain.CreativesDocument
}

type template struct {
	rationale string
	headlines []string
	messages  []string
	ctas      []string
}

type service struct {
	templates map[string]template
	topN      int
}

func NewService() Generator {
	return &service{
		topN:      3,
		templates: builtinTemplates(),
	}
}

// Generate nunca retorna nil nem propaga pânico: na ausência de diagnóstico
// acionável devolve o conjunto sentinela "no_significant_drop"
func (s *service) Generate(ctx context.Context, summary *domain.PeriodSummary, insights *domain.InsightsDocument) (doc *domain.CreativesDocument) {
	logger := log.ForContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.WithField("stage", "creating").Errorf("pânico ao gerar criativos: %v", r)
			doc = emptyDocument()
		}
	}()

	diagnoses := s.extractDiagnoses(summary, insights)

	sets := make([]*domain.CreativeSet, 0, len(diagnoses))
	for _, d := range diagnoses {
		sets = append(sets, s.buildSet(d))
	}

	if len(sets) == 0 {
		return emptyDocument()
	}

	logger.WithField("stage", "creating").Infof("%d conjuntos de criativos gerados", len(sets))

	return &domain.CreativesDocument{
		Creatives:     sets,
		SchemaVersion: schema.Version,
	}
}

type campaignDiagnosis struct {
	campaign  string
	diagnosis string
	rationale string
}

// extractDiagnoses prioriza os diagnósticos dos insights; na falta deles,
// infere a partir das quedas do sumário
func (s *service) extractDiagnoses(summary *domain.PeriodSummary, insights *domain.InsightsDocument) []campaignDiagnosis {
	var diagnoses []campaignDiagnosis

	if insights != nil {
		for _, ins := range insights.Insights {
			campaign := ins.Evidence.Campaign
			if campaign == "" {
				campaign = firstSegment(ins.Hypothesis)
			}
			diagnosis := ins.Evidence.Diagnosis
			if diagnosis == "" || campaign == "" || diagnosis == "stable_performance" || diagnosis == "error" {
				continue
			}

			diagnoses = append(diagnoses, campaignDiagnosis{
				campaign:  campaign,
				diagnosis: diagnosis,
				rationale: "Diagnosis supplied by the insight generator.",
			})
		}
	}

	if len(diagnoses) > 0 || summary == nil {
		return diagnoses
	}

	for _, drop := range summary.TopDrops.CTRDropCampaigns {
		diagnosis := "audience_saturation"
		if drop.ImpressionsChange >= 0 {
			diagnosis = "creative_fatigue"
		}
		diagnoses = append(diagnoses, campaignDiagnosis{
			campaign:  drop.Campaign,
			diagnosis: diagnosis,
			rationale: "CTR decline detected; inferred diagnosis from CTR and impressions trend.",
		})
	}

	for _, drop := range summary.TopDrops.ROASDropCampaigns {
		diagnoses = append(diagnoses, campaignDiagnosis{
			campaign:  drop.Campaign,
			diagnosis: "severe_performance_degradation",
			rationale: "ROAS decline detected; applying recovery-focused guidance.",
		})
	}

	return diagnoses
}

func (s *service) buildSet(d campaignDiagnosis) *domain.CreativeSet {
	key := templateKey(d.diagnosis)
	tpl, ok := s.templates[key]
	if !ok {
		tpl = s.templates[fallbackTemplateKey]
	}

	headlines := make([]string, 0, s.topN)
	for _, h := range tpl.headlines {
		if len(headlines) == s.topN {
			break
		}
		headlines = append(headlines, strings.ReplaceAll(h, "{camp}", d.campaign))
	}

	messages := limit(tpl.messages, s.topN)
	ctas := limit(tpl.ctas, s.topN)

	variants := make([]*domain.CreativeVariant, 0, len(headlines))
	for i := 0; i < len(headlines) && i < len(messages); i++ {
		variants = append(variants, &domain.CreativeVariant{
			Headline: headlines[i],
			Message:  messages[i],
			CTA:      ctas[i%len(ctas)],
		})
	}

	campaign := d.campaign
	cta := ctas[0]

	return &domain.CreativeSet{
		Campaign:             &campaign,
		Diagnosis:            d.diagnosis,
		Rationale:            d.rationale,
		Issue:                strings.ReplaceAll(d.diagnosis, "_", " "),
		Creatives:            variants,
		RecommendedHeadlines: headlines,
		RecommendedMessages:  messages,
		CTA:                  &cta,
		SchemaVersion:        schema.Version,
	}
}

// templateKey reduz diagnósticos compostos ("a + b") ao primeiro componente
// com template próprio
func templateKey(diagnosis string) string {
	for _, part := range strings.Split(diagnosis, " + ") {
		switch part {
		case "creative_fatigue", "audience_saturation":
			return part
		case "engagement_decline":
			return "creative_fatigue"
		case "severe_performance_degradation", "moderate_performance_decline":
			return "performance_degradation"
		case "high_spend_inefficiency":
			return "competition_likelihood"
		}
	}
	return fallbackTemplateKey
}

func emptyDocument() *domain.CreativesDocument {
	return &domain.CreativesDocument{
		Creatives: []*domain.CreativeSet{
			{
				Campaign:             nil,
				Diagnosis:            "no_significant_drop",
				Rationale:            "No campaigns with actionable diagnosis were found.",
				Issue:                "No action",
				Creatives:            []*domain.CreativeVariant{},
				RecommendedHeadlines: []string{},
				RecommendedMessages:  []string{},
				CTA:                  nil,
				SchemaVersion:        schema.Version,
			},
		},
		SchemaVersion: schema.Version,
	}
}

func limit(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}

func firstSegment(hypothesis string) string {
	if idx := strings.Index(hypothesis, ":"); idx > 0 {
		return strings.TrimSpace(hypothesis[:idx])
	}
	return ""
}

func builtinTemplates() map[string]template {
	return map[string]template{
		"creative_fatigue": {
			rationale: "CTR is falling while reach holds; rotate hooks and refresh visuals to reset fatigue.",
			headlines: []string{
				"Fresh angle for {camp}: new hook to stop the scroll",
				"{camp} refresh: new creative, same offer",
				"Reboot {camp}: highlight a different benefit",
			},
			messages: []string{
				"Test a contrasting visual and a curiosity-first opener; keep offer intact but rewrite the first line.",
				"Swap the hero image to feature social proof and tighten the value prop in 12 words.",
				"Lead with a question, add a specific outcome, close with urgency; keep CTA consistent.",
			},
			ctas: []string{"See the update", "Try the new look", "Check the refresh"},
		},
		"audience_saturation": {
			rationale: "CTR and impressions down; broaden or rotate audience entry points to reduce overlap.",
			headlines: []string{
				"New angle for {camp}: reach the next cohort",
				"Expand {camp}: speak to a fresh segment",
				"{camp}: alternate hook to escape overlap",
			},
			messages: []string{
				"Split tests with age/interest variants; mirror language to the new cohort and rotate the offer framing.",
				"Use audience-specific proof and a tailored pain point; reduce reliance on current lookalikes.",
				"Launch a net-new hook focused on a different job-to-be-done; cap frequency with tighter exclusions.",
			},
			ctas: []string{"Explore options", "Find your fit", "See tailored picks"},
		},
		"competition_likelihood": {
			rationale: "ROAS down with steady spend; differentiate offer and tighten value communication.",
			headlines: []string{
				"{camp}: why choose us now",
				"Beat alternatives: {camp} value proof",
				"Switch to {camp}: clearer value, clearer offer",
			},
			messages: []string{
				"Call out 2 clear differentiators and add a price/value comparison; keep CTA single and direct.",
				"Use competitor contrast bullet, add guarantee and delivery speed; keep copy under 40 words.",
				"Lead with strongest proof point, then urgency; remove secondary CTAs to focus on one action.",
			},
			ctas: []string{"Choose this offer", "Lock in value", "See why we win"},
		},
		"performance_degradation": {
			rationale: "General performance drop; refocus on core offer, proof, and frictionless CTA.",
			headlines: []string{
				"{camp}: tighten offer and proof",
				"Recover {camp}: clarity + proof",
				"{camp} reset: single promise, single CTA",
			},
			messages: []string{
				"Clarify the primary benefit in the first line, add a single proof point, and trim any secondary asks.",
				"Highlight the strongest testimonial, restate the offer with a concrete number, and reduce copy to essentials.",
				"Use one-liner benefit, one proof, one CTA; remove optional steps and emphasize speed to value.",
			},
			ctas: []string{"Get the offer", "See proof", "Start now"},
		},
	}
}
