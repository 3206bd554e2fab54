package schema

// LegacyAnalysisType marca registros convertidos do schema 1.x
const LegacyAnalysisType = "legacy_v1_conversion"

// UpgradeInsightsToV2 converte um documento de insights do schema 1.x para o
// 2.0: o campo legado confidence_estimate vira confidence, a faixa de
// confiança é sintetizada com as mesmas bandas usadas no motor (alta > 0.7,
// moderada > 0.5) e o registro é marcado como conversão legada
func UpgradeInsightsToV2(old map[string]any) map[string]any {
	upgraded := map[string]any{
		"insights":       []any{},
		"schema_version": Version,
	}

	items, _ := old["insights"].([]any)
	converted := make([]any, 0, len(items))

	for _, item := range items {
		insight, ok := item.(map[string]any)
		if !ok {
			continue
		}

		confidence := 0.5
		if raw, ok := insight["confidence_estimate"]; ok {
			if n, err := asNumber(raw); err == nil {
				confidence = n
			}
		}

		level := "low"
		switch {
		case confidence > 0.7:
			level = "high"
		case confidence > 0.5:
			level = "moderate"
		}

		converted = append(converted, map[string]any{
			"hypothesis":       stringOr(insight["hypothesis"], ""),
			"evidence":         mapOr(insight["evidence"]),
			"expected_impact":  stringOr(insight["expected_impact"], "Unknown"),
			"confidence":       confidence,
			"confidence_level": level,
			"analysis_type":    LegacyAnalysisType,
			"schema_version":   Version,
		})
	}

	upgraded["insights"] = converted
	return upgraded
}

// UpgradeCreativesToV2 converte um documento de criativos do schema 1.x para o 2.0
func UpgradeCreativesToV2(old map[string]any) map[string]any {
	upgraded := map[string]any{
		"creatives":      []any{},
		"schema_version": Version,
	}

	items, _ := old["creatives"].([]any)
	converted := make([]any, 0, len(items))

	for _, item := range items {
		creative, ok := item.(map[string]any)
		if !ok {
			continue
		}

		converted = append(converted, map[string]any{
			"campaign":              creative["campaign"],
			"issue":                 stringOr(creative["issue"], "Unknown"),
			"recommended_headlines": arrayOr(creative["recommended_headlines"]),
			"recommended_messages":  arrayOr(creative["recommended_messages"]),
			"cta":                   creative["cta"],
			"schema_version":        Version,
		})
	}

	upgraded["creatives"] = converted
	return upgraded
}

func stringOr(raw any, def string) string {
	if s, ok := raw.(string); ok {
		return s
	}
	return def
}

func mapOr(raw any) map[string]any {
	if m, ok := raw.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func arrayOr(raw any) []any {
	if a, ok := raw.([]any); ok {
		return a
	}
	return []any{}
}
