package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-insight-engine/internal/domain"
	"github.com/vfg2006/campaign-insight-engine/pkg/schema"
)

func validInsight() map[string]any {
	return map[string]any{
		"hypothesis":       "Summer Sale: ROAS dropped 40% vs previous period",
		"evidence":         map[string]any{"campaign": "Summer Sale"},
		"expected_impact":  "High",
		"confidence":       0.85,
		"confidence_level": "high",
		"analysis_type":    "rule_based_diagnostic",
		"schema_version":   schema.Version,
	}
}

func validCreative() map[string]any {
	return map[string]any{
		"campaign":              "Summer Sale",
		"issue":                 "creative fatigue",
		"recommended_headlines": []any{"Fresh angle for Summer Sale"},
		"recommended_messages":  []any{"Test a contrasting visual"},
		"cta":                   "See the update",
		"schema_version":        schema.Version,
	}
}

func TestValidateInsights(t *testing.T) {
	validator := schema.NewValidator()

	tests := []struct {
		name           string
		doc            map[string]any
		expectedValid  bool
		expectedErrors []string
	}{
		{
			name: "Documento completo no schema vigente é válido",
			doc: map[string]any{
				"insights":       []any{validInsight()},
				"schema_version": schema.Version,
			},
			expectedValid: true,
		},
		{
			name:           "Documento nulo é inválido",
			doc:            nil,
			expectedValid:  false,
			expectedErrors: []string{"Root must be an object"},
		},
		{
			name:          "Documento sem a lista de insights é inválido",
			doc:           map[string]any{"schema_version": schema.Version},
			expectedValid: false,
			expectedErrors: []string{
				"Missing required field: 'insights'",
			},
		},
		{
			name: "Versão de schema divergente é inválida",
			doc: map[string]any{
				"insights":       []any{},
				"schema_version": "1.0",
			},
			expectedValid: false,
			expectedErrors: []string{
				"Invalid schema_version: 1.0. Expected '2.0'",
			},
		},
		{
			name: "Todas as violações são acumuladas, não apenas a primeira",
			doc: map[string]any{
				"insights": []any{
					map[string]any{
						"hypothesis": 42,
						"confidence": 1.5,
					},
				},
			},
			expectedValid: false,
			expectedErrors: []string{
				"Missing required field: 'schema_version'",
				"Insight[0] missing required field: 'evidence'",
				"Insight[0] missing required field: 'expected_impact'",
				"Insight[0] missing required field: 'schema_version'",
				"Insight[0].hypothesis must be a string",
				"Insight[0].confidence must be between 0 and 1, got 1.5",
			},
		},
		{
			name: "Confiança fora da faixa é inválida",
			doc: map[string]any{
				"insights": []any{func() map[string]any {
					insight := validInsight()
					insight["confidence"] = -0.1
					return insight
				}()},
				"schema_version": schema.Version,
			},
			expectedValid: false,
			expectedErrors: []string{
				"Insight[0].confidence must be between 0 and 1, got -0.1",
			},
		},
		{
			name: "Item que não é objeto é reportado pelo índice",
			doc: map[string]any{
				"insights":       []any{"not an object"},
				"schema_version": schema.Version,
			},
			expectedValid: false,
			expectedErrors: []string{
				"Insight[0] must be an object",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, errs := validator.ValidateInsights(tt.doc)

			assert.Equal(t, tt.expectedValid, valid)
			for _, expected := range tt.expectedErrors {
				assert.Contains(t, errs, expected)
			}
			if tt.expectedValid {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidateCreatives(t *testing.T) {
	validator := schema.NewValidator()

	tests := []struct {
		name           string
		doc            map[string]any
		expectedValid  bool
		expectedErrors []string
	}{
		{
			name: "Documento completo no schema vigente é válido",
			doc: map[string]any{
				"creatives":      []any{validCreative()},
				"schema_version": schema.Version,
			},
			expectedValid: true,
		},
		{
			name: "Headlines com elemento não textual são inválidas",
			doc: map[string]any{
				"creatives": []any{func() map[string]any {
					creative := validCreative()
					creative["recommended_headlines"] = []any{"ok", 42}
					return creative
				}()},
				"schema_version": schema.Version,
			},
			expectedValid: false,
			expectedErrors: []string{
				"Creative[0].recommended_headlines[1] must be a string",
			},
		},
		{
			name: "Campos obrigatórios ausentes são todos reportados",
			doc: map[string]any{
				"creatives":      []any{map[string]any{}},
				"schema_version": schema.Version,
			},
			expectedValid: false,
			expectedErrors: []string{
				"Creative[0] missing required field: 'campaign'",
				"Creative[0] missing required field: 'issue'",
				"Creative[0] missing required field: 'recommended_headlines'",
				"Creative[0] missing required field: 'recommended_messages'",
				"Creative[0] missing required field: 'cta'",
				"Creative[0] missing required field: 'schema_version'",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, errs := validator.ValidateCreatives(tt.doc)

			assert.Equal(t, tt.expectedValid, valid)
			for _, expected := range tt.expectedErrors {
				assert.Contains(t, errs, expected)
			}
		})
	}
}

func TestValidateValidated(t *testing.T) {
	validator := schema.NewValidator()

	doc := map[string]any{
		"validated": []any{
			map[string]any{
				"hypothesis":       "Summer Sale: ROAS dropped 40%",
				"confidence":       0.9,
				"severity":         "high",
				"validation_notes": "Statistically significant change",
				"schema_version":   schema.Version,
			},
		},
		"schema_version": schema.Version,
	}

	valid, errs := validator.ValidateValidated(doc)
	assert.True(t, valid)
	assert.Empty(t, errs)

	delete(doc["validated"].([]any)[0].(map[string]any), "severity")
	valid, errs = validator.ValidateValidated(doc)
	assert.False(t, valid)
	assert.Contains(t, errs, "Validated[0] missing required field: 'severity'")
}

func TestUpgradeInsightsToV2(t *testing.T) {
	validator := schema.NewValidator()

	legacy := map[string]any{
		"insights": []any{
			map[string]any{
				"hypothesis":          "Summer Sale: ROAS dropped",
				"evidence":            map[string]any{"campaign": "Summer Sale"},
				"confidence_estimate": 0.8,
			},
			map[string]any{
				"hypothesis": "Brand Awareness: CTR decline",
			},
			"garbage entry",
		},
		"schema_version": "1.0",
	}

	upgraded := schema.UpgradeInsightsToV2(legacy)

	valid, errs := validator.ValidateInsights(upgraded)
	require.True(t, valid, "documento atualizado deve ser válido: %v", errs)

	items := upgraded["insights"].([]any)
	require.Len(t, items, 2)

	first := items[0].(map[string]any)
	assert.Equal(t, 0.8, first["confidence"])
	assert.Equal(t, "high", first["confidence_level"])
	assert.Equal(t, schema.LegacyAnalysisType, first["analysis_type"])
	assert.Equal(t, schema.Version, first["schema_version"])

	// Sem confidence_estimate, a conversão assume 0.5 e faixa low
	second := items[1].(map[string]any)
	assert.Equal(t, 0.5, second["confidence"])
	assert.Equal(t, "low", second["confidence_level"])
	assert.Equal(t, "Unknown", second["expected_impact"])
}

func TestUpgradeCreativesToV2(t *testing.T) {
	validator := schema.NewValidator()

	legacy := map[string]any{
		"creatives": []any{
			map[string]any{
				"campaign":              "Summer Sale",
				"recommended_headlines": []any{"Old headline"},
			},
		},
	}

	upgraded := schema.UpgradeCreativesToV2(legacy)

	valid, errs := validator.ValidateCreatives(upgraded)
	require.True(t, valid, "documento atualizado deve ser válido: %v", errs)

	items := upgraded["creatives"].([]any)
	require.Len(t, items, 1)

	first := items[0].(map[string]any)
	assert.Equal(t, "Unknown", first["issue"])
	assert.Equal(t, []any{"Old headline"}, first["recommended_headlines"])
	assert.Equal(t, []any{}, first["recommended_messages"])
}

func TestToDocument(t *testing.T) {
	validator := schema.NewValidator()

	typed := &domain.InsightsDocument{
		Insights: []*domain.Insight{
			{
				Hypothesis:      "Summer Sale: ROAS dropped 40%",
				Evidence:        domain.Evidence{Campaign: "Summer Sale"},
				ExpectedImpact:  "High",
				Confidence:      0.9,
				ConfidenceLevel: domain.ConfidenceHigh,
				AnalysisType:    "rule_based_diagnostic",
				SchemaVersion:   schema.Version,
			},
		},
		SchemaVersion: schema.Version,
	}

	doc, err := schema.ToDocument(typed)
	require.NoError(t, err)

	valid, errs := validator.ValidateInsights(doc)
	assert.True(t, valid, "documento serializado deve ser válido: %v", errs)
	assert.Equal(t, schema.Version, doc["schema_version"])
}
