// Package schema implementa a governança do contrato versionado de saída:
// validação do formato 2.0 e atualização de documentos legados (1.x).
package schema

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Version é a versão vigente do contrato de saída
const Version = "2.0"

// Validator valida documentos de insights e criativos contra o schema 2.0.
// A validação é exaustiva: todas as violações são acumuladas, nunca apenas a primeira
type Validator struct{}

// NewValidator cria um validador do schema vigente
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateInsights valida o documento de insights contra o schema 2.0
func (v *Validator) ValidateInsights(doc map[string]any) (bool, []string) {
	errs := []string{}

	if doc == nil {
		return false, append(errs, "Root must be an object")
	}

	v.checkVersion(doc, "", &errs)

	raw, ok := doc["insights"]
	if !ok {
		errs = append(errs, "Missing required field: 'insights'")
		return len(errs) == 0, errs
	}

	items, ok := raw.([]any)
	if !ok {
		errs = append(errs, "'insights' must be an array")
		return false, errs
	}

	for idx, item := range items {
		insight, ok := item.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("Insight[%d] must be an object", idx))
			continue
		}

		prefix := fmt.Sprintf("Insight[%d]", idx)
		v.requireFields(insight, prefix, &errs,
			"hypothesis", "evidence", "expected_impact", "confidence", "schema_version")

		if raw, ok := insight["hypothesis"]; ok {
			if _, isStr := raw.(string); !isStr {
				errs = append(errs, prefix+".hypothesis must be a string")
			}
		}

		if raw, ok := insight["evidence"]; ok {
			if _, isObj := raw.(map[string]any); !isObj {
				errs = append(errs, prefix+".evidence must be an object")
			}
		}

		v.checkConfidence(insight, prefix, &errs)
		v.checkItemVersion(insight, prefix, &errs)
	}

	return len(errs) == 0, errs
}

// ValidateCreatives valida o documento de criativos contra o schema 2.0
func (v *Validator) ValidateCreatives(doc map[string]any) (bool, []string) {
	errs := []string{}

	if doc == nil {
		return false, append(errs, "Root must be an object")
	}

	v.checkVersion(doc, "", &errs)

	raw, ok := doc["creatives"]
	if !ok {
		errs = append(errs, "Missing required field: 'creatives'")
		return len(errs) == 0, errs
	}

	items, ok := raw.([]any)
	if !ok {
		errs = append(errs, "'creatives' must be an array")
		return false, errs
	}

	for idx, item := range items {
		creative, ok := item.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("Creative[%d] must be an object", idx))
			continue
		}

		prefix := fmt.Sprintf("Creative[%d]", idx)
		v.requireFields(creative, prefix, &errs,
			"campaign", "issue", "recommended_headlines", "recommended_messages", "cta", "schema_version")

		v.checkStringArray(creative, prefix, "recommended_headlines", &errs)
		v.checkStringArray(creative, prefix, "recommended_messages", &errs)
		v.checkItemVersion(creative, prefix, &errs)
	}

	return len(errs) == 0, errs
}

// ValidateValidated valida o documento de insights validados contra o schema 2.0
func (v *Validator) ValidateValidated(doc map[string]any) (bool, []string) {
	errs := []string{}

	if doc == nil {
		return false, append(errs, "Root must be an object")
	}

	v.checkVersion(doc, "", &errs)

	raw, ok := doc["validated"]
	if !ok {
		errs = append(errs, "Missing required field: 'validated'")
		return len(errs) == 0, errs
	}

	items, ok := raw.([]any)
	if !ok {
		errs = append(errs, "'validated' must be an array")
		return false, errs
	}

	for idx, item := range items {
		validated, ok := item.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("Validated[%d] must be an object", idx))
			continue
		}

		prefix := fmt.Sprintf("Validated[%d]", idx)
		v.requireFields(validated, prefix, &errs,
			"hypothesis", "confidence", "severity", "validation_notes", "schema_version")

		v.checkConfidence(validated, prefix, &errs)
		v.checkItemVersion(validated, prefix, &errs)
	}

	return len(errs) == 0, errs
}

func (v *Validator) requireFields(item map[string]any, prefix string, errs *[]string, fields ...string) {
	for _, field := range fields {
		if _, ok := item[field]; !ok {
			*errs = append(*errs, fmt.Sprintf("%s missing required field: '%s'", prefix, field))
		}
	}
}

func (v *Validator) checkVersion(doc map[string]any, prefix string, errs *[]string) {
	raw, ok := doc["schema_version"]
	if !ok {
		*errs = append(*errs, "Missing required field: 'schema_version'")
		return
	}

	version, isStr := raw.(string)
	if !isStr || version != Version {
		*errs = append(*errs, fmt.Sprintf("Invalid schema_version: %v. Expected '%s'", raw, Version))
	}
}

func (v *Validator) checkItemVersion(item map[string]any, prefix string, errs *[]string) {
	raw, ok := item["schema_version"]
	if !ok {
		return
	}
	if version, isStr := raw.(string); !isStr || version != Version {
		*errs = append(*errs, fmt.Sprintf("%s.schema_version must be '%s'", prefix, Version))
	}
}

func (v *Validator) checkConfidence(item map[string]any, prefix string, errs *[]string) {
	raw, ok := item["confidence"]
	if !ok {
		return
	}

	conf, err := asNumber(raw)
	if err != nil {
		*errs = append(*errs, prefix+".confidence must be a number")
		return
	}

	if conf < 0 || conf > 1 {
		*errs = append(*errs, fmt.Sprintf("%s.confidence must be between 0 and 1, got %v", prefix, conf))
	}
}

func (v *Validator) checkStringArray(item map[string]any, prefix, field string, errs *[]string) {
	raw, ok := item[field]
	if !ok {
		return
	}

	arr, isArr := raw.([]any)
	if !isArr {
		*errs = append(*errs, fmt.Sprintf("%s.%s must be an array", prefix, field))
		return
	}

	for jdx, elem := range arr {
		if _, isStr := elem.(string); !isStr {
			*errs = append(*errs, fmt.Sprintf("%s.%s[%d] must be a string", prefix, field, jdx))
		}
	}
}

func asNumber(raw any) (float64, error) {
	switch n := raw.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("not a number: %T", raw)
}

// ToDocument converte um valor tipado em documento genérico para validação,
// passando pela serialização JSON para refletir o formato de saída real
func ToDocument(value any) (map[string]any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	return doc, nil
}
