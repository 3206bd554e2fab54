package domain

// CreativeVariant é uma variação individual de anúncio (título, mensagem e CTA)
type CreativeVariant struct {
	Headline string `json:"headline"`
	Message  string `json:"message"`
	CTA      string `json:"cta"`
}

// CreativeSet é o conjunto de recomendações de criativo derivado do
// diagnóstico de uma campanha
type CreativeSet struct {
	Campaign             *string            `json:"campaign"`
	Diagnosis            string             `json:"diagnosis"`
	Rationale            string             `json:"rationale"`
	Issue                string             `json:"issue"`
	Creatives            []*CreativeVariant `json:"creatives"`
	RecommendedHeadlines []string           `json:"recommended_headlines"`
	RecommendedMessages  []string           `json:"recommended_messages"`
	CTA                  *string            `json:"cta"`
	SchemaVersion        string             `json:"schema_version"`
}

// CreativesDocument é o contrato de saída do gerador de criativos (schema 2.0)
type CreativesDocument struct {
	Creatives     []*CreativeSet `json:"creatives"`
	SchemaVersion string         `json:"schema_version"`
}
