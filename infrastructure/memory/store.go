// Package memory persiste a memória curta do analisador: insights validados
// de execuções anteriores e padrões de hipótese recorrentes.
package memory

import (
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/campaign-insight-engine/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Pattern é uma hipótese recorrente entre execuções
type Pattern struct {
	Hypothesis string `json:"hypothesis"`
	Frequency  int    `json:"frequency"`
}

// Memory é o documento persistido entre execuções
type Memory struct {
	PreviousInsights []*domain.ValidatedInsight `json:"previous_insights"`
	LearnedPatterns  []*Pattern                 `json:"learned_patterns"`
}

// Store persiste a memória em um único arquivo JSON
type Store struct {
	path       string
	maxEntries int
}

// NewStore cria um store com retenção limitada aos últimos maxEntries insights
func NewStore(path string, maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = 5
	}
	return &Store{path: path, maxEntries: maxEntries}
}

// Load lê a memória persistida; arquivo inexistente retorna memória vazia
func (s *Store) Load() (*Memory, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return emptyMemory(), nil
		}
		return nil, errors.Wrapf(err, "erro ao ler memória em %s", s.path)
	}

	memory := emptyMemory()
	if err := json.Unmarshal(raw, memory); err != nil {
		return nil, errors.Wrapf(err, "erro ao decodificar memória em %s", s.path)
	}

	return memory, nil
}

// Update acrescenta os insights validados da execução corrente, limita a
// retenção e recalcula os padrões de hipótese recorrentes antes de persistir
func (s *Store) Update(memory *Memory, validated []*domain.ValidatedInsight) error {
	if memory == nil {
		memory = emptyMemory()
	}

	memory.PreviousInsights = append(memory.PreviousInsights, validated...)
	if len(memory.PreviousInsights) > s.maxEntries {
		memory.PreviousInsights = memory.PreviousInsights[len(memory.PreviousInsights)-s.maxEntries:]
	}

	frequencies := map[string]int{}
	order := []string{}
	for _, insight := range memory.PreviousInsights {
		if insight == nil || insight.Hypothesis == "" {
			continue
		}
		if frequencies[insight.Hypothesis] == 0 {
			order = append(order, insight.Hypothesis)
		}
		frequencies[insight.Hypothesis]++
	}

	memory.LearnedPatterns = []*Pattern{}
	for _, hypothesis := range order {
		if frequencies[hypothesis] > 1 {
			memory.LearnedPatterns = append(memory.LearnedPatterns, &Pattern{
				Hypothesis: hypothesis,
				Frequency:  frequencies[hypothesis],
			})
		}
	}

	return s.save(memory)
}

func (s *Store) save(memory *Memory) error {
	raw, err := json.MarshalIndent(memory, "", "  ")
	if err != nil {
		return errors.Wrap(err, "erro ao serializar memória")
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "erro ao criar diretório %s", dir)
		}
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return errors.Wrapf(err, "erro ao gravar memória em %s", s.path)
	}

	return nil
}

func emptyMemory() *Memory {
	return &Memory{
		PreviousInsights: []*domain.ValidatedInsight{},
		LearnedPatterns:  []*Pattern{},
	}
}
