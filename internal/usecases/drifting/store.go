package drifting

import (
	"sync"

	"github.com/vfg2006/campaign-insight-engine/internal/domain"
)

// BaselineStore abstrai a persistência do snapshot de baseline. O detector de
// drift é o único dono da leitura e escrita do baseline; a escrita sobrescreve
// o snapshot anterior por inteiro
type BaselineStore interface {
	// Load retorna o baseline persistido, ou nil quando ainda não existe
	Load() (*domain.SnapshotStats, error)
	// Save persiste o snapshot, substituindo qualquer baseline anterior
	Save(stats *domain.SnapshotStats) error
}

// InMemoryStore é um BaselineStore em memória para testes isolados
type InMemoryStore struct {
	mu    sync.Mutex
	stats *domain.SnapshotStats
}

// NewInMemoryStore cria um store vazio (sem baseline)
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Load() (*domain.SnapshotStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats, nil
}

func (s *InMemoryStore) Save(stats *domain.SnapshotStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
	return nil
}
