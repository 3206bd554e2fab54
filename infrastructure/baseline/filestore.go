// Package baseline implementa a persistência em disco do snapshot de
// estatísticas usado pelo detector de drift.
package baseline

import (
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/campaign-insight-engine/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileStore guarda o baseline como um único documento JSON em disco,
// sobrescrito por inteiro a cada atualização. Não há escrita concorrente:
// execuções simultâneas compartilhando o arquivo não são suportadas
type FileStore struct {
	path string
}

// NewFileStore cria um store apontando para o caminho configurado
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load lê o baseline persistido. Arquivo inexistente retorna nil sem erro
// (primeira execução)
func (s *FileStore) Load() (*domain.SnapshotStats, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "erro ao ler baseline em %s", s.path)
	}

	stats := &domain.SnapshotStats{}
	if err := json.Unmarshal(raw, stats); err != nil {
		return nil, errors.Wrapf(err, "erro ao decodificar baseline em %s", s.path)
	}

	return stats, nil
}

// Save grava o snapshot, criando o diretório se necessário
func (s *FileStore) Save(stats *domain.SnapshotStats) error {
	raw, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return errors.Wrap(err, "erro ao serializar baseline")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "erro ao criar diretório %s", dir)
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return errors.Wrapf(err, "erro ao gravar baseline em %s", s.path)
	}

	return nil
}
