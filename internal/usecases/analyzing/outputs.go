package analyzing

import (
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

const (
	insightsFileName  = "insights.json"
	validatedFileName = "validated.json"
	creativesFileName = "creatives.json"
	reportFileName    = "report.md"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// outputWriter grava os artefatos da execução no diretório de saída
type outputWriter struct {
	dir string
}

func newOutputWriter(dir string) *outputWriter {
	return &outputWriter{dir: dir}
}

func (w *outputWriter) writeJSON(name string, value any) error {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "erro ao serializar %s", name)
	}
	return w.write(name, raw)
}

func (w *outputWriter) write(name string, content []byte) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return errors.Wrap(err, "erro ao criar o diretório de saída")
	}

	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return errors.Wrapf(err, "erro ao gravar %s", path)
	}

	return nil
}
