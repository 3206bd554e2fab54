package resilience

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifica as falhas do pipeline para que o chamador aplique a
// política de degradação adequada a cada estágio
type ErrorKind string

const (
	KindData       ErrorKind = "data"
	KindPlanner    ErrorKind = "planner"
	KindInsight    ErrorKind = "insight"
	KindEvaluator  ErrorKind = "evaluator"
	KindCreative   ErrorKind = "creative"
	KindSchema     ErrorKind = "schema"
	KindUnexpected ErrorKind = "unexpected"
)

// PipelineError é a falha classificada de um estágio, preservando a causa original
type PipelineError struct {
	Kind  ErrorKind
	Stage string
	cause error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: falha classificada como %q: %v", e.Stage, e.Kind, e.cause)
}

// Cause expõe a causa original para o pacote pkg/errors
func (e *PipelineError) Cause() error { return e.cause }

// Unwrap expõe a causa original para errors.Is/As da biblioteca padrão
func (e *PipelineError) Unwrap() error { return e.cause }

// NewPipelineError cria uma falha classificada envolvendo a causa informada
func NewPipelineError(kind ErrorKind, stage string, cause error) *PipelineError {
	if cause == nil {
		cause = errors.New("erro desconhecido")
	}
	return &PipelineError{Kind: kind, Stage: stage, cause: cause}
}

// KindOf extrai a classificação de um erro; erros não classificados são
// tratados como inesperados
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnexpected
}

// IsKind verifica se o erro carrega a classificação informada
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
