package resilience

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Options parametriza o envelope de execução resiliente de um estágio.
// O Fallback, quando informado, é retornado no esgotamento das tentativas
// em vez de propagar a falha
type Options[T any] struct {
	// Stage identifica o estágio nos logs e na classificação de erro
	Stage string
	// Kind é a classificação aplicada ao erro na falha final
	Kind ErrorKind
	// MaxRetries é o número de novas tentativas após a primeira falha
	MaxRetries int
	// BaseDelay é a espera inicial do backoff exponencial (base_delay × 2^tentativa)
	BaseDelay time.Duration
	// Fallback opcional devolvido como resultado degradado na falha final
	Fallback *T
	// LogLevel controla a verbosidade dos eventos de retry (default: warning)
	LogLevel logrus.Level
}

func (o Options[T]) retryLog() func(args ...interface{}) {
	logger := logrus.WithField("stage", o.Stage)
	switch o.LogLevel {
	case logrus.DebugLevel:
		return logger.Debug
	case logrus.InfoLevel:
		return logger.Info
	default:
		return logger.Warn
	}
}

// Call executa a operação com retry e backoff exponencial. Entre tentativas a
// goroutine chamadora fica bloqueada pelo sleep do backoff; não há cancelamento
// além do orçamento de tentativas. Sucesso após retry é logado de forma
// distinta do sucesso de primeira tentativa
func Call[T any](ctx context.Context, opts Options[T], op func(context.Context) (T, error)) (T, error) {
	if opts.Kind == "" {
		opts.Kind = KindUnexpected
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 500 * time.Millisecond
	}

	retryLog := opts.retryLog()
	attempts := opts.MaxRetries + 1

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			if attempt > 0 {
				logrus.WithFields(logrus.Fields{
					"stage":    opts.Stage,
					"attempt":  attempt + 1,
					"attempts": attempts,
				}).Info("Estágio concluído com sucesso após retry")
			}
			return result, nil
		}

		lastErr = err

		if attempt < attempts-1 {
			delay := opts.BaseDelay * time.Duration(1<<uint(attempt))
			retryLog("Tentativa do estágio falhou, aguardando backoff: ",
				"attempt=", attempt+1, "/", attempts,
				" delay=", delay, " err=", err)
			time.Sleep(delay)
			continue
		}

		logrus.WithFields(logrus.Fields{
			"stage":    opts.Stage,
			"attempts": attempts,
			"error":    err.Error(),
		}).Error("Estágio esgotou as tentativas")
	}

	if opts.Fallback != nil {
		logrus.WithFields(logrus.Fields{
			"stage": opts.Stage,
			"kind":  opts.Kind,
		}).Warn("Estágio degradado: retornando valor de fallback")
		return *opts.Fallback, nil
	}

	var zero T
	return zero, NewPipelineError(opts.Kind, opts.Stage, lastErr)
}
