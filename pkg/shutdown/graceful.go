package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/honeycarbs/alumni-jobs/pkg/logging"
)

type Stoppable interface {
	Shutdown(ctx context.Context) error
}

// Func adapts a plain function to Stoppable
type Func func(ctx context.Context) error

func (f Func) Shutdown(ctx context.Context) error { return f(ctx) }

// Graceful blocks until one of signals arrives or parent is cancelled, then
// stops every component in order within timeout. Errors are joined.
func Graceful(parent context.Context, signals []os.Signal, timeout time.Duration, log *logging.Logger, components ...Stoppable) error {
	log = logging.OrNop(log)

	sigCtx, stop := signal.NotifyContext(parent, signals...)
	defer stop()

	<-sigCtx.Done()
	log.Info("shutdown signal received")

	return Stop(context.Background(), timeout, log, components...)
}

// Stop shuts components down in order, sharing one deadline
func Stop(parent context.Context, timeout time.Duration, log *logging.Logger, components ...Stoppable) error {
	log = logging.OrNop(log)

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	var errs []error
	for _, c := range components {
		if c == nil {
			continue
		}
		if err := c.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		log.Warn("graceful shutdown completed with error", "err", err)
		return err
	}
	log.Info("graceful shutdown completed successfully")
	return nil
}
