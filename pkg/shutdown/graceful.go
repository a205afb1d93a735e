package shutdown

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/honeycarbs/job-finder/pkg/logging"
)

type Stoppable interface {
	Shutdown(ctx context.Context) error
}

// Graceful stops s within timeout once one of signals arrives, then runs
// cleanups in reverse order. The returned channel closes when all of that
// has finished; callers must wait on it before exiting.
func Graceful(signals []os.Signal, s Stoppable, timeout time.Duration, log *logging.Logger, cleanups ...func()) <-chan struct{} {
	sigCtx, stop := signal.NotifyContext(context.Background(), signals...)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer stop()

		<-sigCtx.Done()
		log.Info("shutdown signal received")

		Now(s, timeout, log, cleanups...)
	}()

	return done
}

// Now performs the shutdown sequence without waiting for a signal
func Now(s Stoppable, timeout time.Duration, log *logging.Logger, cleanups ...func()) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		log.Warn("graceful shutdown completed with error", "err", err)
	} else {
		log.Info("graceful shutdown completed successfully")
	}

	for i := len(cleanups) - 1; i >= 0; i-- {
		if cleanups[i] != nil {
			cleanups[i]()
		}
	}
}
