package bootstrap

import (
	"context"
	"time"

	"github.com/paklog/inventory-ledger/pkg/mlog"
)

// supervisedMaxBackoff bounds the restart delay for a worker that keeps
// failing, so a persistently broken downstream (e.g. RabbitMQ unreachable)
// does not spin the process in a tight crash loop.
const supervisedMaxBackoff = 30 * time.Second

// supervise runs fn repeatedly until ctx is cancelled, restarting it after a
// panic or a returned error with a backoff that grows on successive
// failures and resets once fn has run cleanly for a while (grounded on the
// teacher's worker-pool supervision loops in the consumer package, adapted
// to the standalone context here since there's no per-message ack/nack to
// reason about at this level).
func supervise(ctx context.Context, name string, log mlog.Logger, fn func(ctx context.Context) error) {
	backoff := 1 * time.Second

	for {
		if ctx.Err() != nil {
			return
		}

		started := time.Now()

		err := runOnce(ctx, name, log, fn)

		if ctx.Err() != nil {
			return
		}

		if err == nil {
			return
		}

		if time.Since(started) > supervisedMaxBackoff {
			backoff = 1 * time.Second
		}

		log.Warnf("bootstrap: worker %s exited, restarting in %s: %v", name, backoff, err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > supervisedMaxBackoff {
			backoff = supervisedMaxBackoff
		}
	}
}

func runOnce(ctx context.Context, name string, log mlog.Logger, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("bootstrap: worker %s panicked: %v", name, r)
			err = &workerPanicError{worker: name, recovered: r}
		}
	}()

	return fn(ctx)
}

type workerPanicError struct {
	worker    string
	recovered any
}

func (e *workerPanicError) Error() string {
	return "worker " + e.worker + " panicked"
}

// StartWorkers launches the outbox publisher, snapshot scheduler, and
// RabbitMQ consumer as supervised background goroutines. It returns
// immediately; cancel ctx to stop the publisher and consumer, and call
// StopWorkers to stop the scheduler.
func (a *App) StartWorkers(ctx context.Context) {
	a.Scheduler.Start()

	go supervise(ctx, "outbox-publisher", a.Log, a.Publisher.Run)
	go supervise(ctx, "rabbitmq-consumer", a.Log, a.Consumer.Run)
}

// StopWorkers stops the snapshot scheduler's cron loop. The publisher and
// consumer goroutines exit on their own once ctx (passed to StartWorkers) is
// cancelled.
func (a *App) StopWorkers() {
	a.Scheduler.Stop()
}
