package worker

import (
	"context"
	"sync"
	"time"

	"github.com/pershin-daniil/slotpoll/pkg/metrics"
	"github.com/pershin-daniil/slotpoll/pkg/notifier"
	"github.com/sirupsen/logrus"
)

const sendTimeout = 30 * time.Second

// Dispatcher delivers notifications in the background. Enqueue never waits on
// delivery; failures are logged and counted, never returned to the caller.
type Dispatcher struct {
	log      *logrus.Entry
	notifier notifier.Notifier
	workers  int
	queue    chan notifier.Message
}

func New(log *logrus.Logger, n notifier.Notifier, workers, queueSize int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Dispatcher{
		log:      log.WithField("component", "worker"),
		notifier: n,
		workers:  workers,
		queue:    make(chan notifier.Message, queueSize),
	}
}

// Enqueue schedules msg for delivery. When the queue is full the message is
// dropped.
func (d *Dispatcher) Enqueue(msg notifier.Message) {
	select {
	case d.queue <- msg:
	default:
		metrics.Notifications.WithLabelValues("dropped").Inc()
		d.log.Warnf("notification queue is full, dropping email to %s: %s", msg.To, msg.Subject)
	}
}

// Run delivers queued messages until ctx is cancelled, then sends whatever
// is still queued and returns.
func (d *Dispatcher) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.loop(ctx)
		}()
	}
	wg.Wait()
	d.drain()
}

func (d *Dispatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-d.queue:
			d.deliver(msg)
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case msg := <-d.queue:
			d.deliver(msg)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(msg notifier.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := d.notifier.Send(ctx, msg); err != nil {
		metrics.Notifications.WithLabelValues("failed").Inc()
		d.log.Errorf("err notifying %s: %v", msg.To, err)
		return
	}
	metrics.Notifications.WithLabelValues("sent").Inc()
}
