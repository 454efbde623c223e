package notify

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

var ErrQueueFull = errors.New("notification queue full")

// Dispatcher decouples mail delivery from the request path. Callers only
// need the message accepted onto the queue; a slow or broken transport
// never blocks or fails an already-committed operation.
type Dispatcher struct {
	mailer Mailer
	log    *zap.Logger
	ch     chan Message

	once sync.Once
	wg   sync.WaitGroup
}

func NewDispatcher(m Mailer, log *zap.Logger, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 128
	}
	return &Dispatcher{mailer: m, log: log, ch: make(chan Message, buffer)}
}

func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for m := range d.ch {
			if err := d.mailer.Send(m); err != nil {
				d.log.Error("mail send failed",
					zap.Strings("to", m.To),
					zap.String("subject", m.Subject),
					zap.Error(err),
				)
				continue
			}
			d.log.Info("mail sent", zap.Strings("to", m.To), zap.String("subject", m.Subject))
		}
	}()
}

// Enqueue never blocks; a full queue is reported to the caller, which may
// log and move on.
func (d *Dispatcher) Enqueue(m Message) error {
	select {
	case d.ch <- m:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close drains outstanding messages before returning.
func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.ch) })
	d.wg.Wait()
}
