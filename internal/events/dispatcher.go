package events

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const DefaultHandlerTimeout = 10 * time.Second

type subscription struct {
	name    string
	handler Handler
}

// Dispatcher асинхронная шина событий внутри процесса.
// Каждый обработчик запускается в своей горутине со своим таймаутом,
// ошибки и паники обработчиков только логируются.
type Dispatcher struct {
	mu     sync.RWMutex
	subs   map[Topic][]subscription
	closed bool

	wg      sync.WaitGroup
	timeout time.Duration
	logger  Logger
}

func NewDispatcher(timeout time.Duration, logger Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultHandlerTimeout
	}
	return &Dispatcher{
		subs:    make(map[Topic][]subscription),
		timeout: timeout,
		logger:  logger,
	}
}

// Subscribe регистрирует обработчик на топик
func (d *Dispatcher) Subscribe(topic Topic, name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.subs[topic] = append(d.subs[topic], subscription{name: name, handler: handler})
}

// Publish запускает обработчики топика и сразу возвращается
func (d *Dispatcher) Publish(event Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherClosed
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	for _, sub := range d.subs[event.Topic] {
		ev := event
		ev.Booking = event.Booking.Clone()

		d.wg.Add(1)
		go d.run(sub, ev)
	}
	return nil
}

func (d *Dispatcher) run(sub subscription, event Event) {
	defer d.wg.Done()

	var id int64
	if event.Booking != nil {
		id = event.Booking.ID
	}

	defer func() {
		if p := recover(); p != nil {
			d.logger.Error("Dispatcher: handler %s panicked on %s booking_id=%d: %v", sub.name, event.Topic, id, p)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	start := time.Now()
	if err := sub.handler(ctx, event); err != nil {
		d.logger.Warn("Dispatcher: handler %s failed on %s booking_id=%d: %v", sub.name, event.Topic, id, err)
		return
	}
	d.logger.Info("Dispatcher: handler %s done on %s booking_id=%d took=%s", sub.name, event.Topic, id, time.Since(start))
}

// Close перестает принимать события и ждет завершения запущенных обработчиков
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: wait handlers: %w", ctx.Err())
	}
}
