package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
	"github.com/m04kA/AutoBooker-Service/pkg/logger"
)

func TestDispatcher_RoutesByTopic(t *testing.T) {
	d := NewDispatcher(time.Second, logger.NewNop())

	var created, cancelled int32
	d.Subscribe(TopicBookingCreated, "count-created", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&created, 1)
		return nil
	})
	d.Subscribe(TopicBookingCancelled, "count-cancelled", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&cancelled, 1)
		return nil
	})

	require.NoError(t, d.Publish(Event{Topic: TopicBookingCreated, Booking: &domain.Booking{ID: 1}}))
	require.NoError(t, d.Publish(Event{Topic: TopicBookingCreated, Booking: &domain.Booking{ID: 2}}))
	require.NoError(t, d.Close(context.Background()))

	assert.Equal(t, int32(2), atomic.LoadInt32(&created))
	assert.Zero(t, atomic.LoadInt32(&cancelled))
}

func TestDispatcher_HandlersGetOwnCopy(t *testing.T) {
	d := NewDispatcher(time.Second, logger.NewNop())

	var mu sync.Mutex
	seen := make([]string, 0, 2)

	mutate := func(ctx context.Context, e Event) error {
		e.Booking.Customer.Preferences["touched"] = "yes"
		return nil
	}
	read := func(ctx context.Context, e Event) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, e.Booking.Customer.Preferences["touched"])
		return nil
	}
	d.Subscribe(TopicBookingCreated, "mutate", mutate)
	d.Subscribe(TopicBookingCreated, "read", read)

	original := &domain.Booking{ID: 1, Customer: domain.Customer{Preferences: map[string]string{}}}
	require.NoError(t, d.Publish(Event{Topic: TopicBookingCreated, Booking: original}))
	require.NoError(t, d.Close(context.Background()))

	assert.Empty(t, original.Customer.Preferences)
	assert.Equal(t, []string{""}, seen)
}

func TestDispatcher_FailuresAndPanicsAreContained(t *testing.T) {
	d := NewDispatcher(time.Second, logger.NewNop())

	var ok int32
	d.Subscribe(TopicBookingUpdated, "fails", func(ctx context.Context, e Event) error {
		return errors.New("smtp down")
	})
	d.Subscribe(TopicBookingUpdated, "panics", func(ctx context.Context, e Event) error {
		panic("boom")
	})
	d.Subscribe(TopicBookingUpdated, "ok", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&ok, 1)
		return nil
	})

	require.NoError(t, d.Publish(Event{Topic: TopicBookingUpdated, Booking: &domain.Booking{ID: 3}}))
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&ok))
}

func TestDispatcher_HandlerTimeout(t *testing.T) {
	d := NewDispatcher(20*time.Millisecond, logger.NewNop())

	errCh := make(chan error, 1)
	d.Subscribe(TopicBookingCreated, "slow", func(ctx context.Context, e Event) error {
		<-ctx.Done()
		errCh <- ctx.Err()
		return ctx.Err()
	})

	require.NoError(t, d.Publish(Event{Topic: TopicBookingCreated, Booking: &domain.Booking{ID: 4}}))
	require.NoError(t, d.Close(context.Background()))
	assert.ErrorIs(t, <-errCh, context.DeadlineExceeded)
}

func TestDispatcher_PublishAfterClose(t *testing.T) {
	d := NewDispatcher(time.Second, logger.NewNop())
	require.NoError(t, d.Close(context.Background()))

	err := d.Publish(Event{Topic: TopicBookingCreated, Booking: &domain.Booking{ID: 5}})
	assert.ErrorIs(t, err, ErrDispatcherClosed)
}

func TestDispatcher_CloseRespectsContext(t *testing.T) {
	d := NewDispatcher(time.Second, logger.NewNop())

	release := make(chan struct{})
	d.Subscribe(TopicBookingCreated, "blocked", func(ctx context.Context, e Event) error {
		<-release
		return nil
	})
	require.NoError(t, d.Publish(Event{Topic: TopicBookingCreated, Booking: &domain.Booking{ID: 6}}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, d.Close(context.Background()))
}
