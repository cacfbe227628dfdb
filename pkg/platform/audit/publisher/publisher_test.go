package publisher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "caguard/pkg/platform/audit"
	"caguard/pkg/platform/audit/store/memory"
)

type failingStore struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *failingStore) Append(context.Context, audit.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *failingStore) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func tallied(holder string) audit.Event {
	return audit.Event{HolderID: holder, Action: audit.ActionApprovalTallied}
}

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	err := pub.Emit(context.Background(), tallied("holder-1"))
	require.NoError(t, err)

	events, err := store.ListByHolder(context.Background(), "holder-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionApprovalTallied, events[0].Action)
	assert.NotEmpty(t, events[0].ID)
}

func TestPublisher_RequiresHolderAndAction(t *testing.T) {
	pub := NewPublisher(memory.NewInMemoryStore())

	assert.Error(t, pub.Emit(context.Background(), audit.Event{Action: audit.ActionApprovalTallied}))
	assert.Error(t, pub.Emit(context.Background(), audit.Event{HolderID: "holder-1"}))
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	for range 10 {
		require.NoError(t, pub.Emit(context.Background(), tallied("holder-1")))
	}

	require.NoError(t, pub.Close())
	require.NoError(t, pub.Close())

	events, err := store.ListByHolder(context.Background(), "holder-1")
	require.NoError(t, err)
	assert.Len(t, events, 10, "all events should be drained on close")
}

func TestPublisher_AsyncEmitAfterClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	metrics := NewMetrics(prometheus.NewRegistry())
	pub := NewPublisher(store, WithAsyncBuffer(4), WithMetrics(metrics))
	require.NoError(t, pub.Close())

	var err error
	assert.NotPanics(t, func() {
		err = pub.Emit(context.Background(), tallied("holder-1"))
	})
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Dropped.WithLabelValues("closed")))

	events, err := store.ListByHolder(context.Background(), "holder-1")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestPublisher_AsyncEmitRacingClose(t *testing.T) {
	pub := NewPublisher(memory.NewInMemoryStore(), WithAsyncBuffer(1024))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				err := pub.Emit(context.Background(), tallied("holder-1"))
				if err != nil && !errors.Is(err, ErrClosed) && !errors.Is(err, ErrBufferFull) {
					panic(err)
				}
			}
		}()
	}
	require.NoError(t, pub.Close())
	wg.Wait()
}

func TestPublisher_AsyncRejectsCancelledContext(t *testing.T) {
	pub := NewPublisher(memory.NewInMemoryStore(), WithAsyncBuffer(1))
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, pub.Emit(ctx, tallied("holder-1")), context.Canceled)
}

func TestPublisher_BufferFull_DropsEvent(t *testing.T) {
	block := make(chan struct{})
	store := &blockingStore{release: block}
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	pub := NewPublisher(store, WithAsyncBuffer(1), WithMetrics(metrics))

	// The drain goroutine holds one event in Append, the buffer holds another.
	require.NoError(t, pub.Emit(context.Background(), tallied("holder-1")))
	require.Eventually(t, func() bool { return store.Started() }, time.Second, 5*time.Millisecond)
	require.NoError(t, pub.Emit(context.Background(), tallied("holder-1")))

	err := pub.Emit(context.Background(), tallied("holder-1"))
	assert.ErrorIs(t, err, ErrBufferFull)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Dropped.WithLabelValues("buffer_full")))

	close(block)
	require.NoError(t, pub.Close())
}

func TestPublisher_Timestamps(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("stamped when missing", func(t *testing.T) {
		store := memory.NewInMemoryStore()
		pub := NewPublisher(store, WithClock(func() time.Time { return fixed }))

		require.NoError(t, pub.Emit(context.Background(), tallied("holder-1")))

		events, _ := store.ListByHolder(context.Background(), "holder-1")
		require.Len(t, events, 1)
		assert.Equal(t, fixed, events[0].Timestamp)
	})

	t.Run("existing timestamp preserved", func(t *testing.T) {
		store := memory.NewInMemoryStore()
		pub := NewPublisher(store)
		event := tallied("holder-1")
		event.Timestamp = fixed

		require.NoError(t, pub.Emit(context.Background(), event))

		events, _ := store.ListByHolder(context.Background(), "holder-1")
		require.Len(t, events, 1)
		assert.Equal(t, fixed, events[0].Timestamp)
	})
}

func TestPublisher_StoreFailure(t *testing.T) {
	store := &failingStore{err: errors.New("broker unreachable")}
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	pub := NewPublisher(store, WithMetrics(metrics))

	err := pub.Emit(context.Background(), tallied("holder-1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, store.err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PersistFailures))
}

func TestPublisher_CircuitBreaker(t *testing.T) {
	store := &failingStore{err: errors.New("broker unreachable")}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(2, time.Minute)
	cb.now = func() time.Time { return now }
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	pub := NewPublisher(store, WithCircuitBreaker(cb), WithMetrics(metrics))

	assert.Error(t, pub.Emit(context.Background(), tallied("holder-1")))
	assert.Error(t, pub.Emit(context.Background(), tallied("holder-1")))
	assert.True(t, cb.IsOpen())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CircuitBreakerState))

	// Open: dropped without touching the store.
	assert.NoError(t, pub.Emit(context.Background(), tallied("holder-1")))
	assert.Equal(t, 2, store.Calls())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Dropped.WithLabelValues("circuit_open")))

	// Half-open after cooldown: one failure reopens.
	now = now.Add(2 * time.Minute)
	assert.Error(t, pub.Emit(context.Background(), tallied("holder-1")))
	assert.Equal(t, 3, store.Calls())
	assert.True(t, cb.IsOpen())

	// Recovery closes it.
	now = now.Add(2 * time.Minute)
	store.err = nil
	assert.NoError(t, pub.Emit(context.Background(), tallied("holder-1")))
	assert.False(t, cb.IsOpen())
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.CircuitBreakerState))
}

type blockingStore struct {
	mu      sync.Mutex
	started bool
	release chan struct{}
}

func (b *blockingStore) Append(ctx context.Context, _ audit.Event) error {
	b.mu.Lock()
	b.started = true
	b.mu.Unlock()
	<-b.release
	return nil
}

func (b *blockingStore) Started() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.started
}
