package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/domain/shared"
)

type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
	panics bool
}

func (h *recordingHandler) Handle(_ context.Context, e shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.mu.Lock()
	h.events = append(h.events, e)
	h.mu.Unlock()
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) received() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func testEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "Test", uuid.New())
	return &e
}

func TestBus_DeliversToSubscribedHandler(t *testing.T) {
	bus := NewBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	defer bus.Stop(context.Background())

	h := &recordingHandler{types: []string{"thing.happened"}}
	bus.Subscribe(h)

	require.NoError(t, bus.Publish(context.Background(), testEvent("thing.happened")))

	waitFor(t, func() bool { return h.received() == 1 })
}

func TestBus_IgnoresUnrelatedEventTypes(t *testing.T) {
	bus := NewBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	defer bus.Stop(context.Background())

	h := &recordingHandler{types: []string{"thing.happened"}}
	bus.Subscribe(h)

	other := &recordingHandler{types: []string{"other.happened"}}
	bus.Subscribe(other)

	require.NoError(t, bus.Publish(context.Background(), testEvent("other.happened")))

	waitFor(t, func() bool { return other.received() == 1 })
	assert.Equal(t, 0, h.received())
}

func TestBus_FailingHandlerDoesNotBlockOthers(t *testing.T) {
	bus := NewBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	defer bus.Stop(context.Background())

	failing := &recordingHandler{types: []string{"e"}, err: errors.New("handler error")}
	healthy := &recordingHandler{types: []string{"e"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), testEvent("e")))

	waitFor(t, func() bool { return healthy.received() == 1 })
}

func TestBus_PanickingHandlerIsRecovered(t *testing.T) {
	bus := NewBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	defer bus.Stop(context.Background())

	panicking := &recordingHandler{types: []string{"e"}, panics: true}
	healthy := &recordingHandler{types: []string{"e"}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), testEvent("e")))

	waitFor(t, func() bool { return healthy.received() == 1 })
}

func TestBus_StopDrainsQueuedEvents(t *testing.T) {
	bus := NewBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))

	h := &recordingHandler{types: []string{"e"}}
	bus.Subscribe(h)

	for i := 0; i < 10; i++ {
		require.NoError(t, bus.Publish(context.Background(), testEvent("e")))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))

	assert.Equal(t, 10, h.received())
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	defer bus.Stop(context.Background())

	h := &recordingHandler{types: []string{"e"}}
	keep := &recordingHandler{types: []string{"e"}}
	bus.Subscribe(h)
	bus.Subscribe(keep)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), testEvent("e")))

	waitFor(t, func() bool { return keep.received() == 1 })
	assert.Equal(t, 0, h.received())
}
