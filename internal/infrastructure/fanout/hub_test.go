package fanout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHub_StoreSubscriberReceivesStoreMessages(t *testing.T) {
	h := NewHub(zap.NewNop())
	storeID := uuid.New()

	sub := h.SubscribeStore(storeID)
	require.NotNil(t, sub)
	defer h.Unsubscribe(sub)

	h.PublishToStore(storeID, Message{Event: "stock_update", Data: "payload"})

	msg := <-sub.C
	assert.Equal(t, "stock_update", msg.Event)
}

func TestHub_StoreSubscriberDoesNotReceiveOtherStores(t *testing.T) {
	h := NewHub(zap.NewNop())
	storeA, storeB := uuid.New(), uuid.New()

	subA := h.SubscribeStore(storeA)
	require.NotNil(t, subA)
	defer h.Unsubscribe(subA)

	h.PublishToStore(storeB, Message{Event: "stock_update"})

	select {
	case <-subA.C:
		t.Fatal("subscriber for store A must not see store B messages")
	default:
	}
}

func TestHub_GlobalSubscriberReceivesAllStores(t *testing.T) {
	h := NewHub(zap.NewNop())
	storeA, storeB := uuid.New(), uuid.New()

	g := h.SubscribeGlobal()
	require.NotNil(t, g)
	defer h.Unsubscribe(g)

	h.PublishToStore(storeA, Message{Event: "a"})
	h.PublishToStore(storeB, Message{Event: "b"})

	first := <-g.C
	second := <-g.C
	assert.ElementsMatch(t, []string{"a", "b"}, []string{first.Event, second.Event})
}

func TestHub_PublishGlobalSkipsStoreSubscribers(t *testing.T) {
	h := NewHub(zap.NewNop())
	storeID := uuid.New()

	storeSub := h.SubscribeStore(storeID)
	require.NotNil(t, storeSub)
	defer h.Unsubscribe(storeSub)

	g := h.SubscribeGlobal()
	require.NotNil(t, g)
	defer h.Unsubscribe(g)

	h.PublishGlobal(Message{Event: "low_stock_alert"})

	msg := <-g.C
	assert.Equal(t, "low_stock_alert", msg.Event)

	select {
	case <-storeSub.C:
		t.Fatal("store subscriber must not see global-only messages")
	default:
	}
}

func TestHub_SlowSubscriberMissesMessagesButOthersDeliver(t *testing.T) {
	h := NewHub(zap.NewNop())
	storeID := uuid.New()

	slow := h.SubscribeStore(storeID)
	require.NotNil(t, slow)
	defer h.Unsubscribe(slow)

	fast := h.SubscribeStore(storeID)
	require.NotNil(t, fast)
	defer h.Unsubscribe(fast)

	// Fill the slow subscriber's buffer without reading.
	for i := 0; i < defaultBufferSize+5; i++ {
		h.PublishToStore(storeID, Message{Event: "stock_update"})
		// Keep fast drained so it never overflows.
		<-fast.C
	}

	assert.Len(t, slow.C, defaultBufferSize, "overflow messages are dropped, not queued")
}

func TestHub_UnsubscribeRemovesClient(t *testing.T) {
	h := NewHub(zap.NewNop())
	storeID := uuid.New()

	sub := h.SubscribeStore(storeID)
	require.NotNil(t, sub)
	assert.Equal(t, 1, h.ClientCount())

	h.Unsubscribe(sub)
	assert.Equal(t, 0, h.ClientCount())

	// Channel is closed after unsubscribe.
	_, open := <-sub.C
	assert.False(t, open)
}

func TestHub_UnsubscribeTwiceIsSafe(t *testing.T) {
	h := NewHub(zap.NewNop())
	sub := h.SubscribeGlobal()
	require.NotNil(t, sub)

	h.Unsubscribe(sub)
	h.Unsubscribe(sub)
	assert.Equal(t, 0, h.ClientCount())
}

func TestHub_CapacityLimit(t *testing.T) {
	h := NewHub(zap.NewNop())
	h.maxClients = 2

	a := h.SubscribeGlobal()
	b := h.SubscribeGlobal()
	require.NotNil(t, a)
	require.NotNil(t, b)

	c := h.SubscribeGlobal()
	assert.Nil(t, c, "hub at capacity must reject new subscribers")

	h.Unsubscribe(a)
	d := h.SubscribeGlobal()
	assert.NotNil(t, d, "capacity frees up after unsubscribe")
}
