package protocol

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/graphql-ws-go/internal/errors"
	"github.com/wagiedev/graphql-ws-go/internal/metrics"
)

func receiveFrame(t *testing.T, sub *Subscriber) *Frame {
	t.Helper()

	select {
	case f := <-sub.Events():
		return f
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")

		return nil
	}
}

func TestDispatcher_RouteToRegisteredSubscriber(t *testing.T) {
	d, _ := newTestDispatcher(0)

	sub, err := d.Register("a")
	require.NoError(t, err)
	require.Equal(t, "a", sub.ID())

	require.True(t, d.Route(&Frame{ID: "a", Type: KindNext, Payload: []byte(`"x"`)}))

	f := receiveFrame(t, sub)
	assert.Equal(t, KindNext, f.Type)
	assert.JSONEq(t, `"x"`, string(f.Payload))
}

func TestDispatcher_Isolation(t *testing.T) {
	d, _ := newTestDispatcher(0)

	s1, err := d.Register("s1")
	require.NoError(t, err)

	s2, err := d.Register("s2")
	require.NoError(t, err)

	d.Route(&Frame{ID: "s1", Type: KindNext, Payload: []byte(`"a"`)})
	d.Route(&Frame{ID: "s2", Type: KindNext, Payload: []byte(`"x"`)})
	d.Route(&Frame{ID: "s1", Type: KindNext, Payload: []byte(`"b"`)})

	assert.JSONEq(t, `"a"`, string(receiveFrame(t, s1).Payload))
	assert.JSONEq(t, `"b"`, string(receiveFrame(t, s1).Payload))
	assert.JSONEq(t, `"x"`, string(receiveFrame(t, s2).Payload))

	assert.Empty(t, s1.Events())
	assert.Empty(t, s2.Events())
}

func TestDispatcher_RegisterDuplicate(t *testing.T) {
	d, _ := newTestDispatcher(0)

	_, err := d.Register("dup")
	require.NoError(t, err)

	_, err = d.Register("dup")
	require.ErrorIs(t, err, errors.ErrDuplicateSubscription)
	require.Equal(t, 1, d.Len())
}

func TestDispatcher_UnregisterIdempotent(t *testing.T) {
	d, m := newTestDispatcher(0)

	sub, err := d.Register("a")
	require.NoError(t, err)

	d.Unregister("a")
	d.Unregister("a")
	d.Unregister("never-registered")

	require.Equal(t, 0, d.Len())
	require.InDelta(t, 0, testutil.ToFloat64(m.SubscriptionsActive), 0)

	select {
	case <-sub.Closed():
	default:
		t.Fatal("subscriber should be closed")
	}
}

func TestDispatcher_RouteAfterUnregisterIsDropped(t *testing.T) {
	d, m := newTestDispatcher(0)

	sub, err := d.Register("a")
	require.NoError(t, err)

	d.Unregister("a")

	require.False(t, d.Route(&Frame{ID: "a", Type: KindNext}))
	require.Empty(t, sub.Events())
	require.InDelta(t, 1, testutil.ToFloat64(m.FramesDropped.WithLabelValues(metrics.ReasonRoutingMiss)), 0)
}

func TestDispatcher_RouteUnknownOrEmptyID(t *testing.T) {
	d, m := newTestDispatcher(0)

	require.False(t, d.Route(&Frame{ID: "missing", Type: KindNext}))
	require.False(t, d.Route(&Frame{Type: KindNext}))
	require.InDelta(t, 2, testutil.ToFloat64(m.FramesDropped.WithLabelValues(metrics.ReasonRoutingMiss)), 0)
}

func TestDispatcher_DropOnFullBuffer(t *testing.T) {
	d, m := newTestDispatcher(2)

	slow, err := d.Register("slow")
	require.NoError(t, err)

	fast, err := d.Register("fast")
	require.NoError(t, err)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for i := range 10 {
			d.Route(&Frame{ID: "slow", Type: KindNext, Payload: fmt.Appendf(nil, "%d", i)})
		}

		d.Route(&Frame{ID: "fast", Type: KindNext, Payload: []byte(`"ok"`)})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Route blocked on a full subscriber buffer")
	}

	assert.JSONEq(t, `"ok"`, string(receiveFrame(t, fast).Payload))
	assert.Len(t, slow.Events(), 2)
	assert.JSONEq(t, `0`, string(receiveFrame(t, slow).Payload))
	assert.JSONEq(t, `1`, string(receiveFrame(t, slow).Payload))
	assert.InDelta(t, 8, testutil.ToFloat64(m.FramesDropped.WithLabelValues(metrics.ReasonBufferFull)), 0)
}

func TestDispatcher_CloseAll(t *testing.T) {
	d, m := newTestDispatcher(0)

	subs := make([]*Subscriber, 0, 5)

	for i := range 5 {
		sub, err := d.Register(fmt.Sprintf("sub-%d", i))
		require.NoError(t, err)

		subs = append(subs, sub)
	}

	d.CloseAll()

	require.Equal(t, 0, d.Len())
	require.InDelta(t, 0, testutil.ToFloat64(m.SubscriptionsActive), 0)

	for _, sub := range subs {
		select {
		case <-sub.Closed():
		default:
			t.Fatalf("subscriber %s should be closed", sub.ID())
		}
	}

	_, err := d.Register("late")
	require.ErrorIs(t, err, errors.ErrConnectionClosed)

	// Unregistering after teardown is still a no-op.
	d.Unregister("sub-0")
}

func TestDispatcher_ConcurrentRegisterRouteUnregister(t *testing.T) {
	// Run with: go test -race -run TestDispatcher_ConcurrentRegisterRouteUnregister
	d, _ := newTestDispatcher(4)

	var wg sync.WaitGroup

	for i := range 50 {
		id := fmt.Sprintf("sub-%d", i)

		wg.Go(func() {
			sub, err := d.Register(id)
			if err != nil {
				t.Errorf("register %s: %v", id, err)

				return
			}

			for range 10 {
				d.Route(&Frame{ID: id, Type: KindNext})
			}

			d.Unregister(id)

			<-sub.Closed()
		})
	}

	wg.Go(func() {
		for i := range 500 {
			d.Route(&Frame{ID: fmt.Sprintf("sub-%d", i%50), Type: KindNext})
		}
	})

	wg.Wait()

	require.Equal(t, 0, d.Len())
}
