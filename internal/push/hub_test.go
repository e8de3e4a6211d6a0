package push

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	messages []interface{}
	failWith error
	closed   bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	c.messages = append(c.messages, v)
	return nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// slowConn blocks in WriteJSON until its write deadline passes, the way a
// connection with a full peer buffer behaves.
type slowConn struct {
	mu       sync.Mutex
	deadline time.Time
	closed   bool
}

func (c *slowConn) SetWriteDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deadline = t
	return nil
}

func (c *slowConn) WriteJSON(interface{}) error {
	c.mu.Lock()
	d := c.deadline
	c.mu.Unlock()
	time.Sleep(time.Until(d))
	return errors.New("write timeout")
}

func (c *slowConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func TestHub_BroadcastReachesAllSubscribers(t *testing.T) {
	hub := NewHub()
	a, b := &fakeConn{}, &fakeConn{}
	hub.Register(a)
	hub.Register(b)

	hub.Broadcast("msg")

	assert.Equal(t, []interface{}{"msg"}, a.messages)
	assert.Equal(t, []interface{}{"msg"}, b.messages)
}

func TestHub_FailedSubscriberPrunedOthersStillDelivered(t *testing.T) {
	hub := NewHub()
	broken := &fakeConn{failWith: errors.New("connection reset")}
	healthy := &fakeConn{}
	hub.Register(broken)
	hub.Register(healthy)

	hub.Broadcast("first")

	require.Equal(t, 1, hub.Count())
	assert.True(t, broken.closed)
	assert.Equal(t, []interface{}{"first"}, healthy.messages)

	// The pruned connection sees no further traffic.
	hub.Broadcast("second")
	assert.Equal(t, []interface{}{"first", "second"}, healthy.messages)
	assert.Empty(t, broken.messages)
}

func TestHub_SlowSubscriberDoesNotStallOthers(t *testing.T) {
	hub := NewHub()
	hub.writeTimeout = 50 * time.Millisecond

	slow := &slowConn{}
	healthy := &fakeConn{}
	hub.Register(slow)
	hub.Register(healthy)

	start := time.Now()
	hub.Broadcast("msg")

	assert.Equal(t, []interface{}{"msg"}, healthy.messages,
		"healthy subscriber must receive the message even while the slow one is mid-write")
	assert.Less(t, time.Since(start), time.Second,
		"broadcast must return once the slow write hits its deadline")

	// The timed-out connection is treated like a failed one.
	assert.Equal(t, 1, hub.Count())
	assert.True(t, slow.closed)
}

func TestHub_SlowSubscriberDoesNotBlockRegistration(t *testing.T) {
	hub := NewHub()
	hub.writeTimeout = 200 * time.Millisecond

	slow := &slowConn{}
	hub.Register(slow)

	done := make(chan struct{})
	go func() {
		hub.Broadcast("msg")
		close(done)
	}()

	// A new subscriber connects while the slow write is in flight.
	registered := make(chan struct{})
	go func() {
		time.Sleep(10 * time.Millisecond)
		hub.Register(&fakeConn{})
		close(registered)
	}()

	select {
	case <-registered:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("registration stalled behind an in-flight broadcast")
	}
	<-done
}

func TestHub_UnregisterIsIdempotent(t *testing.T) {
	hub := NewHub()
	c := &fakeConn{}
	hub.Register(c)

	hub.Unregister(c)
	hub.Unregister(c)

	assert.Equal(t, 0, hub.Count())
}

func TestHub_ConcurrentRegisterAndBroadcast(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			hub.Register(&fakeConn{})
		}()
		go func() {
			defer wg.Done()
			hub.Broadcast("tick")
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, hub.Count())
}
