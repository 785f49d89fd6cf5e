package eventqueue_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fujinami-dev/fujinami/internal/eventqueue"
)

func TestSendReceiveRoundTrip(t *testing.T) {
	q := eventqueue.New[int](4)
	require.True(t, q.Send(1))
	require.True(t, q.Send(2))

	v, ok := q.Receive(time.Now().Add(time.Second))
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = q.Receive(time.Now().Add(time.Second))
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestSendDropsWhenBufferFull(t *testing.T) {
	q := eventqueue.New[int](1)
	require.True(t, q.Send(1))
	assert.False(t, q.Send(2), "a full buffer drops rather than blocks")

	v, ok := q.Receive(time.Now().Add(time.Second))
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestReceiveTimesOutOnEmptyQueue(t *testing.T) {
	q := eventqueue.New[int](1)
	_, ok := q.Receive(time.Now().Add(10 * time.Millisecond))
	assert.False(t, ok)
}

func TestCloseWakesReceive(t *testing.T) {
	q := eventqueue.New[int](1)
	done := make(chan bool, 1)
	go func() {
		_, ok := q.Receive(time.Now().Add(time.Second))
		done <- ok
	}()
	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Receive did not wake up after Close")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	q := eventqueue.New[int](1)
	q.Close()
	assert.NotPanics(t, func() { q.Close() })
	assert.True(t, q.IsClosed())
}

func TestSendAfterCloseReturnsFalse(t *testing.T) {
	q := eventqueue.New[int](1)
	q.Close()
	assert.False(t, q.Send(1))
}

// ReceiveBlocking drains whatever was buffered before a concurrent Close
// before reporting the queue closed.
func TestReceiveBlockingDrainsBufferedEventsAfterClose(t *testing.T) {
	q := eventqueue.New[int](4)
	require.True(t, q.Send(1))
	require.True(t, q.Send(2))
	q.Close()

	v, ok := q.ReceiveBlocking()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = q.ReceiveBlocking()
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = q.ReceiveBlocking()
	assert.False(t, ok)
}

// Receive drains whatever was buffered before a concurrent Close before
// reporting the queue closed, same as ReceiveBlocking.
func TestReceiveDrainsBufferedEventsAfterClose(t *testing.T) {
	q := eventqueue.New[int](4)
	require.True(t, q.Send(1))
	require.True(t, q.Send(2))
	q.Close()

	v, ok := q.Receive(time.Now().Add(time.Second))
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = q.Receive(time.Now().Add(time.Second))
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = q.Receive(time.Now().Add(time.Second))
	assert.False(t, ok)
}

func TestResetDropsBufferedEventsWithoutClosing(t *testing.T) {
	q := eventqueue.New[int](4)
	require.True(t, q.Send(1))
	require.True(t, q.Send(2))

	q.Reset()

	assert.False(t, q.IsClosed())
	require.True(t, q.Send(3))
	v, ok := q.Receive(time.Now().Add(time.Second))
	require.True(t, ok)
	assert.Equal(t, 3, v)
}
