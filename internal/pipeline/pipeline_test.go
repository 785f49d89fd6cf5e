package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fujinami-dev/fujinami/internal/eventqueue"
	"github.com/fujinami-dev/fujinami/internal/keyset"
	"github.com/fujinami-dev/fujinami/internal/layout"
	"github.com/fujinami-dev/fujinami/internal/mapping"
)

func deadlineNow() time.Time { return time.Now().Add(time.Second) }

// A SendPress that also switches layout must post the KeyPress before the
// LayoutEvent, so the mapping engine resolves the press under the layout
// that was active when the chord committed.
func TestMappingSinkSendPressOrdersPressBeforeLayout(t *testing.T) {
	q := eventqueue.New[mapping.Event](4)
	sink := &mappingSink{queue: q}
	next := layout.NewLayout("next")

	ok := sink.SendPress(keyset.Of(1), next)
	require.True(t, ok)

	first, gotFirst := q.Receive(deadlineNow())
	require.True(t, gotFirst)
	_, isPress := first.(mapping.KeyPressEvent)
	assert.True(t, isPress, "KeyPress must be posted before the Layout transition it triggers")

	second, gotSecond := q.Receive(deadlineNow())
	require.True(t, gotSecond)
	layoutEvent, isLayout := second.(mapping.LayoutEvent)
	require.True(t, isLayout)
	assert.Equal(t, next, layoutEvent.Layout)
}

// SendPress does not repost a Layout event when the layout is unchanged
// from the last one posted.
func TestMappingSinkSendPressSkipsRedundantLayout(t *testing.T) {
	q := eventqueue.New[mapping.Event](4)
	l := layout.NewLayout("base")
	sink := &mappingSink{queue: q, lastLayout: l}

	sink.SendPress(keyset.Of(1), l)

	_, ok := q.Receive(deadlineNow())
	require.True(t, ok, "the KeyPress event is still posted")
	_, ok = q.Receive(deadlineNow())
	assert.False(t, ok, "no Layout event when the layout hasn't changed")
}

func TestMappingSinkSendLayoutUpdatesLastLayout(t *testing.T) {
	q := eventqueue.New[mapping.Event](4)
	sink := &mappingSink{queue: q}
	l := layout.NewLayout("base")

	sink.SendLayout(l)
	assert.Equal(t, l, sink.lastLayout)

	event, ok := q.Receive(deadlineNow())
	require.True(t, ok)
	layoutEvent, isLayout := event.(mapping.LayoutEvent)
	require.True(t, isLayout)
	assert.Equal(t, l, layoutEvent.Layout)
}
