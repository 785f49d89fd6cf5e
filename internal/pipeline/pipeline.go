// Package pipeline wires the buffering and mapping engines together, each
// on its own goroutine driven off an eventqueue.Queue: the buffering
// engine needs its own timeout-driven wakeups independent of whether a
// new capture event has arrived, which a single shared loop can't express
// without reinventing a second clock.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/fujinami-dev/fujinami/internal/buffering"
	"github.com/fujinami-dev/fujinami/internal/eventqueue"
	"github.com/fujinami-dev/fujinami/internal/keyset"
	"github.com/fujinami-dev/fujinami/internal/layout"
	"github.com/fujinami-dev/fujinami/internal/mapping"
)

// Pipeline owns the two stage engines, their queues, and the goroutines
// draining them.
type Pipeline struct {
	logger *slog.Logger

	bufferingQueue *eventqueue.Queue[buffering.Event]
	mappingQueue   *eventqueue.Queue[mapping.Event]

	bufferingEngine *buffering.Engine
	mappingEngine   *mapping.Engine

	done chan struct{}
}

// New returns a Pipeline ready to Run. emitter drives every Command the
// mapping engine resolves; probe (may be nil) feeds the buffering engine's
// auto-layout IME detection.
func New(emitter layout.Emitter, probe buffering.IMProbe, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger:          logger,
		bufferingQueue:  eventqueue.New[buffering.Event](256),
		mappingQueue:    eventqueue.New[mapping.Event](256),
		bufferingEngine: buffering.NewEngine(probe),
		mappingEngine:   mapping.NewEngine(emitter),
		done:            make(chan struct{}),
	}
}

// PostBuffering enqueues an event for the buffering stage (used by
// internal/capture's read loop and by control-plane callers changing
// config or layout).
func (p *Pipeline) PostBuffering(event buffering.Event) bool {
	return p.bufferingQueue.Send(event)
}

// BufferingQueue exposes the buffering stage's input queue directly, for
// callers like internal/capture.ReadLoop that post events from a
// device-reading goroutine.
func (p *Pipeline) BufferingQueue() *eventqueue.Queue[buffering.Event] {
	return p.bufferingQueue
}

// Run starts the buffering and mapping worker goroutines and blocks until
// ctx is cancelled, then shuts both down in order: close the buffering
// queue, let its goroutine drain and exit, close the mapping queue, let it
// drain and exit, and finally release whatever command the mapping engine
// is still holding. Buffering drains before mapping closes, so the mapping
// engine sees every event buffering ever produced.
func (p *Pipeline) Run(ctx context.Context) error {
	bufferingDone := make(chan struct{})
	mappingDone := make(chan struct{})

	go func() {
		defer close(bufferingDone)
		p.runBuffering(ctx)
	}()
	go func() {
		defer close(mappingDone)
		p.runMapping(ctx)
	}()

	<-ctx.Done()

	p.bufferingQueue.Close()
	<-bufferingDone

	p.mappingQueue.Close()
	<-mappingDone

	err := p.mappingEngine.Close()
	close(p.done)
	if err != nil {
		return err
	}
	return ctx.Err()
}

// Done is closed once Run has finished shutting down both stages.
func (p *Pipeline) Done() <-chan struct{} {
	return p.done
}

func (p *Pipeline) runBuffering(ctx context.Context) {
	sink := &mappingSink{queue: p.mappingQueue}
	for {
		var (
			event buffering.Event
			ok    bool
		)
		if p.bufferingEngine.IsIdle() {
			event, ok = p.bufferingQueue.ReceiveBlocking()
		} else {
			event, ok = p.bufferingQueue.Receive(p.bufferingEngine.TimeoutTP())
			if !ok && p.bufferingQueue.IsClosed() {
				return
			}
			if !ok {
				// timed out, not closed: drive the engine on time alone.
				p.bufferingEngine.Update(sink)
				continue
			}
		}
		if !ok {
			return
		}
		p.bufferingEngine.UpdateEvent(event, sink)
	}
}

func (p *Pipeline) runMapping(ctx context.Context) {
	for {
		event, ok := p.mappingQueue.ReceiveBlocking()
		if !ok {
			return
		}
		if err := p.mappingEngine.Update(event); err != nil {
			p.logger.Error("mapping engine update failed", "error", err)
		}
	}
}

// mappingSink adapts buffering.Sink onto the mapping stage's queue,
// injecting a LayoutEvent whenever the layout a committed chord resolves to
// differs from the last one posted.
type mappingSink struct {
	queue      *eventqueue.Queue[mapping.Event]
	lastLayout *layout.Layout
}

// SendPress emits the committed chord's KeyPress before any Layout event
// for a transition the same chord triggers: the mapping engine must
// resolve this press against the layout that was active when the chord
// committed, not the one it is about to switch to.
func (s *mappingSink) SendPress(active keyset.Keyset, next *layout.Layout) bool {
	ok := s.queue.Send(mapping.KeyPressEvent{ActiveKeyset: active})
	if next != s.lastLayout {
		s.queue.Send(mapping.LayoutEvent{Layout: next})
		s.lastLayout = next
	}
	return ok
}

func (s *mappingSink) SendRepeat(active keyset.Keyset) bool {
	return s.queue.Send(mapping.KeyRepeatEvent{ActiveKeyset: active})
}

func (s *mappingSink) SendRelease(active keyset.Keyset) bool {
	return s.queue.Send(mapping.KeyReleaseEvent{ActiveKeyset: active})
}

func (s *mappingSink) SendLayout(l *layout.Layout) bool {
	s.lastLayout = l
	return s.queue.Send(mapping.LayoutEvent{Layout: l})
}
