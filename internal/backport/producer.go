// Package backport sends merge-branch job messages onto a channel consumed
// by a separate worker process (out of scope for this repo: it performs the
// actual git merge).
package backport

import (
	"context"

	"github.com/google/uuid"

	"github.com/octobridge/bridge/internal/forge"
	"github.com/octobridge/bridge/internal/logging"
)

// Producer is a write-only endpoint that transfers ownership of each
// MergeJobMessage to the consumer on the other end of the channel.
type Producer interface {
	Send(ctx context.Context, msg forge.MergeJobMessage) error
}

// ChannelProducer sends onto a bounded Go channel. The handler suspends
// when the queue is full, per §5's "bounded queue" suspension model; a full
// queue with a canceled context logs and drops the message rather than
// failing the handler, since a forge retry would otherwise duplicate every
// downstream chat notification tied to this delivery.
type ChannelProducer struct {
	jobs chan forge.MergeJobMessage
	log  logging.Logger
}

// NewChannelProducer creates a Producer backed by a channel of the given
// capacity. Callers own draining the returned channel via Jobs().
func NewChannelProducer(capacity int, log logging.Logger) *ChannelProducer {
	return &ChannelProducer{
		jobs: make(chan forge.MergeJobMessage, capacity),
		log:  log,
	}
}

// Jobs returns the receive side of the queue, for the out-of-scope worker.
func (p *ChannelProducer) Jobs() <-chan forge.MergeJobMessage {
	return p.jobs
}

// Send stamps msg with a fresh ID if unset and enqueues it. It blocks until
// either the queue has room or ctx is done.
func (p *ChannelProducer) Send(ctx context.Context, msg forge.MergeJobMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	select {
	case p.jobs <- msg:
		return nil
	case <-ctx.Done():
		p.log.Warn("backport: dropping merge job, queue send canceled",
			"pr", msg.SourcePR.Number, "target_branch", msg.TargetBranch, "error", ctx.Err().Error())
		return ctx.Err()
	}
}
