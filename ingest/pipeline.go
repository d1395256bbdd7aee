// ingest/pipeline.go
package ingest

import (
	"context"
	"log/slog"

	"github.com/kallerwest/trackfusion/plot"
	"github.com/kallerwest/trackfusion/track"
)

// defaultQueueDepth bounds the in-memory queue between the ingest task and
// the update task; the ingest task blocks once it is full.
const defaultQueueDepth = 256

// Pipeline wires the ingest task to the single update task that owns the
// track set, per the pipeline's concurrency model: one UDP listener
// producing plot batches, one consumer applying them to the estimator in
// arrival order.
type Pipeline struct {
	Listener  *Listener
	Estimator *track.Estimator
	queue     chan []*plot.Plot
	logger    *slog.Logger

	onUpdate func([]track.Snapshot)
	onBatch  func([]*plot.Plot)
}

// NewPipeline creates a Pipeline bound to host:port, decoding through
// decoder and applying batches to est. onUpdate, if non-nil, is invoked
// from the update task with the snapshots touched by each batch — it must
// not block.
func NewPipeline(host string, port int, decoder *plot.Decoder, est *track.Estimator, logger *slog.Logger, onUpdate func([]track.Snapshot)) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	queue := make(chan []*plot.Plot, defaultQueueDepth)

	listener, err := NewListener(host, port, decoder, queue, logger)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		Listener:  listener,
		Estimator: est,
		queue:     queue,
		logger:    logger,
		onUpdate:  onUpdate,
	}, nil
}

// OnBatch registers a callback invoked with each decoded plot batch before
// it is applied to the estimator, for plot-level observability. It must
// not block.
func (p *Pipeline) OnBatch(fn func([]*plot.Plot)) {
	p.onBatch = fn
}

// Run starts the ingest task and runs the update task inline, blocking
// until ctx is cancelled and the queue has drained.
func (p *Pipeline) Run(ctx context.Context) error {
	ingestErr := make(chan error, 1)
	go func() {
		ingestErr <- p.Listener.Run(ctx)
	}()

	for {
		select {
		case batch := <-p.queue:
			p.applyBatch(batch)
		case <-ctx.Done():
			p.drainQueue()
			p.Listener.Close()
			return <-ingestErr
		}
	}
}

// applyBatch runs one batch through the observability hook and the
// estimator in that order, so stats reflect every plot the estimator sees.
func (p *Pipeline) applyBatch(batch []*plot.Plot) {
	if p.onBatch != nil {
		p.onBatch(batch)
	}
	snaps := p.Estimator.Update(batch)
	if p.onUpdate != nil {
		p.onUpdate(snaps)
	}
}

// drainQueue applies any batches already queued before the update task
// exits, so plots accepted before shutdown are not silently lost.
func (p *Pipeline) drainQueue() {
	for {
		select {
		case batch := <-p.queue:
			p.applyBatch(batch)
		default:
			return
		}
	}
}
