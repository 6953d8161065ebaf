package queue

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/growthai/guardrail-engine/internal/api/metrics"
	"github.com/growthai/guardrail-engine/internal/core/domain"
	"github.com/growthai/guardrail-engine/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

var (
	ErrDispatcherStopped = errors.New("dispatcher stopped")
	ErrQueueFull         = errors.New("guide queue full")
)

// Dispatcher routes guide requests to a fixed set of workers using consistent
// hashing on the session id, guaranteeing per-conversation reply ordering.
type Dispatcher struct {
	workers []chan ports.GuideRequest
	sender  ports.GuideSender
	log     zerolog.Logger

	mu      sync.RWMutex
	started bool
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender ports.GuideSender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.GuideRequest, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.GuideRequest, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled the dispatcher
// stops accepting requests, fails whatever is still queued and the workers exit.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return
	}
	d.started = true
	d.mu.Unlock()

	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		d.mu.Lock()
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
		d.mu.Unlock()
	}()
}

// Wait blocks until every worker has exited.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands req to the worker responsible for its session. It never blocks.
func (d *Dispatcher) Enqueue(req ports.GuideRequest) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return fmt.Errorf("%w: %w", domain.ErrAssistantUnavailable, ErrDispatcherStopped)
	}

	idx := d.shardIndex(req.SessionID)
	select {
	case d.workers[idx] <- req:
		metrics.GuideQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	default:
		return fmt.Errorf("%w: %w", domain.ErrAssistantUnavailable, ErrQueueFull)
	}
}

// shardIndex maps a session id deterministically to a worker index.
func (d *Dispatcher) shardIndex(sessionID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.GuideRequest) {
	defer d.wg.Done()
	workerID := strconv.Itoa(id)
	for req := range ch {
		metrics.GuideQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
		if ctx.Err() != nil {
			req.Deliver(domain.AssistantReply{}, fmt.Errorf("%w: %v", domain.ErrAssistantUnavailable, ErrDispatcherStopped))
			continue
		}
		d.process(id, req)
	}
}

func (d *Dispatcher) process(id int, req ports.GuideRequest) {
	reqCtx := req.Ctx
	if reqCtx == nil {
		reqCtx = context.Background()
	}

	start := time.Now()
	reply, err := d.sender.Send(reqCtx, req.Context, req.Message)
	result := "ok"
	switch {
	case reqCtx.Err() != nil:
		result = "cancelled"
	case err != nil:
		result = "unavailable"
		d.log.Error().Err(err).
			Str("session_id", req.SessionID).
			Int("worker_id", id).
			Msg("guide request failed")
	}
	metrics.GuideRequestsTotal.WithLabelValues(result).Inc()
	metrics.GuideRequestDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())

	req.Deliver(reply, err)
}
