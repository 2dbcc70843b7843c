// Package worker runs deferred persistence of advisory results off the
// request path.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"samakicash/internal/domain"
	"samakicash/internal/infra"
)

const (
	defaultQueueSize = 128
	writeTimeout     = 10 * time.Second
)

var (
	// ErrQueueFull is returned by Enqueue when the buffer has no room.
	ErrQueueFull = errors.New("worker: persistence queue full")
	// ErrClosed is returned by Enqueue after Close.
	ErrClosed = errors.New("worker: persister closed")
)

// Persister writes one CatchRecord per enqueued result. Each job gets a
// single attempt; failures are logged and dropped.
type Persister struct {
	store  domain.RecordStore
	logger *infra.Logger
	queue  chan domain.CompositeResult
	done   chan struct{}

	mu      sync.RWMutex
	closed  bool
	started bool

	now   func() time.Time
	newID func() string
}

func NewPersister(store domain.RecordStore, logger *infra.Logger, queueSize int) *Persister {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &Persister{
		store:  store,
		logger: logger,
		queue:  make(chan domain.CompositeResult, queueSize),
		done:   make(chan struct{}),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// Start launches the single consumer goroutine. Calling it twice is a no-op.
func (p *Persister) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.started = true
	go p.run()
}

// Enqueue schedules result for persistence without blocking.
func (p *Persister) Enqueue(result domain.CompositeResult) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logger.Error().Str("user_id", result.Report.UserID).Msg("worker: persister closed, dropping catch record")
		return ErrClosed
	}
	select {
	case p.queue <- result:
		return nil
	default:
		p.logger.Error().Str("user_id", result.Report.UserID).Int("capacity", cap(p.queue)).Msg("worker: persistence queue full, dropping catch record")
		return ErrQueueFull
	}
}

// Close stops accepting jobs and waits for queued ones to be written or for
// ctx to expire.
func (p *Persister) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	started := p.started
	close(p.queue)
	p.mu.Unlock()

	if !started {
		// Nobody consumes the buffer yet; drain it in the background so ctx
		// still bounds the wait.
		go p.run()
	}
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker: drain persistence queue: %w", ctx.Err())
	}
}

func (p *Persister) run() {
	defer close(p.done)
	for result := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := p.Persist(ctx, result); err != nil {
			p.logger.Error().Err(err).Str("user_id", result.Report.UserID).Msg("worker: persist catch record failed")
		}
		cancel()
	}
}

// Persist writes result once.
func (p *Persister) Persist(ctx context.Context, result domain.CompositeResult) error {
	record, err := p.BuildRecord(result)
	if err != nil {
		return err
	}
	if err := p.store.InsertCatch(ctx, record); err != nil {
		return fmt.Errorf("insert catch %s: %w", record.ID, err)
	}
	p.logger.Info().Str("catch_id", record.ID).Str("user_id", record.UserID).Msg("worker: catch record persisted")
	return nil
}

// BuildRecord maps a composite result to the stored CatchRecord.
func (p *Persister) BuildRecord(result domain.CompositeResult) (domain.CatchRecord, error) {
	price, err := json.Marshal(result.Price.Value)
	if err != nil {
		return domain.CatchRecord{}, fmt.Errorf("encode price analysis: %w", err)
	}
	return domain.CatchRecord{
		ID:            p.newID(),
		UserID:        result.Report.UserID,
		FishType:      result.Report.FishType,
		QuantityKg:    result.Report.QuantityKg,
		Location:      result.Report.Location,
		PriceAnalysis: price,
		CreatedAt:     p.now(),
	}, nil
}
