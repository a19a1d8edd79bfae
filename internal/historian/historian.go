// Package historian drains game action records from the Redis queue and
// persists them to PostgreSQL in batches.
package historian

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/bluff/internal/cache"
	"github.com/sirupsen/logrus"
)

// Source yields queued action records; (nil, nil) means nothing arrived in time.
// *cache.Queue satisfies it.
type Source interface {
	Pop(ctx context.Context, timeout time.Duration) (*cache.GameActionRecord, error)
}

// Store persists batches and marks stalled games.
type Store interface {
	InsertActions(ctx context.Context, records []cache.GameActionRecord) error
	MarkGameAbandoned(ctx context.Context, gameID uuid.UUID) error
}

// Options tunes batching and abandonment.
type Options struct {
	BatchSize  int
	FlushDelay time.Duration
	Inactivity time.Duration // a game with no actions for this long is marked abandoned
	PopTimeout time.Duration
	MaxPending int // oldest records are dropped once a failing store leaves more than this waiting
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = 20
	}
	if o.FlushDelay <= 0 {
		o.FlushDelay = 500 * time.Millisecond
	}
	if o.Inactivity <= 0 {
		o.Inactivity = 10 * time.Minute
	}
	if o.PopTimeout <= 0 {
		o.PopTimeout = 3 * time.Second
	}
	if o.MaxPending <= 0 {
		o.MaxPending = 10000
	}
	if o.MaxPending < o.BatchSize {
		o.MaxPending = o.BatchSize
	}
	return o
}

// Service captures game actions and marks games abandoned when a certain
// inactivity threshold is reached.
type Service struct {
	source Source
	store  Store
	opts   Options
	log    *logrus.Entry

	lastActivity sync.Map // map[uuid.UUID]time.Time
	finished     sync.Map // map[uuid.UUID]struct{}

	batchMu sync.Mutex
	batch   []cache.GameActionRecord
}

func NewService(source Source, store Store, opts Options, log *logrus.Logger) *Service {
	opts = opts.withDefaults()
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		source: source,
		store:  store,
		opts:   opts,
		log:    log.WithField("service", "historian"),
		batch:  make([]cache.GameActionRecord, 0, opts.BatchSize),
	}
}

// Run reads the queue until ctx is cancelled, then flushes what is left.
func (s *Service) Run(ctx context.Context) {
	s.log.Info("historian service started")
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.flushLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		s.inactivityLoop(ctx)
	}()

	s.readLoop(ctx)
	wg.Wait()

	// ctx is done; give the final flush its own deadline.
	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Flush(flushCtx)
	s.log.Info("historian shutting down")
}

func (s *Service) readLoop(ctx context.Context) {
	for ctx.Err() == nil {
		rec, err := s.source.Pop(ctx, s.opts.PopTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Errorf("pop: %v", err)
			continue
		}
		if rec == nil {
			continue
		}
		s.Accept(ctx, *rec)
	}
}

// Accept adds a record to the batch and flushes when the batch is full.
func (s *Service) Accept(ctx context.Context, rec cache.GameActionRecord) {
	if rec.ActionType == "game_won" {
		s.finished.Store(rec.GameID, struct{}{})
		s.lastActivity.Delete(rec.GameID)
	} else if _, done := s.finished.Load(rec.GameID); !done {
		s.lastActivity.Store(rec.GameID, time.Now())
	}

	s.batchMu.Lock()
	s.batch = append(s.batch, rec)
	full := len(s.batch) >= s.opts.BatchSize
	s.batchMu.Unlock()

	if full {
		s.Flush(ctx)
	}
}

// Flush writes the pending batch in one transaction. A failed batch is put back
// in front of newer records so it is retried on the next flush; past MaxPending
// the oldest records are dropped.
func (s *Service) Flush(ctx context.Context) int {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return 0
	}
	pending := make([]cache.GameActionRecord, len(s.batch))
	copy(pending, s.batch)
	s.batch = s.batch[:0]
	s.batchMu.Unlock()

	if err := s.store.InsertActions(ctx, pending); err != nil {
		s.log.Errorf("flushing %d actions: %v", len(pending), err)
		s.batchMu.Lock()
		s.batch = append(pending, s.batch...)
		if over := len(s.batch) - s.opts.MaxPending; over > 0 {
			s.log.Warnf("dropping %d oldest actions, %d still pending", over, s.opts.MaxPending)
			s.batch = append(s.batch[:0:0], s.batch[over:]...)
		}
		s.batchMu.Unlock()
		return 0
	}
	s.log.Debugf("flushed %d actions", len(pending))
	return len(pending)
}

// Pending is the number of records waiting for the next flush.
func (s *Service) Pending() int {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	return len(s.batch)
}

func (s *Service) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.FlushDelay)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Flush(ctx)
		}
	}
}

func (s *Service) inactivityLoop(ctx context.Context) {
	interval := s.opts.Inactivity / 10
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.SweepInactive(ctx, now)
		}
	}
}

// SweepInactive marks every game idle since before now-Inactivity as abandoned.
// It returns the games it marked.
func (s *Service) SweepInactive(ctx context.Context, now time.Time) []uuid.UUID {
	var stale []uuid.UUID
	s.lastActivity.Range(func(key, val interface{}) bool {
		gameID, ok1 := key.(uuid.UUID)
		last, ok2 := val.(time.Time)
		if ok1 && ok2 && now.Sub(last) > s.opts.Inactivity {
			stale = append(stale, gameID)
		}
		return true
	})

	var marked []uuid.UUID
	for _, id := range stale {
		// Its actions must be stored before the game row can be updated.
		s.Flush(ctx)
		if err := s.store.MarkGameAbandoned(ctx, id); err != nil {
			s.log.Errorf("failed to mark game %v abandoned: %v", id, err)
			continue
		}
		s.lastActivity.Delete(id)
		marked = append(marked, id)
		s.log.Infof("marked game %v as 'abandoned' due to inactivity", id)
	}
	return marked
}
