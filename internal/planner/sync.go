package planner

import (
	"context"
	"sync"
	"time"
)

// DefaultSyncDelay matches the web client's debounce window.
const DefaultSyncDelay = 800 * time.Millisecond

// Syncer is the debounced sync trigger. Every mutation (re)arms a single
// delay timer, so a burst of rapid edits collapses into one network call
// carrying the latest full snapshot. Flushes are serialized: flushMu admits
// one request at a time and the snapshot is taken after acquiring it, so a
// flush queued behind a slow one always sends the newer state and an older
// snapshot can never win server-side.
type Syncer struct {
	planner *Planner
	client  *Client
	delay   time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	closed bool

	flushMu sync.Mutex
	wg      sync.WaitGroup
}

func NewSyncer(p *Planner, c *Client, delay time.Duration) *Syncer {
	if delay <= 0 {
		delay = DefaultSyncDelay
	}
	s := &Syncer{
		planner: p,
		client:  c,
		delay:   delay,
	}
	p.SetOnMutate(s.Schedule)
	return s
}

// Schedule (re)starts the debounce timer, replacing any pending one.
func (s *Syncer) Schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.timer != nil && s.timer.Stop() {
		s.wg.Done()
	}
	s.wg.Add(1)
	s.timer = time.AfterFunc(s.delay, func() {
		defer s.wg.Done()
		_ = s.flush(context.Background())
	})
}

// Flush cancels any pending timer and pushes the current snapshot now.
func (s *Syncer) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil && s.timer.Stop() {
		s.wg.Done()
	}
	s.timer = nil
	s.mu.Unlock()
	return s.flush(ctx)
}

// Close stops the syncer, flushing unsaved local state first.
func (s *Syncer) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	if s.timer != nil && s.timer.Stop() {
		s.wg.Done()
	}
	s.timer = nil
	s.mu.Unlock()

	s.wg.Wait()
	if s.planner.State() == StateSaving {
		return s.flush(context.Background())
	}
	return nil
}

// flush sends the entire current plan list and reconciles the outcome into
// the save-state machine. On success the only thing taken from the server
// echo is its minted ids.
func (s *Syncer) flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	if !s.planner.Authenticated() || !s.planner.Loaded() {
		return nil
	}

	payload, generation := s.planner.syncPayload()
	remote, err := s.client.SyncPlans(ctx, payload)
	if err != nil {
		s.planner.markError(generation)
		return err
	}

	s.planner.adoptServerIDs(remote)
	s.planner.markSaved(generation)
	return nil
}
