package dashboard

import (
	"context"
	"sync"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-charts/internal/logger"
	"go.uber.org/zap"
)

// Session runs ticker loads in the background and hands finished payloads to a single
// consumer through Results. Each selection gets a new generation; payloads of older
// generations are stale and must be dropped with Accept.
type Session struct {
	loader     *Loader
	results    chan Payload
	logger     *logger.Logger
	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	displayed  optional.Option[Payload]
	wg         sync.WaitGroup
	closed     bool
}

// NewSession creates a session posting at most buffer payloads before the consumer must read.
func NewSession(loader *Loader, buffer int, log *logger.Logger) *Session {
	return &Session{
		loader:     loader,
		results:    make(chan Payload, buffer),
		logger:     log,
		mu:         sync.Mutex{},
		generation: 0,
		cancel:     nil,
		displayed:  optional.None[Payload](),
		wg:         sync.WaitGroup{},
		closed:     false,
	}
}

// Results is the completion channel. It is closed by Close.
func (s *Session) Results() <-chan Payload {
	return s.results
}

// Select starts loading ticker and returns the generation of the load.
// The load of the previous selection is cancelled.
func (s *Session) Select(ctx context.Context, ticker string, years int) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.generation
	}

	if s.cancel != nil {
		s.cancel()
	}

	s.generation++
	generation := s.generation

	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.logger.Info("Loading ticker", zap.String("ticker", ticker), zap.Int("years", years), zap.Uint64("generation", generation))

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		payload := s.loader.Load(loadCtx, ticker, years)
		payload.Generation = generation

		select {
		case s.results <- payload:
		case <-loadCtx.Done():
			s.logger.Debug("Dropping superseded load", zap.String("ticker", ticker), zap.Uint64("generation", generation))
		}
	}()

	return generation
}

// Accept is called by the consumer for every received payload. It returns true when the
// payload should be displayed. Stale payloads and failed loads are rejected; a failed
// load leaves the last displayed payload untouched.
func (s *Session) Accept(payload Payload) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if payload.Generation != s.generation {
		return false
	}

	if payload.Failed() {
		return false
	}

	s.displayed = optional.Some(payload)

	return true
}

// Displayed returns the last accepted payload.
func (s *Session) Displayed() optional.Option[Payload] {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.displayed
}

// Generation returns the generation of the latest selection.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.generation
}

// Close cancels the running load, waits for it and closes the results channel.
func (s *Session) Close() {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()

		return
	}

	s.closed = true

	if s.cancel != nil {
		s.cancel()
	}

	s.mu.Unlock()

	s.wg.Wait()
	close(s.results)
}
