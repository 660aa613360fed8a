package session

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/kataras/golog"
	"github.com/xor-shift/rngkit/common"
)

var (
	ErrUnknownSession = errors.New("unknown session")
	ErrOldSequence    = errors.New("old sequence ID")
	ErrBadWord        = errors.New("bad pRNG word")
	ErrStopped        = errors.New("manager is stopped")
	ErrSequenceGap    = errors.New("sequence gap too large")
)

// MaxSequenceGap bounds how many words a single batch may make the replica replay,
// counting both verified and skipped draws.
const MaxSequenceGap = 1 << 20

type Store interface {
	CreateSession(ctx context.Context, initial common.Descriptor) (uint, error)
	SaveCheckpoint(ctx context.Context, id uint, checkpoint common.Descriptor, dropped uint) error
}

type Publisher interface {
	Publish(batch common.DrawBatch) error
}

// NewSeed reads a seed from crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return binary.LittleEndian.Uint64(b[:]), nil
}

// Session is the server-side replica of a client's generator.
type Session struct {
	mu sync.Mutex

	id      uint
	initial common.Descriptor
	gen     common.Generator

	// sequence number of the next word gen will produce
	nextSequence uint
	dropped      uint
}

type Status struct {
	ID           uint              `json:"id"`
	Initial      common.Descriptor `json:"initial"`
	NextSequence uint              `json:"nextSequence"`
	Dropped      uint              `json:"dropped"`
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		ID:           s.id,
		Initial:      s.initial,
		NextSequence: s.nextSequence,
		Dropped:      s.dropped,
	}
}

// verify checks draws in order. A draw may skip ahead (the skipped words count as
// dropped) but never go back. On the first bad draw the session is rolled back to
// where it was before the call and the draws verified so far are discarded.
func (s *Session) verify(draws []common.Draw) ([]common.Draw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshotGen := s.gen.Clone()
	snapshotNext, snapshotDropped := s.nextSequence, s.dropped

	rollback := func() {
		s.gen = snapshotGen
		s.nextSequence = snapshotNext
		s.dropped = snapshotDropped
	}

	for _, draw := range draws {
		if draw.Sequence < s.nextSequence {
			rollback()
			return nil, fmt.Errorf("%w (got: %d, expected (at least): %d)", ErrOldSequence, draw.Sequence, s.nextSequence)
		}

		if draw.Sequence-snapshotNext >= MaxSequenceGap {
			rollback()
			return nil, fmt.Errorf("%w (got: %d, expected (at most): %d)", ErrSequenceGap, draw.Sequence, snapshotNext+MaxSequenceGap-1)
		}

		seqDelta := draw.Sequence - s.nextSequence + 1

		var expected uint64
		for i := uint(0); i < seqDelta; i++ {
			expected = s.gen.NextWord()
		}

		if draw.Word != expected {
			rollback()
			return nil, fmt.Errorf("%w at sequence %d (got: %d, expected: %d)", ErrBadWord, draw.Sequence, draw.Word, expected)
		}

		s.dropped += seqDelta - 1
		s.nextSequence = draw.Sequence + 1
	}

	return draws, nil
}

type Manager struct {
	store     Store
	publisher Publisher
	logger    *golog.Logger
	newSeed   func() (uint64, error)

	mu       sync.RWMutex
	sessions map[uint]*Session

	stopMu  sync.RWMutex
	stopped bool

	workerWG *sync.WaitGroup
	incoming chan common.DrawBatch
}

type Option func(*Manager)

// WithSeedFunc replaces the crypto/rand seed source used by Open.
func WithSeedFunc(f func() (uint64, error)) Option {
	return func(m *Manager) { m.newSeed = f }
}

func WithLogger(logger *golog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

func NewManager(store Store, publisher Publisher, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		publisher: publisher,
		logger:    golog.Default,
		newSeed:   NewSeed,

		sessions: map[uint]*Session{},

		workerWG: &sync.WaitGroup{},
		incoming: make(chan common.DrawBatch, 128),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Open starts a session for a generator of the given kind. The seed is always chosen
// here; the returned descriptor is what the client needs to produce the same stream.
func (m *Manager) Open(ctx context.Context, kind string) (uint, common.Descriptor, error) {
	seed, err := m.newSeed()
	if err != nil {
		return 0, common.Descriptor{}, err
	}

	if kind == common.KindMT19937 {
		seed &= 0xFFFFFFFF
	}

	initial := common.Descriptor{Kind: kind, Seed: seed}

	gen, err := initial.Build()
	if err != nil {
		return 0, common.Descriptor{}, err
	}

	// hand out the full state so clients need not implement seed expansion
	initial = gen.Checkpoint()

	id, err := m.store.CreateSession(ctx, initial)
	if err != nil {
		return 0, common.Descriptor{}, fmt.Errorf("create session: %w", err)
	}

	m.mu.Lock()
	m.sessions[id] = &Session{id: id, initial: initial, gen: gen}
	m.mu.Unlock()

	m.logger.Infof("opened session %d (%s)", id, kind)

	return id, initial, nil
}

func (m *Manager) Session(id uint) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSession, id)
	}

	return s, nil
}

// Verify checks a batch synchronously and returns the verified draws.
func (m *Manager) Verify(id uint, draws []common.Draw) ([]common.Draw, error) {
	s, err := m.Session(id)
	if err != nil {
		return nil, err
	}

	return s.verify(draws)
}

// Submit queues a batch for the workers started with Start.
func (m *Manager) Submit(batch common.DrawBatch) error {
	if _, err := m.Session(batch.SessionID); err != nil {
		return err
	}

	m.stopMu.RLock()
	defer m.stopMu.RUnlock()

	if m.stopped {
		return ErrStopped
	}

	m.incoming <- batch

	return nil
}

// Start starts a certain number of workers for submitted batches.
// Batches of one session may be verified out of order when numWorkers is greater than 1,
// which makes later batches fail with ErrOldSequence.
func (m *Manager) Start(numWorkers uint) {
	m.workerWG.Add(int(numWorkers))

	for i := uint(0); i < numWorkers; i++ {
		go m.task()
	}
}

// Stop drains the queue and waits for the workers.
func (m *Manager) Stop() {
	m.stopMu.Lock()
	if !m.stopped {
		m.stopped = true
		close(m.incoming)
	}
	m.stopMu.Unlock()

	m.workerWG.Wait()
}

func (m *Manager) processBatch(batch common.DrawBatch) error {
	s, err := m.Session(batch.SessionID)
	if err != nil {
		return err
	}

	verified, err := s.verify(batch.Draws)
	if err != nil {
		return err
	}

	s.mu.Lock()
	checkpoint := s.gen.Checkpoint()
	dropped := s.dropped
	s.mu.Unlock()

	if err = m.store.SaveCheckpoint(context.Background(), s.id, checkpoint, dropped); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}

	return m.publisher.Publish(common.DrawBatch{
		SessionID: s.id,
		Kind:      checkpoint.Kind,
		Draws:     verified,
	})
}

func (m *Manager) task() {
	defer m.workerWG.Done()

	for batch := range m.incoming {
		m.logger.Debugf("%d new draws for session %d", len(batch.Draws), batch.SessionID)

		if err := m.processBatch(batch); err != nil {
			m.logger.Warnf("error while processing a batch of %d draws for session %d: %s", len(batch.Draws), batch.SessionID, err)
		}
	}
}
