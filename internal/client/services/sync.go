package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/herocards/internal/client/client"
	"github.com/dmitrijs2005/herocards/internal/client/models"
	"github.com/dmitrijs2005/herocards/internal/client/repositories/cards"
	"github.com/dmitrijs2005/herocards/internal/client/repositories/profiles"
	"github.com/dmitrijs2005/herocards/internal/logging"
	"golang.org/x/sync/singleflight"
)

// SyncEngine orchestrates the local cache and the remote store.
//
// Read paths never fail because of the cache or the network: they degrade
// to absent / empty. Only DeleteCard, ToggleCardVisibility, the collection
// writes and GetStats return remote errors.
type SyncEngine interface {
	GetUser(ctx context.Context, identity string) (*models.User, error)
	GetCards(ctx context.Context, identity string) ([]*models.Card, error)
	// GetCardByID returns the card as seen by viewer; viewer may be empty.
	GetCardByID(ctx context.Context, cardID, viewer string) (*models.Card, error)
	CheckCardSaved(ctx context.Context, identity, cardID string) bool
	GetSavedCards(ctx context.Context, identity string) []*models.Card
	GetStats(ctx context.Context, identity string) (*models.Stats, error)

	SaveUser(ctx context.Context, user *models.User) error
	SaveCard(ctx context.Context, identity string, card *models.Card) error
	DeleteCard(ctx context.Context, identity, cardID string) error
	ToggleCardVisibility(ctx context.Context, identity, cardID string, public bool) error
	SaveCardToCollection(ctx context.Context, identity, cardID string) error
	RemoveCardFromCollection(ctx context.Context, identity, cardID string) error

	RevertCardVisibility(ctx context.Context, identity, cardID string, previous bool) error
	RestoreCard(ctx context.Context, identity string, card *models.Card) error
	FlushPending(ctx context.Context) error

	Events() <-chan SyncEvent
	Purge(ctx context.Context) error
	Wait()
	Close()
}

// Op names the engine step a SyncEvent comes from.
type Op string

const (
	OpGetUser      Op = "get_user"
	OpRefreshUser  Op = "refresh_user"
	OpSaveUser     Op = "save_user"
	OpGetCards     Op = "get_cards"
	OpRefreshCards Op = "refresh_cards"
	OpGetCard      Op = "get_card"
	OpSaveCard     Op = "save_card"
	OpDeleteCard   Op = "delete_card"
	OpVisibility   Op = "set_visibility"
	OpCheckSaved   Op = "check_saved"
	OpGetSaved     Op = "get_saved"
	OpMigrate      Op = "migrate"
	OpFlush        Op = "flush"
)

// SyncEvent reports a non-fatal failure.
type SyncEvent struct {
	Op  Op
	Key string
	Err error
	At  time.Time
}

func (e SyncEvent) String() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

// DefaultEventBuffer is used when NewSyncEngine gets a non-positive buffer.
const DefaultEventBuffer = 64

// errStale marks a write dropped because a purge happened since the data
// was requested.
var errStale = errors.New("stale generation")

type purger interface {
	PurgeAll(ctx context.Context) error
}

type syncEngine struct {
	remote   client.Client
	profiles profiles.Repository
	cards    cards.Repository
	local    purger
	log      logging.Logger
	events   chan SyncEvent
	flight   singleflight.Group
	now      func() time.Time

	// mu guards the generation state below. Remote results are written to
	// the cache under RLock after a generation check; Purge takes Lock to
	// bump the generation.
	mu     sync.RWMutex
	gen    uint64
	bg     context.Context
	cancel context.CancelFunc
	wg     *sync.WaitGroup
	closed bool

	undoMu sync.Mutex
	undo   map[string]undoEntry
}

// undoEntry is kept for a card whose remote mutation failed: the local
// revision that mutation wrote and the pending value it replaced.
type undoEntry struct {
	revision int64
	previous int64
}

// NewSyncEngine builds the engine over remote and the local repositories.
func NewSyncEngine(remote client.Client, local *client.Repositories, log logging.Logger, eventBuffer int) SyncEngine {
	return newSyncEngine(remote, local.Profiles, local.Cards, local, log, eventBuffer)
}

func newSyncEngine(remote client.Client, p profiles.Repository, c cards.Repository, local purger, log logging.Logger, eventBuffer int) *syncEngine {
	if eventBuffer <= 0 {
		eventBuffer = DefaultEventBuffer
	}
	bg, cancel := context.WithCancel(context.Background())
	return &syncEngine{
		remote:   remote,
		profiles: p,
		cards:    c,
		local:    local,
		log:      log.With("module", "sync"),
		events:   make(chan SyncEvent, eventBuffer),
		now:      time.Now,
		bg:       bg,
		cancel:   cancel,
		wg:       &sync.WaitGroup{},
		undo:     make(map[string]undoEntry),
	}
}

func (s *syncEngine) Events() <-chan SyncEvent {
	return s.events
}

func (s *syncEngine) generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// commit runs write only while gen is still current.
func (s *syncEngine) commit(gen uint64, write func() error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if gen != s.gen {
		return errStale
	}
	return write()
}

// background runs fn in a tracked goroutine on the engine's own context.
func (s *syncEngine) background(op Op, key string, fn func(ctx context.Context, gen uint64) error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	ctx, gen, wg := s.bg, s.gen, s.wg
	wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer wg.Done()
		defer func() {
			if p := recover(); p != nil {
				s.report(ctx, op, key, fmt.Errorf("panic: %v", p))
			}
		}()

		err := fn(ctx, gen)
		if err == nil || errors.Is(err, errStale) || ctx.Err() != nil {
			return
		}
		s.report(ctx, op, key, err)
	}()
}

// report logs a non-fatal failure and publishes it without blocking.
func (s *syncEngine) report(ctx context.Context, op Op, key string, err error) {
	s.log.Warn(ctx, "sync failure", "op", op, "key", key, "error", err)

	select {
	case s.events <- SyncEvent{Op: op, Key: key, Err: err, At: s.now()}:
	default:
		s.log.Warn(ctx, "sync event dropped", "op", op, "key", key)
	}
}

// Purge stops background work, waits for it and empties the cache. Results
// of work started before Purge are never written afterwards.
func (s *syncEngine) Purge(ctx context.Context) error {
	s.mu.Lock()
	s.cancel()
	s.gen++
	old := s.wg
	s.wg = &sync.WaitGroup{}
	if !s.closed {
		s.bg, s.cancel = context.WithCancel(context.Background())
	}
	s.mu.Unlock()

	old.Wait()

	s.undoMu.Lock()
	clear(s.undo)
	s.undoMu.Unlock()

	if err := s.local.PurgeAll(ctx); err != nil {
		return fmt.Errorf("purge: %w", err)
	}
	s.log.Info(ctx, "local cache purged")
	return nil
}

// Wait blocks until the background work started so far has finished.
func (s *syncEngine) Wait() {
	s.mu.RLock()
	wg := s.wg
	s.mu.RUnlock()
	wg.Wait()
}

// Close cancels background work and waits for it. Events is not closed.
func (s *syncEngine) Close() {
	s.mu.Lock()
	s.closed = true
	s.cancel()
	wg := s.wg
	s.mu.Unlock()
	wg.Wait()
}
