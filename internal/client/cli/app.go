package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/herocards/internal/client/services"
	"github.com/dmitrijs2005/herocards/internal/client/session"
	"github.com/dmitrijs2005/herocards/internal/common"
	"github.com/dmitrijs2005/herocards/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Pinger probes the remote store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Uploader stores image bytes and returns a reference to them.
type Uploader interface {
	Upload(ctx context.Context, contentType string, body []byte) (string, error)
}

// App is the interactive client: a REPL over the sync engine.
type App struct {
	engine   services.SyncEngine
	guard    *session.Guard
	remote   Pinger
	uploader Uploader
	log      logging.Logger

	reader *bufio.Reader
	out    *syncWriter
	now    func() time.Time

	mu   sync.Mutex
	mode Mode
}

// NewApp builds the App. uploader may be nil, in which case image prompts
// take a URL instead of a file path.
func NewApp(engine services.SyncEngine, guard *session.Guard, remote Pinger, uploader Uploader, in io.Reader, out io.Writer, log logging.Logger) *App {
	return &App{
		engine:   engine,
		guard:    guard,
		remote:   remote,
		uploader: uploader,
		log:      log.With("module", "cli"),
		reader:   bufio.NewReader(in),
		out:      &syncWriter{w: out},
		now:      time.Now,
		mode:     ModeOffline,
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// setMode switches the mode and reports whether it changed.
func (a *App) setMode(mode Mode) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode == mode {
		return false
	}
	a.mode = mode
	return true
}

// identity returns the signed-in identity or common.ErrNoIdentity.
func (a *App) identity() (string, error) {
	if a.guard.State() != session.SessionActive {
		return "", common.ErrNoIdentity
	}
	return a.guard.Identity(), nil
}

func (a *App) getStatus() string {
	id := a.guard.Identity()
	if id == "" {
		return fmt.Sprintf("(%s)", a.Mode())
	}
	return fmt.Sprintf("(%s %s)", id, a.Mode())
}

// Run starts the connectivity watcher and the event printer, then blocks in
// the REPL until the user exits or signs out.
func (a *App) Run(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartOnlineStatusWatcher(ctx, interval)
	go a.StartEventPrinter(ctx)

	fmt.Fprintln(a.out, "Welcome to herocards (type 'help' for commands)")
	runREPL(ctx, a.commands(), a.getStatus, a.reader, a.out)
}

// checkOnline pings the remote once and updates the mode. Going from offline
// to online flushes pending local writes.
func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.remote.Ping(pingCtx)
	cancel()

	if err != nil {
		if a.setMode(ModeOffline) {
			a.log.Info(ctx, "switched to offline mode", "error", err)
		}
		return
	}
	if !a.setMode(ModeOnline) {
		return
	}
	a.log.Info(ctx, "switched to online mode")
	if err := a.engine.FlushPending(ctx); err != nil && !errors.Is(err, context.Canceled) {
		a.log.Warn(ctx, "flush pending writes", "error", err)
	}
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// StartEventPrinter prints sync events until ctx is done.
func (a *App) StartEventPrinter(ctx context.Context) {
	events := a.engine.Events()
	for {
		select {
		case ev := <-events:
			a.log.Debug(ctx, "sync event", "op", string(ev.Op), "key", ev.Key, "error", ev.Err)
			fmt.Fprintf(a.out, "! %s\n", ev)
		case <-ctx.Done():
			return
		}
	}
}

// syncWriter serialises writes from the REPL and the background printers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
