// Package app wires the client core together and runs the update loop.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/cbodonnell/geoquiz/client/events"
	"github.com/cbodonnell/geoquiz/client/guess"
	"github.com/cbodonnell/geoquiz/client/identity"
	"github.com/cbodonnell/geoquiz/client/maps"
	"github.com/cbodonnell/geoquiz/client/network"
	"github.com/cbodonnell/geoquiz/client/render"
	"github.com/cbodonnell/geoquiz/client/state"
	"github.com/cbodonnell/geoquiz/client/viewmodel"
	"github.com/cbodonnell/geoquiz/pkg/log"
	"github.com/cbodonnell/geoquiz/pkg/queue"
)

const (
	DefaultTickInterval = 50 * time.Millisecond

	StatusConnecting   = "Connecting to server…"
	StatusDisconnected = "Disconnected. Trying to reconnect…"
	StatusJoined       = "Joined. Waiting for the game…"
	StatusJoinLater    = "Not connected. You will join once the connection is back."
	StatusNotSent      = "Not connected. Your guess was not sent."
	StatusNameLocked   = "Your name cannot be changed while joined."

	StatusNameCheckFailed = "Your name could not be checked. Try again."
)

type Options struct {
	Channel      network.Channel
	Map          maps.MapAdapter
	View         viewmodel.View
	Identities   *identity.Store
	EventQueue   queue.Queue[events.Event]
	Order        render.Order
	RevealZoom   int
	TickInterval time.Duration
}

// App is the client context. Every field is owned by the update loop;
// other goroutines only enqueue events.
type App struct {
	channel      network.Channel
	view         viewmodel.View
	identities   *identity.Store
	eventQueue   queue.Queue[events.Event]
	tickInterval time.Duration

	store    *state.Store
	renderer *render.Renderer
	guess    *guess.Controller

	self        identity.Identity
	connected   bool
	everDropped bool
	joined      bool

	phaseFrame viewmodel.Frame
	notice     string
	lastFrame  *viewmodel.Frame
}

// NewApp loads the stored identity and registers the map click handler.
func NewApp(ctx context.Context, opts Options) (*App, error) {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	a := &App{
		channel:      opts.Channel,
		view:         opts.View,
		identities:   opts.Identities,
		eventQueue:   opts.EventQueue,
		tickInterval: opts.TickInterval,
		store:        state.NewStore(),
		renderer: render.NewRenderer(render.Options{
			Map:        opts.Map,
			Order:      opts.Order,
			RevealZoom: opts.RevealZoom,
		}),
		guess: guess.NewController(opts.Map),
	}

	self, ok, err := a.identities.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load identity: %v", err)
	}
	if ok {
		log.Info("Loaded stored identity %q", self)
		a.self = self
	}

	opts.Map.OnMapClick(func(p maps.Point) {
		if err := a.eventQueue.Enqueue(events.MapClicked{Lat: p.Lat, Lon: p.Lon}); err != nil {
			if queue.IsQueueFull(err) {
				log.Warn("Dropping map click at %s: event queue is full", p)
				return
			}
			log.Error("Failed to enqueue map click: %v", err)
		}
	})

	return a, nil
}

// Identity returns the current identity, which may be empty.
func (a *App) Identity() identity.Identity {
	return a.self
}

// Frame returns the frame for the current state.
func (a *App) Frame() viewmodel.Frame {
	f := a.phaseFrame
	a.guess.Decorate(&f)

	f.Connected = a.connected
	f.Identity = a.self.String()
	f.ShowLogin = a.self.IsZero()
	f.Controls.NameEdit = !a.joined

	switch {
	case a.notice != "":
		f.Status = a.notice
	case !a.connected && a.everDropped:
		f.Status = StatusDisconnected
	case !a.connected:
		f.Status = StatusConnecting
	case a.store.Current() == nil && a.joined:
		f.Status = StatusJoined
	}
	return f
}

// Update applies a single event. It must only be called from the loop
// goroutine.
func (a *App) Update(ctx context.Context, ev events.Event) {
	a.notice = ""

	switch e := ev.(type) {
	case events.Connected:
		a.onConnected(e)
	case events.Disconnected:
		a.connected = false
		a.everDropped = true
		a.joined = false
	case events.SnapshotReceived:
		a.onSnapshot(e)
	case events.MapClicked:
		a.guess.Place(a.store.Current(), a.self, maps.Point{Lat: e.Lat, Lon: e.Lon})
	case events.SubmitClicked:
		a.onSubmit()
	case events.ClearClicked:
		a.guess.Clear()
	case events.JoinRequested:
		a.onJoinRequested(ctx, e)
	default:
		log.Warn("Ignoring unexpected event %T", ev)
	}

	a.push()
}

func (a *App) onConnected(e events.Connected) {
	a.connected = true
	log.Debug("Session %s established", e.SessionID)
	if !a.self.IsZero() {
		a.join()
	}
}

func (a *App) onSnapshot(e events.SnapshotReceived) {
	kind := a.store.Apply(e.Snapshot)
	if kind.ResetsRound() {
		a.guess.Reset()
	}
	a.guess.Sync(e.Snapshot, a.self)
	a.rerender()
}

func (a *App) onSubmit() {
	g, ok := a.guess.Submit(a.store.Current(), a.self)
	if !ok {
		return
	}
	if err := a.channel.EmitGuess(a.self.String(), g.Lat, g.Lon); err != nil {
		log.Warn("Failed to send guess: %v", err)
		a.guess.AbortSubmit()
		a.notice = StatusNotSent
		return
	}
	log.Info("Submitted guess %.4f, %.4f", g.Lat, g.Lon)
}

func (a *App) onJoinRequested(ctx context.Context, e events.JoinRequested) {
	if a.joined {
		a.notice = StatusNameLocked
		return
	}
	self, err := identity.Validate(e.Name)
	if err != nil {
		if !identity.IsValidationError(err) {
			log.Error("Failed to validate name: %v", err)
			a.notice = StatusNameCheckFailed
			return
		}
		a.notice = err.Error()
		return
	}
	a.self = self
	if err := a.identities.Persist(ctx, self); err != nil {
		log.Error("Failed to persist identity: %v", err)
	}
	a.rerender()

	if !a.connected {
		a.notice = StatusJoinLater
		return
	}
	a.join()
}

func (a *App) join() {
	if err := a.channel.EmitJoin(a.self.String()); err != nil {
		log.Warn("Failed to join as %q: %v", a.self, err)
		a.notice = StatusJoinLater
		return
	}
	a.joined = true
	log.Info("Joined as %q", a.self)
}

func (a *App) rerender() {
	if s := a.store.Current(); s != nil {
		a.phaseFrame = a.renderer.Render(s, a.self)
	}
}

// push sends the frame to the view if it changed since the last push.
func (a *App) push() {
	f := a.Frame()
	if a.lastFrame != nil && a.lastFrame.Equal(f) {
		return
	}
	a.lastFrame = &f
	a.view.Render(f)
}

// Run starts the channel and processes queued events once per tick until ctx
// is done. Events still queued at that point are processed before returning.
func (a *App) Run(ctx context.Context) error {
	if err := a.channel.Start(ctx); err != nil {
		return fmt.Errorf("failed to start channel: %v", err)
	}
	defer func() {
		if err := a.channel.Stop(); err != nil {
			log.Error("Failed to stop channel: %v", err)
		}
	}()

	a.push()

	ticker := time.NewTicker(a.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			a.drain(context.WithoutCancel(ctx))
			return nil
		case <-ticker.C:
			a.drain(ctx)
		}
	}
}

func (a *App) drain(ctx context.Context) {
	for _, ev := range a.eventQueue.ReadAll() {
		a.Update(ctx, ev)
	}
}
