package network

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cbodonnell/geoquiz/client/events"
	"github.com/cbodonnell/geoquiz/pkg/log"
	"github.com/cbodonnell/geoquiz/pkg/messages"
	"github.com/cbodonnell/geoquiz/pkg/queue"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

const (
	DefaultServerURL            = "ws://localhost:4242/ws"
	DefaultReconnectMaxInterval = 30 * time.Second
)

// Channel is the persistent connection to the game server as seen by the
// update loop. Inbound traffic arrives as events on the event queue.
type Channel interface {
	Start(ctx context.Context) error
	Stop() error
	EmitJoin(name string) error
	EmitGuess(name string, lat, lon float64) error
	IsConnected() bool
}

type NetworkManagerOptions struct {
	ServerURL            string
	EventQueue           queue.Queue[events.Event]
	Compress             bool
	ReconnectMaxInterval time.Duration
}

// NetworkManager keeps a websocket connection open, reconnecting with
// exponential backoff until stopped.
type NetworkManager struct {
	serverURL            string
	eventQueue           queue.Queue[events.Event]
	compress             bool
	reconnectMaxInterval time.Duration
	client               *WSClient
	clientMutex          sync.Mutex
	cancelClientCtx      context.CancelFunc
	clientWaitGroup      *sync.WaitGroup
}

var _ Channel = &NetworkManager{}

// NewNetworkManager creates a new network manager.
func NewNetworkManager(opts NetworkManagerOptions) *NetworkManager {
	if opts.ServerURL == "" {
		opts.ServerURL = DefaultServerURL
	}
	if opts.ReconnectMaxInterval <= 0 {
		opts.ReconnectMaxInterval = DefaultReconnectMaxInterval
	}
	return &NetworkManager{
		serverURL:            opts.ServerURL,
		eventQueue:           opts.EventQueue,
		compress:             opts.Compress,
		reconnectMaxInterval: opts.ReconnectMaxInterval,
		clientWaitGroup:      &sync.WaitGroup{},
	}
}

// Start connects in the background and returns immediately.
func (m *NetworkManager) Start(ctx context.Context) error {
	if m.cancelClientCtx != nil {
		return fmt.Errorf("network manager already started")
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancelClientCtx = cancel

	m.clientWaitGroup.Add(1)
	go func(ctx context.Context) {
		defer m.clientWaitGroup.Done()
		m.run(ctx)
	}(ctx)

	return nil
}

func (m *NetworkManager) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = m.reconnectMaxInterval
	b.MaxElapsedTime = 0
	return backoff.WithContext(b, ctx)
}

func (m *NetworkManager) run(ctx context.Context) {
	b := m.newBackOff(ctx)
	for {
		client := NewWSClient(m.serverURL, m.eventQueue, m.compress)
		if err := client.Connect(ctx); err != nil {
			log.Warn("Connection attempt failed: %v", err)
		} else {
			b.Reset()
			sessionID := uuid.NewString()
			m.setClient(client)
			log.Info("Connected to server with session %s", sessionID)
			m.enqueue(ctx, events.Connected{SessionID: sessionID})

			err := client.HandleMessages(ctx)
			m.setClient(nil)
			if ctx.Err() != nil {
				return
			}
			log.Warn("Disconnected from server: %v", err)
			m.enqueue(ctx, events.Disconnected{Err: err})
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			return
		}
		log.Debug("Reconnecting in %s", wait)
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

func (m *NetworkManager) enqueue(ctx context.Context, ev events.Event) {
	if err := m.eventQueue.EnqueueWait(ctx, ev); err != nil {
		log.Error("Failed to enqueue %s event: %v", ev.Kind(), err)
	}
}

func (m *NetworkManager) setClient(client *WSClient) {
	m.clientMutex.Lock()
	defer m.clientMutex.Unlock()
	m.client = client
}

// Stop closes the connection, waits for the reader to exit and clears the
// event queue.
func (m *NetworkManager) Stop() error {
	if m.cancelClientCtx == nil {
		log.Warn("Network manager already stopped")
		return nil
	}
	m.cancelClientCtx()

	log.Debug("Waiting for client to stop")
	m.clientWaitGroup.Wait()
	m.eventQueue.Clear()
	m.cancelClientCtx = nil

	log.Info("Network manager stopped")

	return nil
}

func (m *NetworkManager) IsConnected() bool {
	m.clientMutex.Lock()
	defer m.clientMutex.Unlock()
	return m.client != nil
}

func (m *NetworkManager) EmitJoin(name string) error {
	msg, err := messages.NewMessage(messages.MessageTypeClientJoin, &messages.ClientJoin{Name: name})
	if err != nil {
		return err
	}
	return m.send(msg)
}

func (m *NetworkManager) EmitGuess(name string, lat, lon float64) error {
	msg, err := messages.NewMessage(messages.MessageTypeClientGuess, &messages.ClientGuess{
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
	})
	if err != nil {
		return err
	}
	return m.send(msg)
}

func (m *NetworkManager) send(msg *messages.Message) error {
	m.clientMutex.Lock()
	client := m.client
	m.clientMutex.Unlock()
	if client == nil {
		return &ErrNotConnected{}
	}
	return client.SendMessage(msg)
}
