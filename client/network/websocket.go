package network

import (
	"context"
	"fmt"
	"sync"

	"github.com/cbodonnell/geoquiz/client/events"
	"github.com/cbodonnell/geoquiz/pkg/log"
	"github.com/cbodonnell/geoquiz/pkg/messages"
	"github.com/cbodonnell/geoquiz/pkg/queue"
	"github.com/gorilla/websocket"
)

// WSClient represents a WebSocket client.
type WSClient struct {
	serverURL  string
	eventQueue queue.Queue[events.Event]
	compress   bool
	conn       *websocket.Conn
	writeMutex sync.Mutex
	closeOnce  sync.Once
}

// NewWSClient creates a new WebSocket client.
func NewWSClient(serverURL string, eventQueue queue.Queue[events.Event], compress bool) *WSClient {
	return &WSClient{
		serverURL:  serverURL,
		eventQueue: eventQueue,
		compress:   compress,
	}
}

// Connect establishes a connection to the WebSocket server.
func (c *WSClient) Connect(ctx context.Context) error {
	log.Info("Connecting to WebSocket server at %s", c.serverURL)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.serverURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %v", err)
	}
	c.conn = conn
	return nil
}

// HandleMessages reads frames until the connection drops or ctx is done.
// Frames are handled in arrival order.
func (c *WSClient) HandleMessages(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-done:
		}
	}()
	defer c.Close()

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Trace("Connection closed by %s", c.serverURL)
				return &ErrConnectionClosedByServer{}
			}
			log.Error("Error reading WebSocket message from %s: %v", c.serverURL, err)
			return err
		}

		if err := c.handleFrame(ctx, messageType, message); err != nil {
			log.Error("Failed to handle message: %v", err)
		}
	}
}

// handleFrame processes a received frame.
func (c *WSClient) handleFrame(ctx context.Context, messageType int, b []byte) error {
	if messageType == websocket.BinaryMessage {
		decompressed, err := messages.Decompress(b)
		if err != nil {
			return err
		}
		b = decompressed
	}

	msg, err := messages.DeserializeMessage(b)
	if err != nil {
		return fmt.Errorf("failed to deserialize message: %v", err)
	}
	log.Trace("Received message from WebSocket server of type %s", msg.Type)

	switch msg.Type {
	case messages.MessageTypeServerState:
		return c.enqueueSnapshot(ctx, msg.Payload)
	default:
		return fmt.Errorf("received unexpected message type from WebSocket server: %s", msg.Type)
	}
}

// enqueueSnapshot blocks while the event queue is full. Snapshots are never
// dropped.
func (c *WSClient) enqueueSnapshot(ctx context.Context, payload []byte) error {
	snapshot, err := messages.DeserializeServerState(payload)
	if err != nil {
		if messages.IsUnknownPhase(err) {
			log.Warn("Dropping state: %v", err)
			return nil
		}
		return fmt.Errorf("failed to deserialize server state: %v", err)
	}
	if err := c.eventQueue.EnqueueWait(ctx, events.SnapshotReceived{Snapshot: snapshot}); err != nil {
		return fmt.Errorf("failed to enqueue snapshot: %v", err)
	}
	return nil
}

// Close closes the WebSocket connection.
func (c *WSClient) Close() error {
	if c.conn == nil {
		log.Warn("WebSocket connection is already closed")
		return nil
	}
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the WebSocket server.
func (c *WSClient) SendMessage(msg *messages.Message) error {
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}

	messageType := websocket.TextMessage
	if c.compress {
		if b, err = messages.Compress(b); err != nil {
			return fmt.Errorf("failed to compress message: %v", err)
		}
		messageType = websocket.BinaryMessage
	}

	c.writeMutex.Lock()
	defer c.writeMutex.Unlock()
	if err := c.conn.WriteMessage(messageType, b); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection: %v", err)
	}

	return nil
}
