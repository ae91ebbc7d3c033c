package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cbodonnell/geoquiz/client/events"
	"github.com/cbodonnell/geoquiz/client/state"
	"github.com/cbodonnell/geoquiz/pkg/game/types"
	"github.com/cbodonnell/geoquiz/pkg/messages"
	"github.com/cbodonnell/geoquiz/pkg/queue"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	nws "nhooyr.io/websocket"
)

// testServer is a minimal game server: it records every message it
// receives and exposes each accepted connection so tests can push frames.
type testServer struct {
	t        *testing.T
	server   *httptest.Server
	received chan *messages.Message
	binary   chan bool
	conns    chan *nws.Conn
}

func newTestServer(t *testing.T) *testServer {
	s := &testServer{
		t:        t,
		received: make(chan *messages.Message, 16),
		binary:   make(chan bool, 16),
		conns:    make(chan *nws.Conn, 4),
	}
	router := mux.NewRouter()
	router.HandleFunc("/ws", s.handle)
	s.server = httptest.NewServer(router)
	t.Cleanup(s.server.Close)
	return s
}

func (s *testServer) url() string {
	return "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws"
}

func (s *testServer) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := nws.Accept(w, r, nil)
	if err != nil {
		s.t.Errorf("accept: %v", err)
		return
	}
	s.conns <- conn
	for {
		typ, data, err := conn.Read(r.Context())
		if err != nil {
			return
		}
		if typ == nws.MessageBinary {
			if data, err = messages.Decompress(data); err != nil {
				s.t.Errorf("decompress: %v", err)
				return
			}
		}
		msg, err := messages.DeserializeMessage(data)
		if err != nil {
			s.t.Errorf("deserialize: %v", err)
			return
		}
		s.binary <- typ == nws.MessageBinary
		s.received <- msg
	}
}

func (s *testServer) nextConn() *nws.Conn {
	s.t.Helper()
	select {
	case c := <-s.conns:
		return c
	case <-time.After(2 * time.Second):
		s.t.Fatal("no connection accepted")
		return nil
	}
}

func (s *testServer) nextMessage() (*messages.Message, bool) {
	s.t.Helper()
	select {
	case msg := <-s.received:
		return msg, <-s.binary
	case <-time.After(2 * time.Second):
		s.t.Fatal("no message received")
		return nil, false
	}
}

func sendState(t *testing.T, conn *nws.Conn, typ nws.MessageType, payload string) {
	t.Helper()
	b, err := messages.SerializeMessage(&messages.Message{Type: messages.MessageTypeServerState, Payload: []byte(payload)})
	require.NoError(t, err)
	if typ == nws.MessageBinary {
		b, err = messages.Compress(b)
		require.NoError(t, err)
	}
	require.NoError(t, conn.Write(context.Background(), typ, b))
}

// eventReader hands out queued events one at a time.
type eventReader struct {
	q       queue.Queue[events.Event]
	pending []events.Event
}

func (r *eventReader) next(t *testing.T) events.Event {
	t.Helper()
	require.Eventually(t, func() bool {
		if len(r.pending) == 0 {
			r.pending = r.q.ReadAll()
		}
		return len(r.pending) > 0
	}, 2*time.Second, 5*time.Millisecond)
	ev := r.pending[0]
	r.pending = r.pending[1:]
	return ev
}

func startManager(t *testing.T, url string, compress bool) (*NetworkManager, *eventReader) {
	q := queue.NewInMemoryQueue[events.Event](64)
	m := NewNetworkManager(NetworkManagerOptions{
		ServerURL:            url,
		EventQueue:           q,
		Compress:             compress,
		ReconnectMaxInterval: 100 * time.Millisecond,
	})
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(func() { m.Stop() })
	return m, &eventReader{q: q}
}

func TestNetworkManager_JoinAndSnapshot(t *testing.T) {
	server := newTestServer(t)
	m, q := startManager(t, server.url(), false)

	conn := server.nextConn()
	connected, ok := q.next(t).(events.Connected)
	require.True(t, ok)
	assert.NotEmpty(t, connected.SessionID)
	assert.True(t, m.IsConnected())

	require.NoError(t, m.EmitJoin("Alice"))
	msg, binary := server.nextMessage()
	assert.False(t, binary)
	assert.Equal(t, messages.MessageTypeClientJoin, msg.Type)
	assert.JSONEq(t, `{"name":"Alice"}`, string(msg.Payload))

	require.NoError(t, m.EmitGuess("Alice", 10, 20))
	msg, _ = server.nextMessage()
	assert.Equal(t, messages.MessageTypeClientGuess, msg.Type)
	assert.JSONEq(t, `{"name":"Alice","latitude":10,"longitude":20}`, string(msg.Payload))

	sendState(t, conn, nws.MessageText, `{"phase":{"type":"intermission"},"upcoming_questions":0}`)
	sendState(t, conn, nws.MessageText, `{"phase":{"type":"lobby","joined":["Alice"]},"upcoming_questions":3}`)

	received, ok := q.next(t).(events.SnapshotReceived)
	require.True(t, ok, "unknown phases never reach the queue")
	lobby, ok := received.Snapshot.Phase.(*types.Lobby)
	require.True(t, ok)
	assert.Equal(t, []string{"Alice"}, lobby.Joined)
}

func TestNetworkManager_Compression(t *testing.T) {
	server := newTestServer(t)
	m, q := startManager(t, server.url(), true)

	conn := server.nextConn()
	q.next(t)

	require.NoError(t, m.EmitJoin("Bob"))
	msg, binary := server.nextMessage()
	assert.True(t, binary)
	assert.Equal(t, messages.MessageTypeClientJoin, msg.Type)

	sendState(t, conn, nws.MessageBinary, `{"phase":{"type":"end","scores":{"Bob":1}},"upcoming_questions":0}`)
	received, ok := q.next(t).(events.SnapshotReceived)
	require.True(t, ok)
	assert.Equal(t, types.PhaseEnd, received.Snapshot.Phase.Kind())
}

func TestNetworkManager_Reconnects(t *testing.T) {
	server := newTestServer(t)
	m, q := startManager(t, server.url(), false)

	conn := server.nextConn()
	_, ok := q.next(t).(events.Connected)
	require.True(t, ok)

	require.NoError(t, conn.Close(nws.StatusNormalClosure, "bye"))

	disconnected, ok := q.next(t).(events.Disconnected)
	require.True(t, ok)
	assert.Error(t, disconnected.Err)

	server.nextConn()
	_, ok = q.next(t).(events.Connected)
	require.True(t, ok)
	assert.True(t, m.IsConnected())
}

func TestNetworkManager_NotConnected(t *testing.T) {
	q := queue.NewInMemoryQueue[events.Event](8)
	m := NewNetworkManager(NetworkManagerOptions{EventQueue: q})

	err := m.EmitJoin("Alice")
	require.Error(t, err)
	assert.True(t, IsNotConnected(err))
	assert.False(t, m.IsConnected())
	assert.NoError(t, m.Stop())
}

func TestWSClient_FullQueueKeepsNewestSnapshot(t *testing.T) {
	q := queue.NewInMemoryQueue[events.Event](2)
	question := &types.Snapshot{Phase: types.NewQuestionRound(types.Question{ImagePath: "q1.jpg"}, nil, nil, false)}
	require.NoError(t, q.Enqueue(events.SnapshotReceived{Snapshot: question}))
	require.NoError(t, q.Enqueue(events.MapClicked{Lat: 1, Lon: 2}))

	c := NewWSClient("ws://unused", q, false)
	frame, err := messages.SerializeMessage(&messages.Message{
		Type:    messages.MessageTypeServerState,
		Payload: []byte(`{"phase":{"type":"end","scores":{"Alice":1}},"upcoming_questions":0}`),
	})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- c.handleFrame(context.Background(), websocket.TextMessage, frame) }()

	select {
	case err := <-done:
		t.Fatalf("snapshot handled while the queue was full: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	store := state.NewStore()
	apply := func(evs []events.Event) {
		for _, ev := range evs {
			if received, ok := ev.(events.SnapshotReceived); ok {
				store.Apply(received.Snapshot)
			}
		}
	}
	apply(q.ReadAll())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot was not enqueued after the queue drained")
	}
	apply(q.ReadAll())

	require.NotNil(t, store.Current())
	assert.Equal(t, types.PhaseEnd, store.Current().Phase.Kind())
	assert.Equal(t, uint64(2), store.Version())
}
