package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/diogo/catchat/internal/errors"
)

// fakeCat is an in-process WebSocket peer standing in for the service.
type fakeCat struct {
	server   *httptest.Server
	received chan []byte
	paths    chan string

	mu    sync.Mutex
	conn  *websocket.Conn
	ready chan struct{}
}

func newFakeCat(t *testing.T) *fakeCat {
	t.Helper()

	fc := &fakeCat{
		received: make(chan []byte, 16),
		paths:    make(chan string, 1),
		ready:    make(chan struct{}),
	}
	upgrader := websocket.Upgrader{}

	fc.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		fc.paths <- r.URL.Path

		fc.mu.Lock()
		fc.conn = conn
		fc.mu.Unlock()
		close(fc.ready)

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			fc.received <- data
		}
	}))
	t.Cleanup(fc.server.Close)
	return fc
}

// settings returns Settings pointing at the fake server
func (fc *fakeCat) settings(t *testing.T) Settings {
	t.Helper()
	host, portStr, err := net.SplitHostPort(strings.TrimPrefix(fc.server.URL, "http://"))
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return Settings{Host: host, Port: port, UserID: "user1"}
}

// push writes a raw text frame to the client
func (fc *fakeCat) push(t *testing.T, raw string) {
	t.Helper()
	<-fc.ready
	fc.mu.Lock()
	defer fc.mu.Unlock()
	require.NoError(t, fc.conn.WriteMessage(websocket.TextMessage, []byte(raw)))
}

// hangUp closes the server side of the session
func (fc *fakeCat) hangUp(t *testing.T, code int) {
	t.Helper()
	<-fc.ready
	fc.mu.Lock()
	defer fc.mu.Unlock()
	msg := websocket.FormatCloseMessage(code, "bye")
	_ = fc.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	_ = fc.conn.Close()
}

func dial(t *testing.T, fc *fakeCat) *Connection {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := Dial(ctx, fc.settings(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func nextFrame(t *testing.T, conn *Connection) Frame {
	t.Helper()
	select {
	case f, ok := <-conn.Messages():
		require.True(t, ok, "messages channel closed")
		return f
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for frame")
	}
	return Frame{}
}

func TestDial_UsesUserPath(t *testing.T) {
	fc := newFakeCat(t)
	conn := dial(t, fc)

	select {
	case path := <-fc.paths:
		assert.Equal(t, "/ws/user1", path)
	case <-time.After(5 * time.Second):
		t.Fatal("server never saw the handshake")
	}
	assert.Equal(t, "user1", conn.UserID())
	assert.False(t, conn.LastInteraction().IsZero())
}

func TestDial_Refused(t *testing.T) {
	fc := newFakeCat(t)
	settings := fc.settings(t)
	fc.server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := Dial(ctx, settings)
	require.Error(t, err)
	assert.True(t, apierrors.IsNetworkError(err))
}

func TestDial_InvalidSettings(t *testing.T) {
	_, err := Dial(context.Background(), Settings{Host: "localhost", Port: 1865})
	assert.Error(t, err)
}

func TestSend_ForwardsExactText(t *testing.T) {
	fc := newFakeCat(t)
	conn := dial(t, fc)

	before := conn.LastInteraction()
	time.Sleep(5 * time.Millisecond)

	require.NoError(t, conn.Send(context.Background(), "  hello, cat\nsecond line "))

	select {
	case data := <-fc.received:
		var msg map[string]any
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, "  hello, cat\nsecond line ", msg["text"])
		assert.Len(t, msg, 1)
	case <-time.After(5 * time.Second):
		t.Fatal("server never received the message")
	}

	assert.True(t, conn.LastInteraction().After(before))
}

func TestSend_ExtraFields(t *testing.T) {
	fc := newFakeCat(t)
	conn := dial(t, fc)

	require.NoError(t, conn.Send(context.Background(), "hi",
		WithField("search_web", true),
		WithField("text", "ignored"),
	))

	select {
	case data := <-fc.received:
		var msg map[string]any
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, "hi", msg["text"])
		assert.Equal(t, true, msg["search_web"])
	case <-time.After(5 * time.Second):
		t.Fatal("server never received the message")
	}
}

func TestSend_AfterClose(t *testing.T) {
	fc := newFakeCat(t)
	conn := dial(t, fc)

	require.NoError(t, conn.Close())
	err := conn.Send(context.Background(), "late")
	require.Error(t, err)
	assert.ErrorIs(t, err, apierrors.ErrNotConnected)

	// Close is idempotent
	assert.NoError(t, conn.Close())
}

func TestSend_CancelledContext(t *testing.T) {
	fc := newFakeCat(t)
	conn := dial(t, fc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := conn.Send(ctx, "never")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMessages_RepublishesFrames(t *testing.T) {
	fc := newFakeCat(t)
	conn := dial(t, fc)

	fc.push(t, `{"type": "chat", "content": "hello", "why": {"input": "hi"}}`)

	frame := nextFrame(t, conn)
	assert.Equal(t, "hello", frame.Content())
	assert.Equal(t, FrameTypeChat, frame.Type())

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(frame.Raw(), &decoded))
	assert.Contains(t, decoded, "why")
}

func TestMessages_DropsMalformedFrames(t *testing.T) {
	fc := newFakeCat(t)
	conn := dial(t, fc)

	fc.push(t, `not json`)
	fc.push(t, `[1, 2, 3]`)
	fc.push(t, `{"content": "after"}`)

	frame := nextFrame(t, conn)
	assert.Equal(t, "after", frame.Content())
}

func TestMessages_PreservesArrivalOrder(t *testing.T) {
	fc := newFakeCat(t)
	conn := dial(t, fc)

	for i := 0; i < 5; i++ {
		fc.push(t, `{"type": "chat_token", "content": "`+strconv.Itoa(i)+`"}`)
	}
	for i := 0; i < 5; i++ {
		assert.Equal(t, strconv.Itoa(i), nextFrame(t, conn).Content())
	}
}

func TestMessages_ClosedWhenPeerHangsUp(t *testing.T) {
	fc := newFakeCat(t)
	conn := dial(t, fc)

	fc.hangUp(t, websocket.CloseNormalClosure)

	select {
	case _, ok := <-conn.Messages():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("messages channel never closed")
	}

	assert.ErrorIs(t, conn.Err(), apierrors.ErrConnectionClosed)
	assert.ErrorIs(t, conn.Send(context.Background(), "x"), apierrors.ErrNotConnected)
}

func TestMessages_AbnormalCloseIsConnectionError(t *testing.T) {
	fc := newFakeCat(t)
	conn := dial(t, fc)

	fc.hangUp(t, websocket.CloseInternalServerErr)

	for range conn.Messages() {
	}

	var connErr *apierrors.ConnectionError
	assert.ErrorAs(t, conn.Err(), &connErr)
}

func TestClose_UnblocksFullBuffer(t *testing.T) {
	fc := newFakeCat(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := Dial(ctx, fc.settings(t), WithBufferSize(0))
	require.NoError(t, err)

	// Nobody reads: the read loop blocks publishing this frame
	fc.push(t, `{"content": "stuck"}`)
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		_ = conn.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close blocked on an unread frame")
	}
	assert.NoError(t, conn.Err())
}

func TestBuildMessage(t *testing.T) {
	msg := BuildMessage("hello", WithField("k", 1))
	assert.Equal(t, map[string]any{"text": "hello", "k": 1}, msg)
}
