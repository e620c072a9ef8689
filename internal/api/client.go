package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	apierrors "github.com/diogo/catchat/internal/errors"
)

const (
	// DefaultBufferSize is the number of frames held for a slow subscriber.
	DefaultBufferSize = 64
	// DefaultWriteTimeout bounds a single outbound write.
	DefaultWriteTimeout = 10 * time.Second
	// closeGrace bounds the close handshake on shutdown.
	closeGrace = time.Second
)

// Client is the connection surface used by the UI and commands.
type Client interface {
	Send(ctx context.Context, text string, opts ...SendOption) error
	Messages() <-chan Frame
	UserID() string
	Endpoint() string
	LastInteraction() time.Time
	Err() error
	Close() error
}

// Ensure Connection implements Client
var _ Client = (*Connection)(nil)

// Connection is a live WebSocket session with a Cheshire Cat service.
// Inbound frames are decoded on a dedicated goroutine and published on
// Messages(); the channel is closed when the session ends.
type Connection struct {
	settings     Settings
	endpoint     string
	dialer       *websocket.Dialer
	header       http.Header
	logger       *zap.Logger
	bufferSize   int
	writeTimeout time.Duration

	conn    *websocket.Conn
	writeMu sync.Mutex

	mu              sync.RWMutex
	lastInteraction time.Time
	closed          bool
	err             error

	messages  chan Frame
	done      chan struct{}
	readDone  chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// ClientOption is a function that configures the connection
type ClientOption func(*Connection)

// WithLogger sets the logger used for lifecycle events
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Connection) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDialer replaces the WebSocket dialer
func WithDialer(dialer *websocket.Dialer) ClientOption {
	return func(c *Connection) {
		if dialer != nil {
			c.dialer = dialer
		}
	}
}

// WithHeader adds HTTP headers to the opening handshake
func WithHeader(header http.Header) ClientOption {
	return func(c *Connection) {
		for k, v := range header {
			c.header[k] = append([]string(nil), v...)
		}
	}
}

// WithBufferSize sets the inbound frame buffer
func WithBufferSize(n int) ClientOption {
	return func(c *Connection) {
		if n >= 0 {
			c.bufferSize = n
		}
	}
}

// WithWriteTimeout bounds every outbound write
func WithWriteTimeout(d time.Duration) ClientOption {
	return func(c *Connection) {
		if d > 0 {
			c.writeTimeout = d
		}
	}
}

// SendOption adds extra fields to an outbound message
type SendOption func(fields map[string]any)

// WithField sets an extra top-level field on the outbound message.
// The "text" field always carries the message text.
func WithField(key string, value any) SendOption {
	return func(fields map[string]any) {
		fields[key] = value
	}
}

// BuildMessage returns the wire object for an outbound message.
func BuildMessage(text string, opts ...SendOption) map[string]any {
	fields := make(map[string]any, len(opts)+1)
	for _, opt := range opts {
		opt(fields)
	}
	fields[FieldText] = text
	return fields
}

// Dial opens a session and starts the read goroutine.
func Dial(ctx context.Context, settings Settings, opts ...ClientOption) (*Connection, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	dialer := *websocket.DefaultDialer
	c := &Connection{
		settings:     settings,
		endpoint:     settings.WebSocketURL(),
		dialer:       &dialer,
		header:       http.Header{},
		logger:       zap.NewNop(),
		bufferSize:   DefaultBufferSize,
		writeTimeout: DefaultWriteTimeout,
		done:         make(chan struct{}),
		readDone:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.With(
		zap.String("user_id", settings.UserID),
		zap.String("endpoint", c.endpoint),
	)

	conn, _, err := c.dialer.DialContext(ctx, c.endpoint, c.header)
	if err != nil {
		return nil, apierrors.NewConnectionError(c.endpoint, settings.UserID, err)
	}

	c.conn = conn
	c.messages = make(chan Frame, c.bufferSize)
	c.lastInteraction = time.Now()
	c.logger.Info("connection opened")

	go c.readLoop()

	return c, nil
}

// Send forwards text to the service as {"text": text, ...fields}.
func (c *Connection) Send(ctx context.Context, text string, opts ...SendOption) error {
	c.mu.Lock()
	if c.closed || c.err != nil {
		c.mu.Unlock()
		return apierrors.NewSendError(c.endpoint, apierrors.ErrNotConnected)
	}
	c.lastInteraction = time.Now()
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return apierrors.NewSendError(c.endpoint, err)
	}

	data, err := json.Marshal(BuildMessage(text, opts...))
	if err != nil {
		return apierrors.NewSendError(c.endpoint, err)
	}

	deadline := time.Now().Add(c.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return apierrors.NewSendError(c.endpoint, err)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.logger.Warn("send failed", zap.Error(err))
		return apierrors.NewSendError(c.endpoint, err)
	}

	c.logger.Debug("message sent", zap.Int("bytes", len(data)))
	return nil
}

// Messages returns the inbound frame channel.
func (c *Connection) Messages() <-chan Frame {
	return c.messages
}

// UserID returns the session user identifier.
func (c *Connection) UserID() string {
	return c.settings.UserID
}

// Endpoint returns the WebSocket URL of the session.
func (c *Connection) Endpoint() string {
	return c.endpoint
}

// LastInteraction returns the time of the last send (or of the dial).
func (c *Connection) LastInteraction() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastInteraction
}

// Err returns why the session ended, or nil while it is open or after a
// local Close.
func (c *Connection) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Close ends the session. It is safe to call more than once.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()

		close(c.done)

		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace))

		c.closeErr = c.conn.Close()
		<-c.readDone
	})
	return c.closeErr
}

func (c *Connection) readLoop() {
	defer close(c.readDone)
	defer close(c.messages)

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			c.finish(err)
			return
		}

		if msgType != websocket.TextMessage {
			c.logger.Debug("ignoring non-text frame", zap.Int("type", msgType))
			continue
		}

		frame, err := DecodeFrame(data)
		if err != nil {
			c.logger.Warn("dropping undecodable frame", zap.Error(err))
			continue
		}

		select {
		case c.messages <- frame:
		case <-c.done:
			return
		}
	}
}

// finish records the reason the read loop stopped.
func (c *Connection) finish(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.logger.Info("connection closed")
		return
	}

	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		c.err = apierrors.ErrConnectionClosed
	} else {
		c.err = apierrors.NewConnectionError(c.endpoint, c.settings.UserID, err)
	}
	c.logger.Info("connection closed", zap.Error(err))
}
