package api

import (
	"context"
	"sync"
	"time"
)

// SentMessage records one call to MockClient.Send
type SentMessage struct {
	Text   string
	Fields map[string]any
}

// MockClient is a mock implementation of Client for testing
type MockClient struct {
	// Mock return values
	SendErr     error
	CloseErr    error
	ErrVal      error
	ID          string
	EndpointVal string

	mu         sync.Mutex
	sent       []SentMessage
	closed     bool
	lastSend   time.Time
	frames     chan Frame
	framesShut bool
}

// Ensure MockClient implements Client
var _ Client = (*MockClient)(nil)

// NewMockClient creates a mock with a buffered frame channel
func NewMockClient(buffer int) *MockClient {
	return &MockClient{
		ID:          "user1",
		EndpointVal: "ws://localhost:1865/ws/user1",
		frames:      make(chan Frame, buffer),
	}
}

func (m *MockClient) Send(ctx context.Context, text string, opts ...SendOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSend = time.Now()
	m.sent = append(m.sent, SentMessage{Text: text, Fields: BuildMessage(text, opts...)})
	return m.SendErr
}

func (m *MockClient) Messages() <-chan Frame {
	return m.frames
}

func (m *MockClient) UserID() string {
	return m.ID
}

func (m *MockClient) Endpoint() string {
	return m.EndpointVal
}

func (m *MockClient) LastInteraction() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSend
}

func (m *MockClient) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ErrVal
}

func (m *MockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.CloseErr
}

// Sent returns a copy of the recorded sends
func (m *MockClient) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// Closed reports whether Close was called
func (m *MockClient) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Push decodes raw and queues it as an inbound frame
func (m *MockClient) Push(raw string) error {
	frame, err := DecodeFrame([]byte(raw))
	if err != nil {
		return err
	}
	m.frames <- frame
	return nil
}

// Disconnect closes the frame channel as a dropped session would
func (m *MockClient) Disconnect(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.framesShut {
		return
	}
	m.ErrVal = err
	m.framesShut = true
	close(m.frames)
}
