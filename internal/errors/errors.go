// Package errors provides custom error types for the Cheshire Cat chat client.
package errors

import (
	"errors"
	"fmt"
	"net"
	"os"
)

// Sentinel errors for common cases
var (
	ErrNotConnected     = errors.New("not connected")
	ErrConnectionClosed = errors.New("connection closed by peer")
	ErrInvalidPayload   = errors.New("invalid payload")
	ErrEmptyMessage     = errors.New("message is empty")
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// ConnectionError represents a failure to open or keep the WebSocket session
type ConnectionError struct {
	Endpoint string
	UserID   string
	Cause    error
}

func (e *ConnectionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("connection to %s failed", e.Endpoint)
	}
	return fmt.Sprintf("connection to %s failed: %v", e.Endpoint, e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// NewConnectionError creates a new ConnectionError
func NewConnectionError(endpoint, userID string, cause error) *ConnectionError {
	return &ConnectionError{Endpoint: endpoint, UserID: userID, Cause: cause}
}

// SendError represents a failed outbound write
type SendError struct {
	Endpoint string
	Cause    error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send to %s failed: %v", e.Endpoint, e.Cause)
}

func (e *SendError) Unwrap() error {
	return e.Cause
}

// NewSendError creates a new SendError
func NewSendError(endpoint string, cause error) *SendError {
	return &SendError{Endpoint: endpoint, Cause: cause}
}

// DecodeError represents an inbound frame that is not a JSON object
type DecodeError struct {
	Payload string
	Cause   error
}

func (e *DecodeError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("failed to decode JSON message: %s", truncate(e.Payload, 64))
	}
	return fmt.Sprintf("failed to decode JSON message: %v", e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Is allows comparison with sentinel errors
func (e *DecodeError) Is(target error) bool {
	if target == ErrInvalidPayload {
		return true
	}
	_, ok := target.(*DecodeError)
	return ok
}

// NewDecodeError creates a new DecodeError
func NewDecodeError(payload string, cause error) *DecodeError {
	return &DecodeError{Payload: payload, Cause: cause}
}

// StatusError represents a non-200 answer from the service HTTP root
type StatusError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status check [%d] at %s", e.StatusCode, e.Endpoint)
}

// Is allows comparison with sentinel errors
func (e *StatusError) Is(target error) bool {
	if target == ErrUnexpectedStatus {
		return true
	}
	_, ok := target.(*StatusError)
	return ok
}

// NewStatusError creates a new StatusError
func NewStatusError(statusCode int, endpoint, body string) *StatusError {
	return &StatusError{StatusCode: statusCode, Endpoint: endpoint, Body: body}
}

// ServiceError represents an "error" frame pushed by the service
type ServiceError struct {
	Name        string
	Description string
}

func (e *ServiceError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("service error: %s", e.Description)
	}
	return fmt.Sprintf("service error (%s): %s", e.Name, e.Description)
}

// NewServiceError creates a new ServiceError
func NewServiceError(name, description string) *ServiceError {
	return &ServiceError{Name: name, Description: description}
}

// GetEndpoint returns the endpoint carried by a structured error, if any
func GetEndpoint(err error) string {
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return connErr.Endpoint
	}
	var sendErr *SendError
	if errors.As(err, &sendErr) {
		return sendErr.Endpoint
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Endpoint
	}
	return ""
}

// GetHTTPStatus returns the HTTP status carried by a StatusError, or 0
func GetHTTPStatus(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// IsNetworkError reports whether err comes from the transport
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

// IsTimeoutError reports whether err is a deadline or timeout
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsClosedError reports whether err means the session is gone
func IsClosedError(err error) bool {
	return errors.Is(err, ErrNotConnected) || errors.Is(err, ErrConnectionClosed)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
