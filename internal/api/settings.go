package api

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Settings locates a Cheshire Cat service and names the session user.
type Settings struct {
	Host   string
	Port   int
	UserID string
	Secure bool
}

// DefaultSettings returns the settings of a local development service.
func DefaultSettings() Settings {
	return Settings{
		Host:   "localhost",
		Port:   1865,
		UserID: "user1",
	}
}

// Validate checks that a session can be opened with these settings.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Host) == "" {
		return fmt.Errorf("host is required")
	}
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("port %d out of range", s.Port)
	}
	if strings.TrimSpace(s.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	return nil
}

// hostPort joins host and port, bracketing IPv6 literals.
func (s Settings) hostPort() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// WebSocketURL returns ws[s]://host:port/ws/<user_id>.
func (s Settings) WebSocketURL() string {
	scheme := "ws"
	if s.Secure {
		scheme = "wss"
	}
	u := url.URL{
		Scheme: scheme,
		Host:   s.hostPort(),
		Path:   PathWebSocket + "/" + s.UserID,
	}
	return u.String()
}

// HTTPURL returns http[s]://host:port<path>.
func (s Settings) HTTPURL(path string) string {
	scheme := "http"
	if s.Secure {
		scheme = "https"
	}
	u := url.URL{
		Scheme: scheme,
		Host:   s.hostPort(),
		Path:   path,
	}
	return u.String()
}
