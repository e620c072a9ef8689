package api

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/diogo/catchat/internal/errors"
)

func settingsFor(t *testing.T, srv *httptest.Server) Settings {
	t.Helper()
	host, portStr, err := net.SplitHostPort(strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return Settings{Host: host, Port: port, UserID: "user1"}
}

func TestStatus_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "We're all mad here, dear!", "version": "1.7.1"}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(5)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st, err := Status(ctx, client, settingsFor(t, srv))
	require.NoError(t, err)
	assert.Equal(t, "We're all mad here, dear!", st.Status)
	assert.Equal(t, "1.7.1", st.Version)
	assert.Equal(t, srv.URL+"/", st.Endpoint)
}

func TestStatus_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "asleep", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(5)
	require.NoError(t, err)

	_, err = Status(context.Background(), client, settingsFor(t, srv))
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, apierrors.GetHTTPStatus(err))
}

func TestStatus_NotJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(5)
	require.NoError(t, err)

	_, err = Status(context.Background(), client, settingsFor(t, srv))
	assert.ErrorIs(t, err, apierrors.ErrInvalidPayload)
}

func TestStatus_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	settings := settingsFor(t, srv)
	srv.Close()

	client, err := NewHTTPClient(2)
	require.NoError(t, err)

	_, err = Status(context.Background(), client, settings)
	require.Error(t, err)
	var connErr *apierrors.ConnectionError
	assert.ErrorAs(t, err, &connErr)
}
