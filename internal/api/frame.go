package api

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/catchat/internal/errors"
)

// Frame is one inbound message unit. It holds the re-serialized JSON object
// received from the service; fields are read lazily with gjson.
type Frame struct {
	raw []byte
}

// DecodeFrame validates data as a JSON object and re-serializes it.
// Anything else is rejected with a DecodeError.
func DecodeFrame(data []byte) (Frame, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return Frame{}, apierrors.NewDecodeError(string(data), err)
	}
	if fields == nil {
		return Frame{}, apierrors.NewDecodeError(string(data), nil)
	}

	normalized, err := json.Marshal(fields)
	if err != nil {
		return Frame{}, apierrors.NewDecodeError(string(data), err)
	}
	return Frame{raw: normalized}, nil
}

// Raw returns the serialized JSON object.
func (f Frame) Raw() []byte {
	return f.raw
}

// String returns the serialized JSON object as text.
func (f Frame) String() string {
	return string(f.raw)
}

// Type returns the frame type, or "" when absent.
func (f Frame) Type() string {
	return gjson.GetBytes(f.raw, PathType).String()
}

// Content returns the textual content, or "" when absent.
func (f Frame) Content() string {
	return gjson.GetBytes(f.raw, PathContent).String()
}

// IsError reports whether the service flagged this frame as an error.
func (f Frame) IsError() bool {
	return f.Type() == FrameTypeError
}

// IsFinal reports whether the frame closes a reply. Untyped frames count as
// final since the service may be configured without token streaming.
func (f Frame) IsFinal() bool {
	switch f.Type() {
	case "", FrameTypeChat, FrameTypeError:
		return true
	}
	return false
}

// Err converts an error frame into a ServiceError, nil otherwise.
func (f Frame) Err() error {
	if !f.IsError() {
		return nil
	}
	desc := gjson.GetBytes(f.raw, PathDescription).String()
	if desc == "" {
		desc = f.Content()
	}
	return apierrors.NewServiceError(gjson.GetBytes(f.raw, PathName).String(), desc)
}
