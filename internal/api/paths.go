// Package api provides the Cheshire Cat WebSocket client.
package api

// Endpoint paths on the Cheshire Cat service.
const (
	// PathWebSocket is the session endpoint; the user id is appended.
	PathWebSocket = "/ws"
	// PathStatus answers a small JSON document with status and version.
	PathStatus = "/"
)

// GJSON paths for extracting values from service frames.
const (
	PathContent     = "content"
	PathType        = "type"
	PathName        = "name"
	PathDescription = "description"

	// Status document
	PathStatusText    = "status"
	PathStatusVersion = "version"
)

// Frame types pushed by the service.
const (
	FrameTypeChat         = "chat"
	FrameTypeChatToken    = "chat_token"
	FrameTypeNotification = "notification"
	FrameTypeError        = "error"
)

// FieldText is the key carrying the user text in outbound messages.
const FieldText = "text"
