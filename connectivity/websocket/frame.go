package websocket

import (
	"fmt"
	"strconv"

	gws "github.com/gorilla/websocket"
)

// MessageType identifies the kind of frame. Values match RFC 6455 opcodes
type MessageType uint8

// Frame message types
const (
	TextMessage   MessageType = gws.TextMessage
	BinaryMessage MessageType = gws.BinaryMessage
	CloseMessage  MessageType = gws.CloseMessage
	PingMessage   MessageType = gws.PingMessage
	PongMessage   MessageType = gws.PongMessage
)

// String implements the stringer interface
func (m MessageType) String() string {
	switch m {
	case TextMessage:
		return "text"
	case BinaryMessage:
		return "binary"
	case CloseMessage:
		return "close"
	case PingMessage:
		return "ping"
	case PongMessage:
		return "pong"
	default:
		return "unknown(" + strconv.Itoa(int(m)) + ")"
	}
}

// CloseReason is the optional status carried by a close frame
type CloseReason struct {
	Code int
	Text string
}

// Frame is one discrete message exchanged over the connection
type Frame struct {
	Type    MessageType
	Payload []byte
	// Reason is only used by close frames, nil means no status
	Reason *CloseReason
}

// NewTextFrame returns a text frame
func NewTextFrame(text string) Frame {
	return Frame{Type: TextMessage, Payload: []byte(text)}
}

// NewBinaryFrame returns a binary frame
func NewBinaryFrame(payload []byte) Frame {
	return Frame{Type: BinaryMessage, Payload: payload}
}

// NewPingFrame returns a ping frame
func NewPingFrame(payload []byte) Frame {
	return Frame{Type: PingMessage, Payload: payload}
}

// NewPongFrame returns a pong frame
func NewPongFrame(payload []byte) Frame {
	return Frame{Type: PongMessage, Payload: payload}
}

// NewCloseFrame returns a close frame with an optional reason
func NewCloseFrame(reason *CloseReason) Frame {
	return Frame{Type: CloseMessage, Reason: reason}
}

// IsControl returns true for ping, pong and close frames
func (f Frame) IsControl() bool {
	return f.Type == PingMessage || f.Type == PongMessage || f.Type == CloseMessage
}

// Text returns the payload as a string
func (f Frame) Text() string {
	return string(f.Payload)
}

// String implements the stringer interface
func (f Frame) String() string {
	if f.Type == CloseMessage {
		if f.Reason == nil {
			return "close"
		}
		return fmt.Sprintf("close(%d %s)", f.Reason.Code, f.Reason.Text)
	}
	return fmt.Sprintf("%s(%d bytes)", f.Type, len(f.Payload))
}
