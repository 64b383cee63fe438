package websocket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	gws "github.com/gorilla/websocket"
)

// transport is the physical connection. It is only ever used by the pump and
// its reader routine: ReadFrame and Close from the reader side, WriteFrame from
// the pump.
type transport interface {
	// ReadFrame blocks until the next frame arrives
	ReadFrame() (Frame, error)
	WriteFrame(Frame) error
	Close() error
	// SetControlHandler receives control frames that are consumed while reading
	SetControlHandler(func(Frame))
}

// gorillaTransport adapts a gorilla connection to transport
type gorillaTransport struct {
	conn         *gws.Conn
	writeTimeout time.Duration
}

// dial connects to the configured URL, returning a *ConnectError on failure
func dial(ctx context.Context, cfg *Config) (*gorillaTransport, error) {
	if err := checkWebsocketURL(cfg.URL); err != nil {
		return nil, &ConnectError{URL: cfg.URL, Err: err}
	}

	dialer := &gws.Dialer{
		HandshakeTimeout: cfg.HandshakeTimeout,
		Proxy:            http.ProxyFromEnvironment,
	}
	if dialer.HandshakeTimeout <= 0 {
		dialer.HandshakeTimeout = defaultHandshakeTimeout
	}
	if cfg.ProxyURL != "" {
		proxy, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, &ConnectError{URL: removeURLQueryString(cfg.URL), Err: err}
		}
		dialer.Proxy = http.ProxyURL(proxy)
	}

	conn, conStatus, err := dialer.DialContext(ctx, cfg.URL, cfg.Header)
	if conStatus != nil && conStatus.Body != nil {
		defer conStatus.Body.Close()
	}
	if err != nil {
		ce := &ConnectError{URL: removeURLQueryString(cfg.URL), Err: err}
		if conStatus != nil {
			ce.StatusCode = conStatus.StatusCode
		}
		return nil, ce
	}

	if cfg.ReadLimit > 0 {
		conn.SetReadLimit(cfg.ReadLimit)
	}
	// The pump answers the close handshake during teardown
	conn.SetCloseHandler(func(int, string) error { return nil })

	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &gorillaTransport{conn: conn, writeTimeout: writeTimeout}, nil
}

// ReadFrame reads the next data or close frame. A gorilla connection cannot be
// read from again after an error, so every error other than a close frame
// ends the stream.
func (t *gorillaTransport) ReadFrame() (Frame, error) {
	mType, payload, err := t.conn.ReadMessage()
	if err != nil {
		var closeErr *gws.CloseError
		if errors.As(err, &closeErr) && closeErr.Code != gws.CloseAbnormalClosure {
			f := NewCloseFrame(nil)
			if closeErr.Code != gws.CloseNoStatusReceived {
				f.Reason = &CloseReason{Code: closeErr.Code, Text: closeErr.Text}
			}
			return f, nil
		}
		return Frame{}, fmt.Errorf("%w: %w", errStreamEnded, err)
	}
	return Frame{Type: MessageType(mType), Payload: payload}, nil
}

// WriteFrame writes a single frame to the connection
func (t *gorillaTransport) WriteFrame(f Frame) error {
	var deadline time.Time
	if t.writeTimeout > 0 {
		deadline = time.Now().Add(t.writeTimeout)
	}
	switch f.Type {
	case PingMessage, PongMessage:
		return t.conn.WriteControl(int(f.Type), f.Payload, deadline)
	case CloseMessage:
		var payload []byte
		if f.Reason != nil {
			payload = gws.FormatCloseMessage(f.Reason.Code, f.Reason.Text)
		}
		return t.conn.WriteControl(gws.CloseMessage, payload, deadline)
	}
	if err := t.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return t.conn.WriteMessage(int(f.Type), f.Payload)
}

// Close closes the underlying network connection without a close handshake
func (t *gorillaTransport) Close() error {
	return t.conn.Close()
}

// SetControlHandler routes inbound ping and pong frames to fn
func (t *gorillaTransport) SetControlHandler(fn func(Frame)) {
	t.conn.SetPingHandler(func(appData string) error {
		fn(NewPingFrame([]byte(appData)))
		return nil
	})
	t.conn.SetPongHandler(func(appData string) error {
		fn(NewPongFrame([]byte(appData)))
		return nil
	})
}

func checkWebsocketURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidURL, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("%w: %q", errInvalidURL, s)
	}
	return nil
}

func isStreamEnd(err error) bool {
	return errors.Is(err, errStreamEnded) || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}

func removeURLQueryString(url string) string {
	if index := strings.Index(url, "?"); index != -1 {
		return url[:index]
	}
	return url
}
