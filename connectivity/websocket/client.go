package websocket

import (
	"context"
	"net/url"

	"github.com/gofrs/uuid"
	"github.com/thrasher-corp/marketstream/log"
)

// Client is a managed websocket connection. Frames are exchanged through
// unbounded queues serviced by a single pump routine, so Send never blocks and
// Receive blocks only until a frame is available or the stream has ended.
// A Client is safe for concurrent use.
type Client struct {
	id   uuid.UUID
	name string
	url  string

	outbound *frameQueue
	inbound  *frameQueue
	signal   *Signal
	done     chan struct{}
}

// Connect dials the configured URL and starts the connection pump. ctx only
// bounds the handshake.
func Connect(ctx context.Context, cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errNilConfig
	}
	conn, err := dial(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c := newClient(conn, cfg)
	if cfg.Verbose {
		log.Infof(log.WebsocketMgr, "%s websocket connection: connected to %s", c.name, removeURLQueryString(cfg.URL))
	}
	return c, nil
}

func newClient(conn transport, cfg *Config) *Client {
	c := &Client{
		id:       uuid.Must(uuid.NewV4()),
		name:     connectionName(cfg),
		url:      cfg.URL,
		outbound: newFrameQueue(),
		inbound:  newFrameQueue(),
		signal:   NewSignal(),
		done:     make(chan struct{}),
	}
	p := &pump{
		name:                 c.name,
		verbose:              cfg.Verbose,
		conn:                 conn,
		outbound:             c.outbound,
		inbound:              c.inbound,
		signal:               c.signal,
		limiter:              cfg.RateLimit,
		maxConsecutiveErrors: cfg.MaxConsecutiveErrors,
		reads:                make(chan readResult),
		stop:                 make(chan struct{}),
		done:                 c.done,
	}
	go p.run()
	return c
}

func connectionName(cfg *Config) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	if u, err := url.Parse(cfg.URL); err == nil && u.Host != "" {
		return u.Host
	}
	return "websocket"
}

// Send queues a text frame for transmission
func (c *Client) Send(text string) error {
	return c.outbound.push(NewTextFrame(text))
}

// SendBinary queues a binary frame for transmission
func (c *Client) SendBinary(payload []byte) error {
	return c.outbound.push(NewBinaryFrame(payload))
}

// Receive returns the next inbound text or binary frame in arrival order.
// Once the connection has ended and every queued frame has been consumed it
// returns ErrEndOfStream, on every subsequent call as well.
func (c *Client) Receive(ctx context.Context) (Frame, error) {
	return c.inbound.pop(ctx)
}

// Disconnect requests shutdown and returns immediately. Repeated calls are
// no-ops. Use Done to wait for the connection to be released.
func (c *Client) Disconnect() {
	c.signal.Cancel()
}

// Done is closed once the pump has exited and the connection is released
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// ID returns the unique connection identifier
func (c *Client) ID() uuid.UUID {
	return c.id
}

// Name returns the label used for logging and metrics
func (c *Client) Name() string {
	return c.name
}

// URL returns the dialled websocket URL
func (c *Client) URL() string {
	return c.url
}
