package websocket

import "context"

// Signal is a shareable, idempotent shutdown request. Once cancelled it stays
// cancelled.
type Signal struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSignal returns an unset signal
func NewSignal() *Signal {
	ctx, cancel := context.WithCancel(context.Background())
	return &Signal{ctx: ctx, cancel: cancel}
}

// Cancel sets the signal, repeated calls are no-ops
func (s *Signal) Cancel() {
	s.cancel()
}

// Done returns a channel that is closed once the signal is set
func (s *Signal) Done() <-chan struct{} {
	return s.ctx.Done()
}

// IsCancelled reports whether the signal has been set without blocking
func (s *Signal) IsCancelled() bool {
	select {
	case <-s.ctx.Done():
		return true
	default:
		return false
	}
}

// Context returns a context that is cancelled with the signal
func (s *Signal) Context() context.Context {
	return s.ctx
}
