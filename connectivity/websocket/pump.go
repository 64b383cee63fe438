package websocket

import (
	"sync"
	"time"

	"github.com/thrasher-corp/marketstream/log"
	"golang.org/x/time/rate"
)

type readResult struct {
	frame Frame
	err   error
}

// pump exclusively owns a connection for its whole lifetime. It arbitrates
// between the outbound queue, the connection's inbound side and the shutdown
// signal, handling one event per loop iteration.
type pump struct {
	name    string
	verbose bool

	conn     transport
	outbound *frameQueue
	inbound  *frameQueue
	signal   *Signal
	limiter  *rate.Limiter

	maxConsecutiveErrors int
	failures             int

	// pending is the outbound frame waiting on the limiter. No further frame
	// is taken from the outbound queue until it has been transmitted.
	pending     *Frame
	reservation *rate.Reservation
	pacing      *time.Timer

	reads chan readResult
	// stop releases the reader routine once the loop has exited
	stop chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

func (p *pump) run() {
	defer p.teardown()
	activeConnections.WithLabelValues(p.name).Inc()

	p.conn.SetControlHandler(p.forwardControl)
	p.wg.Add(1)
	go p.readLoop()

	for {
		var ready <-chan struct{}
		if p.pending == nil {
			ready = p.outbound.ready
		}
		var paced <-chan time.Time
		if p.pacing != nil {
			paced = p.pacing.C
		}
		select {
		case <-ready:
			f, ok := p.outbound.tryPop()
			if !ok {
				continue
			}
			if !p.schedule(f) {
				return
			}
		case <-paced:
			f := *p.pending
			p.clearPending()
			if !p.transmit(f) {
				return
			}
		case r := <-p.reads:
			if !p.handleRead(r) {
				return
			}
		case <-p.signal.Done():
			if p.verbose {
				log.Debugf(log.WebsocketMgr, "%s websocket connection: shutdown requested", p.name)
			}
			return
		}
	}
}

// readLoop is the only reader of the connection
func (p *pump) readLoop() {
	defer p.wg.Done()
	for {
		f, err := p.conn.ReadFrame()
		if !p.deliver(readResult{frame: f, err: err}) {
			return
		}
		if err != nil && isStreamEnd(err) {
			return
		}
		if err == nil && f.Type == CloseMessage {
			return
		}
	}
}

func (p *pump) deliver(r readResult) bool {
	select {
	case p.reads <- r:
		return true
	case <-p.stop:
		return false
	}
}

func (p *pump) forwardControl(f Frame) {
	p.deliver(readResult{frame: f})
}

// schedule transmits f now or holds it until the limiter allows it, leaving
// the loop free to service reads in the meantime
func (p *pump) schedule(f Frame) bool {
	if p.limiter == nil {
		return p.transmit(f)
	}
	r := p.limiter.Reserve()
	if !r.OK() {
		log.Warnf(log.WebsocketMgr, "%s websocket connection: rate limit cannot be reserved, dropping %s", p.name, f)
		return p.failure("ratelimit", errRateLimitExceeded)
	}
	delay := r.Delay()
	if delay <= 0 {
		return p.transmit(f)
	}
	p.pending = &f
	p.reservation = r
	p.pacing = time.NewTimer(delay)
	return true
}

func (p *pump) clearPending() {
	p.pending = nil
	p.reservation = nil
	p.pacing = nil
}

// cancelPending releases the reservation of a frame that will never be sent
func (p *pump) cancelPending() int {
	if p.pending == nil {
		return 0
	}
	p.pacing.Stop()
	p.reservation.Cancel()
	p.clearPending()
	return 1
}

func (p *pump) transmit(f Frame) bool {
	if err := p.conn.WriteFrame(f); err != nil {
		log.Warnf(log.WebsocketMgr, "%s websocket connection: error while transmitting %s: %v", p.name, f, err)
		return p.failure("write", err)
	}
	framesSent.WithLabelValues(p.name, f.Type.String()).Inc()
	if p.verbose {
		log.Debugf(log.WebsocketMgr, "%s websocket connection: sent message: %s", p.name, f.Payload)
	}
	p.failures = 0
	return true
}

// handleRead returns false when the connection has ended
func (p *pump) handleRead(r readResult) bool {
	if r.err != nil {
		if isStreamEnd(r.err) {
			if p.verbose {
				log.Debugf(log.WebsocketMgr, "%s websocket connection: stream closed: %v", p.name, r.err)
			}
			return false
		}
		log.Warnf(log.WebsocketMgr, "%s websocket connection: error receiving message: %v", p.name, r.err)
		return p.failure("read", r.err)
	}

	framesReceived.WithLabelValues(p.name, r.frame.Type.String()).Inc()
	switch r.frame.Type {
	case TextMessage, BinaryMessage:
		if err := p.inbound.push(r.frame); err != nil {
			log.Warnf(log.WebsocketMgr, "%s websocket connection: error passing message to receive queue: %v", p.name, err)
			return p.failure("forward", err)
		}
		if p.verbose {
			log.Debugf(log.WebsocketMgr, "%s websocket connection: message received: %s", p.name, r.frame.Payload)
		}
	case PingMessage:
		if err := p.conn.WriteFrame(NewPongFrame(r.frame.Payload)); err != nil {
			log.Warnf(log.WebsocketMgr, "%s websocket connection: error sending pong: %v", p.name, err)
			return p.failure("pong", err)
		}
		framesSent.WithLabelValues(p.name, PongMessage.String()).Inc()
	case CloseMessage:
		if p.verbose {
			log.Debugf(log.WebsocketMgr, "%s websocket connection: received %s", p.name, r.frame)
		}
		return false
	default:
		log.Warnf(log.WebsocketMgr, "%s websocket connection: received unexpected message: %s", p.name, r.frame)
		return true
	}
	p.failures = 0
	return true
}

// failure records a swallowed per frame error and returns false once the
// consecutive failure limit is reached
func (p *pump) failure(operation string, err error) bool {
	transportErrors.WithLabelValues(p.name, operation).Inc()
	p.failures++
	if p.maxConsecutiveErrors > 0 && p.failures >= p.maxConsecutiveErrors {
		log.Errorf(log.WebsocketMgr, "%s websocket connection: %v (%d), last error: %v", p.name, errTooManyFailures, p.failures, err)
		return false
	}
	return true
}

// teardown runs once on every exit path of run
func (p *pump) teardown() {
	close(p.stop)
	if n := p.outbound.close() + p.cancelPending(); n > 0 {
		log.Warnf(log.WebsocketMgr, "%s websocket connection: discarded %d unsent frames", p.name, n)
	}
	if err := p.conn.WriteFrame(NewCloseFrame(nil)); err != nil && p.verbose {
		log.Debugf(log.WebsocketMgr, "%s websocket connection: close frame not sent: %v", p.name, err)
	}
	if err := p.conn.Close(); err != nil && p.verbose {
		log.Debugf(log.WebsocketMgr, "%s websocket connection: close error: %v", p.name, err)
	}
	p.wg.Wait()
	p.inbound.close()
	activeConnections.WithLabelValues(p.name).Dec()
	if p.verbose {
		log.Infof(log.WebsocketMgr, "%s websocket connection: closed", p.name)
	}
	close(p.done)
}
