// Package ipc streams ticks drained from a ring.ReadHandle to an external
// consumer over a Unix socket.
package ipc

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"sync"
	"time"

	"github.com/AlephTX/ringfeed/marketdata"
	"github.com/AlephTX/ringfeed/ring"
)

// Message is the envelope sent over the socket.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// idleBackoff is how long Run sleeps after an empty PopFront before
// polling again. PopFront itself never blocks, so the poll/backoff is
// entirely this caller's responsibility, per the ring package's contract.
const idleBackoff = time.Millisecond

// Publisher drains a ring.ReadHandle and forwards each tick as a JSON
// line to a Unix socket. It is a best-effort downstream consumer: a tick
// is dropped after three failed send attempts, and ticks the ring laps
// it on are skipped. While the socket is unreachable each send attempt
// first sleeps 500ms before redialing, so the drain loop slows down (up
// to 1.5s per tick) rather than stopping.
type Publisher struct {
	path string
	read *ring.ReadHandle[marketdata.Tick]

	mu   sync.Mutex
	conn net.Conn
}

// NewPublisher subscribes read to the ring and prepares to stream its
// output to the Unix socket at path. Dialing is best-effort — the
// external reader may not be listening yet — and is retried lazily on the
// next send.
func NewPublisher(path string, read *ring.ReadHandle[marketdata.Tick]) *Publisher {
	p := &Publisher{path: path, read: read}
	p.dial()
	return p
}

func (p *Publisher) dial() {
	conn, err := net.Dial("unix", p.path)
	if err != nil {
		return // will retry on next send
	}
	p.mu.Lock()
	p.conn = conn
	p.mu.Unlock()
	log.Printf("ipc: connected to %s", p.path)
}

// Run drains the subscribed ReadHandle until ctx is cancelled, forwarding
// every tick it pops. It never blocks on PopFront; when the ring is
// empty it backs off briefly before polling again.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		tick, ok := p.read.PopFront()
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(idleBackoff):
			}
			continue
		}
		p.publish("tick", tick)
	}
}

// publish sends a typed message to the external reader.
func (p *Publisher) publish(msgType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	msg, _ := json.Marshal(Message{Type: msgType, Payload: raw})
	msg = append(msg, '\n')

	p.mu.Lock()
	defer p.mu.Unlock()

	for attempts := 0; attempts < 3; attempts++ {
		if p.conn == nil {
			p.mu.Unlock()
			time.Sleep(500 * time.Millisecond)
			p.mu.Lock()
			conn, err := net.Dial("unix", p.path)
			if err != nil {
				continue
			}
			p.conn = conn
			log.Printf("ipc: reconnected to %s", p.path)
		}
		if _, err := p.conn.Write(msg); err != nil {
			p.conn.Close()
			p.conn = nil
			continue
		}
		return
	}
}

// Close releases the socket connection, if any.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil {
		p.conn.Close()
	}
}
