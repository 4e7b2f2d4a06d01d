// Package workers runs a fixed-size pool of goroutines that share a
// single ring.ReadHandle, cooperatively stealing ticks from it. This is
// the concrete exerciser for the ring's shared-handle semantics: no tick
// is delivered to more than one worker across the whole pool, and ticks
// skipped because the shared reader was lapped reach no worker.
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/AlephTX/ringfeed/marketdata"
	"github.com/AlephTX/ringfeed/ring"
)

// idleBackoff bounds how often an idle worker re-polls an empty ring.
const idleBackoff = time.Millisecond

// Pool maintains the last tick seen per (exchange, symbol) pair, fed by
// N goroutines sharing one ReadHandle.
type Pool struct {
	read *ring.ReadHandle[marketdata.Tick]
	size int

	mu   sync.RWMutex
	last map[key]marketdata.Tick
}

type key struct {
	exchangeID uint8
	symbolID   uint16
}

// NewPool subscribes a fresh ReadHandle from r and prepares a pool of
// size worker goroutines to share it. size must be at least 1.
func NewPool(r *ring.Ring[marketdata.Tick], size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		read: r.Reader(),
		size: size,
		last: make(map[key]marketdata.Tick),
	}
}

// Run starts the worker goroutines and blocks until ctx is cancelled.
func (p *Pool) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx)
		}()
	}
	wg.Wait()
}

func (p *Pool) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		tick, ok := p.read.PopFront()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-time.After(idleBackoff):
			}
			continue
		}

		p.mu.Lock()
		p.last[key{tick.ExchangeID, tick.SymbolID}] = tick
		p.mu.Unlock()
	}
}

// BestMid returns the midpoint price of the most recent tick seen for
// symbolID on exchangeID, or (0, false) if none has been observed yet.
func (p *Pool) BestMid(exchangeID uint8, symbolID uint16) (float64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	t, ok := p.last[key{exchangeID, symbolID}]
	if !ok {
		return 0, false
	}
	return t.Mid(), true
}

// Skipped returns how many sequences this pool's shared reader has had to
// skip due to falling behind the writer.
func (p *Pool) Skipped() uint64 {
	return p.read.Skipped()
}
