package exchanges

import (
	"context"
	"log"
	"time"

	"github.com/AlephTX/ringfeed/marketdata"
	"github.com/AlephTX/ringfeed/ring"
)

// Exchange defines the interface for all feed handlers. Each
// implementation owns the ring.WriteHandle it was constructed with and
// pushes a marketdata.Tick into it for every BBO update it observes.
type Exchange interface {
	Run(ctx context.Context) error
}

// Writer is the subset of ring.WriteHandle an Exchange producer needs.
// Defined as an interface so exchange code and tests don't depend on the
// ring package's generic instantiation directly.
type Writer interface {
	Push(marketdata.Tick)
}

var _ Writer = (*ring.WriteHandle[marketdata.Tick])(nil)

// ConnectFunc represents the actual websocket or REST connection loop.
type ConnectFunc func(ctx context.Context) error

// RunConnectionLoop is a utility that handles the infinite reconnect/backoff
// loop for feeder exchanges, so individual exchanges don't have to
// duplicate this logic.
func RunConnectionLoop(ctx context.Context, name string, connect ConnectFunc) error {
	for {
		if err := connect(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("%s: disconnected (%v), reconnecting in 3s...", name, err)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(3 * time.Second):
			}
		}
	}
}
