// Package binance connects to Binance WebSocket streams and normalises data.
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/AlephTX/ringfeed/exchanges"
	"github.com/AlephTX/ringfeed/marketdata"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Writer is the minimal interface the feeder needs to publish a tick —
// satisfied by a ring.WriteHandle[marketdata.Tick].
type Writer interface {
	Push(marketdata.Tick)
}

// binanceTicker decodes the data payload of a Binance bookTicker stream
// message.
type binanceTicker struct {
	EventType string `json:"e"`
	Symbol    string `json:"s"`
	Close     string `json:"c"` // last price
	BidPrice  string `json:"b"`
	AskPrice  string `json:"a"`
	BidQty    string `json:"B"`
	AskQty    string `json:"A"`
	EventTime int64  `json:"E"`
}

// symbolToLocal strips Binance's USDT quote suffix, e.g. "BTCUSDT" -> "BTC".
func symbolToLocal(sym string) string {
	return strings.TrimSuffix(strings.ToUpper(sym), "USDT")
}

// Feeder subscribes to Binance's combined bookTicker stream and pushes
// normalised ticks into the ring.
type Feeder struct {
	symbols []string
	write   Writer
}

func NewFeeder(symbols []string, write Writer) *Feeder {
	return &Feeder{symbols: symbols, write: write}
}

func (f *Feeder) Run(ctx context.Context) error {
	streams := make([]string, len(f.symbols))
	for i, s := range f.symbols {
		streams[i] = strings.ToLower(s) + "@bookTicker"
	}
	url := "wss://stream.binance.com:9443/stream?streams=" + strings.Join(streams, "/")

	return exchanges.RunConnectionLoop(ctx, "binance", func(ctx context.Context) error {
		return f.connect(ctx, url)
	})
}

func (f *Feeder) connect(ctx context.Context, url string) error {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.CloseNow()
	log.Println("binance: connected")

	for {
		var envelope struct {
			Stream string          `json:"stream"`
			Data   json.RawMessage `json:"data"`
		}
		if err := wsjson.Read(ctx, conn, &envelope); err != nil {
			return err
		}

		var raw binanceTicker
		if err := json.Unmarshal(envelope.Data, &raw); err != nil {
			continue
		}

		symID, ok := marketdata.SymbolNameToID[symbolToLocal(raw.Symbol)]
		if !ok {
			continue
		}

		bidPx, _ := strconv.ParseFloat(raw.BidPrice, 64)
		bidSz, _ := strconv.ParseFloat(raw.BidQty, 64)
		askPx, _ := strconv.ParseFloat(raw.AskPrice, 64)
		askSz, _ := strconv.ParseFloat(raw.AskQty, 64)

		f.write.Push(marketdata.Tick{
			ExchangeID:  marketdata.ExchangeBinance,
			SymbolID:    symID,
			TimestampNs: uint64(raw.EventTime) * 1_000_000, // ms → ns
			BidPrice:    bidPx,
			BidSize:     bidSz,
			AskPrice:    askPx,
			AskSize:     askSz,
		})
	}
}
