// Package marketdata defines the payload carried through the ring buffer.
package marketdata

// Tick is one best-bid/offer update from an exchange. It is the ring.Ring
// payload type for this feeder: a plain value with no pointers, slices,
// or maps, so copying it in or out of a ring slot is always safe — there
// is nothing for an overwritten slot to leak.
type Tick struct {
	ExchangeID  uint8
	SymbolID    uint16
	TimestampNs uint64
	BidPrice    float64
	BidSize     float64
	AskPrice    float64
	AskSize     float64
}

// Mid returns the midpoint of the bid/ask spread.
func (t Tick) Mid() float64 {
	return (t.BidPrice + t.AskPrice) / 2
}

// Exchange IDs — shared across all exchange producers so downstream
// consumers can tell feeds apart without a string comparison.
const (
	ExchangeHyperliquid uint8 = 1
	ExchangeLighter     uint8 = 2
	ExchangeEdgeX       uint8 = 3
	Exchange01          uint8 = 4
	ExchangeBackpack    uint8 = 5
	ExchangeBinance     uint8 = 6
)

// Symbol IDs — global normalized IDs, independent of any one exchange's
// own naming.
const (
	SymbolBTCPERP uint16 = 1001
	SymbolETHPERP uint16 = 1002
)

// SymbolNameToID maps a standard local ticker name to its global symbol ID.
var SymbolNameToID = map[string]uint16{
	"BTC": SymbolBTCPERP,
	"ETH": SymbolETHPERP,
}

// BuildReverseSymbolMap maps an exchange-specific symbol string directly
// to the global symbol ID, given the exchange config's local->exchange
// symbol table.
func BuildReverseSymbolMap(symbols map[string]string) map[string]uint16 {
	m := make(map[string]uint16, len(symbols))
	for localSym, exchSym := range symbols {
		if id, ok := SymbolNameToID[localSym]; ok {
			m[exchSym] = id
		}
	}
	return m
}
