// Package exchanges contains one websocket producer per supported
// exchange. Each producer normalizes that exchange's book-ticker/depth
// stream into a marketdata.Tick and pushes it into a shared
// ring.WriteHandle.
package exchanges

import "github.com/AlephTX/ringfeed/marketdata"

// CoinToSymbolID maps Hyperliquid's coin ticker directly to our global
// symbol ID (Hyperliquid has no per-exchange symbol table in config,
// unlike the other exchanges, so this is a fixed lookup rather than one
// built from ExchangeConfig.Symbols).
var CoinToSymbolID = map[string]uint16{
	"BTC": marketdata.SymbolBTCPERP,
	"ETH": marketdata.SymbolETHPERP,
}
