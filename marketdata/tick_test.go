package marketdata

import "testing"

func TestTick_Mid(t *testing.T) {
	tick := Tick{BidPrice: 99.0, AskPrice: 101.0}
	if got, want := tick.Mid(), 100.0; got != want {
		t.Errorf("Mid() = %v, want %v", got, want)
	}
}

func TestBuildReverseSymbolMap(t *testing.T) {
	m := BuildReverseSymbolMap(map[string]string{
		"BTC":     "BTC_USDC_PERP",
		"ETH":     "ETH_USDC_PERP",
		"UNKNOWN": "UNKNOWN_PERP",
	})

	if got, want := m["BTC_USDC_PERP"], SymbolBTCPERP; got != want {
		t.Errorf("m[BTC_USDC_PERP] = %d, want %d", got, want)
	}
	if got, want := m["ETH_USDC_PERP"], SymbolETHPERP; got != want {
		t.Errorf("m[ETH_USDC_PERP] = %d, want %d", got, want)
	}
	if _, ok := m["UNKNOWN_PERP"]; ok {
		t.Error("m[UNKNOWN_PERP] should not be present for a symbol with no global ID")
	}
	if len(m) != 2 {
		t.Errorf("len(m) = %d, want 2", len(m))
	}
}
