package symbols

import "strings"

// Normalize converts user-entered futures symbols to Binance style: upper
// case, no "-" "/" or space separators, BTC instead of XBT, and no "-SWAP"
// or "-PERP" suffix. Underscores are kept since delivery contracts use them
// (BTCUSDT_250926).
func Normalize(sym string) string {
	sym = strings.ToUpper(strings.TrimSpace(sym))
	for _, suffix := range []string{"-SWAP", "-PERP"} {
		sym = strings.TrimSuffix(sym, suffix)
	}
	sym = strings.Map(func(r rune) rune {
		switch r {
		case '-', '/', ' ':
			return -1
		}
		return r
	}, sym)
	if strings.HasPrefix(sym, "XBT") {
		sym = "BTC" + sym[3:]
	}
	return sym
}
