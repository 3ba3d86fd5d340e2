package bot

import (
	"encoding/json"
	"fmt"
	"strings"

	futures "github.com/adshao/go-binance/v2/futures"
	"github.com/shopspring/decimal"
)

const (
	positionSeparator = "-----------------------\n"
	noPositions       = "No open positions found."
)

// FormatBalance lists assets holding a positive balance, one per line.
func FormatBalance(balances []*futures.Balance) string {
	var b strings.Builder
	for _, bal := range balances {
		if bal == nil {
			continue
		}
		amount, err := decimal.NewFromString(bal.Balance)
		if err != nil || !amount.IsPositive() {
			continue
		}
		fmt.Fprintf(&b, "Asset: %s, Balance: %s\n", bal.Asset, bal.Balance)
	}
	return b.String()
}

// FormatPositionInfo describes every position with a non-zero amount.
func FormatPositionInfo(positions []*futures.PositionRisk) string {
	var b strings.Builder
	for _, p := range positions {
		if p == nil {
			continue
		}
		amount, err := decimal.NewFromString(p.PositionAmt)
		if err != nil || amount.IsZero() {
			continue
		}
		fmt.Fprintf(&b, "Symbol: %s\n", p.Symbol)
		fmt.Fprintf(&b, "Position Amount: %s\n", p.PositionAmt)
		fmt.Fprintf(&b, "Entry Price: %s\n", p.EntryPrice)
		fmt.Fprintf(&b, "Unrealized PnL: %s\n", p.UnRealizedProfit)
		b.WriteString(positionSeparator)
	}
	if b.Len() == 0 {
		return noPositions
	}
	return b.String()
}

// FormatOrder renders an order record as compact JSON.
func FormatOrder(order any) string {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Sprintf("%+v", order)
	}
	return string(data)
}
