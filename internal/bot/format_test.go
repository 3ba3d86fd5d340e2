package bot

import (
	"strings"
	"testing"

	futures "github.com/adshao/go-binance/v2/futures"
)

func TestFormatBalance(t *testing.T) {
	got := FormatBalance([]*futures.Balance{
		{Asset: "USDT", Balance: "100.0"},
		{Asset: "BTC", Balance: "0"},
		{Asset: "BNB", Balance: "not-a-number"},
		nil,
	})
	if got != "Asset: USDT, Balance: 100.0\n" {
		t.Fatalf("FormatBalance()=%q", got)
	}
	if FormatBalance(nil) != "" {
		t.Fatalf("expected empty output for no balances")
	}
}

func TestFormatPositionInfo(t *testing.T) {
	flat := []*futures.PositionRisk{{Symbol: "BTCUSDT", PositionAmt: "0", EntryPrice: "0.0", UnRealizedProfit: "0.00000000"}}
	if got := FormatPositionInfo(flat); got != "No open positions found." {
		t.Fatalf("FormatPositionInfo(flat)=%q", got)
	}
	if got := FormatPositionInfo(nil); got != "No open positions found." {
		t.Fatalf("FormatPositionInfo(nil)=%q", got)
	}

	open := []*futures.PositionRisk{
		{Symbol: "BTCUSDT", PositionAmt: "-0.010", EntryPrice: "60000.0", UnRealizedProfit: "-3.2"},
		{Symbol: "ETHUSDT", PositionAmt: "0.000", EntryPrice: "0.0", UnRealizedProfit: "0"},
	}
	want := "Symbol: BTCUSDT\n" +
		"Position Amount: -0.010\n" +
		"Entry Price: 60000.0\n" +
		"Unrealized PnL: -3.2\n" +
		"-----------------------\n"
	if got := FormatPositionInfo(open); got != want {
		t.Fatalf("FormatPositionInfo(open)=%q want %q", got, want)
	}
}

func TestFormatOrder(t *testing.T) {
	got := FormatOrder(&futures.CreateOrderResponse{Symbol: "BTCUSDT", OrderID: 42, Status: futures.OrderStatusTypeNew})
	for _, part := range []string{`"symbol":"BTCUSDT"`, `"orderId":42`, `"status":"NEW"`} {
		if !strings.Contains(got, part) {
			t.Fatalf("FormatOrder() missing %s: %s", part, got)
		}
	}
	if got := FormatOrder(make(chan int)); !strings.HasPrefix(got, "0x") {
		t.Fatalf("expected fallback rendering for unmarshalable value, got %q", got)
	}
}
