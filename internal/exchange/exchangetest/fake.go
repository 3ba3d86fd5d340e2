// Package exchangetest provides an in-memory stand-in for the futures
// exchange client.
package exchangetest

import (
	"context"
	"sync"

	futures "github.com/adshao/go-binance/v2/futures"

	"futuresbot/internal/exchange"
)

// Fake answers every call from its fields and records what was asked. Errs
// fails a single call by name ("balances", "exchange_info", "create_order",
// "order", "positions"); Err fails every call.
type Fake struct {
	mu sync.Mutex

	BalanceList   []*futures.Balance
	Info          *futures.ExchangeInfo
	CreatedOrder  *futures.CreateOrderResponse
	QueriedOrder  *futures.Order
	PositionList  []*futures.PositionRisk
	Err           error
	Errs          map[string]error
	calls         []string
	orderRequests []exchange.OrderRequest
}

// NewFake returns a Fake listing BTCUSDT and ETHUSDT with a funded USDT
// wallet, one open BTCUSDT position and canned order records.
func NewFake() *Fake {
	return &Fake{
		BalanceList: []*futures.Balance{
			{Asset: "USDT", Balance: "100.0"},
			{Asset: "BTC", Balance: "0"},
		},
		Info: &futures.ExchangeInfo{
			Symbols: []futures.Symbol{{Symbol: "BTCUSDT"}, {Symbol: "ETHUSDT"}},
		},
		CreatedOrder: &futures.CreateOrderResponse{
			Symbol:  "BTCUSDT",
			OrderID: 42,
			Status:  futures.OrderStatusTypeNew,
		},
		QueriedOrder: &futures.Order{
			Symbol:  "BTCUSDT",
			OrderID: 42,
			Status:  futures.OrderStatusTypeFilled,
		},
		PositionList: []*futures.PositionRisk{
			{Symbol: "BTCUSDT", PositionAmt: "0.010", EntryPrice: "60000.0", UnRealizedProfit: "12.5"},
			{Symbol: "ETHUSDT", PositionAmt: "0", EntryPrice: "0.0", UnRealizedProfit: "0"},
		},
	}
}

func (f *Fake) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if err, ok := f.Errs[call]; ok {
		return err
	}
	return f.Err
}

// Calls lists the methods invoked so far, in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// OrderRequests returns every request passed to CreateOrder.
func (f *Fake) OrderRequests() []exchange.OrderRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]exchange.OrderRequest(nil), f.orderRequests...)
}

func (f *Fake) Balances(context.Context) ([]*futures.Balance, error) {
	if err := f.record("balances"); err != nil {
		return nil, err
	}
	return f.BalanceList, nil
}

func (f *Fake) ExchangeInfo(context.Context) (*futures.ExchangeInfo, error) {
	if err := f.record("exchange_info"); err != nil {
		return nil, err
	}
	return f.Info, nil
}

func (f *Fake) CreateOrder(_ context.Context, req exchange.OrderRequest) (*futures.CreateOrderResponse, error) {
	f.mu.Lock()
	f.orderRequests = append(f.orderRequests, req)
	f.mu.Unlock()
	if err := f.record("create_order"); err != nil {
		return nil, err
	}
	return f.CreatedOrder, nil
}

func (f *Fake) Order(_ context.Context, _ string, _ int64) (*futures.Order, error) {
	if err := f.record("order"); err != nil {
		return nil, err
	}
	return f.QueriedOrder, nil
}

func (f *Fake) Positions(context.Context) ([]*futures.PositionRisk, error) {
	if err := f.record("positions"); err != nil {
		return nil, err
	}
	return f.PositionList, nil
}
