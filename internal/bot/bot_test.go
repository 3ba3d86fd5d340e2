package bot_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/adshao/go-binance/v2/common"
	futures "github.com/adshao/go-binance/v2/futures"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futuresbot/internal/bot"
	"futuresbot/internal/exchange/exchangetest"
	"futuresbot/logger"
)

var _ bot.Exchange = (*exchangetest.Fake)(nil)

func newTestBot(t *testing.T, ex bot.Exchange) (*bot.Bot, *test.Hook) {
	t.Helper()
	log := logger.Logger()
	log.SetOutput(io.Discard)
	hook := test.NewLocal(log.Logger)
	return bot.New(ex, log), hook
}

func errorEntries(hook *test.Hook) []*logrus.Entry {
	var out []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			out = append(out, e)
		}
	}
	return out
}

func TestOperationsReturnRemoteResultsUnchanged(t *testing.T) {
	ctx := context.Background()
	fake := exchangetest.NewFake()
	b, hook := newTestBot(t, fake)

	balances, err := b.GetAccountBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, fake.BalanceList, balances)

	assert.True(t, b.ValidateSymbol(ctx, "BTCUSDT"))

	qty := decimal.RequireFromString("0.01")
	price := decimal.RequireFromString("60000")

	order, err := b.PlaceMarketOrder(ctx, bot.MarketOrder{Symbol: "BTCUSDT", Side: futures.SideTypeBuy, Quantity: qty})
	require.NoError(t, err)
	assert.Same(t, fake.CreatedOrder, order)

	order, err = b.PlaceLimitOrder(ctx, bot.LimitOrder{Symbol: "BTCUSDT", Side: futures.SideTypeSell, Quantity: qty, Price: price})
	require.NoError(t, err)
	assert.Same(t, fake.CreatedOrder, order)

	order, err = b.PlaceStopLimitOrder(ctx, bot.StopLimitOrder{Symbol: "BTCUSDT", Side: futures.SideTypeSell, Quantity: qty, StopPrice: price, LimitPrice: price})
	require.NoError(t, err)
	assert.Same(t, fake.CreatedOrder, order)

	status, err := b.GetOrderStatus(ctx, "BTCUSDT", 42)
	require.NoError(t, err)
	assert.Same(t, fake.QueriedOrder, status)

	positions, err := b.GetPositionInfo(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, fake.PositionList, positions)

	assert.Empty(t, errorEntries(hook))
}

func TestOperationsNormalizeRemoteFailure(t *testing.T) {
	remoteErr := &common.APIError{Code: -2015, Message: "Invalid API-key, IP, or permissions for action."}
	qty := decimal.RequireFromString("1")

	tests := []struct {
		name string
		call func(context.Context, *bot.Bot) (any, error)
	}{
		{"balance", func(ctx context.Context, b *bot.Bot) (any, error) {
			r, err := b.GetAccountBalance(ctx)
			return r, err
		}},
		{"market", func(ctx context.Context, b *bot.Bot) (any, error) {
			r, err := b.PlaceMarketOrder(ctx, bot.MarketOrder{Symbol: "BTCUSDT", Side: futures.SideTypeBuy, Quantity: qty})
			return r, err
		}},
		{"limit", func(ctx context.Context, b *bot.Bot) (any, error) {
			r, err := b.PlaceLimitOrder(ctx, bot.LimitOrder{Symbol: "BTCUSDT", Side: futures.SideTypeBuy, Quantity: qty, Price: qty})
			return r, err
		}},
		{"stop limit", func(ctx context.Context, b *bot.Bot) (any, error) {
			r, err := b.PlaceStopLimitOrder(ctx, bot.StopLimitOrder{Symbol: "BTCUSDT", Side: futures.SideTypeBuy, Quantity: qty, StopPrice: qty, LimitPrice: qty})
			return r, err
		}},
		{"order status", func(ctx context.Context, b *bot.Bot) (any, error) {
			r, err := b.GetOrderStatus(ctx, "BTCUSDT", 7)
			return r, err
		}},
		{"positions", func(ctx context.Context, b *bot.Bot) (any, error) {
			r, err := b.GetPositionInfo(ctx, "BTCUSDT")
			return r, err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := exchangetest.NewFake()
			fake.Err = remoteErr
			b, hook := newTestBot(t, fake)

			result, err := tt.call(context.Background(), b)
			require.Error(t, err)
			assert.True(t, errors.Is(err, bot.ErrOperationFailed))
			assert.Equal(t, bot.KindAuth, bot.KindOf(err))
			assert.Nil(t, result)

			var apiErr *common.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, int64(-2015), apiErr.Code)

			entries := errorEntries(hook)
			require.Len(t, entries, 1)
			assert.Contains(t, entries[0].Message, "Invalid API-key")
		})
	}
}

func TestValidateSymbol(t *testing.T) {
	ctx := context.Background()
	fake := exchangetest.NewFake()
	b, _ := newTestBot(t, fake)

	assert.True(t, b.ValidateSymbol(ctx, "ETHUSDT"))
	assert.False(t, b.ValidateSymbol(ctx, "XRPUSDT"))
	assert.False(t, b.ValidateSymbol(ctx, "btcusdt"))

	fake.Err = errors.New("connection reset by peer")
	b, hook := newTestBot(t, fake)
	assert.False(t, b.ValidateSymbol(ctx, "BTCUSDT"))
	assert.Len(t, errorEntries(hook), 1)
}

func TestLimitOrdersAreGoodTillCancelled(t *testing.T) {
	ctx := context.Background()
	fake := exchangetest.NewFake()
	b, _ := newTestBot(t, fake)

	_, err := b.PlaceMarketOrder(ctx, bot.MarketOrder{
		Symbol: "BTCUSDT", Side: futures.SideTypeBuy, Quantity: decimal.RequireFromString("0.0010"),
	})
	require.NoError(t, err)
	_, err = b.PlaceLimitOrder(ctx, bot.LimitOrder{
		Symbol: "BTCUSDT", Side: futures.SideTypeBuy,
		Quantity: decimal.RequireFromString("0.01"), Price: decimal.RequireFromString("59000.5"),
	})
	require.NoError(t, err)
	_, err = b.PlaceStopLimitOrder(ctx, bot.StopLimitOrder{
		Symbol: "BTCUSDT", Side: futures.SideTypeSell,
		Quantity:   decimal.RequireFromString("0.01"),
		StopPrice:  decimal.RequireFromString("58000"),
		LimitPrice: decimal.RequireFromString("57900"),
	})
	require.NoError(t, err)

	reqs := fake.OrderRequests()
	require.Len(t, reqs, 3)

	market := reqs[0]
	assert.Equal(t, futures.OrderTypeMarket, market.Type)
	assert.Equal(t, "0.001", market.Quantity)
	assert.Empty(t, market.TimeInForce)
	assert.Empty(t, market.Price)

	limit := reqs[1]
	assert.Equal(t, futures.OrderTypeLimit, limit.Type)
	assert.Equal(t, futures.TimeInForceTypeGTC, limit.TimeInForce)
	assert.Equal(t, "59000.5", limit.Price)
	assert.Empty(t, limit.WorkingType)

	stop := reqs[2]
	assert.Equal(t, futures.OrderTypeStop, stop.Type)
	assert.Equal(t, futures.SideTypeSell, stop.Side)
	assert.Equal(t, futures.TimeInForceTypeGTC, stop.TimeInForce)
	assert.Equal(t, futures.WorkingTypeMarkPrice, stop.WorkingType)
	assert.Equal(t, "58000", stop.StopPrice)
	assert.Equal(t, "57900", stop.Price)

	seen := map[string]bool{}
	for _, r := range reqs {
		assert.Len(t, r.ClientOrderID, 36)
		assert.False(t, seen[r.ClientOrderID], "client order id reused")
		seen[r.ClientOrderID] = true
	}
}

func TestGetPositionInfoFiltersBySymbol(t *testing.T) {
	fake := exchangetest.NewFake()
	b, _ := newTestBot(t, fake)

	positions, err := b.GetPositionInfo(context.Background(), "ETHUSDT")
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "ETHUSDT", positions[0].Symbol)

	positions, err = b.GetPositionInfo(context.Background(), "XRPUSDT")
	require.NoError(t, err)
	assert.Empty(t, positions)
	assert.Equal(t, []string{"positions", "positions"}, fake.Calls())
}
