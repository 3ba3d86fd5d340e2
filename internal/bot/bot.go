// Package bot is the facade over the futures trading API. Every operation is
// one remote round trip; failures are logged once and returned as an
// *OperationError matching ErrOperationFailed.
package bot

import (
	"context"

	futures "github.com/adshao/go-binance/v2/futures"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"futuresbot/internal/exchange"
	"futuresbot/logger"
)

var _ Exchange = (*exchange.Client)(nil)

// Exchange is the remote trading API the facade forwards to.
type Exchange interface {
	Balances(ctx context.Context) ([]*futures.Balance, error)
	ExchangeInfo(ctx context.Context) (*futures.ExchangeInfo, error)
	CreateOrder(ctx context.Context, req exchange.OrderRequest) (*futures.CreateOrderResponse, error)
	Order(ctx context.Context, symbol string, orderID int64) (*futures.Order, error)
	Positions(ctx context.Context) ([]*futures.PositionRisk, error)
}

type MarketOrder struct {
	Symbol   string
	Side     futures.SideType
	Quantity decimal.Decimal
}

type LimitOrder struct {
	Symbol   string
	Side     futures.SideType
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

type StopLimitOrder struct {
	Symbol     string
	Side       futures.SideType
	Quantity   decimal.Decimal
	StopPrice  decimal.Decimal
	LimitPrice decimal.Decimal
}

// Bot forwards typed calls to an Exchange.
type Bot struct {
	exchange Exchange
	log      *logger.Log
	newID    func() string
}

func New(ex Exchange, log *logger.Log) *Bot {
	return &Bot{
		exchange: ex,
		log:      log,
		newID:    uuid.NewString,
	}
}

var (
	opBalance = operation{
		name:    "get_account_balance",
		success: "Account balance retrieved successfully",
		failure: "Failed to get account balance",
	}
	opValidateSymbol = operation{
		name:    "validate_symbol",
		success: "Exchange info retrieved",
		failure: "Symbol validation error",
	}
	opMarketOrder = operation{
		name:    "place_market_order",
		success: "Futures market order placed",
		failure: "Futures market order error",
	}
	opLimitOrder = operation{
		name:    "place_limit_order",
		success: "Futures limit order placed",
		failure: "Futures limit order error",
	}
	opStopLimitOrder = operation{
		name:    "place_stop_limit_order",
		success: "Futures stop-limit order placed",
		failure: "Futures stop-limit order error",
	}
	opOrderStatus = operation{
		name:    "get_order_status",
		success: "Futures order status",
		failure: "Futures order status error",
	}
	opPositions = operation{
		name:    "get_position_info",
		success: "Position information retrieved",
		failure: "Position information error",
	}
)

// GetAccountBalance returns the per-asset futures balances.
func (b *Bot) GetAccountBalance(ctx context.Context) ([]*futures.Balance, error) {
	return invoke(ctx, b, opBalance, nil, nil, b.exchange.Balances)
}

// ValidateSymbol reports whether symbol is listed on the exchange. Any
// remote failure counts as not listed.
func (b *Bot) ValidateSymbol(ctx context.Context, symbol string) bool {
	info, err := invoke(ctx, b, opValidateSymbol, logger.Fields{"symbol": symbol}, nil, b.exchange.ExchangeInfo)
	if err != nil {
		return false
	}

	log := b.log.WithContext(ctx).WithComponent("bot").WithFields(logger.Fields{"operation": opValidateSymbol.name, "symbol": symbol})
	if info != nil {
		for _, s := range info.Symbols {
			if s.Symbol == symbol {
				log.Infof("Symbol %s validated for futures trading", symbol)
				return true
			}
		}
	}
	log.Errorf("Invalid futures symbol: %s", symbol)
	return false
}

// PlaceMarketOrder submits a MARKET order.
func (b *Bot) PlaceMarketOrder(ctx context.Context, o MarketOrder) (*futures.CreateOrderResponse, error) {
	req := exchange.OrderRequest{
		Symbol:        o.Symbol,
		Side:          o.Side,
		Type:          futures.OrderTypeMarket,
		Quantity:      o.Quantity.String(),
		ClientOrderID: b.newID(),
	}
	return b.placeOrder(ctx, opMarketOrder, req)
}

// PlaceLimitOrder submits a good-till-cancelled LIMIT order.
func (b *Bot) PlaceLimitOrder(ctx context.Context, o LimitOrder) (*futures.CreateOrderResponse, error) {
	req := exchange.OrderRequest{
		Symbol:        o.Symbol,
		Side:          o.Side,
		Type:          futures.OrderTypeLimit,
		TimeInForce:   futures.TimeInForceTypeGTC,
		Quantity:      o.Quantity.String(),
		Price:         o.Price.String(),
		ClientOrderID: b.newID(),
	}
	return b.placeOrder(ctx, opLimitOrder, req)
}

// PlaceStopLimitOrder submits a good-till-cancelled STOP order that rests at
// LimitPrice once the mark price reaches StopPrice.
func (b *Bot) PlaceStopLimitOrder(ctx context.Context, o StopLimitOrder) (*futures.CreateOrderResponse, error) {
	req := exchange.OrderRequest{
		Symbol:        o.Symbol,
		Side:          o.Side,
		Type:          futures.OrderTypeStop,
		TimeInForce:   futures.TimeInForceTypeGTC,
		Quantity:      o.Quantity.String(),
		Price:         o.LimitPrice.String(),
		StopPrice:     o.StopPrice.String(),
		WorkingType:   futures.WorkingTypeMarkPrice,
		ClientOrderID: b.newID(),
	}
	return b.placeOrder(ctx, opStopLimitOrder, req)
}

func (b *Bot) placeOrder(ctx context.Context, op operation, req exchange.OrderRequest) (*futures.CreateOrderResponse, error) {
	fields := logger.Fields{
		"symbol":          req.Symbol,
		"side":            string(req.Side),
		"quantity":        req.Quantity,
		"client_order_id": req.ClientOrderID,
	}
	return invoke(ctx, b, op, fields, describeOrder[*futures.CreateOrderResponse], func(ctx context.Context) (*futures.CreateOrderResponse, error) {
		return b.exchange.CreateOrder(ctx, req)
	})
}

// GetOrderStatus fetches one order.
func (b *Bot) GetOrderStatus(ctx context.Context, symbol string, orderID int64) (*futures.Order, error) {
	fields := logger.Fields{"symbol": symbol, "order_id": orderID}
	return invoke(ctx, b, opOrderStatus, fields, describeOrder[*futures.Order], func(ctx context.Context) (*futures.Order, error) {
		return b.exchange.Order(ctx, symbol, orderID)
	})
}

// GetPositionInfo returns position records, limited to symbol when it is
// not empty.
func (b *Bot) GetPositionInfo(ctx context.Context, symbol string) ([]*futures.PositionRisk, error) {
	var fields logger.Fields
	if symbol != "" {
		fields = logger.Fields{"symbol": symbol}
	}
	return invoke(ctx, b, opPositions, fields, nil, func(ctx context.Context) ([]*futures.PositionRisk, error) {
		positions, err := b.exchange.Positions(ctx)
		if err != nil || symbol == "" {
			return positions, err
		}
		filtered := make([]*futures.PositionRisk, 0, 1)
		for _, p := range positions {
			if p != nil && p.Symbol == symbol {
				filtered = append(filtered, p)
			}
		}
		return filtered, nil
	})
}

func describeOrder[T any](order T) string {
	return FormatOrder(order)
}
