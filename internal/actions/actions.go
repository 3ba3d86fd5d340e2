// Package actions holds the request flow shared by the web and CLI front
// ends: parse raw strings, call the bot, and turn the outcome into a
// message for the user.
package actions

import (
	"context"
	"errors"

	"futuresbot/internal/bot"
	"futuresbot/logger"
)

// Kind names one user-facing operation.
type Kind string

const (
	MarketOrder    Kind = "market"
	LimitOrder     Kind = "limit"
	StopLimitOrder Kind = "stop_limit"
	OrderStatus    Kind = "order_status"
	AccountBalance Kind = "balance"
	PositionInfo   Kind = "positions"
)

// Kinds lists the operations in menu order.
var Kinds = []Kind{MarketOrder, LimitOrder, StopLimitOrder, OrderStatus, AccountBalance, PositionInfo}

var titles = map[Kind]string{
	MarketOrder:    "Place Market Order",
	LimitOrder:     "Place Limit Order",
	StopLimitOrder: "Place Stop-Limit Order",
	OrderStatus:    "Check Order Status",
	AccountBalance: "Get Account Balance",
	PositionInfo:   "Get Position Information",
}

func (k Kind) Title() string {
	return titles[k]
}

func (k Kind) Valid() bool {
	_, ok := titles[k]
	return ok
}

const (
	msgInvalidSymbol = "Invalid futures symbol!"
	msgInvalidSide   = "Invalid side!"
)

// Result is what a front end shows after an operation. Details holds
// preformatted multi-line text and may be empty.
type Result struct {
	OK      bool
	Message string
	Details string
}

func success(msg, details string) Result {
	return Result{OK: true, Message: msg, Details: details}
}

func failure(msg string) Result {
	return Result{Message: msg}
}

// Runner executes operations against a bot.
type Runner struct {
	bot *bot.Bot
	log *logger.Log
}

func New(b *bot.Bot, log *logger.Log) *Runner {
	return &Runner{bot: b, log: log}
}

func (r *Runner) entry(ctx context.Context, kind Kind) *logger.Entry {
	return r.log.WithContext(ctx).WithComponent("actions").WithFields(logger.Fields{"action": string(kind)})
}

// invalid logs a local input error and picks the message to show. A bad
// side gets its own message; every other field shares fallback.
func (r *Runner) invalid(ctx context.Context, kind Kind, err error, fallback, format string, args ...interface{}) Result {
	log := r.entry(ctx, kind).WithError(err)
	var inputErr *bot.InputError
	if errors.As(err, &inputErr) && inputErr.Field == "side" {
		log.Errorf("Invalid side input: %s", inputErr.Value)
		return failure(msgInvalidSide)
	}
	log.Errorf(format, args...)
	return failure(fallback)
}

func (r *Runner) PlaceMarketOrder(ctx context.Context, symbol, side, quantity string) Result {
	order, err := bot.ParseMarketOrder(symbol, side, quantity)
	if err != nil {
		return r.invalid(ctx, MarketOrder, err, "Invalid quantity!", "Invalid quantity input: %s", quantity)
	}
	if !r.bot.ValidateSymbol(ctx, order.Symbol) {
		return failure(msgInvalidSymbol)
	}
	placed, err := r.bot.PlaceMarketOrder(ctx, order)
	if err != nil {
		return failure("Failed to place market order. Check logs for details.")
	}
	return success("Futures Market Order placed: "+bot.FormatOrder(placed), "")
}

func (r *Runner) PlaceLimitOrder(ctx context.Context, symbol, side, quantity, price string) Result {
	order, err := bot.ParseLimitOrder(symbol, side, quantity, price)
	if err != nil {
		return r.invalid(ctx, LimitOrder, err, "Invalid quantity or price!",
			"Invalid input - quantity: %s, price: %s", quantity, price)
	}
	if !r.bot.ValidateSymbol(ctx, order.Symbol) {
		return failure(msgInvalidSymbol)
	}
	placed, err := r.bot.PlaceLimitOrder(ctx, order)
	if err != nil {
		return failure("Failed to place limit order. Check logs for details.")
	}
	return success("Futures Limit Order placed: "+bot.FormatOrder(placed), "")
}

func (r *Runner) PlaceStopLimitOrder(ctx context.Context, symbol, side, quantity, stopPrice, limitPrice string) Result {
	order, err := bot.ParseStopLimitOrder(symbol, side, quantity, stopPrice, limitPrice)
	if err != nil {
		return r.invalid(ctx, StopLimitOrder, err, "Invalid quantity, stop price, or limit price!",
			"Invalid input - quantity: %s, stop_price: %s, limit_price: %s", quantity, stopPrice, limitPrice)
	}
	if !r.bot.ValidateSymbol(ctx, order.Symbol) {
		return failure(msgInvalidSymbol)
	}
	placed, err := r.bot.PlaceStopLimitOrder(ctx, order)
	if err != nil {
		return failure("Failed to place stop-limit order. Check logs for details.")
	}
	return success("Futures Stop-Limit Order placed: "+bot.FormatOrder(placed), "")
}

// CheckOrderStatus does not validate the symbol first; an unknown symbol is
// reported by the exchange.
func (r *Runner) CheckOrderStatus(ctx context.Context, symbol, orderID string) Result {
	id, err := bot.ParseOrderID(orderID)
	if err != nil {
		return r.invalid(ctx, OrderStatus, err, "Invalid order ID!", "Invalid order ID input: %s", orderID)
	}
	order, err := r.bot.GetOrderStatus(ctx, bot.ParseSymbol(symbol), id)
	if err != nil || order == nil {
		return failure("Failed to retrieve order status. Check logs for details.")
	}
	return success("Futures Order Status: "+bot.FormatOrder(order), "")
}

// AccountBalance treats an empty balance list like a failed call.
func (r *Runner) AccountBalance(ctx context.Context) Result {
	balances, err := r.bot.GetAccountBalance(ctx)
	if err != nil || len(balances) == 0 {
		return failure("Failed to retrieve account balance. Check logs for details.")
	}
	return success("Futures Account Balance:", bot.FormatBalance(balances))
}

// PositionInfo lists positions for symbol, or for every symbol when it is
// blank. No matching record is reported as a failure.
func (r *Runner) PositionInfo(ctx context.Context, symbol string) Result {
	positions, err := r.bot.GetPositionInfo(ctx, bot.ParseSymbol(symbol))
	if err != nil || len(positions) == 0 {
		return failure("Failed to retrieve position information. Check logs for details.")
	}
	return success("Futures Position Information:", bot.FormatPositionInfo(positions))
}
