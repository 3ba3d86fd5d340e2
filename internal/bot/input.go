package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	futures "github.com/adshao/go-binance/v2/futures"
	"github.com/shopspring/decimal"

	"futuresbot/internal/symbols"
)

// ParseSymbol normalizes a user-entered symbol. Whether the exchange lists it
// is checked separately by ValidateSymbol.
func ParseSymbol(raw string) string {
	return symbols.Normalize(raw)
}

func ParseSide(raw string) (futures.SideType, error) {
	switch side := futures.SideType(strings.ToUpper(strings.TrimSpace(raw))); side {
	case futures.SideTypeBuy, futures.SideTypeSell:
		return side, nil
	}
	return "", invalidInput("side", raw, nil)
}

// Bounds on parsed decimals. Rendering a value with an exponent near
// MaxInt32 allocates one byte per digit.
const (
	maxDecimalExponent = 32
	maxDecimalDigits   = 64
)

var errDecimalOutOfRange = errors.New("value out of range")

// ParseDecimal accepts any string shopspring/decimal accepts within the
// exponent and digit bounds. Sign, precision and lot size are left to the
// exchange.
func ParseDecimal(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, invalidInput(field, raw, err)
	}
	if exp := d.Exponent(); exp > maxDecimalExponent || exp < -maxDecimalExponent || d.NumDigits() > maxDecimalDigits {
		return decimal.Decimal{}, invalidInput(field, raw, errDecimalOutOfRange)
	}
	return d, nil
}

func ParseOrderID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, invalidInput("order_id", raw, err)
	}
	return id, nil
}

func ParseMarketOrder(symbol, side, quantity string) (MarketOrder, error) {
	s, err := ParseSide(side)
	if err != nil {
		return MarketOrder{}, err
	}
	qty, err := ParseDecimal("quantity", quantity)
	if err != nil {
		return MarketOrder{}, err
	}
	return MarketOrder{Symbol: ParseSymbol(symbol), Side: s, Quantity: qty}, nil
}

func ParseLimitOrder(symbol, side, quantity, price string) (LimitOrder, error) {
	m, err := ParseMarketOrder(symbol, side, quantity)
	if err != nil {
		return LimitOrder{}, err
	}
	p, err := ParseDecimal("price", price)
	if err != nil {
		return LimitOrder{}, err
	}
	return LimitOrder{Symbol: m.Symbol, Side: m.Side, Quantity: m.Quantity, Price: p}, nil
}

func ParseStopLimitOrder(symbol, side, quantity, stopPrice, limitPrice string) (StopLimitOrder, error) {
	m, err := ParseMarketOrder(symbol, side, quantity)
	if err != nil {
		return StopLimitOrder{}, err
	}
	stop, err := ParseDecimal("stop_price", stopPrice)
	if err != nil {
		return StopLimitOrder{}, err
	}
	limit, err := ParseDecimal("limit_price", limitPrice)
	if err != nil {
		return StopLimitOrder{}, err
	}
	return StopLimitOrder{Symbol: m.Symbol, Side: m.Side, Quantity: m.Quantity, StopPrice: stop, LimitPrice: limit}, nil
}

// InputError reports a field that could not be parsed. It matches
// ErrInvalidInput.
type InputError struct {
	Field string
	Value string
	Err   error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidInput(field, raw string, cause error) error {
	return &InputError{Field: field, Value: raw, Err: cause}
}
