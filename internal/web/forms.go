package web

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

type orderForm struct {
	Symbol     string `form:"symbol" validate:"required"`
	Side       string `form:"side" validate:"required,oneof=BUY SELL"`
	Quantity   string `form:"quantity"`
	Price      string `form:"price"`
	StopPrice  string `form:"stop_price"`
	LimitPrice string `form:"limit_price"`
}

type statusForm struct {
	Symbol  string `form:"symbol" validate:"required"`
	OrderID string `form:"order_id"`
}

type positionsForm struct {
	Symbol string `form:"symbol"`
}

func (f orderForm) values() map[string]string {
	return map[string]string{
		"symbol":      f.Symbol,
		"side":        f.Side,
		"quantity":    f.Quantity,
		"price":       f.Price,
		"stop_price":  f.StopPrice,
		"limit_price": f.LimitPrice,
	}
}

func (f statusForm) values() map[string]string {
	return map[string]string{"symbol": f.Symbol, "order_id": f.OrderID}
}

func (f positionsForm) values() map[string]string {
	return map[string]string{"symbol": f.Symbol}
}

// formatValidationError lists the failed rule per field, sorted by field.
func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	lines := make([]string, 0, len(verrs))
	for _, e := range verrs {
		lines = append(lines, fmt.Sprintf("%s failed on tag '%s'", e.Field(), e.Tag()))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}
