// Package cli is the numbered text menu front end.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"futuresbot/internal/actions"
	"futuresbot/logger"
)

const (
	exitChoice    = "7"
	invalidChoice = "Invalid choice!"

	promptSymbol     = "Futures Symbol (e.g., BTCUSDT): "
	promptSide       = "Side (BUY/SELL): "
	promptQuantity   = "Quantity (e.g., 0.001): "
	promptPrice      = "Limit Price (e.g., 80000): "
	promptStopPrice  = "Stop Price (e.g., 81000): "
	promptLimitPrice = "Limit Price (e.g., 81200): "
	promptOrderID    = "Order ID: "
	promptPositions  = "Futures Symbol (leave empty for all positions): "
)

type styles struct {
	header  lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	prompt  lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		success: r.NewStyle().Foreground(lipgloss.Color("42")),
		failure: r.NewStyle().Foreground(lipgloss.Color("196")),
		prompt:  r.NewStyle().Foreground(lipgloss.Color("39")),
	}
}

// Menu reads choices line by line until 7 or end of input.
type Menu struct {
	runner *actions.Runner
	in     *bufio.Scanner
	out    io.Writer
	log    *logger.Log
	style  styles
}

func New(runner *actions.Runner, in io.Reader, out io.Writer, log *logger.Log) *Menu {
	return &Menu{
		runner: runner,
		in:     bufio.NewScanner(in),
		out:    out,
		log:    log,
		style:  newStyles(out),
	}
}

// Run loops over the menu. End of input behaves like the exit choice.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		m.printMenu()
		choice, ok := m.ask("Enter choice (1-7): ")
		if !ok {
			return m.in.Err()
		}
		if choice == exitChoice {
			fmt.Fprintln(m.out, "Exiting...")
			return nil
		}

		kind, valid := kindForChoice(choice)
		if !valid {
			fmt.Fprintln(m.out, m.style.failure.Render(invalidChoice))
			continue
		}

		result, ok := m.run(ctx, kind)
		if !ok {
			return m.in.Err()
		}
		m.printResult(result)
	}
}

func kindForChoice(choice string) (actions.Kind, bool) {
	for i, k := range actions.Kinds {
		if choice == fmt.Sprint(i+1) {
			return k, true
		}
	}
	return "", false
}

func (m *Menu) printMenu() {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, m.style.header.Render("Binance Futures Trading Bot"))
	for i, k := range actions.Kinds {
		fmt.Fprintf(m.out, "%d. %s\n", i+1, k.Title())
	}
	fmt.Fprintf(m.out, "%s. Exit\n", exitChoice)
}

// ask prints prompt and returns the trimmed reply. ok is false at end of
// input.
func (m *Menu) ask(prompt string) (string, bool) {
	fmt.Fprint(m.out, m.style.prompt.Render(prompt))
	if !m.in.Scan() {
		fmt.Fprintln(m.out)
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// askAll asks each prompt in turn and stops early at end of input.
func (m *Menu) askAll(prompts ...string) ([]string, bool) {
	answers := make([]string, 0, len(prompts))
	for _, p := range prompts {
		answer, ok := m.ask(p)
		if !ok {
			return nil, false
		}
		answers = append(answers, answer)
	}
	return answers, true
}

func (m *Menu) run(ctx context.Context, kind actions.Kind) (actions.Result, bool) {
	m.log.WithComponent("cli").WithFields(logger.Fields{"action": string(kind)}).Debug("menu choice")

	switch kind {
	case actions.MarketOrder:
		a, ok := m.askAll(promptSymbol, promptSide, promptQuantity)
		if !ok {
			return actions.Result{}, false
		}
		return m.runner.PlaceMarketOrder(ctx, a[0], a[1], a[2]), true
	case actions.LimitOrder:
		a, ok := m.askAll(promptSymbol, promptSide, promptQuantity, promptPrice)
		if !ok {
			return actions.Result{}, false
		}
		return m.runner.PlaceLimitOrder(ctx, a[0], a[1], a[2], a[3]), true
	case actions.StopLimitOrder:
		a, ok := m.askAll(promptSymbol, promptSide, promptQuantity, promptStopPrice, promptLimitPrice)
		if !ok {
			return actions.Result{}, false
		}
		return m.runner.PlaceStopLimitOrder(ctx, a[0], a[1], a[2], a[3], a[4]), true
	case actions.OrderStatus:
		a, ok := m.askAll(promptSymbol, promptOrderID)
		if !ok {
			return actions.Result{}, false
		}
		return m.runner.CheckOrderStatus(ctx, a[0], a[1]), true
	case actions.AccountBalance:
		return m.runner.AccountBalance(ctx), true
	default:
		a, ok := m.askAll(promptPositions)
		if !ok {
			return actions.Result{}, false
		}
		return m.runner.PositionInfo(ctx, a[0]), true
	}
}

func (m *Menu) printResult(res actions.Result) {
	style := m.style.failure
	if res.OK {
		style = m.style.success
	}
	fmt.Fprintln(m.out, style.Render(res.Message))
	if res.Details != "" {
		fmt.Fprintln(m.out, strings.TrimRight(res.Details, "\n"))
	}
}
