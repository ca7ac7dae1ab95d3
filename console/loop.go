package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"matchbook/domain/book"
	"matchbook/service"
)

// Loop reads instruction lines, applies them through the order
// service, and prints fills and the refreshed ladder after each one.
type Loop struct {
	svc   *service.OrderService
	out   io.Writer
	depth int
}

func NewLoop(svc *service.OrderService, out io.Writer, depth int) *Loop {
	return &Loop{svc: svc, out: out, depth: depth}
}

// Run processes lines from r until EXIT, end of input, or context
// cancellation. Bad instructions are reported and the loop continues.
func (l *Loop) Run(ctx context.Context, r io.Reader) error {
	l.printLadder()

	sc := bufio.NewScanner(r)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprintln(l.out, "Enter a command:")
		if !sc.Scan() {
			return sc.Err()
		}
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fmt.Fprintln(l.out)

		instr, err := Parse(line)
		if err != nil {
			fmt.Fprintf(l.out, "error: %v\n\n", err)
			continue
		}
		if instr.Verb == VerbExit {
			fmt.Fprintln(l.out, "Program terminating.")
			return nil
		}

		start := time.Now()
		res, execErr := l.svc.Execute(toCommand(instr))
		elapsed := time.Since(start)

		l.printReport(instr, res.Report, execErr)
		fmt.Fprintf(l.out, "Executed in %dµs\n\n", elapsed.Microseconds())
		l.printLadder()
	}
}

func toCommand(instr Instruction) service.Command {
	side := book.Bid
	if instr.Verb == VerbSell {
		side = book.Ask
	}
	return service.Command{Side: side, Qty: instr.Qty, Price: instr.Price}
}

func (l *Loop) printReport(instr Instruction, rep book.Report, execErr error) {
	action, past := "BUY", "Bought"
	if instr.Verb == VerbSell {
		action, past = "SELL", "Sold"
	}
	if instr.Market() {
		fmt.Fprintf(l.out, "Performing MARKET %s: %d @ market price\n\n", action, instr.Qty)
	} else {
		fmt.Fprintf(l.out, "Performing LIMIT %s: %d @ $%d\n\n", action, instr.Qty, instr.Price)
	}

	for _, f := range rep.Fills {
		fmt.Fprintf(l.out, "%s %d @ $%d\n", past, f.Qty, f.Price)
	}
	if !instr.Market() && rep.Rested() > 0 {
		fmt.Fprintf(l.out, "Placed %s order (%d @ $%d)\n", action, rep.Rested(), instr.Price)
	}
	fmt.Fprintln(l.out)

	switch {
	case execErr != nil && errors.Is(execErr, book.ErrInsufficientLiquidity):
		fmt.Fprintf(l.out, "error: insufficient liquidity, filled %d of %d\n", rep.Filled, rep.Requested)
	case execErr != nil:
		fmt.Fprintf(l.out, "error: %v\n", execErr)
	case rep.HasFills():
		fmt.Fprintf(l.out, "%s %d at an average price of $%.2f\n", past, rep.Filled, rep.AvgPrice)
	default:
		fmt.Fprintf(l.out, "%s 0\n", past)
	}
}

func (l *Loop) printLadder() {
	bids, asks := l.svc.Depth(l.depth)
	spread, err := l.svc.Spread()
	RenderLadder(l.out, bids, asks, spread, err, l.depth)
}
