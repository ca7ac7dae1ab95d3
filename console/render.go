package console

import (
	"fmt"
	"io"
	"strings"

	"matchbook/domain/book"
)

const rule = "-------------------------------"

// Bars wider than this are truncated so deep levels keep the ladder
// readable.
const maxBarWidth = 40

// RenderLadder writes the book snapshot as a price ladder: the top
// ask levels descending toward the spread, the spread in basis points
// (or a one-sided marker), then the top bid levels descending away
// from it. Each line carries the level's open quantity, a depth bar,
// and the per-order open sizes in queue order.
func RenderLadder(w io.Writer, bids, asks []book.LevelSnapshot, spread float64, spreadErr error, depth int) {
	fmt.Fprintln(w, "===============================")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-7s %8s\n", "PRICE", "QUANTITY")
	fmt.Fprintln(w)

	for i := len(asks); i < depth; i++ {
		fmt.Fprintln(w)
	}
	// asks print worst-of-the-top first so the best ask sits just
	// above the spread line
	for i := len(asks) - 1; i >= 0; i-- {
		renderLevel(w, asks[i])
	}

	fmt.Fprintln(w, rule)
	if spreadErr != nil {
		fmt.Fprintln(w, "one-sided book")
	} else {
		fmt.Fprintf(w, "%.2fbps\n", spread)
	}
	fmt.Fprintln(w, rule)

	for _, lvl := range bids {
		renderLevel(w, lvl)
	}
	for i := len(bids); i < depth; i++ {
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

func renderLevel(w io.Writer, lvl book.LevelSnapshot) {
	fmt.Fprintf(w, "$%-6d %8d %s %v\n", lvl.Price, lvl.OpenQty, depthBar(lvl.OpenQty), lvl.Orders)
}

func depthBar(qty int64) string {
	n := qty
	if n > maxBarWidth {
		n = maxBarWidth
	}
	return strings.Repeat("#", int(n))
}
