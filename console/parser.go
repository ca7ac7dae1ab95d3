package console

import (
	"fmt"
	"strconv"
	"strings"
)

// Verb is the leading word of an instruction line.
type Verb int

const (
	VerbBuy Verb = iota
	VerbSell
	VerbExit
)

// Instruction is one parsed line: a verb, a quantity, and an optional
// price. Price zero means a market instruction.
type Instruction struct {
	Verb  Verb
	Qty   int64
	Price int64
}

// Market reports whether no price was supplied.
func (i Instruction) Market() bool { return i.Price == 0 }

// Parse tokenizes one command line. The format is
//
//	BUY  <qty> [price]
//	SELL <qty> [price]
//	EXIT
//
// Quantity and price must be positive integers. Tokens beyond the
// price are ignored. All failures are per-instruction errors; callers
// report them and keep reading.
func Parse(line string) (Instruction, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Instruction{}, fmt.Errorf("no command specified")
	}

	switch fields[0] {
	case "EXIT":
		return Instruction{Verb: VerbExit}, nil
	case "BUY", "SELL":
	default:
		return Instruction{}, fmt.Errorf("unknown command %q", fields[0])
	}

	instr := Instruction{Verb: VerbBuy}
	if fields[0] == "SELL" {
		instr.Verb = VerbSell
	}

	if len(fields) < 2 {
		return Instruction{}, fmt.Errorf("no quantity provided")
	}
	qty, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Instruction{}, fmt.Errorf("invalid quantity %q", fields[1])
	}
	if qty <= 0 {
		return Instruction{}, fmt.Errorf("quantity must be positive")
	}
	instr.Qty = qty

	if len(fields) >= 3 {
		price, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return Instruction{}, fmt.Errorf("invalid price %q", fields[2])
		}
		if price <= 0 {
			return Instruction{}, fmt.Errorf("price must be positive")
		}
		instr.Price = price
	}
	return instr, nil
}
