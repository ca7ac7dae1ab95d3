package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"matchbook/service"
)

// Seed applies an initial batch of limit instructions to the service,
// one "BUY qty price" or "SELL qty price" per line. Blank lines and
// lines starting with '#' are skipped. Market and EXIT lines are
// rejected: the seed must leave only resting liquidity behind.
// Returns the number of instructions applied.
func Seed(svc *service.OrderService, r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	applied := 0
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		instr, err := Parse(line)
		if err != nil {
			return applied, fmt.Errorf("seed line %d: %w", lineNo, err)
		}
		if instr.Verb == VerbExit {
			return applied, fmt.Errorf("seed line %d: EXIT not allowed in seed", lineNo)
		}
		if instr.Market() {
			return applied, fmt.Errorf("seed line %d: seed instructions require a price", lineNo)
		}

		if _, err := svc.Execute(toCommand(instr)); err != nil {
			return applied, fmt.Errorf("seed line %d: %w", lineNo, err)
		}
		applied++
	}
	if err := sc.Err(); err != nil {
		return applied, err
	}
	return applied, nil
}
