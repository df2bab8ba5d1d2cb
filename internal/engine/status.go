package engine

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Status renders a multi-line snapshot of the session. Read-only.
func (e *Engine) Status() string {
	s := e.state

	var b strings.Builder
	fmt.Fprintf(&b, "shift clock     %s\n", SimClock(s.Elapsed))
	fmt.Fprintf(&b, "clips made      %s\n", humanize.Comma(int64(s.ClipsMade)))
	fmt.Fprintf(&b, "inventory       %s\n", humanize.Comma(int64(s.Inventory)))
	fmt.Fprintf(&b, "clips sold      %s\n", humanize.Comma(int64(s.ClipsSold)))
	fmt.Fprintf(&b, "funds           $%s\n", humanize.CommafWithDigits(s.Funds, 2))
	fmt.Fprintf(&b, "clip price      $%.2f\n", s.Price)
	fmt.Fprintf(&b, "demand index    %.2f\n", s.Demand)
	fmt.Fprintf(&b, "wire stock      %s (next batch $%.2f)\n", humanize.Comma(int64(s.Wire)), s.WireCost)
	fmt.Fprintf(&b, "autoclippers    %d @ %.2f/s (next $%.2f)\n", s.Clippers, s.ClipperRate, s.ClipperCost)

	if s.FactoryUnlocked {
		fmt.Fprintf(&b, "factories       %d @ %.2f/s (next $%.2f)\n", s.Factories, s.FactoryRate, s.FactoryCost)
	}
	if s.MarketingUnlocked {
		fmt.Fprintf(&b, "marketing       level %d (next $%.2f)\n", s.MarketingLevel, s.MarketingCost)
	}
	if s.OptimizeUnlocked {
		fmt.Fprintf(&b, "optimization    efficiency %d (next $%.2f)\n", s.ManualEfficiency, s.OptimizeCost)
	}
	fmt.Fprintf(&b, "trust           %d\n", s.Trust)
	fmt.Fprintf(&b, "reputation      %.2f", s.Reputation)
	return b.String()
}
