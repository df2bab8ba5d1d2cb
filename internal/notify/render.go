// Rendering of structured engine events into notifications. The engine
// produces typed results; this adapter turns them into log lines so tests
// can assert on events instead of text.
package notify

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/calebmoore/clipfactory/internal/engine"
)

// Channel labels used across the session log.
const (
	ChannelOperator = "operator"
	ChannelFloor    = "floor"
	ChannelMarket   = "market"
	ChannelSupply   = "supply"
	ChannelSystem   = "system"
)

// Renderer writes engine events and results to a sink.
type Renderer struct {
	Sink Sink
}

// TickResult renders every event a tick produced.
func (r Renderer) TickResult(res engine.TickResult) {
	for _, ev := range res.Events {
		r.event(res.Elapsed, ev)
	}
}

func (r Renderer) event(elapsed uint64, ev engine.Event) {
	switch ev.Kind {
	case engine.EventUnlock:
		r.unlock(ev.Unlock)
	case engine.EventLowWire:
		r.Sink.Notify(Notification{
			Channel:  ChannelSupply,
			Message:  fmt.Sprintf("wire reserves low: %d spools left — restock soon", ev.Wire),
			Severity: SeverityWarning,
		})
	case engine.EventHeartbeat:
		r.Sink.Notify(Notification{
			Channel: ChannelSystem,
			Message: fmt.Sprintf("[%s] %s clips made, %s sold, $%s on hand",
				engine.SimClock(elapsed),
				humanize.Comma(int64(ev.Produced)),
				humanize.Comma(int64(ev.Sold)),
				humanize.CommafWithDigits(ev.Funds, 2)),
		})
	case engine.EventAutomationSummary:
		r.Sink.Notify(Notification{
			Channel: ChannelFloor,
			Message: fmt.Sprintf("automation produced %s clips (wire %s)",
				humanize.Comma(int64(ev.Produced)), humanize.Comma(int64(ev.Wire))),
		})
	case engine.EventSalesSummary:
		r.Sink.Notify(Notification{
			Channel: ChannelMarket,
			Message: fmt.Sprintf("sold %s clips, funds at $%s",
				humanize.Comma(int64(ev.Sold)), humanize.CommafWithDigits(ev.Funds, 2)),
		})
	}
}

func (r Renderer) unlock(u engine.Unlockable) {
	var msg string
	switch u {
	case engine.UnlockMarketing:
		msg = "marketing division unlocked — try 'launch marketing'"
	case engine.UnlockFactory:
		msg = "factory construction unlocked — try 'buy factory'"
	case engine.UnlockOptimization:
		msg = "line optimization unlocked — try 'optimize'"
	case engine.UnlockTrustMilestone:
		msg = "the board is impressed: +1 trust"
	default:
		msg = fmt.Sprintf("unlocked: %s", u)
	}
	r.Sink.Notify(Notification{Channel: ChannelSystem, Message: msg, Severity: SeveritySuccess})
}

// Fabricate renders a manual fabrication result.
func (r Renderer) Fabricate(res engine.FabricateResult) {
	if res.Produced == 0 {
		r.Sink.Notify(Notification{
			Channel:  ChannelFloor,
			Message:  "no wire on the spool — buy wire first",
			Severity: SeverityWarning,
		})
		return
	}
	r.Sink.Notify(Notification{
		Channel:  ChannelFloor,
		Message:  fmt.Sprintf("fabricated %d clip(s), wire %d", res.Produced, res.Wire),
		Severity: SeveritySuccess,
	})
}

// Purchase renders a purchase result, including partial fulfillment.
func (r Renderer) Purchase(res engine.PurchaseResult) {
	if res.Bought == 0 {
		r.Sink.Notify(Notification{
			Channel:  ChannelSupply,
			Message:  fmt.Sprintf("cannot buy %s: requirements not met", res.Item),
			Severity: SeverityWarning,
		})
		return
	}

	var msg string
	switch res.Item {
	case engine.ItemWire:
		msg = fmt.Sprintf("bought %d wire batch(es) for $%.2f (next $%.2f)",
			res.Bought, res.Spent, res.UnitCost)
	default:
		msg = fmt.Sprintf("bought %d %s(s) for $%.2f (next $%.2f)",
			res.Bought, res.Item, res.Spent, res.UnitCost)
	}
	if res.Partial {
		msg += fmt.Sprintf(" — only %d of %d affordable", res.Bought, res.Requested)
	}
	r.Sink.Notify(Notification{Channel: ChannelSupply, Message: msg, Severity: SeveritySuccess})
}

// Marketing renders a campaign launch result.
func (r Renderer) Marketing(res engine.MarketingResult) {
	if !res.OK {
		r.Sink.Notify(Notification{
			Channel:  ChannelMarket,
			Message:  "cannot launch marketing: locked or insufficient funds",
			Severity: SeverityWarning,
		})
		return
	}
	r.Sink.Notify(Notification{
		Channel:  ChannelMarket,
		Message:  fmt.Sprintf("marketing campaign live — level %d (next $%.2f)", res.Level, res.NextCost),
		Severity: SeveritySuccess,
	})
}

// Optimize renders a line-optimization result.
func (r Renderer) Optimize(res engine.OptimizeResult) {
	if !res.OK {
		r.Sink.Notify(Notification{
			Channel:  ChannelFloor,
			Message:  "cannot optimize: locked or insufficient funds",
			Severity: SeverityWarning,
		})
		return
	}
	r.Sink.Notify(Notification{
		Channel: ChannelFloor,
		Message: fmt.Sprintf("line optimized — efficiency %d, clipper rate %.2f/s, trust %d",
			res.ManualEfficiency, res.ClipperRate, res.Trust),
		Severity: SeveritySuccess,
	})
}

// Price renders a price mutation result.
func (r Renderer) Price(res engine.PriceResult) {
	if !res.OK {
		r.Sink.Notify(Notification{
			Channel: ChannelMarket,
			Message: fmt.Sprintf("price must stay between $%.2f and $%.2f (still $%.2f)",
				engine.PriceMin, engine.PriceMax, res.Price),
			Severity: SeverityWarning,
		})
		return
	}
	r.Sink.Notify(Notification{
		Channel:  ChannelMarket,
		Message:  fmt.Sprintf("clip price set to $%.2f", res.Price),
		Severity: SeveritySuccess,
	})
}
