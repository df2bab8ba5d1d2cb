// Tick sequencing: production, sales, demand, unlocks, alerts.
package engine

import (
	"fmt"
	"math"
)

// EventKind tags a structured tick event.
type EventKind string

const (
	EventUnlock            EventKind = "unlock"
	EventLowWire           EventKind = "low_wire"
	EventHeartbeat         EventKind = "heartbeat"
	EventAutomationSummary EventKind = "automation_summary"
	EventSalesSummary      EventKind = "sales_summary"
)

// Unlockable identifies a milestone-gated feature.
type Unlockable string

const (
	UnlockMarketing      Unlockable = "marketing"
	UnlockFactory        Unlockable = "factory"
	UnlockOptimization   Unlockable = "optimization"
	UnlockTrustMilestone Unlockable = "trust_milestone"
)

// Event is one structured occurrence produced by a tick. The engine never
// formats notifications itself; an adapter renders these.
type Event struct {
	Kind   EventKind
	Unlock Unlockable // set for EventUnlock

	// Counters for summary events.
	Produced uint64
	Sold     uint64
	Wire     uint64
	Funds    float64
}

// TickResult reports one simulation step.
type TickResult struct {
	Elapsed  uint64
	Produced uint64 // automation output this tick
	Sold     uint64
	Revenue  float64
	Demand   float64
	Events   []Event
}

// Tick advances the simulation by one fixed step. Stage order matters: each
// stage reads what the previous one produced.
func (e *Engine) Tick() TickResult {
	s := e.state
	s.Elapsed += TickSeconds

	res := TickResult{Elapsed: s.Elapsed}

	// Automation production.
	if rate := s.AutomationRate(); rate > 0 {
		res.Produced = e.produce(rate)
	}

	// Sales: demand from the previous tick plus the carried remainder.
	desired := s.Demand*SellMultiplier + s.SellCarry
	sold := math.Floor(desired)
	if float64(s.Inventory) < sold {
		sold = float64(s.Inventory)
	}
	n := uint64(sold)
	s.SellCarry = desired - sold
	s.Inventory -= n
	s.ClipsSold += n
	revenue := sold * s.Price
	s.Funds += revenue
	res.Sold = n
	res.Revenue = revenue

	// Demand for the next tick, recomputed from scratch.
	s.Demand = e.computeDemand()
	res.Demand = s.Demand

	res.Events = append(res.Events, e.checkUnlocks()...)

	// Low-wire alert, once per depletion.
	if s.Wire < LowWireThreshold && !s.LowWireWarned {
		s.LowWireWarned = true
		res.Events = append(res.Events, Event{Kind: EventLowWire, Wire: s.Wire})
	}

	res.Events = append(res.Events, e.periodicEvents()...)
	return res
}

// computeDemand derives the demand index from marketing, trust, reputation,
// price, and inventory glut, plus one bounded noise term — the engine's only
// nondeterminism.
func (e *Engine) computeDemand() float64 {
	s := e.state

	marketingBoost := 1 + float64(s.MarketingLevel)*MarketingBoostPerLevel
	trustBoost := 1 + float64(s.Trust)*TrustBoostPerPoint
	reputationBoost := 1 + math.Min(s.Reputation/ReputationDivisor, ReputationBoostCap)
	base := DemandBase * marketingBoost * trustBoost * reputationBoost

	pricePenalty := (s.Price-PriceReference)*PricePenaltySlope +
		math.Max(s.Price-PricePenaltyKnee, 0)*PricePenaltyKneeSlope
	glutPenalty := math.Pow(float64(s.Inventory)/InventoryGlutDivisor, InventoryGlutExponent)

	noise := (e.rng.Float()*2 - 1) * DemandNoiseAmplitude
	return math.Max(0, base-pricePenalty-glutPenalty+noise)
}

// checkUnlocks flips milestone flags one-way, one event per flip.
func (e *Engine) checkUnlocks() []Event {
	s := e.state
	var events []Event

	if !s.MarketingUnlocked && s.ClipsSold >= MarketingUnlockSales {
		s.MarketingUnlocked = true
		events = append(events, Event{Kind: EventUnlock, Unlock: UnlockMarketing})
	}
	if !s.FactoryUnlocked && s.Clippers >= FactoryUnlockClippers && s.ClipsSold >= FactoryUnlockSales {
		s.FactoryUnlocked = true
		events = append(events, Event{Kind: EventUnlock, Unlock: UnlockFactory})
	}
	if !s.OptimizeUnlocked && s.ClipsSold >= OptimizeUnlockSales {
		s.OptimizeUnlocked = true
		events = append(events, Event{Kind: EventUnlock, Unlock: UnlockOptimization})
	}
	if !s.TrustMilestone && s.ClipsSold >= TrustMilestoneSales {
		s.TrustMilestone = true
		s.Trust++
		events = append(events, Event{Kind: EventUnlock, Unlock: UnlockTrustMilestone})
	}
	return events
}

// periodicEvents emits the heartbeat and the throttled production/sales
// summaries. Presentation only; state is untouched beyond the summary
// baselines.
func (e *Engine) periodicEvents() []Event {
	s := e.state
	var events []Event

	if s.Elapsed%AutomationSummaryEvery == 0 {
		made := s.ClipsMade - e.lastSummaryMade
		e.lastSummaryMade = s.ClipsMade
		if made > 0 && s.AutomationRate() > 0 {
			events = append(events, Event{Kind: EventAutomationSummary, Produced: made, Wire: s.Wire})
		}
	}

	if s.Elapsed%SalesSummaryEvery == 0 {
		sold := s.ClipsSold - e.lastSummarySold
		e.lastSummarySold = s.ClipsSold
		if sold > 0 {
			events = append(events, Event{Kind: EventSalesSummary, Sold: sold, Funds: s.Funds})
		}
	}

	if s.Elapsed%HeartbeatEvery == 0 {
		events = append(events, Event{
			Kind:     EventHeartbeat,
			Produced: s.ClipsMade,
			Sold:     s.ClipsSold,
			Wire:     s.Wire,
			Funds:    s.Funds,
		})
	}

	return events
}

// SimClock formats elapsed seconds as a shift clock.
func SimClock(elapsed uint64) string {
	h := elapsed / 3600
	m := elapsed / 60 % 60
	sec := elapsed % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
}
