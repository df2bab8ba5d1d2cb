package engine

import (
	"math"

	"github.com/calebmoore/clipfactory/internal/entropy"
)

// Engine drives one factory session. It is single-threaded by contract:
// Tick and the action methods run to completion and are never called
// concurrently.
type Engine struct {
	state *State
	rng   entropy.Source

	// Counters backing the throttled tick summaries.
	lastSummaryMade uint64
	lastSummarySold uint64
}

// New creates an engine with session-start state and the given noise source.
func New(rng entropy.Source) *Engine {
	return &Engine{
		state: NewState(),
		rng:   rng,
	}
}

// View returns a read-only snapshot of the current state.
func (e *Engine) View() View {
	s := e.state
	return View{
		Elapsed:           s.Elapsed,
		ClipsMade:         s.ClipsMade,
		Inventory:         s.Inventory,
		ClipsSold:         s.ClipsSold,
		Funds:             s.Funds,
		Price:             s.Price,
		Demand:            s.Demand,
		Wire:              s.Wire,
		WireCost:          s.WireCost,
		Clippers:          s.Clippers,
		ClipperCost:       s.ClipperCost,
		ClipperRate:       s.ClipperRate,
		Factories:         s.Factories,
		FactoryCost:       s.FactoryCost,
		FactoryRate:       s.FactoryRate,
		MarketingLevel:    s.MarketingLevel,
		MarketingCost:     s.MarketingCost,
		ManualEfficiency:  s.ManualEfficiency,
		OptimizeCost:      s.OptimizeCost,
		Trust:             s.Trust,
		Reputation:        s.Reputation,
		MarketingUnlocked: s.MarketingUnlocked,
		FactoryUnlocked:   s.FactoryUnlocked,
		OptimizeUnlocked:  s.OptimizeUnlocked,
	}
}

// Affordability predicates. Presentation layers use these to decide
// enabled/disabled surfaces without duplicating business rules.

func (e *Engine) CanFabricate() bool { return e.state.Wire > 0 }

func (e *Engine) CanBuyAutoclipper() bool {
	return e.state.Funds >= e.state.ClipperCost && e.state.Wire > 0
}

func (e *Engine) CanBuyFactory() bool {
	return e.state.FactoryUnlocked &&
		e.state.Funds >= e.state.FactoryCost &&
		e.state.Clippers >= 3
}

func (e *Engine) CanBuyWire() bool {
	return e.state.Funds >= e.state.WireCost
}

func (e *Engine) CanLaunchMarketing() bool {
	return e.state.MarketingUnlocked && e.state.Funds >= e.state.MarketingCost
}

func (e *Engine) CanOptimize() bool {
	return e.state.OptimizeUnlocked && e.state.Funds >= e.state.OptimizeCost
}

// produce converts wire into clips. The fractional remainder of the request
// is carried so repeated sub-unit rates still accumulate into whole clips.
// Returns whole clips produced; may be 0 with wire in stock if the carried
// request has not yet reached 1.
func (e *Engine) produce(requested float64) uint64 {
	s := e.state
	if s.Wire == 0 || requested <= 0 {
		return 0
	}

	producible := math.Min(requested+s.ProductionCarry, float64(s.Wire))
	produced := math.Floor(producible)
	s.ProductionCarry = producible - produced

	n := uint64(produced)
	s.Wire -= n
	s.Inventory += n
	s.ClipsMade += n
	s.Reputation += produced * ReputationPerClip
	return n
}

// FabricateResult reports one manual fabrication.
type FabricateResult struct {
	Produced uint64
	Wire     uint64 // stock remaining
}

// Fabricate produces clips by hand: the manual-efficiency level decides how
// many clips one action requests.
func (e *Engine) Fabricate() FabricateResult {
	requested := float64(e.state.ManualEfficiency)
	if requested < 1 {
		requested = 1
	}
	n := e.produce(requested)
	return FabricateResult{Produced: n, Wire: e.state.Wire}
}

// Item identifies a purchasable category.
type Item string

const (
	ItemAutoclipper Item = "autoclipper"
	ItemFactory     Item = "factory"
	ItemWire        Item = "wire"
)

// PurchaseResult reports a (possibly partial) multi-unit purchase. Zero
// bought is a failure; fewer than requested is partial fulfillment, still a
// qualified success.
type PurchaseResult struct {
	Item      Item
	Requested int
	Bought    int
	Spent     float64
	UnitCost  float64 // next-unit cost after the purchase
	Partial   bool
}

// BuyAutoclippers buys up to n autoclippers, stopping when funds or wire
// run out. Cost grows 14% per unit, rounded at each step.
func (e *Engine) BuyAutoclippers(n int) PurchaseResult {
	res := PurchaseResult{Item: ItemAutoclipper, Requested: n}
	s := e.state
	for res.Bought < n && e.CanBuyAutoclipper() {
		s.Funds -= s.ClipperCost
		res.Spent += s.ClipperCost
		s.Clippers++
		s.ClipperCost = round2(s.ClipperCost * ClipperCostGrowth)
		res.Bought++
	}
	res.UnitCost = s.ClipperCost
	res.Partial = res.Bought > 0 && res.Bought < n
	return res
}

// BuyFactories buys up to n factories. Requires the factory unlock and at
// least three autoclippers; cost grows 18% per unit.
func (e *Engine) BuyFactories(n int) PurchaseResult {
	res := PurchaseResult{Item: ItemFactory, Requested: n}
	s := e.state
	for res.Bought < n && e.CanBuyFactory() {
		s.Funds -= s.FactoryCost
		res.Spent += s.FactoryCost
		s.Factories++
		s.FactoryCost = round2(s.FactoryCost * FactoryCostGrowth)
		res.Bought++
	}
	res.UnitCost = s.FactoryCost
	res.Partial = res.Bought > 0 && res.Bought < n
	return res
}

// BuyWire buys up to n wire batches. Each purchase adds a full batch, clears
// the low-wire warning, and bumps the unit cost 6% on top of a small random
// jitter so the wire market never sits perfectly still.
func (e *Engine) BuyWire(n int) PurchaseResult {
	res := PurchaseResult{Item: ItemWire, Requested: n}
	s := e.state
	for res.Bought < n && e.CanBuyWire() {
		s.Funds -= s.WireCost
		res.Spent += s.WireCost
		s.Wire += WireBatch
		s.LowWireWarned = false
		jitter := e.rng.Float() * 0.5
		s.WireCost = round2((s.WireCost + jitter) * WireCostGrowth)
		res.Bought++
	}
	res.UnitCost = s.WireCost
	res.Partial = res.Bought > 0 && res.Bought < n
	return res
}

// MarketingResult reports a marketing campaign launch.
type MarketingResult struct {
	OK       bool
	Level    int
	Spent    float64
	NextCost float64
}

// LaunchMarketing runs one campaign: +1 marketing level, cost up 42%.
func (e *Engine) LaunchMarketing() MarketingResult {
	s := e.state
	if !e.CanLaunchMarketing() {
		return MarketingResult{Level: s.MarketingLevel, NextCost: s.MarketingCost}
	}
	spent := s.MarketingCost
	s.Funds -= spent
	s.MarketingLevel++
	s.MarketingCost = round2(s.MarketingCost * MarketingCostGrowth)
	return MarketingResult{OK: true, Level: s.MarketingLevel, Spent: spent, NextCost: s.MarketingCost}
}

// OptimizeResult reports one line-optimization pass.
type OptimizeResult struct {
	OK               bool
	ManualEfficiency int
	ClipperRate      float64
	FactoryRate      float64
	Trust            int
	Spent            float64
	NextCost         float64
}

// Optimize overhauls the line: +1 manual efficiency, compounding rate boosts
// for both automation tiers, +1 trust, cost up 55%.
func (e *Engine) Optimize() OptimizeResult {
	s := e.state
	if !e.CanOptimize() {
		return OptimizeResult{
			ManualEfficiency: s.ManualEfficiency,
			ClipperRate:      s.ClipperRate,
			FactoryRate:      s.FactoryRate,
			Trust:            s.Trust,
			NextCost:         s.OptimizeCost,
		}
	}
	spent := s.OptimizeCost
	s.Funds -= spent
	s.ManualEfficiency++
	s.ClipperRate *= OptimizeClipperRateBoost
	s.FactoryRate *= OptimizeFactoryRateBoost
	s.OptimizeCost = round2(s.OptimizeCost * OptimizeCostGrowth)
	s.Trust++
	return OptimizeResult{
		OK:               true,
		ManualEfficiency: s.ManualEfficiency,
		ClipperRate:      s.ClipperRate,
		FactoryRate:      s.FactoryRate,
		Trust:            s.Trust,
		Spent:            spent,
		NextCost:         s.OptimizeCost,
	}
}

// PriceResult reports a price mutation attempt.
type PriceResult struct {
	OK    bool
	Price float64 // current price after the attempt
}

// SetPrice sets an absolute clip price. Values outside [PriceMin, PriceMax]
// are rejected without mutating state; accepted values round to cents.
func (e *Engine) SetPrice(v float64) PriceResult {
	if v < PriceMin || v > PriceMax || math.IsNaN(v) {
		return PriceResult{Price: e.state.Price}
	}
	e.state.Price = round2(v)
	return PriceResult{OK: true, Price: e.state.Price}
}

// AdjustPrice shifts the clip price by a signed delta, with the same bound
// check as SetPrice.
func (e *Engine) AdjustPrice(delta float64) PriceResult {
	return e.SetPrice(e.state.Price + delta)
}
