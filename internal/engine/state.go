// Package engine owns the factory simulation: tick-driven production,
// demand-driven sales, cost-curve purchases, and milestone unlocks.
package engine

import "math"

// Tuning constants. Values are behavioral contract — changing them changes
// the balance of every session.
const (
	TickSeconds = 1 // fixed simulation step

	StartFunds         = 28.0
	StartPrice         = 0.25
	StartWire          = 650
	WireBatch          = 650
	StartWireCost      = 14.0
	StartClipperCost   = 18.0
	StartFactoryCost   = 420.0
	StartMarketingCost = 140.0
	StartOptimizeCost  = 160.0
	StartClipperRate   = 1.8
	StartFactoryRate   = 55.0

	PriceMin = 0.05
	PriceMax = 2.50

	// Geometric cost growth per purchase.
	ClipperCostGrowth   = 1.14
	FactoryCostGrowth   = 1.18
	WireCostGrowth      = 1.06
	MarketingCostGrowth = 1.42
	OptimizeCostGrowth  = 1.55

	// Demand model.
	MarketingBoostPerLevel = 0.35
	TrustBoostPerPoint     = 0.12
	ReputationDivisor      = 1500.0
	ReputationBoostCap     = 0.6
	DemandBase             = 1.45
	PricePenaltySlope      = 6.0
	PricePenaltyKnee       = 0.5
	PricePenaltyKneeSlope  = 8.0
	PriceReference         = 0.25
	InventoryGlutDivisor   = 4200.0
	InventoryGlutExponent  = 1.15
	DemandNoiseAmplitude   = 0.06
	SellMultiplier         = 8.0

	ReputationPerClip = 0.0025

	// Optimization compounding.
	OptimizeClipperRateBoost = 1.08
	OptimizeFactoryRateBoost = 1.04

	LowWireThreshold = 40

	// Milestone thresholds, evaluated against lifetime sales.
	MarketingUnlockSales  = 120
	FactoryUnlockSales    = 360
	FactoryUnlockClippers = 4
	OptimizeUnlockSales   = 520
	TrustMilestoneSales   = 1200

	// Notification cadence, in ticks.
	HeartbeatEvery         = 15
	AutomationSummaryEvery = 8
	SalesSummaryEvery      = 10
)

// State is the full mutable simulation aggregate. It is owned exclusively by
// an Engine; nothing outside this package mutates it.
type State struct {
	Elapsed   uint64 // simulated seconds, fixed-step
	ClipsMade uint64
	Inventory uint64
	ClipsSold uint64

	Funds  float64
	Price  float64
	Demand float64 // recomputed from scratch every tick, never persisted

	Wire     uint64
	WireCost float64

	Clippers    uint64
	ClipperCost float64
	ClipperRate float64

	Factories   uint64
	FactoryCost float64
	FactoryRate float64

	MarketingLevel int
	MarketingCost  float64

	ManualEfficiency int
	OptimizeCost     float64

	Trust      int
	Reputation float64

	// One-way unlock flags.
	MarketingUnlocked bool
	FactoryUnlocked   bool
	OptimizeUnlocked  bool
	TrustMilestone    bool

	// Resets when wire is restocked.
	LowWireWarned bool

	// Fractional remainders carried tick to tick so floor() loses nothing.
	ProductionCarry float64
	SellCarry       float64
}

// NewState returns the session-start aggregate.
func NewState() *State {
	return &State{
		Funds:            StartFunds,
		Price:            StartPrice,
		Wire:             StartWire,
		WireCost:         StartWireCost,
		ClipperCost:      StartClipperCost,
		ClipperRate:      StartClipperRate,
		FactoryCost:      StartFactoryCost,
		FactoryRate:      StartFactoryRate,
		MarketingCost:    StartMarketingCost,
		OptimizeCost:     StartOptimizeCost,
		ManualEfficiency: 1,
	}
}

// AutomationRate is the combined clips-per-tick output of all automation.
func (s *State) AutomationRate() float64 {
	return float64(s.Clippers)*s.ClipperRate + float64(s.Factories)*s.FactoryRate
}

// View is a read-only snapshot handed to presentation layers, so policy
// tables never capture a live engine reference.
type View struct {
	Elapsed   uint64
	ClipsMade uint64
	Inventory uint64
	ClipsSold uint64

	Funds  float64
	Price  float64
	Demand float64

	Wire     uint64
	WireCost float64

	Clippers    uint64
	ClipperCost float64
	ClipperRate float64

	Factories   uint64
	FactoryCost float64
	FactoryRate float64

	MarketingLevel int
	MarketingCost  float64

	ManualEfficiency int
	OptimizeCost     float64

	Trust      int
	Reputation float64

	MarketingUnlocked bool
	FactoryUnlocked   bool
	OptimizeUnlocked  bool
}

// round2 rounds to two decimal places. Cost curves round at every step, so
// growth compounds on the rounded value.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
