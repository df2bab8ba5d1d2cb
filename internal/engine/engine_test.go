package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebmoore/clipfactory/internal/entropy"
)

// newTestEngine pins the noise source to its midpoint, which cancels the
// demand noise term entirely.
func newTestEngine() *Engine {
	return New(entropy.Fixed(0.5))
}

func TestNewStateInitialValues(t *testing.T) {
	v := newTestEngine().View()

	assert.Equal(t, 28.0, v.Funds)
	assert.Equal(t, 0.25, v.Price)
	assert.Equal(t, uint64(650), v.Wire)
	assert.Equal(t, 18.0, v.ClipperCost)
	assert.Equal(t, 420.0, v.FactoryCost)
	assert.Equal(t, 140.0, v.MarketingCost)
	assert.Equal(t, 160.0, v.OptimizeCost)
	assert.Equal(t, 1, v.ManualEfficiency)
	assert.Equal(t, 1.8, v.ClipperRate)
	assert.Equal(t, 55.0, v.FactoryRate)
	assert.Zero(t, v.ClipsMade)
	assert.Zero(t, v.ClipsSold)
	assert.Zero(t, v.Trust)
	assert.False(t, v.MarketingUnlocked)
	assert.False(t, v.FactoryUnlocked)
	assert.False(t, v.OptimizeUnlocked)
}

func TestFreshSessionScenario(t *testing.T) {
	e := newTestEngine()

	for i := 0; i < 5; i++ {
		res := e.Fabricate()
		require.Equal(t, uint64(1), res.Produced)
	}
	v := e.View()
	assert.Equal(t, uint64(5), v.Inventory)
	assert.Equal(t, uint64(645), v.Wire)

	buy := e.BuyAutoclippers(1)
	require.Equal(t, 1, buy.Bought)
	assert.False(t, buy.Partial)

	v = e.View()
	assert.Equal(t, 10.0, v.Funds)
	assert.Equal(t, 20.52, v.ClipperCost)
	assert.Equal(t, uint64(1), v.Clippers)

	res := e.Tick()
	v = e.View()
	// One clipper at 1.8/s: floor(1.8) produced, 0.8 carried.
	assert.Equal(t, uint64(1), res.Produced)
	assert.Equal(t, uint64(6), v.Inventory)
	assert.InDelta(t, 0.8, e.state.ProductionCarry, 1e-9)
	assert.GreaterOrEqual(t, res.Demand, 0.0)
	assert.Greater(t, res.Demand, 1.0) // base demand at start price
}

func TestProductionCarryConservation(t *testing.T) {
	e := newTestEngine()
	require.Equal(t, 1, e.BuyAutoclippers(1).Bought)

	const k = 50
	var produced uint64
	for i := 0; i < k; i++ {
		produced += e.Tick().Produced
	}

	// No clips lost or invented by flooring: wire consumed matches clips
	// produced, and the requested total matches produced plus the carry.
	assert.Equal(t, produced, StartWire-e.state.Wire)
	assert.InDelta(t, 1.8*k, float64(produced)+e.state.ProductionCarry, 1e-6)
}

func TestProduceZeroCases(t *testing.T) {
	e := newTestEngine()

	e.state.Wire = 0
	res := e.Fabricate()
	assert.Zero(t, res.Produced)
	assert.False(t, e.CanFabricate())

	// Sub-unit request with stock: first call may yield zero, carry builds.
	e2 := newTestEngine()
	n := e2.produce(0.4)
	assert.Zero(t, n)
	assert.InDelta(t, 0.4, e2.state.ProductionCarry, 1e-9)
	n = e2.produce(0.4)
	assert.Zero(t, n)
	n = e2.produce(0.4)
	assert.Equal(t, uint64(1), n)
	assert.InDelta(t, 0.2, e2.state.ProductionCarry, 1e-9)
}

func TestClipperCostCompoundsStepwise(t *testing.T) {
	e := newTestEngine()
	e.state.Funds = 1e9

	expected := StartClipperCost
	for i := 0; i < 12; i++ {
		require.Equal(t, 1, e.BuyAutoclippers(1).Bought)
		expected = round2(expected * ClipperCostGrowth)
		assert.Equal(t, expected, e.state.ClipperCost, "purchase %d", i+1)
	}
}

func TestPartialPurchase(t *testing.T) {
	e := newTestEngine()
	e.state.Funds = 1.5 * e.state.ClipperCost

	res := e.BuyAutoclippers(5)
	assert.Equal(t, 5, res.Requested)
	assert.Equal(t, 1, res.Bought)
	assert.True(t, res.Partial)
	assert.GreaterOrEqual(t, e.state.Funds, 0.0)
}

func TestZeroPurchaseIsFailure(t *testing.T) {
	e := newTestEngine()
	e.state.Funds = 0

	res := e.BuyAutoclippers(3)
	assert.Zero(t, res.Bought)
	assert.False(t, res.Partial)
	assert.Zero(t, res.Spent)
	assert.Zero(t, e.state.Clippers)
}

func TestFactoryPurchaseGates(t *testing.T) {
	e := newTestEngine()
	e.state.Funds = 1e6

	// Locked: no purchase even with money.
	assert.Zero(t, e.BuyFactories(1).Bought)

	e.state.FactoryUnlocked = true
	// Still needs three clippers on the floor.
	assert.False(t, e.CanBuyFactory())
	require.Equal(t, 3, e.BuyAutoclippers(3).Bought)
	require.True(t, e.CanBuyFactory())

	res := e.BuyFactories(2)
	assert.Equal(t, 2, res.Bought)
	assert.Equal(t, uint64(2), e.state.Factories)
	// 420 * 1.18 = 495.60, then * 1.18 again.
	assert.Equal(t, round2(round2(420.0*1.18)*1.18), e.state.FactoryCost)
}

func TestBuyWireRestocksAndClearsWarning(t *testing.T) {
	e := newTestEngine()
	e.state.Wire = 10
	e.Tick()
	require.True(t, e.state.LowWireWarned)

	before := e.state.WireCost
	res := e.BuyWire(1)
	require.Equal(t, 1, res.Bought)
	assert.False(t, e.state.LowWireWarned)
	assert.GreaterOrEqual(t, e.state.Wire, uint64(WireBatch))
	assert.Greater(t, e.state.WireCost, before)
}

func TestPriceBounds(t *testing.T) {
	e := newTestEngine()

	res := e.SetPrice(3.00)
	assert.False(t, res.OK)
	assert.Equal(t, 0.25, e.state.Price)

	res = e.SetPrice(0.04)
	assert.False(t, res.OK)
	assert.Equal(t, 0.25, e.state.Price)

	res = e.SetPrice(1.00)
	assert.True(t, res.OK)
	assert.Equal(t, 1.00, e.state.Price)

	// Accepted values round to cents.
	res = e.SetPrice(0.333)
	assert.True(t, res.OK)
	assert.Equal(t, 0.33, e.state.Price)

	res = e.AdjustPrice(-0.30)
	assert.False(t, res.OK)
	assert.Equal(t, 0.33, e.state.Price)

	res = e.AdjustPrice(0.10)
	assert.True(t, res.OK)
	assert.Equal(t, 0.43, e.state.Price)
}

func TestDemandNeverNegative(t *testing.T) {
	e := New(entropy.Fixed(0)) // most negative noise
	e.state.Inventory = 10000
	e.state.Price = 2.50

	res := e.Tick()
	assert.Equal(t, 0.0, res.Demand)
	assert.GreaterOrEqual(t, e.state.Demand, 0.0)
}

func TestDemandBoosts(t *testing.T) {
	e := newTestEngine()
	base := e.computeDemand()

	e.state.MarketingLevel = 2
	boosted := e.computeDemand()
	assert.InDelta(t, base*(1+2*MarketingBoostPerLevel), boosted, 1e-9)

	e.state.MarketingLevel = 0
	e.state.Trust = 3
	assert.InDelta(t, base*(1+3*TrustBoostPerPoint), e.computeDemand(), 1e-9)

	// Reputation boost caps at +60% no matter how large it grows.
	e.state.Trust = 0
	e.state.Reputation = 1e9
	assert.InDelta(t, base*1.6, e.computeDemand(), 1e-9)
}

func TestSalesResolution(t *testing.T) {
	e := newTestEngine()
	e.state.Inventory = 100
	e.state.Demand = 1.1
	e.state.Price = 0.25

	res := e.Tick()
	// desired = 1.1 * 8 = 8.8 → 8 sold, 0.8 carried.
	assert.Equal(t, uint64(8), res.Sold)
	assert.InDelta(t, 0.8, e.state.SellCarry, 1e-9)
	assert.InDelta(t, 8*0.25, res.Revenue, 1e-9)
	assert.Equal(t, uint64(92), e.state.Inventory)
	assert.Equal(t, uint64(8), e.state.ClipsSold)
}

func TestSalesLimitedByInventory(t *testing.T) {
	e := newTestEngine()
	e.state.Inventory = 3
	e.state.Demand = 1.0

	res := e.Tick()
	// desired = 8, only 3 in stock; unmet demand carries forward.
	assert.Equal(t, uint64(3), res.Sold)
	assert.Zero(t, e.state.Inventory)
	assert.InDelta(t, 5.0, e.state.SellCarry, 1e-9)
}

func TestUnlockFlagsFlipOnceWithTrustGrant(t *testing.T) {
	e := newTestEngine()

	e.state.ClipsSold = MarketingUnlockSales
	res := e.Tick()
	require.Len(t, unlockEvents(res), 1)
	assert.Equal(t, UnlockMarketing, unlockEvents(res)[0].Unlock)

	// Already flipped: no repeat notification.
	res = e.Tick()
	assert.Empty(t, unlockEvents(res))

	e.state.Clippers = FactoryUnlockClippers
	e.state.ClipsSold = TrustMilestoneSales
	res = e.Tick()
	kinds := map[Unlockable]bool{}
	for _, ev := range unlockEvents(res) {
		kinds[ev.Unlock] = true
	}
	assert.True(t, kinds[UnlockFactory])
	assert.True(t, kinds[UnlockOptimization])
	assert.True(t, kinds[UnlockTrustMilestone])
	assert.Equal(t, 1, e.state.Trust)

	// Trust milestone grants exactly once.
	res = e.Tick()
	assert.Empty(t, unlockEvents(res))
	assert.Equal(t, 1, e.state.Trust)
}

func unlockEvents(res TickResult) []Event {
	var out []Event
	for _, ev := range res.Events {
		if ev.Kind == EventUnlock {
			out = append(out, ev)
		}
	}
	return out
}

func TestLowWireWarningOncePerDepletion(t *testing.T) {
	e := newTestEngine()
	e.state.Wire = LowWireThreshold - 1

	res := e.Tick()
	require.True(t, hasEvent(res, EventLowWire))

	res = e.Tick()
	assert.False(t, hasEvent(res, EventLowWire))
}

func hasEvent(res TickResult, kind EventKind) bool {
	for _, ev := range res.Events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}

func TestPeriodicHeartbeat(t *testing.T) {
	e := newTestEngine()

	heartbeats := 0
	for i := 0; i < 45; i++ {
		if hasEvent(e.Tick(), EventHeartbeat) {
			heartbeats++
		}
	}
	assert.Equal(t, 3, heartbeats)
}

func TestThrottledSummaries(t *testing.T) {
	e := newTestEngine()
	require.Equal(t, 1, e.BuyAutoclippers(1).Bought)

	var automation, sales int
	for i := 0; i < 40; i++ {
		res := e.Tick()
		if hasEvent(res, EventAutomationSummary) {
			automation++
		}
		if hasEvent(res, EventSalesSummary) {
			sales++
		}
	}
	// Automation runs from tick one, so every 8-tick window reports.
	assert.Equal(t, 5, automation)
	// Clips start selling once demand ramps; at least some windows report.
	assert.Greater(t, sales, 0)
}

func TestMarketingLaunch(t *testing.T) {
	e := newTestEngine()

	// Locked.
	assert.False(t, e.LaunchMarketing().OK)

	e.state.MarketingUnlocked = true
	e.state.Funds = 200
	res := e.LaunchMarketing()
	require.True(t, res.OK)
	assert.Equal(t, 1, res.Level)
	assert.Equal(t, 60.0, e.state.Funds)
	assert.Equal(t, round2(140*1.42), e.state.MarketingCost)

	// Insufficient funds for the grown cost.
	assert.False(t, e.LaunchMarketing().OK)
}

func TestOptimize(t *testing.T) {
	e := newTestEngine()
	e.state.OptimizeUnlocked = true
	e.state.Funds = 200

	res := e.Optimize()
	require.True(t, res.OK)
	assert.Equal(t, 2, e.state.ManualEfficiency)
	assert.InDelta(t, StartClipperRate*OptimizeClipperRateBoost, e.state.ClipperRate, 1e-9)
	assert.InDelta(t, StartFactoryRate*OptimizeFactoryRateBoost, e.state.FactoryRate, 1e-9)
	assert.Equal(t, 1, e.state.Trust)
	assert.Equal(t, round2(160*1.55), e.state.OptimizeCost)

	// Manual fabrication now requests two clips per action.
	fab := e.Fabricate()
	assert.Equal(t, uint64(2), fab.Produced)
}

func TestMonotonicCounters(t *testing.T) {
	e := newTestEngine()
	require.Equal(t, 1, e.BuyAutoclippers(1).Bought)

	var lastElapsed, lastMade, lastSold uint64
	for i := 0; i < 100; i++ {
		e.Tick()
		v := e.View()
		assert.GreaterOrEqual(t, v.Elapsed, lastElapsed)
		assert.GreaterOrEqual(t, v.ClipsMade, lastMade)
		assert.GreaterOrEqual(t, v.ClipsSold, lastSold)
		lastElapsed, lastMade, lastSold = v.Elapsed, v.ClipsMade, v.ClipsSold
	}
	assert.Equal(t, uint64(100), lastElapsed)
}

func TestReputationGrowsWithProduction(t *testing.T) {
	e := newTestEngine()
	e.Fabricate()
	assert.InDelta(t, ReputationPerClip, e.state.Reputation, 1e-12)
}

func TestDeterministicWithSeededSource(t *testing.T) {
	run := func() View {
		e := New(entropy.Seeded(7))
		e.BuyAutoclippers(1)
		for i := 0; i < 200; i++ {
			e.Tick()
		}
		return e.View()
	}
	assert.Equal(t, run(), run())
}

func TestSimClock(t *testing.T) {
	assert.Equal(t, "00:00:00", SimClock(0))
	assert.Equal(t, "00:01:05", SimClock(65))
	assert.Equal(t, "01:00:00", SimClock(3600))
}
