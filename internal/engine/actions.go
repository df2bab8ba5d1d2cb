package engine

// ActionDef is a data-only description of a player action: which command
// invokes it, when it is unlocked, and when it is currently affordable.
// Presentation layers evaluate these against a View snapshot to decide what
// to surface; the engine itself never reads this table.
type ActionDef struct {
	ID       string
	Command  string
	Unlocked func(View) bool
	Enabled  func(View) bool
}

var always = func(View) bool { return true }

// Actions is the full player action surface.
var Actions = []ActionDef{
	{
		ID:       "fabricate",
		Command:  "fabricate",
		Unlocked: always,
		Enabled:  func(v View) bool { return v.Wire > 0 },
	},
	{
		ID:       "buy-autoclipper",
		Command:  "buy autoclipper",
		Unlocked: always,
		Enabled:  func(v View) bool { return v.Funds >= v.ClipperCost && v.Wire > 0 },
	},
	{
		ID:       "buy-factory",
		Command:  "buy factory",
		Unlocked: func(v View) bool { return v.FactoryUnlocked },
		Enabled:  func(v View) bool { return v.FactoryUnlocked && v.Funds >= v.FactoryCost && v.Clippers >= 3 },
	},
	{
		ID:       "buy-wire",
		Command:  "buy wire",
		Unlocked: always,
		Enabled:  func(v View) bool { return v.Funds >= v.WireCost },
	},
	{
		ID:       "launch-marketing",
		Command:  "launch marketing",
		Unlocked: func(v View) bool { return v.MarketingUnlocked },
		Enabled:  func(v View) bool { return v.MarketingUnlocked && v.Funds >= v.MarketingCost },
	},
	{
		ID:       "optimize",
		Command:  "optimize",
		Unlocked: func(v View) bool { return v.OptimizeUnlocked },
		Enabled:  func(v View) bool { return v.OptimizeUnlocked && v.Funds >= v.OptimizeCost },
	},
	{
		ID:       "set-price",
		Command:  "set price",
		Unlocked: always,
		Enabled:  always,
	},
	{
		ID:       "status",
		Command:  "status",
		Unlocked: always,
		Enabled:  always,
	},
}
