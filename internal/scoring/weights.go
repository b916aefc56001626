package scoring

// Weights holds the point value of every evidence check. Positive checks add
// their value, penalty checks subtract it.
type Weights struct {
	Base float64

	MarketRiskOff float64

	WeeklyAligned float64
	WeeklyAgainst float64
	WeeklyRSIWeak float64

	PriceAboveEMA20  float64
	PriceAboveEMA50  float64
	PriceAboveEMA200 float64
	EMA20AboveEMA50  float64
	EMA50AboveEMA200 float64

	MACDConfirm float64
	RSIZone     float64
	RSIExtreme  float64
	RSIAgainst  float64

	Overextended float64

	ADXTrend float64
	ADXWeak  float64
	Chop     float64

	StochCross   float64
	StochExtreme float64

	VolSpike   float64
	OBVConfirm float64
	VWAPSide   float64

	TooVolatile float64
	TooQuiet    float64
	BBExtended  float64

	Breakout float64
}

// DefaultWeights is the calibrated point table used by Score.
var DefaultWeights = Weights{
	Base: 50,

	MarketRiskOff: 18,

	WeeklyAligned: 6,
	WeeklyAgainst: 12,
	WeeklyRSIWeak: 4,

	PriceAboveEMA20:  6,
	PriceAboveEMA50:  6,
	PriceAboveEMA200: 4,
	EMA20AboveEMA50:  5,
	EMA50AboveEMA200: 4,

	MACDConfirm: 7,
	RSIZone:     8,
	RSIExtreme:  6,
	RSIAgainst:  4,

	Overextended: 6,

	ADXTrend: 10,
	ADXWeak:  5,
	Chop:     7,

	StochCross:   4,
	StochExtreme: 3,

	VolSpike:   6,
	OBVConfirm: 5,
	VWAPSide:   4,

	TooVolatile: 7,
	TooQuiet:    4,
	BBExtended:  6,

	Breakout: 6,
}

// Thresholds used by the checks. They are fixed; only point values vary.
const (
	weeklyRSIWeakBuy  = 45.0
	weeklyRSIWeakSell = 55.0

	rsiBuyZoneLow   = 48.0
	rsiBuyZoneHigh  = 70.0
	rsiBuyHot       = 75.0
	rsiBuyCold      = 35.0
	rsiSellZoneLow  = 30.0
	rsiSellZoneHigh = 52.0
	rsiSellCold     = 25.0
	rsiSellHot      = 70.0

	extensionBase     = 0.025
	extensionBreakout = 0.010
	extensionVolume   = 0.005

	adxTrendMin = 18.0
	adxWeakMax  = 12.0
	adxChopMax  = 15.0

	stochMid      = 50.0
	stochHigh     = 85.0
	stochLow      = 15.0
	atrPctHighMax = 0.08
	atrPctLowMin  = 0.006
	pctBUpper     = 0.95
	pctBLower     = 0.05
)
