package features

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"SwingScanner/internal/model"
)

func trendBars(n int, start, step float64) []model.OHLCV {
	t0 := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		c := start + step*float64(i)
		if i%2 == 0 {
			c += step * 2
		}
		bars[i] = model.OHLCV{
			Time:   t0.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1_000_000,
		}
	}
	return bars
}

func TestCompute_Availability(t *testing.T) {
	f := Compute(trendBars(30, 100, 0.5), nil)
	if f.Error != "" {
		t.Fatalf("unexpected error %q", f.Error)
	}
	if f.Price == nil || f.EMA20 == nil || f.RSI14 == nil || f.ATR14 == nil {
		t.Fatalf("expected short-window features, got %+v", f)
	}
	if f.EMA50 != nil || f.EMA200 != nil || f.SMA200 != nil {
		t.Error("expected long averages to be absent on 30 bars")
	}
	if f.MACDHist != nil {
		t.Error("expected MACD to be absent below 35 bars")
	}
	if f.WClose == nil {
		t.Error("expected weekly close from aggregated bars")
	}

	full := Compute(trendBars(260, 100, 0.5), nil)
	for name, p := range map[string]*float64{
		"ema200": full.EMA200, "macd_hist": full.MACDHist, "bb_pct_b": full.BBPctB,
		"adx14": full.ADX14, "stoch_k": full.StochK, "vwap20": full.VWAP20, "w_ema20": full.WEMA20,
	} {
		if p == nil {
			t.Errorf("expected %s on 260 bars", name)
		}
	}
	if *full.ATRPct != *full.ATR14 / *full.Price {
		t.Errorf("atr_pct mismatch")
	}
	if !Flag(full.NearHigh20) {
		t.Error("expected uptrend to sit near its 20-day high")
	}
	if Flag(full.VolSpike) {
		t.Error("expected no volume spike on constant volume")
	}
}

func TestCompute_Empty(t *testing.T) {
	f := Compute(nil, nil)
	if f.Error == "" {
		t.Error("expected error marker for empty input")
	}
}

func TestNormalize_Fallbacks(t *testing.T) {
	raw := map[string]any{
		"price":         101.5,
		"EMA20":         100.0,
		"ema50":         "98.5",
		"SMA200":        90,
		"RSI14":         55.0,
		"ATR%":          2.5,
		"MACD":          map[string]any{"hist": 0.4},
		"Bollinger":     map[string]any{"pct_b": 0.7},
		"ADX14":         map[string]any{"adx": 22.0, "+di": 25.0, "-di": 15.0},
		"Stochastic":    map[string]any{"%K": 70.0, "%D": 60.0},
		"VWAP20":        99.0,
		"Vol spike":     true,
		"Near 20D high": false,
		"W_CLOSE":       100.0,
		"notes":         "hello",
		"custom":        1,
	}
	f := Normalize(raw)
	checks := []struct {
		name string
		got  *float64
		want float64
	}{
		{"price", f.Price, 101.5},
		{"ema20", f.EMA20, 100},
		{"ema50", f.EMA50, 98.5},
		{"sma200", f.SMA200, 90},
		{"rsi14", f.RSI14, 55},
		{"atr_pct", f.ATRPct, 0.025},
		{"macd_hist", f.MACDHist, 0.4},
		{"bb_pct_b", f.BBPctB, 0.7},
		{"adx14", f.ADX14, 22},
		{"di_plus", f.DIPlus, 25},
		{"di_minus", f.DIMinus, 15},
		{"stoch_k", f.StochK, 70},
		{"stoch_d", f.StochD, 60},
		{"vwap20", f.VWAP20, 99},
		{"w_close", f.WClose, 100},
	}
	for _, c := range checks {
		if c.got == nil {
			t.Errorf("%s: expected %.4f, got absent", c.name, c.want)
			continue
		}
		if math.Abs(*c.got-c.want) > 1e-12 {
			t.Errorf("%s: expected %.4f, got %.4f", c.name, c.want, *c.got)
		}
	}
	if f.VolSpike == nil || !*f.VolSpike {
		t.Error("expected vol_spike from alternate key")
	}
	if f.NearHigh20 == nil || *f.NearHigh20 {
		t.Error("expected near_high20 present and false")
	}
	if f.EMA200 != nil || f.WEMA50 != nil {
		t.Error("expected missing keys to stay absent")
	}
	if f.Extra["custom"] != 1 || len(f.Extra) != 1 {
		t.Errorf("expected only the custom key in Extra, got %v", f.Extra)
	}
}

func TestNormalize_TypedNestedMaps(t *testing.T) {
	f := Normalize(map[string]any{
		"MACD":       map[string]float64{"hist": -0.3},
		"Bollinger":  map[string]float64{"pct_b": 0.25},
		"ADX14":      map[string]float64{"adx": 31, "+di": 12, "-di": 28},
		"Stochastic": map[string]float64{"%K": 20},
	})
	checks := []struct {
		name string
		got  *float64
		want float64
	}{
		{"macd_hist", f.MACDHist, -0.3},
		{"bb_pct_b", f.BBPctB, 0.25},
		{"adx14", f.ADX14, 31},
		{"di_plus", f.DIPlus, 12},
		{"di_minus", f.DIMinus, 28},
		{"stoch_k", f.StochK, 20},
	}
	for _, c := range checks {
		if c.got == nil || math.Abs(*c.got-c.want) > 1e-12 {
			t.Errorf("%s: expected %.2f, got %v", c.name, c.want, c.got)
		}
	}
	if f.StochD != nil {
		t.Error("a key missing from a typed map should stay absent")
	}
	if len(f.Extra) != 0 {
		t.Errorf("nested objects should not leak into Extra, got %v", f.Extra)
	}
}

func TestNormalize_CanonicalWins(t *testing.T) {
	f := Normalize(map[string]any{
		"ema20":     50.0,
		"EMA20":     60.0,
		"atr_pct":   0.03,
		"ATR%":      9.0,
		"macd_hist": -1.0,
		"MACD":      map[string]any{"hist": 1.0},
	})
	if *f.EMA20 != 50 || *f.ATRPct != 0.03 || *f.MACDHist != -1 {
		t.Errorf("expected canonical values, got ema20=%v atr_pct=%v macd_hist=%v", *f.EMA20, *f.ATRPct, *f.MACDHist)
	}

	// a non-numeric canonical value falls through to the alternate key
	f = Normalize(map[string]any{"ema20": nil, "EMA20": 60.0})
	if f.EMA20 == nil || *f.EMA20 != 60 {
		t.Error("expected fallback when canonical value is null")
	}
}

func TestNormalize_NotAMap(t *testing.T) {
	for _, in := range []any{nil, 42, "x", []any{1}} {
		f := Normalize(in)
		if f.Error != ErrNotAMap {
			t.Errorf("Normalize(%v): expected error marker, got %q", in, f.Error)
		}
		if f.Price != nil {
			t.Errorf("Normalize(%v): expected no values", in)
		}
	}
}

func TestNormalize_JSONRoundTrip(t *testing.T) {
	src := Compute(trendBars(80, 50, 0.2), nil)
	data, err := json.Marshal(src)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	got := Normalize(raw)
	if got.RSI14 == nil || *got.RSI14 != *src.RSI14 {
		t.Error("expected rsi14 to survive JSON")
	}
	if Flag(got.NearHigh20) != Flag(src.NearHigh20) {
		t.Error("expected near_high20 to survive JSON")
	}
}

func TestClassifySetup(t *testing.T) {
	tests := []struct {
		name string
		f    Features
		side model.Side
		want string
	}{
		{
			name: "gap up with volume",
			f:    Features{Price: Float(100), GapPct: Float(0.05), VolSpike: Bool(true)},
			side: model.SideBuy,
			want: SetupGap,
		},
		{
			name: "gap up ignored for short",
			f:    Features{Price: Float(100), GapPct: Float(0.05), VolSpike: Bool(true), NearHigh20: Bool(true)},
			side: model.SideSell,
			want: SetupBreakout,
		},
		{
			name: "pullback",
			f:    Features{Price: Float(101), EMA20: Float(100), EMA50: Float(95), EMA200: Float(80), RSI14: Float(55)},
			side: model.SideBuy,
			want: SetupPullback,
		},
		{
			name: "overbought pullback is mixed",
			f:    Features{Price: Float(101), EMA20: Float(100), EMA50: Float(95), EMA200: Float(80), RSI14: Float(72)},
			side: model.SideBuy,
			want: SetupMixed,
		},
		{
			name: "nothing",
			f:    Features{},
			side: model.SideBuy,
			want: SetupMixed,
		},
	}
	for _, tt := range tests {
		got, notes := ClassifySetup(tt.f, tt.side)
		if got != tt.want {
			t.Errorf("%s: expected %s, got %s (%v)", tt.name, tt.want, got, notes)
		}
	}
}

func TestMarketRegime(t *testing.T) {
	if r := MarketRegime(make([]float64, 10)); r.Risk != RiskUnknown {
		t.Errorf("expected UNK on short input, got %s", r.Risk)
	}
	up := model.Closes(trendBars(120, 100, 0.5))
	if r := MarketRegime(up); r.Risk != RiskOn {
		t.Errorf("expected ON for uptrend, got %s (%s)", r.Risk, r.Reason)
	}
	down := model.Closes(trendBars(120, 200, -0.5))
	if r := MarketRegime(down); r.Risk != RiskOff {
		t.Errorf("expected OFF for downtrend, got %s (%s)", r.Risk, r.Reason)
	}
}
