package features

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ErrNotAMap is the error marker set when Normalize receives anything other
// than a string-keyed map.
const ErrNotAMap = "features_not_a_map"

type floatField struct {
	dst  func(*Features) **float64
	keys []string
	// nested lookups as {object key, field key}
	nested [][2]string
}

var floatFields = []floatField{
	{dst: func(f *Features) **float64 { return &f.Price }, keys: []string{"price"}},
	{dst: func(f *Features) **float64 { return &f.EMA20 }, keys: []string{"ema20", "EMA20"}},
	{dst: func(f *Features) **float64 { return &f.EMA50 }, keys: []string{"ema50", "EMA50"}},
	{dst: func(f *Features) **float64 { return &f.EMA100 }, keys: []string{"ema100", "EMA100"}},
	{dst: func(f *Features) **float64 { return &f.EMA200 }, keys: []string{"ema200", "EMA200"}},
	{dst: func(f *Features) **float64 { return &f.SMA20 }, keys: []string{"sma20", "SMA20"}},
	{dst: func(f *Features) **float64 { return &f.SMA50 }, keys: []string{"sma50", "SMA50"}},
	{dst: func(f *Features) **float64 { return &f.SMA100 }, keys: []string{"sma100", "SMA100"}},
	{dst: func(f *Features) **float64 { return &f.SMA200 }, keys: []string{"sma200", "SMA200"}},
	{dst: func(f *Features) **float64 { return &f.RSI14 }, keys: []string{"rsi14", "RSI14"}},
	{dst: func(f *Features) **float64 { return &f.ATR14 }, keys: []string{"atr14", "ATR14"}},
	{dst: func(f *Features) **float64 { return &f.MACDHist }, keys: []string{"macd_hist"}, nested: [][2]string{{"MACD", "hist"}}},
	{dst: func(f *Features) **float64 { return &f.BBPctB }, keys: []string{"bb_pct_b"}, nested: [][2]string{{"Bollinger", "pct_b"}}},
	{dst: func(f *Features) **float64 { return &f.ADX14 }, keys: []string{"adx14"}, nested: [][2]string{{"ADX14", "adx"}}},
	{dst: func(f *Features) **float64 { return &f.DIPlus }, keys: []string{"di_plus"}, nested: [][2]string{{"ADX14", "+di"}}},
	{dst: func(f *Features) **float64 { return &f.DIMinus }, keys: []string{"di_minus"}, nested: [][2]string{{"ADX14", "-di"}}},
	{dst: func(f *Features) **float64 { return &f.StochK }, keys: []string{"stoch_k"}, nested: [][2]string{{"Stochastic", "%K"}}},
	{dst: func(f *Features) **float64 { return &f.StochD }, keys: []string{"stoch_d"}, nested: [][2]string{{"Stochastic", "%D"}}},
	{dst: func(f *Features) **float64 { return &f.VWAP20 }, keys: []string{"vwap20", "VWAP20"}},
	{dst: func(f *Features) **float64 { return &f.OBV }, keys: []string{"obv", "OBV"}},
	{dst: func(f *Features) **float64 { return &f.OBVSlope }, keys: []string{"obv_slope"}},
	{dst: func(f *Features) **float64 { return &f.GapPct }, keys: []string{"gap_pct"}},
	{dst: func(f *Features) **float64 { return &f.WClose }, keys: []string{"w_close", "W_CLOSE"}},
	{dst: func(f *Features) **float64 { return &f.WEMA20 }, keys: []string{"w_ema20", "W_EMA20"}},
	{dst: func(f *Features) **float64 { return &f.WEMA50 }, keys: []string{"w_ema50", "W_EMA50"}},
	{dst: func(f *Features) **float64 { return &f.WRSI14 }, keys: []string{"w_rsi14", "W_RSI14"}},
}

type boolField struct {
	dst  func(*Features) **bool
	keys []string
}

var boolFields = []boolField{
	{dst: func(f *Features) **bool { return &f.VolSpike }, keys: []string{"vol_spike", "Vol spike"}},
	{dst: func(f *Features) **bool { return &f.NearHigh20 }, keys: []string{"near_high20", "Near 20D high"}},
}

// Normalize maps a loosely keyed feature map onto the canonical schema.
// Canonical keys win; alternate spellings and nested objects are consulted
// only when the canonical value is missing or not numeric. ATR% given in
// percent is converted to a fraction. Normalize never fails: input that is
// not a map yields a Features carrying only the ErrNotAMap marker.
func Normalize(raw any) Features {
	var m map[string]any
	switch v := raw.(type) {
	case Features:
		return v
	case *Features:
		if v == nil {
			return Features{Error: ErrNotAMap}
		}
		return *v
	case map[string]any:
		m = v
	case map[string]float64:
		m = make(map[string]any, len(v))
		for k, x := range v {
			m[k] = x
		}
	default:
		return Features{Error: ErrNotAMap}
	}

	var f Features
	used := map[string]bool{}

	for _, fld := range floatFields {
		dst := fld.dst(&f)
		for _, k := range fld.keys {
			if _, ok := m[k]; ok {
				used[k] = true
			}
			if *dst == nil {
				*dst = toFloat(m[k])
			}
		}
		for _, nk := range fld.nested {
			var v any
			switch obj := m[nk[0]].(type) {
			case map[string]any:
				v = obj[nk[1]]
			case map[string]float64:
				if x, ok := obj[nk[1]]; ok {
					v = x
				}
			default:
				continue
			}
			used[nk[0]] = true
			if *dst == nil {
				*dst = toFloat(v)
			}
		}
	}

	used["atr_pct"], used["ATR%"] = true, true
	f.ATRPct = toFloat(m["atr_pct"])
	if f.ATRPct == nil {
		if pct := toFloat(m["ATR%"]); pct != nil {
			f.ATRPct = Float(*pct / 100.0)
		}
	}

	for _, fld := range boolFields {
		dst := fld.dst(&f)
		for _, k := range fld.keys {
			v, ok := m[k]
			if !ok {
				continue
			}
			used[k] = true
			if *dst == nil {
				*dst = Bool(truthy(v))
			}
		}
	}

	for key, dst := range map[string]*string{"market_risk": &f.MarketRisk, "notes": &f.Notes, "error": &f.Error} {
		if s, ok := m[key].(string); ok {
			*dst = s
		}
		used[key] = true
	}

	for k, v := range m {
		if used[k] {
			continue
		}
		if f.Extra == nil {
			f.Extra = map[string]any{}
		}
		f.Extra[k] = v
	}
	return f
}

func toFloat(v any) *float64 {
	var x float64
	switch n := v.(type) {
	case float64:
		x = n
	case float32:
		x = float64(n)
	case int:
		x = float64(n)
	case int32:
		x = float64(n)
	case int64:
		x = float64(n)
	case uint:
		x = float64(n)
	case uint64:
		x = float64(n)
	case *float64:
		if n == nil {
			return nil
		}
		x = *n
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil
		}
		x = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		x = f
	default:
		return nil
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}

func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case *bool:
		return b != nil && *b
	case string:
		if p, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
			return p
		}
		return b != ""
	}
	if x := toFloat(v); x != nil {
		return *x != 0
	}
	return true
}
