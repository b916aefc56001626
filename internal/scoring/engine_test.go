package scoring

import (
	"strings"
	"testing"

	"SwingScanner/internal/features"
	"SwingScanner/internal/model"
)

var (
	fl = features.Float
	bl = features.Bool
)

func uptrend() features.Features {
	return features.Features{
		Price:    fl(105),
		EMA20:    fl(104),
		EMA50:    fl(100),
		EMA200:   fl(90),
		RSI14:    fl(60),
		ATRPct:   fl(0.02),
		MACDHist: fl(0.5),
		BBPctB:   fl(0.8),
		ADX14:    fl(25),
		DIPlus:   fl(28),
		DIMinus:  fl(12),
		StochK:   fl(70),
		StochD:   fl(60),
		VWAP20:   fl(101),
		OBVSlope: fl(1),
		WClose:   fl(105),
		WEMA20:   fl(100),
		WEMA50:   fl(95),
		WRSI14:   fl(60),
	}
}

func downtrend() features.Features {
	return features.Features{
		Price:    fl(85),
		EMA20:    fl(86),
		EMA50:    fl(90),
		EMA200:   fl(100),
		RSI14:    fl(40),
		ATRPct:   fl(0.02),
		MACDHist: fl(-0.5),
		BBPctB:   fl(0.2),
		ADX14:    fl(25),
		DIPlus:   fl(12),
		DIMinus:  fl(28),
		StochK:   fl(30),
		StochD:   fl(40),
		VWAP20:   fl(88),
		OBVSlope: fl(-1),
		WClose:   fl(85),
		WEMA20:   fl(90),
		WEMA50:   fl(95),
		WRSI14:   fl(40),
	}
}

func TestScore_AllAbsent(t *testing.T) {
	for _, side := range []model.Side{model.SideBuy, model.SideSell} {
		res := Score(features.Features{}, side)
		if res.Score != 50 {
			t.Errorf("%s: expected base score 50, got %d", side, res.Score)
		}
		if len(res.Reasons) != 0 {
			t.Errorf("%s: expected no reasons, got %v", side, res.ReasonStrings())
		}
	}
}

func moderate() features.Features {
	return features.Features{
		Price:   fl(105),
		EMA20:   fl(104),
		EMA50:   fl(100),
		EMA200:  fl(90),
		RSI14:   fl(60),
		ADX14:   fl(25),
		DIPlus:  fl(28),
		DIMinus: fl(12),
	}
}

func TestScore_BreakoutBonus(t *testing.T) {
	base := moderate()
	with := moderate()
	with.NearHigh20 = bl(true)

	diff := Score(with, model.SideBuy).Score - Score(base, model.SideBuy).Score
	if diff != int(DefaultWeights.Breakout) {
		t.Errorf("expected breakout difference %v, got %d", DefaultWeights.Breakout, diff)
	}

	// an explicit false flag behaves like an absent one
	without := moderate()
	without.NearHigh20 = bl(false)
	if Score(without, model.SideBuy).Score != Score(base, model.SideBuy).Score {
		t.Error("expected near_high20=false to match absent")
	}
}

func TestScore_SideReversal(t *testing.T) {
	up := uptrend()
	buy, sell := Score(up, model.SideBuy).Score, Score(up, model.SideSell).Score
	if buy-sell < 30 {
		t.Errorf("uptrend: expected buy (%d) well above sell (%d)", buy, sell)
	}

	down := downtrend()
	buy, sell = Score(down, model.SideBuy).Score, Score(down, model.SideSell).Score
	if sell-buy < 30 {
		t.Errorf("downtrend: expected sell (%d) well above buy (%d)", sell, buy)
	}
}

func TestScore_Clamped(t *testing.T) {
	hot := uptrend()
	hot.VolSpike = bl(true)
	hot.NearHigh20 = bl(true)
	res := Score(hot, model.SideBuy)
	if res.Score != 100 {
		t.Errorf("expected score clamped to 100, got %d", res.Score)
	}

	cold := features.Features{
		Price:      fl(85),
		EMA20:      fl(86),
		EMA50:      fl(90),
		EMA200:     fl(100),
		RSI14:      fl(30),
		ATRPct:     fl(0.1),
		ADX14:      fl(10),
		DIPlus:     fl(10),
		DIMinus:    fl(20),
		WClose:     fl(85),
		WEMA20:     fl(90),
		WEMA50:     fl(95),
		WRSI14:     fl(30),
		MarketRisk: features.RiskOff,
	}
	res = Score(cold, model.SideBuy)
	if res.Score != 0 {
		t.Errorf("expected score clamped to 0, got %d (%v)", res.Score, res.ReasonStrings())
	}
}

func TestScore_DataError(t *testing.T) {
	res := Score(features.Features{Error: features.ErrNotAMap, Price: fl(10)}, model.SideBuy)
	if res.Score != 0 {
		t.Errorf("expected 0 on data error, got %d", res.Score)
	}
	if len(res.Reasons) != 1 || !strings.HasPrefix(res.Reasons[0].Text, "data_error") {
		t.Errorf("expected single data_error reason, got %v", res.ReasonStrings())
	}
}

func TestScore_SingleChecks(t *testing.T) {
	tests := []struct {
		name string
		f    features.Features
		side model.Side
		want int
	}{
		{"price>EMA20", features.Features{Price: fl(10), EMA20: fl(9)}, model.SideBuy, 56},
		{"price<EMA20 short", features.Features{Price: fl(10), EMA20: fl(11)}, model.SideSell, 56},
		{"price without EMA", features.Features{Price: fl(10)}, model.SideBuy, 50},
		{"EMA without price", features.Features{EMA20: fl(9), EMA50: fl(8)}, model.SideBuy, 55},
		{"RSI zone buy", features.Features{RSI14: fl(48)}, model.SideBuy, 58},
		{"RSI hot buy", features.Features{RSI14: fl(76)}, model.SideBuy, 44},
		{"RSI cold buy", features.Features{RSI14: fl(34)}, model.SideBuy, 46},
		{"RSI zone sell", features.Features{RSI14: fl(52)}, model.SideSell, 58},
		{"RSI cold sell", features.Features{RSI14: fl(24)}, model.SideSell, 44},
		{"RSI hot sell", features.Features{RSI14: fl(71)}, model.SideSell, 46},
		{"MACD against", features.Features{MACDHist: fl(-1)}, model.SideBuy, 50},
		{"market off", features.Features{MarketRisk: features.RiskOff}, model.SideBuy, 32},
		{"market on", features.Features{MarketRisk: features.RiskOn}, model.SideBuy, 50},
		{"weekly against", features.Features{WClose: fl(90), WEMA20: fl(95), WEMA50: fl(100)}, model.SideBuy, 38},
		{"weekly aligned short", features.Features{WClose: fl(90), WEMA20: fl(95), WEMA50: fl(100)}, model.SideSell, 56},
		{"weekly RSI strong short", features.Features{WRSI14: fl(56)}, model.SideSell, 46},
		{"chop", features.Features{ADX14: fl(14)}, model.SideBuy, 43},
		{"chop with breakout", features.Features{ADX14: fl(14), NearHigh20: bl(true)}, model.SideBuy, 56},
		{"weak ADX with DI", features.Features{ADX14: fl(10), DIPlus: fl(20), DIMinus: fl(10)}, model.SideBuy, 38},
		{"stoch overbought", features.Features{StochK: fl(90), StochD: fl(80)}, model.SideBuy, 51},
		{"stoch oversold short", features.Features{StochK: fl(10), StochD: fl(20)}, model.SideSell, 51},
		{"too volatile", features.Features{ATRPct: fl(0.09)}, model.SideBuy, 43},
		{"too quiet", features.Features{ATRPct: fl(0.005)}, model.SideBuy, 46},
		{"upper BB", features.Features{BBPctB: fl(0.97)}, model.SideBuy, 44},
		{"upper BB at high", features.Features{BBPctB: fl(0.97), NearHigh20: bl(true)}, model.SideBuy, 56},
		{"lower BB short", features.Features{BBPctB: fl(0.03)}, model.SideSell, 44},
		{"overextended", features.Features{Price: fl(104), EMA20: fl(100), ATRPct: fl(0.02)}, model.SideBuy, 50},
		{"extension allowed by breakout", features.Features{Price: fl(103), EMA20: fl(100), ATRPct: fl(0.02), NearHigh20: bl(true)}, model.SideBuy, 62},
		{"overextended short", features.Features{Price: fl(96), EMA20: fl(100), ATRPct: fl(0.02)}, model.SideSell, 50},
		{"volume spike", features.Features{VolSpike: bl(true)}, model.SideBuy, 56},
		{"OBV short", features.Features{OBVSlope: fl(-1)}, model.SideSell, 55},
		{"VWAP", features.Features{Price: fl(10), VWAP20: fl(9)}, model.SideBuy, 54},
	}
	for _, tt := range tests {
		res := Score(tt.f, tt.side)
		if res.Score != tt.want {
			t.Errorf("%s: expected %d, got %d (%v)", tt.name, tt.want, res.Score, res.ReasonStrings())
		}
	}
}

func TestReasonFormat(t *testing.T) {
	res := Score(features.Features{Price: fl(10), EMA20: fl(9.9), ATRPct: fl(0.2)}, model.SideBuy)
	got := res.ReasonStrings()
	want := []string{"+6 price>EMA20", "-7 too volatile (ATR%)"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("reason %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestScoreWith_CustomWeights(t *testing.T) {
	w := DefaultWeights
	w.Breakout = 20
	res := ScoreWith(features.Features{NearHigh20: bl(true)}, model.SideBuy, w)
	if res.Score != 70 {
		t.Errorf("expected 70 with custom breakout weight, got %d", res.Score)
	}

	var zero Weights
	res = ScoreWith(uptrend(), model.SideBuy, zero)
	if res.Score != 0 || len(res.Reasons) != 0 {
		t.Errorf("expected zero table to score 0 with no reasons, got %d %v", res.Score, res.ReasonStrings())
	}
}
