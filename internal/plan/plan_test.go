package plan

import (
	"testing"

	"SwingScanner/internal/model"
)

func TestCompute_Long(t *testing.T) {
	c := model.Candidate{Symbol: "AAA", Score: 9, LastClose: 50, ATR: 1}
	p := Compute(c, model.SideBuy, 0, DefaultSettings())

	if p.Entry != 50 || p.SL != 48 || p.TP != 54 || p.RiskPerShare != 2 {
		t.Errorf("unexpected levels %+v", p)
	}
	if p.TP1 == nil || *p.TP1 != 52 || p.PartialPct != 0.5 {
		t.Errorf("expected TP1 at 52 with half partial, got %+v", p)
	}
	if p.Grade != "A+" || p.RiskPct != 1.5 || p.RiskAmount != 12 {
		t.Errorf("unexpected grade/risk %+v", p)
	}
	// risk qty 12/2 = 6, notional cap 160/50 = 3.2
	if p.Qty != 3.2 {
		t.Errorf("expected qty capped at 3.2, got %.3f", p.Qty)
	}
	if p.RR != 2 {
		t.Errorf("expected RR 2, got %.2f", p.RR)
	}
	if p.TrailNote == "" {
		t.Error("expected trailing note")
	}
}

func TestCompute_Short(t *testing.T) {
	c := model.Candidate{Symbol: "BBB", Score: 5, LastClose: 20, ATR: 0.5}
	p := Compute(c, model.SideSell, 0, DefaultSettings())
	if p.SL != 21 || p.TP != 18 || *p.TP1 != 19 {
		t.Errorf("unexpected short levels %+v", p)
	}
	if p.Grade != "B" || p.RiskPct != 0.5 || p.RiskAmount != 4 {
		t.Errorf("unexpected grade/risk %+v", p)
	}
	// risk qty 4/1 = 4, cap 160/20 = 8
	if p.Qty != 4 {
		t.Errorf("expected qty 4, got %.3f", p.Qty)
	}
}

func TestCompute_Fallbacks(t *testing.T) {
	s := DefaultSettings()
	s.PartialPct = 0
	s.TrailATRMult = 0
	c := model.Candidate{Symbol: "CCC", Score: 7.5, LastClose: 10}
	p := Compute(c, model.SideBuy, 12, s)
	if p.Entry != 12 {
		t.Errorf("expected entry override, got %.2f", p.Entry)
	}
	if p.ATR != 0.5 {
		t.Errorf("expected ATR fallback 0.5, got %.2f", p.ATR)
	}
	if p.TP1 != nil || p.TrailNote != "" {
		t.Errorf("expected no partial or trail, got %+v", p)
	}
	if p.Grade != "A" {
		t.Errorf("expected grade A, got %s", p.Grade)
	}
}

func TestGrade(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{10, "A+"},
		{8.5, "A+"},
		{8.4, "A"},
		{7, "A"},
		{6.9, "B"},
		{0, "B"},
	}
	for _, tt := range tests {
		if got := Grade(tt.score); got != tt.want {
			t.Errorf("score %.1f: expected %s, got %s", tt.score, tt.want, got)
		}
	}
}
