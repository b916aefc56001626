package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"SwingScanner/internal/backtest"
	"SwingScanner/internal/model"
	"SwingScanner/internal/plan"
	"SwingScanner/internal/ranker"
)

func TestTelegramSend(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.BaseURL = srv.URL
	if err := n.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got["chat_id"] != "42" || got["text"] != "hello" || got["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload %v", got)
	}
}

func TestSendWithRetryStopsOnCancel(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("T", "1", "")
	n.BaseURL = srv.URL
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := n.SendWithRetry(ctx, "x", 5); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single attempt before the backoff was cancelled, got %d", calls.Load())
	}
}

func TestSendWithRetryNoRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("T", "1", "")
	n.BaseURL = srv.URL
	err := n.SendWithRetry(context.Background(), "x", 0)
	if err == nil || !strings.Contains(err.Error(), "retries exhausted") {
		t.Errorf("expected exhausted error, got %v", err)
	}
}

func TestSplitMessage(t *testing.T) {
	text := strings.Repeat("abcdefghi\n", 10)
	chunks := splitMessage(text, 25)
	if strings.Join(chunks, "") != text {
		t.Fatal("chunks do not reassemble the message")
	}
	for _, c := range chunks {
		if len(c) > 25 {
			t.Errorf("chunk exceeds limit: %d", len(c))
		}
	}
	if got := splitMessage(strings.Repeat("x", 60), 25); len(got) != 3 {
		t.Errorf("long line should be hard-split into 3, got %d", len(got))
	}
}

func TestFormatScanSummary(t *testing.T) {
	res := &ranker.ScanResult{
		UniverseSize: 10,
		Rejected:     map[string]int{"price": 3, "bars": 1},
		Candidates: []model.Candidate{
			{Symbol: "AAA", LastClose: 12.5, Score: 9.2, RSI14: 61, Trend: "up", DailyOK: true, WeeklyOK: true},
			{Symbol: "BBB", LastClose: 40, Score: 7},
			{Symbol: "CCC", LastClose: 5, Score: 6},
		},
	}
	out := FormatScanSummary(res, "ON", 2, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	for _, want := range []string{"Market: ON", "Rejected: bars=1 price=3", "<b>AAA</b>", "[DW·]", "and 1 more"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "CCC") {
		t.Error("limit not applied")
	}
}

func TestFormatSignal(t *testing.T) {
	tp1 := 11.0
	p := plan.Plan{
		Symbol: "AAA", Side: model.SideBuy, Setup: "BREAKOUT", SetupNotes: []string{"near 20D high"},
		Entry: 10, SL: 9, TP: 12, TP1: &tp1, PartialPct: 0.5, Qty: 1.5, RiskPct: 1, RiskAmount: 8, RR: 2, Grade: "A",
	}
	out := FormatSignal(p, 84, []string{"+6 price>EMA20", "-7 RSI<50"})
	for _, want := range []string{"🟢", "BUY", "score 84", "TP1: 11.00 (50%)", "Setup: BREAKOUT (near 20D high)", "-7 RSI&lt;50"} {
		if !strings.Contains(out, want) {
			t.Errorf("signal missing %q:\n%s", want, out)
		}
	}
}

func TestFormatBacktest(t *testing.T) {
	res := &backtest.Result{
		Symbol: "AAA", Start: "2023-01-01", End: "2024-01-01",
		CapitalStart: 10000, CapitalEnd: 10250, NetPnL: 250,
		Trades: []model.Trade{{Outcome: model.OutcomeTakeProfit}, {Outcome: model.OutcomeStopLoss}},
		Stats:  backtest.Stats{Trades: 2, Wins: 1, Losses: 1, WinRate: 0.5, AvgR: 0.4, MaxDrawdown: 0.012},
	}
	out := FormatBacktest(res)
	for _, want := range []string{"net +250.00", "Win rate: 50.0%", "Max DD: 1.20%", "tp=1 sl=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("backtest missing %q:\n%s", want, out)
		}
	}
	if sweep := FormatBacktestSweep(nil, time.Now()); !strings.Contains(sweep, "No symbol") {
		t.Error("empty sweep should say so")
	}
}
