package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"PatternSentinel/internal/model"
	"PatternSentinel/internal/pattern"
	"PatternSentinel/internal/scanner"
)

// fixedStore returns the same bar series for every tracked symbol.
type fixedStore struct {
	bars []model.OHLCV
}

func (f *fixedStore) InsertPrice(string, model.OHLCV) error { return nil }

func (f *fixedStore) GetPrices(string, time.Time, time.Time) ([]model.OHLCV, error) {
	return f.bars, nil
}

func (f *fixedStore) DeleteOlderThan(int) (int64, error) { return 0, nil }
func (f *fixedStore) Close() error                       { return nil }

// verdictDetector reports a fixed verdict.
type verdictDetector struct {
	verdict bool
	name    string
}

func (d *verdictDetector) Detect([]model.OHLCV) bool { return d.verdict }
func (d *verdictDetector) Name() string              { return d.name }
func (d *verdictDetector) Describe() pattern.Details {
	return pattern.Details{
		PatternName: d.name,
		Parameters:  map[string]float64{"cup_depth_min": 0.1},
	}
}

func newTestHandler(positive bool) *Handler {
	bars := make([]model.OHLCV, 20)
	now := time.Now()
	for i := range bars {
		bars[i] = model.OHLCV{
			Time:   now.Add(time.Duration(i-20) * 5 * time.Minute),
			Open:   100,
			High:   101,
			Low:    99,
			Close:  100,
			Volume: 1000,
		}
	}

	sc := scanner.New(&fixedStore{bars: bars}, zerolog.Nop())
	sc.Register("cup_and_handle", &verdictDetector{verdict: positive, name: "Cup and Handle"})
	sc.Register("three_white_soldiers", &verdictDetector{verdict: false, name: "Three White Soldiers"})
	return NewHandler(sc, []string{"AAPL", "MSFT"}, 3, zerolog.Nop())
}

func doRequest(t *testing.T, h *Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	rec, body := doRequest(t, newTestHandler(false), "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestListSymbols(t *testing.T) {
	rec, body := doRequest(t, newTestHandler(false), "/symbols")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	symbols, ok := body["symbols"].([]any)
	if !ok || len(symbols) != 2 {
		t.Fatalf("unexpected symbols payload: %v", body)
	}
	if symbols[0] != "AAPL" || symbols[1] != "MSFT" {
		t.Errorf("symbol order lost: %v", symbols)
	}
}

func TestCheckPattern(t *testing.T) {
	rec, body := doRequest(t, newTestHandler(true), "/pattern/AAPL")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if body["pattern_detected"] != true {
		t.Errorf("unexpected body: %v", body)
	}
	if _, present := body["details"]; present {
		t.Error("details must only appear when requested")
	}
}

func TestCheckPattern_Details(t *testing.T) {
	_, body := doRequest(t, newTestHandler(true), "/pattern/AAPL?details=true")
	details, ok := body["details"].(map[string]any)
	if !ok {
		t.Fatalf("missing details in %v", body)
	}
	if details["pattern_name"] != "Cup and Handle" {
		t.Errorf("unexpected details: %v", details)
	}
}

func TestCheckPattern_TypeOverride(t *testing.T) {
	// The default detector is positive, the override is negative.
	_, body := doRequest(t, newTestHandler(true), "/pattern/AAPL?type=three_white_soldiers")
	if body["pattern_detected"] != false {
		t.Errorf("type override ignored: %v", body)
	}
}

func TestCheckPattern_UnknownSymbol(t *testing.T) {
	rec, body := doRequest(t, newTestHandler(true), "/pattern/UNKNOWN")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rec.Code)
	}
	if body["error"] != "Symbol not supported" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestCheckPatternQuery(t *testing.T) {
	h := newTestHandler(true)

	rec, body := doRequest(t, h, "/api/pattern?symbol=aapl")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if body["pattern_detected"] != true {
		t.Errorf("lowercase symbol should be accepted: %v", body)
	}

	rec, body = doRequest(t, h, "/api/pattern")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	if body["error"] != "Symbol parameter is required" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestCheckAllPatterns(t *testing.T) {
	rec, body := doRequest(t, newTestHandler(true), "/patterns/AAPL")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	patterns, ok := body["patterns"].(map[string]any)
	if !ok {
		t.Fatalf("missing patterns map in %v", body)
	}
	if patterns["cup_and_handle"] != true || patterns["three_white_soldiers"] != false {
		t.Errorf("unexpected verdicts: %v", patterns)
	}
}

func TestNoRoute(t *testing.T) {
	rec, body := doRequest(t, newTestHandler(false), "/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rec.Code)
	}
	if body["error"] != "Resource not found" {
		t.Errorf("unexpected body: %v", body)
	}
}
