package collector

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

// roundTripFunc stubs the HTTP transport with a canned response.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func stubClient(status int, body string) *http.Client {
	return &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(http.Header),
		}, nil
	})}
}

const chartOK = `{
	"chart": {
		"result": [{
			"timestamp": [1672675200, 1672674900, 1672675500],
			"indicators": {
				"quote": [{
					"open":   [100.0, 99.0, null],
					"high":   [101.0, 100.0, null],
					"low":    [99.5, 98.5, null],
					"close":  [100.5, 99.5, null],
					"volume": [1000, 900, null]
				}]
			}
		}],
		"error": null
	}
}`

func TestFetchIntraday_ParsesAndSorts(t *testing.T) {
	f := &YahooFetcher{Client: stubClient(http.StatusOK, chartOK)}

	bars, err := f.FetchIntraday("AAPL", 5, 1)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	// The null bar is dropped, the remaining two come back in time order.
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	if !bars[0].Time.Before(bars[1].Time) {
		t.Error("bars not sorted chronologically")
	}
	if bars[0].Close != 99.5 || bars[1].Close != 100.5 {
		t.Errorf("unexpected closes: %f, %f", bars[0].Close, bars[1].Close)
	}
	if bars[1].Volume != 1000 {
		t.Errorf("unexpected volume: %f", bars[1].Volume)
	}
}

func TestFetchIntraday_APIError(t *testing.T) {
	body := `{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found"}}}`
	f := &YahooFetcher{Client: stubClient(http.StatusOK, body)}

	if _, err := f.FetchIntraday("NOPE", 5, 1); err == nil {
		t.Error("expected error from API error payload")
	}
}

func TestFetchIntraday_HTTPError(t *testing.T) {
	f := &YahooFetcher{Client: stubClient(http.StatusTooManyRequests, "rate limited")}
	if _, err := f.FetchIntraday("AAPL", 5, 1); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestFetchIntraday_EmptyResult(t *testing.T) {
	body := `{"chart": {"result": [], "error": null}}`
	f := &YahooFetcher{Client: stubClient(http.StatusOK, body)}
	if _, err := f.FetchIntraday("AAPL", 5, 1); err == nil {
		t.Error("expected error for empty result set")
	}
}

func TestToFloat(t *testing.T) {
	if got := toFloat(nil); got != 0 {
		t.Errorf("toFloat(nil) = %f", got)
	}
	if got := toFloat(3.5); got != 3.5 {
		t.Errorf("toFloat(3.5) = %f", got)
	}
	if got := toFloat("bad"); got != 0 {
		t.Errorf("toFloat(string) = %f", got)
	}
}
