package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"samakicash/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func completion(content string) *http.Response {
	body, _ := json.Marshal(map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
	})
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(string(body)))}
}

func newAnalyzer(rt roundTripFunc) *Analyzer {
	return New(Options{
		APIKey:     "sk-test",
		BaseURL:    "https://api.mistral.test/v1",
		Model:      "mistral-large-latest",
		HTTPClient: &http.Client{Transport: rt},
	})
}

func TestAnalyzeParsesProviderPayload(t *testing.T) {
	var prompt string
	analyzer := newAnalyzer(func(r *http.Request) (*http.Response, error) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		prompt = req.Messages[0].Content
		return completion(`{"fair_price":"6,100","currency":"tzs","reasoning":"Low supply","confidence_score":1.4}`), nil
	})

	res := analyzer.Analyze(context.Background(), Request{FishType: "Tilapia", QuantityKg: 10, Location: "Mwanza"})
	if res.Source != domain.SourceProvider {
		t.Fatalf("Source = %s, want provider (reason %q)", res.Source, res.Reason)
	}
	want := domain.PriceAnalysis{FairPrice: 6100, Currency: "TZS", Reasoning: "Low supply", ConfidenceScore: 1}
	if res.Value != want {
		t.Fatalf("Value = %+v, want %+v", res.Value, want)
	}
	for _, fragment := range []string{"Fish Type: Tilapia", "Quantity: 10 kg", "Location: Mwanza"} {
		if !strings.Contains(prompt, fragment) {
			t.Fatalf("prompt missing %q:\n%s", fragment, prompt)
		}
	}
}

func TestAnalyzeFallsBackOnFailures(t *testing.T) {
	cases := []struct {
		name   string
		rt     roundTripFunc
		reason string
	}{
		{
			name:   "connection",
			rt:     func(*http.Request) (*http.Response, error) { return nil, errors.New("dial tcp: connection refused") },
			reason: "http_request",
		},
		{
			name: "http_500",
			rt: func(*http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: 500, Body: io.NopCloser(strings.NewReader("oops"))}, nil
			},
			reason: "http_500",
		},
		{
			name:   "malformed_content",
			rt:     func(*http.Request) (*http.Response, error) { return completion("the price is good"), nil },
			reason: "parse_payload",
		},
		{
			name:   "nan_price",
			rt:     func(*http.Request) (*http.Response, error) { return completion(`{"fair_price":"NaN","currency":"TZS"}`), nil },
			reason: "parse_payload",
		},
		{
			name:   "infinite_price",
			rt:     func(*http.Request) (*http.Response, error) { return completion(`{"fair_price":"Infinity","currency":"TZS"}`), nil },
			reason: "parse_payload",
		},
		{
			name: "infinite_confidence",
			rt: func(*http.Request) (*http.Response, error) {
				return completion(`{"fair_price":5000,"currency":"TZS","confidence_score":"-Inf"}`), nil
			},
			reason: "parse_payload",
		},
		{
			name:   "zero_price",
			rt:     func(*http.Request) (*http.Response, error) { return completion(`{"fair_price":0}`), nil },
			reason: "invalid_price",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			res := newAnalyzer(tc.rt).Analyze(context.Background(), Request{FishType: "Tilapia", QuantityKg: 10, Location: "Mwanza"})
			if !res.IsFallback() {
				t.Fatalf("expected fallback, got %s", res.Source)
			}
			if res.Value != FallbackAnalysis {
				t.Fatalf("Value = %+v, want fallback literal", res.Value)
			}
			if res.Reason != tc.reason {
				t.Fatalf("Reason = %q, want %q", res.Reason, tc.reason)
			}
		})
	}
}

func TestAnalyzeFallsBackOnTimeout(t *testing.T) {
	analyzer := New(Options{
		APIKey:  "sk-test",
		BaseURL: "https://api.mistral.test/v1",
		Timeout: 20 * time.Millisecond,
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			<-r.Context().Done()
			return nil, r.Context().Err()
		})},
	})
	res := analyzer.Analyze(context.Background(), Request{FishType: "Tilapia", QuantityKg: 10, Location: "Mwanza"})
	if res.Value != FallbackAnalysis || res.Reason != "timeout" {
		t.Fatalf("got %+v reason %q, want fallback with timeout", res.Value, res.Reason)
	}
}

func TestAnalyzeCallsProviderWithoutCredential(t *testing.T) {
	called := false
	analyzer := New(Options{
		BaseURL: "https://api.mistral.test/v1",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			called = true
			return completion(`{"fair_price":4000,"currency":"TZS","reasoning":"ok","confidence_score":0.5}`), nil
		})},
	})
	res := analyzer.Analyze(context.Background(), Request{FishType: "Dagaa", QuantityKg: 2, Location: "Kigoma"})
	if !called {
		t.Fatalf("provider should still be called with a missing credential")
	}
	if res.Source != domain.SourceProvider {
		t.Fatalf("Source = %s, want provider", res.Source)
	}
}
