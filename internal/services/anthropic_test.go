package services

import (
	"math"
	"testing"
)

func TestEstimateCostUSDKnownModels(t *testing.T) {
	// 1000 in + 500 out on sonnet: (1000*3 + 500*15) / 1e6
	got := EstimateCostUSD("claude-sonnet-4-5-20250929", 1000, 500)
	if math.Abs(got-0.0105) > 1e-9 {
		t.Fatalf("sonnet cost = %v", got)
	}

	got = EstimateCostUSD("claude-opus-4-6", 1000, 500)
	if math.Abs(got-0.0525) > 1e-9 {
		t.Fatalf("opus cost = %v", got)
	}
}

func TestEstimateCostUSDUnknownModelUsesHighEnd(t *testing.T) {
	unknown := EstimateCostUSD("claude-next", 1000, 500)
	opus := EstimateCostUSD("claude-opus-4-6", 1000, 500)
	if unknown != opus {
		t.Fatalf("unknown model priced %v, want high-end %v", unknown, opus)
	}
}

func TestIsRetryableHTTP(t *testing.T) {
	for _, code := range []int{408, 429, 500, 503, 599} {
		if !isRetryableHTTP(code) {
			t.Errorf("expected %d retryable", code)
		}
	}
	for _, code := range []int{200, 400, 401, 404, 422} {
		if isRetryableHTTP(code) {
			t.Errorf("expected %d not retryable", code)
		}
	}
}
