package judge

import (
	"net/http"
	"testing"
	"time"
)

func TestRetryAfter(t *testing.T) {
	cases := map[string]time.Duration{
		"":      0,
		"3":     3 * time.Second,
		"-1":    0,
		"later": 0,
	}
	for h, want := range cases {
		resp := &http.Response{Header: http.Header{}}
		if h != "" {
			resp.Header.Set("Retry-After", h)
		}
		if got := retryAfter(resp); got != want {
			t.Errorf("Retry-After %q: got %v, want %v", h, got, want)
		}
	}
}

func TestBackoffGrowsWithJitter(t *testing.T) {
	if d := backoff(0); d < 200*time.Millisecond || d > 300*time.Millisecond {
		t.Fatalf("backoff(0) = %v", d)
	}
	if d := backoff(2); d < 800*time.Millisecond || d > 1200*time.Millisecond {
		t.Fatalf("backoff(2) = %v", d)
	}
}
