package viewer

import (
	"net/http/httptest"
	"testing"
)

func TestConnLimiterPerIP(t *testing.T) {
	limiter := NewConnLimiter(2, 0)

	if !limiter.TryAcquire("10.0.0.1") {
		t.Fatal("first acquire should succeed")
	}
	if !limiter.TryAcquire("10.0.0.1") {
		t.Fatal("second acquire should succeed")
	}
	if limiter.TryAcquire("10.0.0.1") {
		t.Fatal("third acquire from the same IP should fail")
	}
	if !limiter.TryAcquire("10.0.0.2") {
		t.Fatal("acquire from a different IP should succeed")
	}

	limiter.Release("10.0.0.1")
	if !limiter.TryAcquire("10.0.0.1") {
		t.Error("acquire after release should succeed")
	}
}

func TestConnLimiterTotal(t *testing.T) {
	limiter := NewConnLimiter(0, 2)

	limiter.TryAcquire("10.0.0.1")
	limiter.TryAcquire("10.0.0.2")
	if limiter.TryAcquire("10.0.0.3") {
		t.Fatal("acquire beyond the total limit should fail")
	}

	limiter.Release("10.0.0.2")
	if !limiter.TryAcquire("10.0.0.3") {
		t.Error("acquire after release should succeed")
	}
}

func TestConnLimiterUnlimited(t *testing.T) {
	limiter := NewConnLimiter(0, 0)
	for i := 0; i < 50; i++ {
		if !limiter.TryAcquire("10.0.0.1") {
			t.Fatalf("acquire %d failed with no limits", i)
		}
	}
}

func TestConnLimiterStats(t *testing.T) {
	limiter := NewConnLimiter(5, 10)
	limiter.TryAcquire("10.0.0.1")
	limiter.TryAcquire("10.0.0.1")
	limiter.TryAcquire("10.0.0.2")

	total, ips := limiter.Stats()
	if total != 3 || ips != 2 {
		t.Errorf("Stats() = %d, %d, want 3, 2", total, ips)
	}
	if got := limiter.IPCount("10.0.0.1"); got != 2 {
		t.Errorf("IPCount() = %d, want 2", got)
	}

	limiter.Release("10.0.0.2")
	limiter.Release("10.0.0.2") // Extra release is ignored
	total, ips = limiter.Stats()
	if total != 2 || ips != 1 {
		t.Errorf("Stats() after release = %d, %d, want 2, 1", total, ips)
	}
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"192.168.1.1:8080", "192.168.1.1"},
		{"[::1]:8080", "::1"},
		{"192.168.1.1", "192.168.1.1"},
	}
	for _, tc := range tests {
		if got := extractIP(tc.in); got != tc.want {
			t.Errorf("extractIP(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "10.1.1.1:5000", "10.1.1.1"},
		{"forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.1.1.1:5000", "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": " 203.0.113.9 "}, "10.1.1.1:5000", "203.0.113.9"},
		{"forwarded wins", map[string]string{"X-Forwarded-For": "203.0.113.5", "X-Real-IP": "203.0.113.9"}, "10.1.1.1:5000", "203.0.113.5"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}
			if got := realIP(r); got != tc.want {
				t.Errorf("realIP() = %q, want %q", got, tc.want)
			}
		})
	}
}
