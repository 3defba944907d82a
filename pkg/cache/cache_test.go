package cache

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var errConnReset = errors.New("connection reset")

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "report:abc", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "report:abc")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v; want hit", hit, err)
	}
	if string(data) != "payload" {
		t.Errorf("Get = %q, want payload", data)
	}

	if err := c.Delete(ctx, "report:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "report:abc"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "report:abc"); err != nil {
		t.Errorf("Delete of absent key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fc := c.(*FileCache)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	fc.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("fresh entry should hit")
	}

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestKeyers(t *testing.T) {
	if got := NewDefaultKeyer().ReportKey("abc"); got != "report:abc" {
		t.Errorf("DefaultKeyer.ReportKey = %q", got)
	}
	if got := NewScopedKeyer(NewDefaultKeyer(), "badgepress:").ReportKey("abc"); got != "badgepress:report:abc" {
		t.Errorf("ScopedKeyer.ReportKey = %q", got)
	}
	// Should use DefaultKeyer when inner is nil
	if got := NewScopedKeyer(nil, "p:").ReportKey("x"); got != "p:report:x" {
		t.Errorf("ScopedKeyer with nil inner = %q", got)
	}
}

type testReport struct {
	BatchID string `json:"batch_id"`
	Total   int    `json:"total"`
}

func TestReportsRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	reports := NewReports(c, nil, 0)
	defer reports.Close()

	if reports.TTL != TTLReport {
		t.Errorf("default TTL = %v, want %v", reports.TTL, TTLReport)
	}

	want := testReport{BatchID: "b1", Total: 12}
	if err := reports.Save(ctx, "b1", want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	var got testReport
	if err := reports.Load(ctx, "b1", &got); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}

	if err := reports.Load(ctx, "missing", &got); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrNotFound", err)
	}
}

func TestReportsNullStore(t *testing.T) {
	ctx := context.Background()
	reports := NewReports(nil, nil, time.Minute)

	if err := reports.Save(ctx, "b1", testReport{BatchID: "b1"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	var got testReport
	if err := reports.Load(ctx, "b1", &got); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load from null store error = %v, want ErrNotFound", err)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not-a-redis-url"); err == nil {
		t.Error("NewRedisCache should reject an invalid URL")
	}
}

func TestWithRetry(t *testing.T) {
	defer func(d time.Duration) { redisBackoff = d }(redisBackoff)
	redisBackoff = time.Millisecond

	netErr := &net.OpError{Op: "read", Net: "tcp", Err: errConnReset}
	errReply := errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")

	tests := []struct {
		name      string
		failures  []error // returned by successive calls, then nil
		wantErr   error
		wantCalls int
	}{
		{"success", nil, nil, 1},
		{"server reply is final", []error{errReply}, errReply, 1},
		{"network error then success", []error{netErr}, nil, 2},
		{"network error every time", []error{netErr, netErr, netErr, netErr}, netErr, redisAttempts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := withRetry(context.Background(), func() error {
				calls++
				if calls <= len(tt.failures) {
					return classify(tt.failures[calls-1])
				}
				return nil
			})
			if err != tt.wantErr {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestWithRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withRetry(ctx, func() error {
		return classify(&net.OpError{Op: "dial", Net: "tcp", Err: errConnReset})
	})
	if err != context.Canceled {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
