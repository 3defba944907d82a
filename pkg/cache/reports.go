package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/badgepress/pkg/observability"
)

// ErrNotFound is returned by [Reports.Load] when a report does not exist or
// has expired.
var ErrNotFound = errors.New("report not found")

// keyTypeReport labels report operations in cache hooks.
const keyTypeReport = "report"

// Reports stores JSON-encoded batch reports by batch ID.
type Reports struct {
	Cache Cache
	Keyer Keyer
	TTL   time.Duration
}

// NewReports creates a report store. A nil cache disables storage, a nil
// keyer selects the default and a zero ttl selects TTLReport.
func NewReports(c Cache, keyer Keyer, ttl time.Duration) *Reports {
	if c == nil {
		c = NewNullCache()
	}
	if keyer == nil {
		keyer = NewDefaultKeyer()
	}
	if ttl == 0 {
		ttl = TTLReport
	}
	return &Reports{Cache: c, Keyer: keyer, TTL: ttl}
}

// Save stores report under batchID.
func (r *Reports) Save(ctx context.Context, batchID string, report any) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := r.Cache.Set(ctx, r.Keyer.ReportKey(batchID), data, r.TTL); err != nil {
		return fmt.Errorf("store report %s: %w", batchID, err)
	}
	observability.Cache().OnCacheSet(ctx, keyTypeReport, len(data))
	return nil
}

// Load decodes the report stored under batchID into dst. It returns
// ErrNotFound when no unexpired report exists.
func (r *Reports) Load(ctx context.Context, batchID string, dst any) error {
	data, hit, err := r.Cache.Get(ctx, r.Keyer.ReportKey(batchID))
	if err != nil {
		return fmt.Errorf("load report %s: %w", batchID, err)
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeReport)
		return ErrNotFound
	}
	observability.Cache().OnCacheHit(ctx, keyTypeReport)
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode report %s: %w", batchID, err)
	}
	return nil
}

// Close closes the underlying cache.
func (r *Reports) Close() error {
	return r.Cache.Close()
}
