// Package cache provides the transient key-value store behind batch reports.
//
// A batch report is written once when a roster has been rendered and read
// back by ID until it expires. Three backends implement [Cache]:
//
//   - [NullCache] stores nothing (reports are not retained)
//   - [FileCache] keeps entries as JSON files with an expiry, for single-host use
//   - [RedisCache] keeps entries in Redis with a native TTL, for shared deployments
//
// [Reports] layers typed JSON encoding, key naming and instrumentation on top
// of any backend.
package cache

import (
	"context"
	"time"
)

// TTLReport is the default lifetime of a stored batch report.
const TTLReport = 24 * time.Hour

// Cache is a byte-oriented key-value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. hit is false when the key is absent
	// or expired; err is reserved for backend failures.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache is the backend used when no report store is configured. Every
// lookup misses and writes are dropped.
type NullCache struct{}

// NewNullCache returns a cache that retains nothing.
func NewNullCache() Cache { return NullCache{} }

// Get always misses.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set drops the entry.
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete does nothing.
func (NullCache) Delete(context.Context, string) error { return nil }

// Close does nothing.
func (NullCache) Close() error { return nil }
