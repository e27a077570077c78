// Copyright 2025 The SCE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package compiler

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
)

// Default values for the output cache.
const (
	defaultCacheMaxCost  = 16 << 20
	cacheBufferItems     = 64
	cacheCountersPerItem = 10
	cacheExpectedSize    = 1024
)

// CacheConfig is the configuration of the compiler output cache. The cache
// maps a command line and a buffer to the compiler output, so it must stay
// disabled when the compiled code includes headers that may change.
type CacheConfig struct {
	Enabled bool  `mapstructure:"enabled"`
	MaxCost int64 `mapstructure:"max-cost"` // maximum total size of the cached output in bytes
}

type cache struct {
	c *ristretto.Cache[string, []byte]
}

// DefaultCacheConfig returns the default cache configuration. The cache is
// disabled by default.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: false,
		MaxCost: defaultCacheMaxCost,
	}
}

func newCache(cfg CacheConfig) (*cache, error) {
	maxCost := cfg.MaxCost
	if maxCost <= 0 {
		maxCost = defaultCacheMaxCost
	}

	counters := maxCost / cacheExpectedSize * cacheCountersPerItem
	if counters < cacheCountersPerItem {
		counters = cacheCountersPerItem
	}

	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{ //nolint:exhaustruct // use defaults
		NumCounters: counters,
		MaxCost:     maxCost,
		BufferItems: cacheBufferItems,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create compiler output cache: %w", err)
	}

	return &cache{c: c}, nil
}

func (c *cache) get(key string) ([]byte, bool) {
	return c.c.Get(key)
}

// set stores the output and waits until the value is visible to get.
func (c *cache) set(key string, out []byte) {
	cost := int64(len(out))
	if cost == 0 {
		cost = 1
	}

	if c.c.Set(key, out, cost) {
		c.c.Wait()
	}
}

func (c *cache) close() {
	c.c.Close()
}
