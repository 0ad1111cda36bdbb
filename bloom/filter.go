// Package bloom provides a probabilistic set used to skip index lookups for
// keys that have never been recorded.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter is a concurrency-safe Bloom filter over string keys.
type Filter struct {
	mu     sync.RWMutex
	f      *bloom.BloomFilter
	n      uint
	fpRate float64
}

// NewFilter creates a new Bloom filter sized for n expected keys
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f:      bloom.NewWithEstimates(n, fpRate),
		n:      n,
		fpRate: fpRate,
	}
}

// Add adds key to the filter.
func (f *Filter) Add(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.f.AddString(key)
}

// MayContain returns true if key might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) MayContain(key string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.f.TestString(key)
}

// Reset empties the filter, keeping its sizing.
func (f *Filter) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.f = bloom.NewWithEstimates(f.n, f.fpRate)
}
