// Package dsa holds in-memory data structures used on hot paths.
package dsa

import (
	"hash/maphash"
	"math"
	"sync"
)

// ─── Pair Filter ────────────────────────────────────────────────────────────
// A Bloom filter over movement GUID pair keys. MayContain never misses a
// remembered key; it may report a key that was never remembered, at about
// the configured rate. Callers confirm every hit against storage.

// BloomConfig sizes a Filter.
type BloomConfig struct {
	ExpectedItems int     // pairs the filter should hold at the target rate
	FPRate        float64 // target false positive rate, e.g. 0.001
}

// DefaultBloomConfig sizes for 100k pairs at 0.1%, about 176 KB.
func DefaultBloomConfig() BloomConfig {
	return BloomConfig{ExpectedItems: 100_000, FPRate: 0.001}
}

func (c BloomConfig) normalized() BloomConfig {
	def := DefaultBloomConfig()
	if c.ExpectedItems <= 0 {
		c.ExpectedItems = def.ExpectedItems
	}
	if c.FPRate <= 0 || c.FPRate >= 1 {
		c.FPRate = def.FPRate
	}
	return c
}

// Filter is safe for concurrent use.
type Filter struct {
	seed maphash.Seed

	mu    sync.RWMutex
	words []uint64
	bits  uint64
	probe uint64
	pairs int
}

// Stats describes a filter's size and fill.
type Stats struct {
	Pairs  int
	Bits   uint64
	Probes uint64
	FPRate float64 // estimated at the current fill
}

// NewFilter returns an empty filter sized for cfg.
func NewFilter(cfg BloomConfig) *Filter {
	cfg = cfg.normalized()
	bits, probe := sizeFor(cfg.ExpectedItems, cfg.FPRate)
	return &Filter{
		seed:  maphash.MakeSeed(),
		words: make([]uint64, bits/64),
		bits:  bits,
		probe: probe,
	}
}

// sizeFor returns the bit count (a multiple of 64) and probe count for n
// items at false positive rate p: m = -n ln p / ln²2, k = m/n ln 2.
func sizeFor(n int, p float64) (uint64, uint64) {
	m := math.Ceil(-float64(n) * math.Log(p) / (math.Ln2 * math.Ln2))
	bits := (uint64(m) + 63) &^ 63
	if bits == 0 {
		bits = 64
	}
	k := uint64(math.Round(float64(bits) / float64(n) * math.Ln2))
	if k == 0 {
		k = 1
	}
	return bits, k
}

// positions yields the probe positions for key via double hashing over
// one 64-bit hash split in halves. The step is odd so probes never
// collapse onto one bit.
func (f *Filter) positions(key string, visit func(word uint64, mask uint64) bool) {
	h := maphash.String(f.seed, key)
	lo, step := h&math.MaxUint32, (h>>32)|1
	for i := uint64(0); i < f.probe; i++ {
		pos := (lo + i*step) % f.bits
		if !visit(pos/64, 1<<(pos%64)) {
			return
		}
	}
}

// Remember records key.
func (f *Filter) Remember(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.positions(key, func(w, mask uint64) bool {
		f.words[w] |= mask
		return true
	})
	f.pairs++
}

// MayContain reports whether key might have been remembered.
func (f *Filter) MayContain(key string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	hit := true
	f.positions(key, func(w, mask uint64) bool {
		hit = f.words[w]&mask != 0
		return hit
	})
	return hit
}

// Rebuild replaces the filter's contents with keys. Keys removed from
// storage since the last rebuild are forgotten here.
func (f *Filter) Rebuild(keys []string) {
	fresh := &Filter{seed: f.seed, words: make([]uint64, len(f.words)), bits: f.bits, probe: f.probe}
	for _, k := range keys {
		fresh.positions(k, func(w, mask uint64) bool {
			fresh.words[w] |= mask
			return true
		})
	}

	f.mu.Lock()
	f.words, f.pairs = fresh.words, len(keys)
	f.mu.Unlock()
}

// Stats reports the filter's size and estimated false positive rate,
// (1 - e^(-kn/m))^k.
func (f *Filter) Stats() Stats {
	f.mu.RLock()
	defer f.mu.RUnlock()
	k, n, m := float64(f.probe), float64(f.pairs), float64(f.bits)
	return Stats{
		Pairs:  f.pairs,
		Bits:   f.bits,
		Probes: f.probe,
		FPRate: math.Pow(1-math.Exp(-k*n/m), k),
	}
}
