package diff

import lru "github.com/hashicorp/golang-lru/v2"

// typePairKey identifies a (v1 type name, v2 type name) pair for the
// type-merge memoization cache. Matching is by name, not by intern.ID,
// since the two bundles being compared each have their own interning table.
type typePairKey struct {
	v1Name string
	v2Name string
}

// factCache memoizes the structural facts computed for a type pair so that
// merge_types need only walk a given pair's fields and supertypes once, no
// matter how many methods mention the pair.
type factCache struct {
	lru *lru.Cache[typePairKey, []typeFact]
}

// factCacheSize bounds memory use for very large comparisons (the full
// cross product of two large class libraries); a miss just recomputes.
const factCacheSize = 4096

func newFactCache() *factCache {
	c, err := lru.New[typePairKey, []typeFact](factCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which
		// factCacheSize never is.
		panic(err)
	}
	return &factCache{lru: c}
}

func (fc *factCache) get(key typePairKey) ([]typeFact, bool) {
	return fc.lru.Get(key)
}

func (fc *factCache) put(key typePairKey, facts []typeFact) {
	fc.lru.Add(key, facts)
}
