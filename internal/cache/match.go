package cache

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Policy selects the eviction policy of a MatchCache.
type Policy string

const (
	// PolicyLRU evicts the least recently used entry.
	PolicyLRU Policy = "lru"
	// Policy2Q tracks recent and frequent entries separately (2Q).
	Policy2Q Policy = "2q"
)

// ParsePolicy converts a configuration string into a Policy.
// An empty string selects PolicyLRU.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(PolicyLRU):
		return PolicyLRU, nil
	case string(Policy2Q):
		return Policy2Q, nil
	default:
		return "", fmt.Errorf("unknown cache policy %q", s)
	}
}

// MatchKey identifies one header/candidate comparison.
type MatchKey struct {
	Header string
	Text   string
}

// MatchCache memoizes boolean match decisions with a fixed capacity.
// It never reports errors on overflow; old entries are silently evicted.
type MatchCache struct {
	policy Policy
	lru    *lru.Cache[MatchKey, bool]
	twoQ   *lru.TwoQueueCache[MatchKey, bool]
}

// NewMatchCache creates a cache holding at most capacity decisions.
func NewMatchCache(capacity int, policy Policy) (*MatchCache, error) {
	c := &MatchCache{policy: policy}
	var err error
	switch policy {
	case PolicyLRU:
		c.lru, err = lru.New[MatchKey, bool](capacity)
	case Policy2Q:
		c.twoQ, err = lru.New2Q[MatchKey, bool](capacity)
	default:
		return nil, fmt.Errorf("unknown cache policy %q", policy)
	}
	if err != nil {
		return nil, fmt.Errorf("creating %s match cache: %w", policy, err)
	}
	return c, nil
}

// Get returns the memoized decision for key, if any.
func (c *MatchCache) Get(key MatchKey) (matched, ok bool) {
	if c.twoQ != nil {
		return c.twoQ.Get(key)
	}
	return c.lru.Get(key)
}

// Put records a decision, evicting according to the policy when full.
func (c *MatchCache) Put(key MatchKey, matched bool) {
	if c.twoQ != nil {
		c.twoQ.Add(key, matched)
		return
	}
	c.lru.Add(key, matched)
}

// Len returns the number of memoized decisions.
func (c *MatchCache) Len() int {
	if c.twoQ != nil {
		return c.twoQ.Len()
	}
	return c.lru.Len()
}

// Purge drops every memoized decision.
func (c *MatchCache) Purge() {
	if c.twoQ != nil {
		c.twoQ.Purge()
		return
	}
	c.lru.Purge()
}

// Policy returns the eviction policy of c.
func (c *MatchCache) Policy() Policy {
	return c.policy
}
