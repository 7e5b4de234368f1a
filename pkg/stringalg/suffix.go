// Package stringalg provides suffix-array based substring algorithms.
//
// Sequences are generic over ordered symbols. String helpers operate on
// bytes: a string is compared as its UTF-8 code units, so values with
// non-ASCII characters are matched byte for byte with no normalization.
package stringalg

import (
	"cmp"
	"slices"
)

// denseRanks maps every element of keys to its rank among the distinct
// values of keys, so equal keys share a rank and ranks are contiguous from 0.
func denseRanks[K any](keys []K, compare func(a, b K) int) []int {
	n := len(keys)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		return compare(keys[a], keys[b])
	})

	ranks := make([]int, n)
	r := 0
	for i, idx := range order {
		if i > 0 && compare(keys[order[i-1]], keys[idx]) != 0 {
			r++
		}
		ranks[idx] = r
	}
	return ranks
}

type rankPair struct {
	first, second int
}

func compareRankPair(a, b rankPair) int {
	if c := cmp.Compare(a.first, b.first); c != 0 {
		return c
	}
	return cmp.Compare(a.second, b.second)
}

// SuffixArray returns the suffix array of s: a permutation sa of [0, n)
// such that s[sa[i]:] is lexicographically non-decreasing in i.
//
// Construction is by prefix doubling in O(n log^2 n): suffixes are ranked by
// their first symbol, then by pairs (rank[i], rank[i+k]) for k = 1, 2, 4, ...
// until every rank is distinct.
func SuffixArray[E cmp.Ordered](s []E) []int {
	n := len(s)
	if n == 0 {
		return []int{}
	}

	rank := denseRanks(s, cmp.Compare[E])
	pairs := make([]rankPair, n)
	for k := 1; maxRank(rank) < n-1; k <<= 1 {
		for i := range pairs {
			// A suffix shorter than k sorts before any longer one sharing
			// its prefix, so the missing half ranks below every real rank.
			second := -1
			if i+k < n {
				second = rank[i+k]
			}
			pairs[i] = rankPair{first: rank[i], second: second}
		}
		rank = denseRanks(pairs, compareRankPair)
	}

	return inverse(rank)
}

// LCP returns the longest-common-prefix array of s for its suffix array sa,
// using Kasai's algorithm in O(n).
//
// lcp[j] is the length of the common prefix of the suffix starting at text
// position j and the suffix that follows it in suffix-array order. It is 0
// for the lexicographically last suffix.
func LCP[E cmp.Ordered](s []E, sa []int) []int {
	n := len(s)
	lcp := make([]int, n)
	if n == 0 {
		return lcp
	}

	rank := inverse(sa)
	h := 0
	for i := 0; i < n; i++ {
		if rank[i] == n-1 {
			h = 0
			continue
		}
		j := sa[rank[i]+1]
		for i+h < n && j+h < n && s[i+h] == s[j+h] {
			h++
		}
		lcp[i] = h
		// Dropping the first symbol of suffix i shortens its match with
		// its successor by at most one.
		if h > 0 {
			h--
		}
	}
	return lcp
}

func maxRank(rank []int) int {
	return slices.Max(rank)
}

// inverse returns the inverse of the permutation p.
func inverse(p []int) []int {
	out := make([]int, len(p))
	for i, v := range p {
		out[v] = i
	}
	return out
}
