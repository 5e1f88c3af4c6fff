package display

import (
	"context"
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/acampos/votematch/internal/ports"
)

// resolution is the memoized outcome of one party lookup. Misses are
// cached too, so repeated unknown names cost one fuzzy scan total.
type resolution struct {
	style PartyStyle
	found bool
}

// PartyResolver resolves raw party names to their style overrides.
// Lookups try an exact normalized match first, then fall back to a
// Levenshtein similarity scan over the configured party table. Outcomes
// are memoized in a bounded TTL cache so dataset-wide rendering does not
// rescan the table per row.
type PartyResolver struct {
	config    *Config
	cache     ports.CacheStore
	threshold float64
}

// NewPartyResolver creates a PartyResolver. The threshold is the minimum
// similarity in (0,1] a fuzzy match must reach; 0.8 tolerates the accent
// and suffix drift seen in source datasets without cross-matching
// distinct parties. A nil cache disables memoization.
func NewPartyResolver(config *Config, cache ports.CacheStore, threshold float64) (*PartyResolver, error) {
	if config == nil {
		return nil, fmt.Errorf("display config cannot be nil")
	}
	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("similarity threshold %v outside (0,1]", threshold)
	}
	return &PartyResolver{config: config, cache: cache, threshold: threshold}, nil
}

// Resolve returns the style overrides for a raw party name.
func (r *PartyResolver) Resolve(ctx context.Context, raw string) (PartyStyle, bool) {
	normalized := r.config.NormalizeParty(raw)
	cacheKey := "party:" + normalized

	if r.cache != nil {
		if cached, ok, err := r.cache.Get(ctx, cacheKey); err == nil && ok {
			if res, ok := cached.(resolution); ok {
				return res.style, res.found
			}
		}
	}

	res := r.lookup(normalized)

	if r.cache != nil {
		// Cache write failures only cost the memoization, never the lookup.
		_ = r.cache.Set(ctx, cacheKey, res, 0)
	}
	return res.style, res.found
}

func (r *PartyResolver) lookup(normalized string) resolution {
	if style, ok := r.config.partyStyles[normalized]; ok {
		return resolution{style: style, found: true}
	}
	if normalized == "" {
		return resolution{}
	}

	// Deterministic fuzzy scan: candidates in sorted order, best
	// similarity wins, first (lexicographically smallest) name on ties.
	names := r.config.normalizedNames()
	sort.Strings(names)

	bestName := ""
	bestScore := 0.0
	for _, name := range names {
		score := similarity(normalized, name)
		if score > bestScore {
			bestName, bestScore = name, score
		}
	}
	if bestScore < r.threshold {
		return resolution{}
	}
	return resolution{style: r.config.partyStyles[bestName], found: true}
}

// similarity maps Levenshtein distance to [0,1]: 1 for equal strings,
// approaching 0 as the edit distance nears the longer string's length.
func similarity(a, b string) float64 {
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
