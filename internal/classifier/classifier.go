// Package classifier resolves purchased items to benefit categories.
//
// Resolution order: a declared category known to the catalog, then a cached
// classification of the item identifier, then keyword rules over the product
// name, then CategoryUnknown. Only eligible categories are payable.
// Declared categories match case-insensitively and resolve to the catalog's
// lowercase spelling.
package classifier

import (
	"strings"
)

// Identifiers of an item; the first usable one keys the cache.
type Identifiers struct {
	UPC   string
	SKU   string
	Other string
}

// Primary picks the cache key. A UPC only counts when its check digit is
// valid, so a mistyped code never reads or seeds another product's entry.
func (ids Identifiers) Primary() string {
	if upc := strings.TrimSpace(ids.UPC); ValidGTIN(upc) {
		return upc
	}
	for _, id := range []string{ids.SKU, ids.Other} {
		if id = strings.TrimSpace(id); id != "" {
			return id
		}
	}
	return ""
}

type Classifier struct {
	cache      Cache
	eligible   map[string]struct{}
	ineligible map[string]struct{}
	rules      []KeywordRule
}

// New builds a classifier over the catalog. A nil cache gets a private LRU.
func New(catalog *Catalog, cache Cache) *Classifier {
	if cache == nil {
		cache = NewLRUCache(DefaultCacheSize)
	}
	c := &Classifier{
		cache:      cache,
		eligible:   make(map[string]struct{}, len(catalog.Eligible)),
		ineligible: make(map[string]struct{}, len(catalog.Ineligible)),
		rules:      catalog.KeywordRules,
	}
	for _, cat := range catalog.Eligible {
		c.eligible[cat] = struct{}{}
	}
	for _, cat := range catalog.Ineligible {
		c.ineligible[cat] = struct{}{}
	}
	return c
}

func (c *Classifier) known(category string) bool {
	_, eligible := c.eligible[category]
	_, ineligible := c.ineligible[category]
	return eligible || ineligible
}

func (c *Classifier) Classify(ids Identifiers, name, declared string) string {
	if d := normalize(declared); d != "" && c.known(d) {
		return d
	}

	id := ids.Primary()
	if id != "" {
		if cached, ok := c.cache.Get(id); ok {
			return cached
		}
	}

	if name = normalize(name); name != "" {
		for _, rule := range c.rules {
			for _, kw := range rule.Keywords {
				if !strings.Contains(name, kw) {
					continue
				}
				if id != "" {
					c.cache.Add(id, rule.Category)
				}
				return rule.Category
			}
		}
	}

	return CategoryUnknown
}

// IsEligible denies everything outside the eligible set, CategoryUnknown included.
func (c *Classifier) IsEligible(category string) bool {
	_, ok := c.eligible[normalize(category)]
	return ok
}
