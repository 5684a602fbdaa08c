package classifier

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// CategoryUnknown is returned when nothing resolves an item.
const CategoryUnknown = "unknown"

type KeywordRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

type Catalog struct {
	Eligible     []string      `yaml:"eligible"`
	Ineligible   []string      `yaml:"ineligible"`
	KeywordRules []KeywordRule `yaml:"keyword_rules"`
}

func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads a replacement catalog; an empty path selects the built-in one.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (c *Catalog) normalize() {
	for i := range c.Eligible {
		c.Eligible[i] = normalize(c.Eligible[i])
	}
	for i := range c.Ineligible {
		c.Ineligible[i] = normalize(c.Ineligible[i])
	}
	for i := range c.KeywordRules {
		c.KeywordRules[i].Category = normalize(c.KeywordRules[i].Category)
		for j := range c.KeywordRules[i].Keywords {
			c.KeywordRules[i].Keywords[j] = normalize(c.KeywordRules[i].Keywords[j])
		}
	}
}

func (c *Catalog) Validate() error {
	var errs []error
	if len(c.Eligible) == 0 {
		errs = append(errs, errors.New("catalog has no eligible categories"))
	}
	if len(c.Ineligible) == 0 {
		errs = append(errs, errors.New("catalog has no ineligible categories"))
	}

	ineligible := make(map[string]struct{}, len(c.Ineligible))
	for _, cat := range c.Ineligible {
		ineligible[cat] = struct{}{}
	}
	for _, cat := range c.Eligible {
		if _, ok := ineligible[cat]; ok {
			errs = append(errs, fmt.Errorf("category %q is both eligible and ineligible", cat))
		}
	}
	for _, cat := range append(append([]string{}, c.Eligible...), c.Ineligible...) {
		if cat == "" || cat == CategoryUnknown {
			errs = append(errs, fmt.Errorf("reserved or empty category %q in catalog", cat))
		}
	}
	for _, rule := range c.KeywordRules {
		if _, ok := ineligible[rule.Category]; !ok {
			errs = append(errs,
				fmt.Errorf("keyword rule category %q is not an ineligible category", rule.Category))
		}
		for _, kw := range rule.Keywords {
			if kw == "" {
				errs = append(errs, fmt.Errorf("empty keyword in rule %q", rule.Category))
			}
		}
	}
	return errors.Join(errs...)
}
