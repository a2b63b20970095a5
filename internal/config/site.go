package config

import "github.com/quotegrab/quotegrab/internal/crawler"

// SelectorSpec is the YAML form of a node selector.
type SelectorSpec struct {
	// Tag is the element name, e.g. "span".
	Tag string `yaml:"tag"`

	// Attrs maps attribute names to required values.
	Attrs map[string]string `yaml:"attrs,omitempty"`
}

// Selector converts the spec to a crawler selector.
func (s SelectorSpec) Selector() crawler.Selector {
	return crawler.Selector{Tag: s.Tag, Attrs: s.Attrs}
}

// StrategySpec is the YAML form of one next-link strategy.
type StrategySpec struct {
	// Name identifies the strategy in logs.
	Name string `yaml:"name,omitempty"`

	// Parent selects the containing node.
	Parent SelectorSpec `yaml:"parent"`

	// Child optionally selects the link node within the parent.
	Child *SelectorSpec `yaml:"child,omitempty"`

	// Attr is the attribute holding the link, "href" when empty.
	Attr string `yaml:"attr,omitempty"`
}

// Strategy converts the spec to a crawler strategy.
func (s StrategySpec) Strategy() crawler.Strategy {
	strat := crawler.Strategy{
		Name:   s.Name,
		Parent: s.Parent.Selector(),
		Attr:   s.Attr,
	}
	if s.Child != nil {
		child := s.Child.Selector()
		strat.Child = &child
	}
	return strat
}

// SiteConfig holds extraction configuration for one site.
// Unset fields fall back to the defaults section and then to the built-in
// selector and strategy sets.
type SiteConfig struct {
	// Text selects the nodes carrying the primary text.
	Text *SelectorSpec `yaml:"text,omitempty"`

	// Attribution selects the nodes carrying the attribution.
	Attribution *SelectorSpec `yaml:"attribution,omitempty"`

	// NextPage is the ordered next-link strategy list.
	NextPage []StrategySpec `yaml:"nextPage,omitempty"`

	// MaxPages overrides the global page limit for this site.
	// Zero means the global limit applies.
	MaxPages int `yaml:"maxPages,omitempty"`
}

// SelectorConfig builds the extractor configuration, falling back to the
// built-in selectors for unset fields.
func (sc SiteConfig) SelectorConfig() crawler.SelectorConfig {
	cfg := crawler.DefaultSelectorConfig()
	if sc.Text != nil {
		cfg.Text = sc.Text.Selector()
	}
	if sc.Attribution != nil {
		cfg.Attribution = sc.Attribution.Selector()
	}
	return cfg
}

// Strategies builds the next-link strategy list, falling back to the
// built-in strategies when none are configured.
func (sc SiteConfig) Strategies() []crawler.Strategy {
	if len(sc.NextPage) == 0 {
		return crawler.DefaultStrategies()
	}
	strategies := make([]crawler.Strategy, 0, len(sc.NextPage))
	for _, spec := range sc.NextPage {
		strategies = append(strategies, spec.Strategy())
	}
	return strategies
}

// File represents the structure of the .quotegrab configuration file.
type File struct {
	// Defaults contains configuration applied to all sites unless
	// overridden in the site-specific section.
	Defaults SiteConfig `yaml:"defaults,omitempty"`

	// Sites maps hostnames to their site-specific configurations.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`
}

// GetSiteConfig returns the configuration for a specific hostname,
// merging the site-specific section over the defaults field-wise.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults

	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.Text != nil {
			result.Text = siteConfig.Text
		}
		if siteConfig.Attribution != nil {
			result.Attribution = siteConfig.Attribution
		}
		if len(siteConfig.NextPage) > 0 {
			result.NextPage = siteConfig.NextPage
		}
		if siteConfig.MaxPages != 0 {
			result.MaxPages = siteConfig.MaxPages
		}
	}

	return result
}
