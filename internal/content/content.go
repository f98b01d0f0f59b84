// Package content serves the static editorial catalog shipped with the
// binary: blog posts and headline impact figures.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

// ErrPostNotFound is returned by Post for unknown ids.
var ErrPostNotFound = errors.New("content: post not found")

// Post is a blog article.
type Post struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Excerpt  string `yaml:"excerpt" json:"excerpt"`
	Content  string `yaml:"content" json:"content,omitempty"`
	Author   string `yaml:"author" json:"author"`
	Date     string `yaml:"date" json:"date"`
	Category string `yaml:"category" json:"category"`
	Image    string `yaml:"image" json:"image,omitempty"`
	ReadTime string `yaml:"read_time" json:"read_time"`
}

// Impact holds the headline figures shown on the home page.
type Impact struct {
	OrphansSponsored int   `yaml:"orphans_sponsored" json:"orphans_sponsored"`
	CountriesServed  int   `yaml:"countries_served" json:"countries_served"`
	DonationsRaised  int64 `yaml:"donations_raised" json:"donations_raised"`
	VolunteersActive int   `yaml:"volunteers_active" json:"volunteers_active"`
}

// Catalog is the parsed editorial content. It is read-only after Load.
type Catalog struct {
	Impact  Impact `yaml:"impact"`
	Entries []Post `yaml:"posts"`
}

// Load parses the catalog embedded in the binary.
func Load() (*Catalog, error) {
	return Parse(embedded)
}

// Parse decodes a YAML catalog. Posts are ordered newest first.
func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("content: decode catalog: %w", err)
	}
	seen := make(map[string]struct{}, len(c.Entries))
	for _, p := range c.Entries {
		if p.ID == "" {
			return nil, fmt.Errorf("content: post %q has no id", p.Title)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("content: duplicate post id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	sort.SliceStable(c.Entries, func(i, j int) bool { return c.Entries[i].Date > c.Entries[j].Date })
	return &c, nil
}

// Posts lists posts in the given category, or all posts when category is
// empty. The match ignores case. Bodies are omitted from listings.
func (c *Catalog) Posts(category string) []Post {
	category = strings.TrimSpace(category)
	out := make([]Post, 0, len(c.Entries))
	for _, p := range c.Entries {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		p.Content = ""
		out = append(out, p)
	}
	return out
}

// Categories returns the distinct post categories in listing order.
func (c *Catalog) Categories() []string {
	var out []string
	seen := map[string]struct{}{}
	for _, p := range c.Entries {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Post returns a single post with its body.
func (c *Catalog) Post(id string) (Post, error) {
	for _, p := range c.Entries {
		if p.ID == id {
			return p, nil
		}
	}
	return Post{}, ErrPostNotFound
}
