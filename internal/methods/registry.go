// Package methods holds the catalog of budgeting methods and the bucket
// spending calculator that maps expenses onto a method's buckets.
package methods

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed methods.yaml
var embeddedMethods []byte

// Bucket groups expense categories under an optional share of income.
type Bucket struct {
	Name string `yaml:"name" json:"name"`
	// Percentage of income allotted to the bucket; 0 means no fixed allocation.
	Percentage      float64  `yaml:"percentage" json:"percentage"`
	Color           string   `yaml:"color" json:"color"`
	Icon            string   `yaml:"icon" json:"icon"`
	MatchCategories []string `yaml:"match_categories" json:"matchCategories"`
}

type Method struct {
	ID        string   `yaml:"id" json:"id"`
	Name      string   `yaml:"name" json:"name"`
	Icon      string   `yaml:"icon" json:"icon"`
	ShortDesc string   `yaml:"short_desc" json:"shortDesc"`
	LongDesc  string   `yaml:"long_desc" json:"longDesc"`
	Origin    string   `yaml:"origin" json:"origin"`
	Buckets   []Bucket `yaml:"buckets" json:"buckets"`
	Tips      []string `yaml:"tips" json:"tips"`
}

type catalogFile struct {
	Methods []Method `yaml:"methods"`
}

var (
	catalog []Method
	byID    map[string]int
)

func init() {
	methods, err := parseCatalog(embeddedMethods)
	if err != nil {
		panic(fmt.Sprintf("failed to load embedded budget methods (possible binary corruption): %v", err))
	}
	catalog = methods
	byID = make(map[string]int, len(methods))
	for i, m := range methods {
		byID[m.ID] = i
	}
}

func parseCatalog(data []byte) ([]Method, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode methods: %w", err)
	}
	if len(f.Methods) == 0 {
		return nil, fmt.Errorf("no methods defined")
	}
	seen := make(map[string]bool, len(f.Methods))
	for _, m := range f.Methods {
		if strings.TrimSpace(m.ID) == "" {
			return nil, fmt.Errorf("method %q has empty id", m.Name)
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("duplicate method id %q", m.ID)
		}
		seen[m.ID] = true
		if len(m.Buckets) == 0 {
			return nil, fmt.Errorf("method %q has no buckets", m.ID)
		}
		for _, b := range m.Buckets {
			if b.Percentage < 0 || b.Percentage > 100 {
				return nil, fmt.Errorf("method %q bucket %q: percentage must be in [0,100], got %v", m.ID, b.Name, b.Percentage)
			}
		}
	}
	return f.Methods, nil
}

// All returns every method in catalog order. The result is a copy.
func All() []Method {
	out := make([]Method, len(catalog))
	for i, m := range catalog {
		out[i] = m.clone()
	}
	return out
}

// Get looks a method up by id. An unknown id means no method is selected.
func Get(id string) (Method, bool) {
	i, ok := byID[id]
	if !ok {
		return Method{}, false
	}
	return catalog[i].clone(), true
}

// IDs lists the known method ids in catalog order.
func IDs() []string {
	out := make([]string, len(catalog))
	for i, m := range catalog {
		out[i] = m.ID
	}
	return out
}

// Allocated is the sum of the fixed bucket percentages.
func (m Method) Allocated() float64 {
	var sum float64
	for _, b := range m.Buckets {
		sum += b.Percentage
	}
	return sum
}

func (m Method) clone() Method {
	c := m
	c.Buckets = make([]Bucket, len(m.Buckets))
	for i, b := range m.Buckets {
		b.MatchCategories = append([]string(nil), b.MatchCategories...)
		c.Buckets[i] = b
	}
	c.Tips = append([]string(nil), m.Tips...)
	return c
}
