// Package catalog serves the read-only list of salon services.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"bookwithbea/internal/domain"
)

//go:embed nail_services.json
var defaultCatalog []byte

var (
	ErrUnknownService = errors.New("unknown service")
	ErrInvalidCatalog = errors.New("invalid catalog")
)

type Category struct {
	Key         string           `json:"key"`
	Name        string           `json:"category_name"`
	Description string           `json:"description,omitempty"`
	Services    []domain.Service `json:"services"`
}

// Catalog is immutable after Load.
type Catalog struct {
	categories []Category
	byName     map[string]domain.Service
}

type fileFormat struct {
	Services map[string]struct {
		CategoryName string        `json:"category_name"`
		Description  string        `json:"description"`
		Services     []fileService `json:"services"`
	} `json:"services"`
}

type fileService struct {
	Name           string          `json:"name"`
	Price          json.RawMessage `json:"price"`
	Duration       json.RawMessage `json:"duration"`
	TargetAudience string          `json:"target_audience"`
	Description    string          `json:"description"`
}

// Load reads the catalog from path, or the bundled catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if len(f.Services) == 0 {
		return nil, fmt.Errorf("%w: no categories", ErrInvalidCatalog)
	}

	keys := make([]string, 0, len(f.Services))
	for k := range f.Services {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	c := &Catalog{byName: make(map[string]domain.Service)}
	for _, key := range keys {
		raw := f.Services[key]
		cat := Category{Key: key, Name: raw.CategoryName, Description: raw.Description}
		if cat.Name == "" {
			cat.Name = key
		}
		for _, rs := range raw.Services {
			svc, err := toService(rs, cat.Name)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrInvalidCatalog, key, err)
			}
			if _, dup := c.byName[strings.ToLower(svc.Name)]; dup {
				return nil, fmt.Errorf("%w: duplicate service %q", ErrInvalidCatalog, svc.Name)
			}
			c.byName[strings.ToLower(svc.Name)] = svc
			cat.Services = append(cat.Services, svc)
		}
		c.categories = append(c.categories, cat)
	}
	return c, nil
}

func toService(rs fileService, category string) (domain.Service, error) {
	name := strings.TrimSpace(rs.Name)
	if name == "" {
		return domain.Service{}, errors.New("service without name")
	}
	price, err := parsePrice(rs.Price)
	if err != nil {
		return domain.Service{}, fmt.Errorf("%s: %w", name, err)
	}
	minutes, err := parseDuration(rs.Duration)
	if err != nil {
		return domain.Service{}, fmt.Errorf("%s: %w", name, err)
	}
	aud := strings.ToLower(strings.TrimSpace(rs.TargetAudience))
	if aud == domain.AudienceAll {
		return domain.Service{}, fmt.Errorf("%s: %q is not a storable audience", name, domain.AudienceAll)
	}
	return domain.Service{
		Name:            name,
		Description:     rs.Description,
		Price:           price,
		DurationMinutes: minutes,
		Category:        category,
		TargetAudience:  aud,
	}, nil
}

// parsePrice accepts 45, 45.5, "45" or "$45.00".
func parsePrice(raw json.RawMessage) (float64, error) {
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("price: %s", string(raw))
		}
		n, err = strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(s), "$"), 64)
		if err != nil {
			return 0, fmt.Errorf("price: %q", s)
		}
	}
	if n < 0 {
		return 0, fmt.Errorf("price must be >= 0")
	}
	return n, nil
}

var durationPart = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(hours?|hrs?|h|minutes?|mins?|m)?`)

// parseDuration accepts 45, "45", "45 min", "1 hr", "1.5 hrs", "1 hr 15 min" or
// "1h15m". The total must come to a whole number of minutes.
func parseDuration(raw json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("duration must be > 0")
		}
		return n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("duration: %s", string(raw))
	}
	if rest := strings.TrimSpace(durationPart.ReplaceAllString(s, "")); rest != "" {
		return 0, fmt.Errorf("duration: %q", s)
	}

	var total float64
	for _, m := range durationPart.FindAllStringSubmatch(s, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("duration: %q", s)
		}
		if strings.HasPrefix(strings.ToLower(m[2]), "h") {
			v *= 60
		}
		total += v
	}
	if total <= 0 || total != math.Trunc(total) {
		return 0, fmt.Errorf("duration: %q", s)
	}
	return int(total), nil
}

func matches(s domain.Service, audience string) bool {
	audience = strings.ToLower(strings.TrimSpace(audience))
	return audience == "" || audience == domain.AudienceAll || s.TargetAudience == audience
}

// Categories returns the categories with at least one service for audience.
func (c *Catalog) Categories(audience string) []Category {
	out := make([]Category, 0, len(c.categories))
	for _, cat := range c.categories {
		filtered := Category{Key: cat.Key, Name: cat.Name, Description: cat.Description}
		for _, s := range cat.Services {
			if matches(s, audience) {
				filtered.Services = append(filtered.Services, s)
			}
		}
		if len(filtered.Services) > 0 {
			out = append(out, filtered)
		}
	}
	return out
}

func (c *Catalog) Services(audience string) []domain.Service {
	var out []domain.Service
	for _, cat := range c.categories {
		for _, s := range cat.Services {
			if matches(s, audience) {
				out = append(out, s)
			}
		}
	}
	return out
}

// Lookup finds a service by name, ignoring case.
func (c *Catalog) Lookup(name string) (domain.Service, bool) {
	s, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// Resolve maps names to services in order. The error lists every unknown name.
func (c *Catalog) Resolve(names []string) ([]domain.Service, error) {
	out := make([]domain.Service, 0, len(names))
	var unknown []string
	for _, n := range names {
		s, ok := c.Lookup(n)
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		out = append(out, s)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, strings.Join(unknown, ", "))
	}
	return out, nil
}
