package locate

import (
	"embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/selectors.yml
var defaultsFS embed.FS

// Catalog maps logical target names to candidate lists.
type Catalog struct {
	targets map[string]Candidates
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() (*Catalog, error) {
	data, err := defaultsFS.ReadFile("defaults/selectors.yml")
	if err != nil {
		return nil, fmt.Errorf("read embedded selectors: %w", err)
	}
	targets, err := parseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("parse embedded selectors: %w", err)
	}
	return &Catalog{targets: targets}, nil
}

// LoadCatalog returns the built-in catalog with targets from overridePath replacing built-in ones.
// an empty overridePath returns the built-in catalog.
func LoadCatalog(overridePath string) (*Catalog, error) {
	cat, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	if overridePath == "" {
		return cat, nil
	}

	data, err := os.ReadFile(overridePath) //nolint:gosec // path comes from config
	if err != nil {
		return nil, fmt.Errorf("read selectors %s: %w", overridePath, err)
	}
	override, err := parseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("parse selectors %s: %w", overridePath, err)
	}
	for name, cands := range override {
		cat.targets[name] = cands
	}
	return cat, nil
}

// Get returns a copy of the candidates for target, empty for an unknown target.
func (c *Catalog) Get(target string) Candidates {
	return slices.Clone(c.targets[target])
}

// Names returns the sorted target names.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.targets))
	for name := range c.targets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func parseCatalog(data []byte) (map[string]Candidates, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	res := make(map[string]Candidates, len(raw))
	for name, items := range raw {
		if len(items) == 0 {
			return nil, fmt.Errorf("target %q has no candidates", name)
		}
		cands := make(Candidates, 0, len(items))
		for i, it := range items {
			cand, err := ParseCandidate(it)
			if err != nil {
				return nil, fmt.Errorf("target %q entry %d: %w", name, i, err)
			}
			cands = append(cands, cand)
		}
		res[name] = cands
	}
	return res, nil
}
