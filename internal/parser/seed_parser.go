package parser

import (
	"fmt"
	"io"
	"os"

	"github.com/amimagid/ami-super-app/internal/models"
	"gopkg.in/yaml.v3"
)

// ParseSeed parses a YAML file of default work domains and team members.
func ParseSeed(filePath string) (*models.Seed, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseSeedFromReader(file)
}

// ParseSeedFromReader parses a seed document from an io.Reader. Every member
// must reference a domain declared in the same document.
func ParseSeedFromReader(r io.Reader) (*models.Seed, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var seed models.Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, err
	}

	domains := make(map[string]struct{}, len(seed.Domains))
	for _, d := range seed.Domains {
		if d.ID == "" || d.Name == "" {
			return nil, fmt.Errorf("seed domain needs id and name: %+v", d)
		}
		domains[d.ID] = struct{}{}
	}
	for _, m := range seed.Members {
		if m.ID == "" || m.Name == "" {
			return nil, fmt.Errorf("seed member needs id and name: %+v", m)
		}
		if _, ok := domains[m.DomainID]; !ok {
			return nil, fmt.Errorf("seed member %s references unknown domain %q", m.ID, m.DomainID)
		}
	}

	return &seed, nil
}
