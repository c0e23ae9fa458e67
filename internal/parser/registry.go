package parser

import (
	"fmt"
	"strings"
)

// Registry holds all available parsers and provides auto-detection.
type Registry struct {
	parsers []Parser
}

// NewRegistry returns a registry with the built-in formats, most specific
// first.
func NewRegistry() *Registry {
	return &Registry{
		parsers: []Parser{
			NewXLSXParser(),
			NewHealthCSVParser(),
			NewLegacyCSVParser(),
		},
	}
}

// Register adds a new parser to the registry.
func (r *Registry) Register(p Parser) {
	r.parsers = append(r.parsers, p)
}

// Detect returns the first parser that accepts the file.
func (r *Registry) Detect(fileName string, head []byte) (Parser, error) {
	for _, p := range r.parsers {
		if p.CanParse(fileName, head) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no suitable parser found for file: %s", fileName)
}

// Get returns a parser by its name.
func (r *Registry) Get(name string) (Parser, error) {
	name = strings.ToLower(name)
	for _, p := range r.parsers {
		if strings.ToLower(p.Name()) == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("parser not found: %s", name)
}

// Names lists the registered parser names in detection order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.parsers))
	for i, p := range r.parsers {
		names[i] = p.Name()
	}
	return names
}
