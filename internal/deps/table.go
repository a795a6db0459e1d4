package deps

import (
	_ "embed"
	"fmt"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed dependencies.yaml
var rawDeclarations []byte

// Declaration describes one required tool.
type Declaration struct {
	Name       string `yaml:"name"`
	Command    string `yaml:"command"`
	MinVersion string `yaml:"min_version,omitempty"`
}

var (
	declOnce  sync.Once
	declTable []Declaration
	declErr   error
)

// DefaultDeclarations returns the embedded dependency table in probe order.
// The returned slice is a copy.
func DefaultDeclarations() ([]Declaration, error) {
	declOnce.Do(func() {
		declTable, declErr = ParseDeclarations(rawDeclarations)
	})
	if declErr != nil {
		return nil, declErr
	}
	return append([]Declaration(nil), declTable...), nil
}

// ParseDeclarations decodes a YAML list of declarations.
func ParseDeclarations(data []byte) ([]Declaration, error) {
	var decls []Declaration
	if err := yaml.Unmarshal(data, &decls); err != nil {
		return nil, fmt.Errorf("parsing dependency table: %w", err)
	}
	seen := make(map[string]bool, len(decls))
	for i, d := range decls {
		if d.Name == "" || d.Command == "" {
			return nil, fmt.Errorf("dependency table entry %d: name and command are required", i)
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("dependency table: duplicate entry %q", d.Name)
		}
		seen[d.Name] = true
	}
	return decls, nil
}
