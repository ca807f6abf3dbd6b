package pattern

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// catalogFile is the on-disk shape of a pattern catalog YAML document.
type catalogFile struct {
	Entries []*Entry `yaml:"entries"`
}

// DefaultCatalog compiles and returns the built-in P1-P12 pattern catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

// ParseCatalog compiles a catalog from YAML bytes in the catalogFile shape.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing pattern catalog: %w", err)
	}
	return NewCatalog(f.Entries)
}
