// Package content ships the default game definitions.
package content

import _ "embed"

//go:embed catalog.yaml
var defaultCatalog []byte

// DefaultCatalog returns the built-in catalog YAML.
func DefaultCatalog() []byte {
	return defaultCatalog
}
