package layout

import (
	"fmt"

	"github.com/nvmkit/nvmlayout/internal/document"
)

// Load reads a layout file, decodes it according to its extension, and
// validates it into a Config.
//
// Decoder failures (unsupported extension, unreadable file, syntax errors)
// propagate as-is; validation failures are wrapped with the file path while
// keeping the per-field detail intact.
func Load(path string) (*Config, error) {
	doc, err := document.Load(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Validate(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}
	return cfg, nil
}
