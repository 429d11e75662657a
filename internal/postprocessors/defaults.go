package postprocessors

import (
	"github.com/custodia-labs/contextguard/internal/core/ports/driven"
	"github.com/custodia-labs/contextguard/internal/postprocessors/chunker"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("paragraph", buildParagraph)
}

// buildParagraph creates a paragraph processor from generic config.
// Supported config keys:
//   - separator (string): "\n" (default) or "\n\n" between rendered lines
func buildParagraph(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if sep := getStringFromConfig(cfg, "separator"); sep != "" {
		opts = append(opts, chunker.WithSeparator(sep))
	}

	return chunker.New(opts...), nil
}

// getStringFromConfig safely extracts a string from generic config map.
func getStringFromConfig(cfg map[string]any, key string) string {
	if cfg == nil {
		return ""
	}
	s, _ := cfg[key].(string)
	return s
}
