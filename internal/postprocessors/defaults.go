package postprocessors

import (
	"github.com/fabulist-labs/descry/internal/core/ports/driven"
	"github.com/fabulist-labs/descry/internal/postprocessors/dedup"
	"github.com/fabulist-labs/descry/internal/postprocessors/enrich"
	"github.com/fabulist-labs/descry/internal/segmenter"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("dedup", buildDedup)
	r.Register("enrich", buildEnrich)
}

// buildDedup creates a dedup processor from generic config.
// Supported config keys:
//   - overlap_threshold (float): Overlap ratio above which same-type
//     descriptions merge (default: 0.9)
func buildDedup(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []dedup.Option

	if cfg != nil {
		if v := getFloatFromConfig(cfg, "overlap_threshold"); v > 0 {
			opts = append(opts, dedup.WithOverlapThreshold(v))
		}
	}

	return dedup.New(opts...), nil
}

// buildEnrich creates a context enrichment processor. It always uses the
// built-in sentence segmenter.
func buildEnrich(_ map[string]any) (driven.PostProcessor, error) {
	return enrich.New(segmenter.New()), nil
}

// getFloatFromConfig safely extracts a float from generic config map.
// Handles float64, int and int64 types that may come from TOML/JSON parsing.
func getFloatFromConfig(cfg map[string]any, key string) float64 {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
