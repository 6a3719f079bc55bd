// Package flags tracks capabilities derived from which optional archives
// mounted successfully. Flags default to false and are recomputed whenever
// the game-data mount stage runs; unknown flags read as false.
package flags

import "maps"

// Flag name constants for type-safe flag access.
const (
	// FlagBard is set when the bard class archive (hfbard.mpq) mounts.
	FlagBard = "bard"

	// FlagBarbarian is set when the barbarian class archive (hfbarb.mpq) mounts.
	FlagBarbarian = "barbarian"

	// FlagExpansionMusic is set when the expansion music archive mounts.
	FlagExpansionMusic = "expansion-music"

	// FlagExpansionVoice is set when the expansion voice archive mounts.
	FlagExpansionVoice = "expansion-voice"
)

// Registry holds derived feature flag state. Written only by the archive
// mount stages; read thereafter.
type Registry struct {
	flags map[string]bool
}

// New creates an empty Registry (all flags disabled).
func New() *Registry {
	return &Registry{flags: make(map[string]bool)}
}

// Set records a flag value. Called by the game-data stage as each optional
// archive resolves.
func (r *Registry) Set(name string, value bool) {
	if r == nil || r.flags == nil {
		return
	}
	r.flags[name] = value
}

// Enabled returns true if the named flag is enabled.
// Returns false for unknown flags (safe default).
// Returns false when called on nil registry (nil-safe).
func (r *Registry) Enabled(name string) bool {
	if r == nil || r.flags == nil {
		return false
	}
	return r.flags[name]
}

// All returns a copy of all flags (for debugging/logging).
// Returns an empty map if the registry is nil.
func (r *Registry) All() map[string]bool {
	if r == nil || r.flags == nil {
		return make(map[string]bool)
	}
	result := make(map[string]bool, len(r.flags))
	maps.Copy(result, r.flags)
	return result
}
