package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/llm-d/liquid-extraction/internal/logging"
	solverconfig "github.com/llm-d/liquid-extraction/pkg/config"
)

// DefaultProfileKey names the profile applied to every run.
const DefaultProfileKey = "default"

// SolverProfiles maps profile names to solver overrides.
type SolverProfiles map[string]solverconfig.SolverConfig

// ParseSolverProfiles parses a YAML document whose top-level keys are profile
// names. Entries that fail to decode or validate are skipped and logged.
func ParseSolverProfiles(data []byte) (SolverProfiles, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing solver profiles: %w", err)
	}

	names := make([]string, 0, len(raw))
	for k := range raw {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make(SolverProfiles, len(names))
	for _, name := range names {
		node := raw[name]
		var cfg solverconfig.SolverConfig
		if err := node.Decode(&cfg); err != nil {
			ctrl.Log.Info("Failed to parse solver profile, skipping",
				"profile", name,
				"error", err)
			continue
		}
		if err := solverconfig.Defaults().Merge(cfg).Validate(); err != nil {
			ctrl.Log.Info("Invalid solver profile, skipping",
				"profile", name,
				"error", err)
			continue
		}
		out[name] = cfg
	}

	ctrl.Log.V(logging.DEBUG).Info("Parsed solver profiles",
		"profileCount", len(out))

	return out, nil
}

// LoadSolverProfiles reads and parses the profiles file at path.
func LoadSolverProfiles(path string) (SolverProfiles, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading solver profiles: %w", err)
	}
	return ParseSolverProfiles(b)
}

// Has reports whether a profile with the given name exists.
func (p SolverProfiles) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// GetProfile returns the effective solver configuration for name: solver
// defaults, then the default profile, then the named profile.
func (p SolverProfiles) GetProfile(name string) solverconfig.SolverConfig {
	result := solverconfig.Defaults().Merge(p[DefaultProfileKey])
	if name == "" || name == DefaultProfileKey {
		return result
	}
	if override, ok := p[name]; ok {
		result = result.Merge(override)
	}
	return result
}

// Names returns the profile names in sorted order.
func (p SolverProfiles) Names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
