package types

// RuntimeManifest records the package sources a run resolves to. It is
// produced once per run and never modified.
type RuntimeManifest struct {
	ID              string                      `json:"id"`
	Timestamp       string                      `json:"timestamp"`
	RunMode         RunMode                     `json:"run_mode"`
	Run             string                      `json:"run"`
	Packages        map[string]DependencySource `json:"packages"`
	EnvironmentInfo map[string]string           `json:"environment_info"`
	Digest          string                      `json:"digest"`
}

// PackageNames returns the manifest's package names in no particular order.
func (m *RuntimeManifest) PackageNames() []string {
	names := make([]string, 0, len(m.Packages))
	for name := range m.Packages {
		names = append(names, name)
	}
	return names
}
