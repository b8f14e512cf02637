package registry

import (
	"fmt"
	"runtime"
	"time"

	"github.com/GriffinCanCode/taskregistry/internal/shared/id"
	"github.com/GriffinCanCode/taskregistry/internal/shared/types"
	"github.com/GriffinCanCode/taskregistry/internal/shared/utils"
)

// BuildManifest resolves run and records the source of every package it
// installs, keyed by the name the task or run refers to the package by. The digest covers only the package map, so two runs with the same
// packages share a digest.
func (m *Manager) BuildManifest(run *types.Run) (*types.RuntimeManifest, error) {
	bundle, err := m.ResolveRun(run)
	if err != nil {
		return nil, err
	}

	packages := make(map[string]types.DependencySource, len(bundle.Packages))
	for _, rp := range bundle.Packages {
		packages[rp.Name] = rp.Package.Source
	}

	digest, err := utils.DefaultHasher().HashJSON(packages)
	if err != nil {
		return nil, fmt.Errorf("failed to digest packages of run %s: %w", run.Name, err)
	}

	now := m.now().UTC()
	return &types.RuntimeManifest{
		ID:        id.NewManifestID(now).String(),
		Timestamp: now.Format(time.RFC3339Nano),
		RunMode:   m.mode,
		Run:       run.Name,
		Packages:  packages,
		EnvironmentInfo: map[string]string{
			"go_version":    runtime.Version(),
			"os":            runtime.GOOS,
			"arch":          runtime.GOARCH,
			"registry_root": m.Root(),
		},
		Digest: digest,
	}, nil
}
