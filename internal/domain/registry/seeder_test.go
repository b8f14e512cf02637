package registry

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/taskregistry/internal/domain/overlay"
	"github.com/GriffinCanCode/taskregistry/internal/domain/schema"
	"github.com/GriffinCanCode/taskregistry/internal/shared/types"
)

func TestSeederLoadsEveryDefinition(t *testing.T) {
	m := NewManager(newRegistryTree(t), types.RunModeDevelopment)

	report, err := NewSeeder(m).Seed(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8, report.Loaded)
	assert.Empty(t, report.Failed)
	assert.True(t, m.Cached(types.CategoryPackages, "vqa_dataset"))
	assert.False(t, m.Cached(types.CategoryPackages, "vqa_dataset.dev"), "overlays are not entities")
	assert.Equal(t, int64(2), m.Stats()[types.CategoryPackages])
}

func TestSeederCollectsFailures(t *testing.T) {
	root := newRegistryTree(t)
	writeDef(t, root, types.CategoryMetrics, "broken.yaml", "- not\n- a mapping\n")
	writeDef(t, root, types.CategoryDatasets, "incomplete.yaml", "name: incomplete\n")
	writeDef(t, root, types.Category("frameworks"), "vllm.yaml", "name: vllm\n")
	m := NewManager(root, types.RunModeProduction)

	report, err := NewSeeder(m).Seed(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8, report.Loaded)
	require.Len(t, report.Failed, 2)

	// Failures follow category order: datasets before metrics
	assert.Equal(t, types.CategoryDatasets, report.Failed[0].Category)
	assert.Equal(t, "incomplete", report.Failed[0].Name)
	assert.ErrorIs(t, report.Failed[0].Err, schema.ErrValidation)
	assert.Equal(t, types.CategoryMetrics, report.Failed[1].Category)
	assert.ErrorIs(t, report.Failed[1].Err, overlay.ErrMalformedSource)
}

func TestSeederMissingRoot(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "absent"), types.RunModeProduction)

	report, err := NewSeeder(m).Seed(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Loaded)
	assert.Empty(t, report.Failed)
}

func TestSeederCancelled(t *testing.T) {
	m := NewManager(newRegistryTree(t), types.RunModeProduction)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSeeder(m).Seed(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSeedReportQuantile(t *testing.T) {
	report := &SeedReport{Durations: []time.Duration{
		4 * time.Millisecond, 1 * time.Millisecond, 3 * time.Millisecond, 2 * time.Millisecond,
	}}

	assert.Equal(t, 2*time.Millisecond, report.Quantile(0.5))
	assert.Equal(t, 4*time.Millisecond, report.Quantile(1))
	assert.Zero(t, (&SeedReport{}).Quantile(0.5))
}

func TestSeedReportQuantileClampsRange(t *testing.T) {
	report := &SeedReport{Durations: []time.Duration{3 * time.Millisecond, 1 * time.Millisecond}}

	assert.NotPanics(t, func() {
		assert.Equal(t, 1*time.Millisecond, report.Quantile(-1))
		assert.Equal(t, 3*time.Millisecond, report.Quantile(2))
		assert.Equal(t, 1*time.Millisecond, report.Quantile(math.NaN()))
	})
}
