package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/taskregistry/internal/shared/types"
)

func writeDef(t *testing.T, root string, category types.Category, file, content string) {
	t.Helper()
	dir := filepath.Join(root, string(category))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644))
}

// newRegistryTree writes a small but complete registry: one VQA task with
// its package, dataset, metric, report and run.
func newRegistryTree(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "registries")

	writeDef(t, root, types.CategoryPackages, "vqa_dataset.yaml", `
name: vqa_dataset
source:
  type: git
  url: http://github.com/vqa
`)
	writeDef(t, root, types.CategoryPackages, "vqa_dataset.dev.yaml", `
source:
  type: local
  path: ./local/vqa
`)
	writeDef(t, root, types.CategoryPackages, "numpy.yaml", `
name: numpy
source:
  type: pypi
  name: numpy
  version: "1.26.4"
`)
	writeDef(t, root, types.CategoryTasks, "VQA.yaml", `
name: VQA
entry_point: vqa.main
required_packages: [vqa_dataset]
supported_metrics: [anls]
supported_reports: [vqa_report]
`)
	writeDef(t, root, types.CategoryDatasets, "docvqa.yaml", `
name: docvqa
type: vqa.loaders.DocVQA
path: /data/docvqa
params:
  split: val
`)
	writeDef(t, root, types.CategoryMetrics, "anls.yaml", `
name: anls
class_path: vqa.metrics.ANLS
params:
  threshold: 0.5
`)
	writeDef(t, root, types.CategoryReports, "vqa_report.yaml", `
name: vqa_report
class_path: vqa.reports.Summary
`)
	writeDef(t, root, types.CategoryRuns, "qwen_vqa.yaml", `
name: qwen_vqa
ml_task: VQA
model:
  name: qwen2-vl
dataset: docvqa
metrics: [anls]
reports: [vqa_report]
`)
	writeDef(t, root, types.CategoryExperiments, "nightly.yaml", `
name: nightly
parallelism: 2
tasks:
  - qwen_vqa
  - name: inline_run
    ml_task: VQA
    model:
      name: llava
    dataset: docvqa
    metrics: [anls]
`)
	return root
}

func newRun(task string, metrics, reports []string) *types.Run {
	return &types.Run{
		Base:   types.Base{Name: "test_run", Version: types.DefaultVersion},
		MLTask: task,
		Model: types.ModelConfig{
			Name:           "qwen",
			Framework:      types.DefaultFramework,
			PackageManager: types.PackageManagerPip,
		},
		Dataset: "docvqa",
		Metrics: metrics,
		Reports: reports,
	}
}
