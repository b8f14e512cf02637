package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/taskregistry/internal/domain/overlay"
	"github.com/GriffinCanCode/taskregistry/internal/domain/registry"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testRegistry(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "packages", "vqa.yaml"), "name: vqa\nsource: {type: git, url: http://github.com/vqa}\n")
	writeFile(t, filepath.Join(root, "packages", "vqa.dev.yaml"), "source: {type: local, path: ./vqa}\n")
	writeFile(t, filepath.Join(root, "tasks", "VQA.yaml"), "name: VQA\nentry_point: vqa.main\nrequired_packages: [vqa]\nsupported_metrics: [anls]\n")
	writeFile(t, filepath.Join(root, "datasets", "docvqa.yaml"), "name: docvqa\ntype: loaders.DocVQA\npath: /data/docvqa\n")
	writeFile(t, filepath.Join(root, "metrics", "anls.yaml"), "name: anls\nclass_path: metrics.ANLS\n")
	writeFile(t, filepath.Join(root, "runs", "good.yaml"), "name: good\nml_task: VQA\nmodel: {name: qwen}\ndataset: docvqa\nmetrics: [anls]\n")
	writeFile(t, filepath.Join(root, "runs", "bad.yaml"), "name: bad\nml_task: VQA\nmodel: {name: qwen}\ndataset: docvqa\nmetrics: [bleu]\n")
	writeFile(t, filepath.Join(root, "experiments", "nightly.yaml"), "name: nightly\ntasks: [good]\n")
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGetCommand(t *testing.T) {
	root := testRegistry(t)

	out, err := execute(t, "get", "packages", "vqa", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, `"url": "http://github.com/vqa"`)

	out, err = execute(t, "get", "packages", "vqa", "--root", root, "--mode", "development")
	require.NoError(t, err)
	assert.Contains(t, out, `"path": "./vqa"`)
}

func TestGetCommandErrors(t *testing.T) {
	root := testRegistry(t)

	_, err := execute(t, "get", "frameworks", "vllm", "--root", root)
	assert.Error(t, err)

	_, err = execute(t, "get", "tasks", "OCR", "--root", root)
	assert.ErrorIs(t, err, overlay.ErrNotFound)
}

func TestListCommand(t *testing.T) {
	root := testRegistry(t)

	out, err := execute(t, "list", "runs", "--root", root)
	require.NoError(t, err)
	assert.Equal(t, "bad\ngood\n", out)

	out, err = execute(t, "list", "--root", root)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "packages/vqa", lines[0])
	assert.Equal(t, "experiments/nightly", lines[len(lines)-1])
}

func TestValidateRunCommand(t *testing.T) {
	root := testRegistry(t)

	out, err := execute(t, "validate-run", "good", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "run good is valid for task VQA")

	_, err = execute(t, "validate-run", "bad", "--root", root)
	var cv *registry.ConstraintViolationError
	require.ErrorAs(t, err, &cv)
	assert.Equal(t, "bleu", cv.Item)
}

func TestValidateExperimentCommand(t *testing.T) {
	root := testRegistry(t)

	out, err := execute(t, "validate-experiment", "nightly", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "experiment nightly is valid (1 runs, parallelism 1)")
}

func TestCheckCommand(t *testing.T) {
	root := testRegistry(t)

	out, err := execute(t, "check", "--root", root)
	assert.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, "FAIL runs/bad")
	assert.Contains(t, out, "7 loaded, 0 failed, 1 invalid runs")

	require.NoError(t, os.Remove(filepath.Join(root, "runs", "bad.yaml")))
	out, err = execute(t, "check", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "6 loaded, 0 failed, 0 invalid runs")
}

func TestManifestCommand(t *testing.T) {
	root := testRegistry(t)

	out, err := execute(t, "manifest", "good", "--root", root, "--mode", "development")
	require.NoError(t, err)
	assert.Contains(t, out, `"run_mode": "development"`)
	assert.Contains(t, out, `"id": "mfst_`)
	assert.Contains(t, out, `"type": "local"`)
}

func TestConfigFilePrecedence(t *testing.T) {
	root := testRegistry(t)
	cfgFile := filepath.Join(t.TempDir(), "registry.yaml")
	writeFile(t, cfgFile, "root: "+root+"\nrun_mode: development\n")

	t.Setenv("REGISTRY_ROOT", filepath.Join(t.TempDir(), "ignored"))

	out, err := execute(t, "get", "packages", "vqa", "--config", cfgFile)
	require.NoError(t, err)
	assert.Contains(t, out, `"type": "local"`, "config file beats environment")

	out, err = execute(t, "get", "packages", "vqa", "--config", cfgFile, "--mode", "production")
	require.NoError(t, err)
	assert.Contains(t, out, `"type": "git"`, "flags beat the config file")
}

func TestEnvironmentRoot(t *testing.T) {
	root := testRegistry(t)
	t.Setenv("REGISTRY_ROOT", root)
	t.Setenv("RUN_MODE", "development")

	out, err := execute(t, "get", "packages", "vqa")
	require.NoError(t, err)
	assert.Contains(t, out, `"path": "./vqa"`)
}

func TestGetCommandFormats(t *testing.T) {
	root := testRegistry(t)

	out, err := execute(t, "get", "metrics", "anls", "--root", root, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "class_path: metrics.ANLS")

	out, err = execute(t, "get", "metrics", "anls", "--root", root, "-f", "toml")
	require.NoError(t, err)
	assert.Contains(t, out, "class_path = ")
	assert.Contains(t, out, "metrics.ANLS")
	assert.NotContains(t, out, "{")

	_, err = execute(t, "get", "metrics", "anls", "--root", root, "-f", "xml")
	assert.Error(t, err)
}

func TestManifestCommandWritesCompressedFile(t *testing.T) {
	root := testRegistry(t)
	outPath := filepath.Join(t.TempDir(), "good.json.zst")

	out, err := execute(t, "manifest", "good", "--root", root, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "written to "+outPath)
	assert.Regexp(t, `created \d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z\)`, out)

	compressed, err := os.ReadFile(outPath)
	require.NoError(t, err)

	dec, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer dec.Close()
	plain, err := dec.DecodeAll(compressed, nil)
	require.NoError(t, err)
	assert.Contains(t, string(plain), `"run": "good"`)
}

func TestManifestCommandWritesGzipFile(t *testing.T) {
	root := testRegistry(t)
	outPath := filepath.Join(t.TempDir(), "good.yaml.gz")

	_, err := execute(t, "manifest", "good", "--root", root, "--out", outPath, "-f", "yaml")
	require.NoError(t, err)

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(plain), "run: good")
}
