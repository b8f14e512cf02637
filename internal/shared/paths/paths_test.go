package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GriffinCanCode/taskregistry/internal/shared/types"
)

func TestLayoutFiles(t *testing.T) {
	l := New("/reg")

	assert.Equal(t, filepath.Join("/reg", "tasks", "vqa.yaml"), l.BaseFile(types.CategoryTasks, "vqa"))
	assert.Equal(t, filepath.Join("/reg", "tasks", "vqa.dev.yaml"), l.OverlayFile(types.CategoryTasks, "vqa"))
	assert.Equal(t, filepath.Join("/reg", "datasets", "vqa.yaml"), l.BaseFile(types.CategoryDatasets, "vqa"))
	assert.Len(t, l.CategoryDirs(), 7)
}

func TestEntityName(t *testing.T) {
	tests := []struct {
		file string
		name string
		ok   bool
	}{
		{"vqa.yaml", "vqa", true},
		{"vqa.dev.yaml", "vqa", true},
		{"/reg/tasks/ocr.yaml", "ocr", true},
		{"README.md", "", false},
		{"vqa.yml", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			name, ok := EntityName(tt.file)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.name, name)
		})
	}

	assert.True(t, IsOverlay("vqa.dev.yaml"))
	assert.False(t, IsOverlay("vqa.yaml"))
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("vqa_dataset"))
	assert.NoError(t, ValidateName("VQA"))

	assert.Error(t, ValidateName(""))
	assert.Error(t, ValidateName("/etc/passwd"))
	assert.Error(t, ValidateName("../secret"))
	assert.Error(t, ValidateName("a/b"))
	assert.Error(t, ValidateName("vqa.yaml"))
}
