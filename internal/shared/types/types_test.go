package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for _, category := range Categories() {
		parsed, err := ParseCategory(string(category))
		require.NoError(t, err)
		assert.Equal(t, category, parsed)
	}

	_, err := ParseCategory("frameworks")
	assert.Error(t, err)
}

func TestParseRunMode(t *testing.T) {
	tests := []struct {
		in   string
		want RunMode
	}{
		{"development", RunModeDevelopment},
		{" Development ", RunModeDevelopment},
		{"production", RunModeProduction},
		{"dev", RunModeProduction},
		{"", RunModeProduction},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseRunMode(tt.in), tt.in)
	}
}

func TestTaskSupports(t *testing.T) {
	task := &Task{
		SupportedMetrics:    []string{"anls"},
		SupportedReports:    []string{"vqa_report"},
		SupportedFrameworks: DefaultSupportedFrameworks(),
	}

	assert.True(t, task.SupportsMetric("anls"))
	assert.False(t, task.SupportsMetric("bleu"))
	assert.True(t, task.SupportsReport("vqa_report"))
	assert.True(t, task.SupportsFramework("sglang"))
	assert.False(t, task.SupportsFramework("tensorrt"))
}

func TestEitherValuesMarshal(t *testing.T) {
	named, err := json.Marshal(CustomPackage{Name: "numpy"})
	require.NoError(t, err)
	assert.JSONEq(t, `"numpy"`, string(named))

	inline, err := json.Marshal(CustomPackage{Name: "local", Inline: &Package{
		Base:   Base{Name: "local", Version: DefaultVersion},
		Source: LocalSource{Type: SourceLocal, Path: "./src", Editable: true},
	}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"local","version":"1.0.0","source":{"type":"local","path":"./src","editable":true}}`, string(inline))

	ref, err := json.Marshal(RunRef{Name: "qwen_vqa"})
	require.NoError(t, err)
	assert.JSONEq(t, `"qwen_vqa"`, string(ref))
}
