package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestMergeReplacesTopLevelKeys(t *testing.T) {
	base := map[string]any{
		"name":   "vqa_dataset",
		"source": map[string]any{"type": "git", "url": "http://github.com/vqa"},
	}
	overrides := map[string]any{
		"source": map[string]any{"type": "local", "path": "./local/vqa"},
	}

	merged := Merge(base, overrides)

	assert.Equal(t, "vqa_dataset", merged["name"])
	assert.Equal(t, map[string]any{"type": "local", "path": "./local/vqa"}, merged["source"])

	// Inputs are left untouched.
	assert.Equal(t, "git", base["source"].(map[string]any)["type"])
	assert.Len(t, overrides, 1)
}

func TestMergeEmptyOverlay(t *testing.T) {
	base := map[string]any{"a": 1}
	assert.Equal(t, base, Merge(base, map[string]any{}))
	assert.Equal(t, base, Merge(base, nil))
}

func TestMerge_PropertyBased_ShallowOverride(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SampledFrom([]string{"a", "b", "c", "d", "e", "f"})
		base := rapid.MapOf(keys, rapid.Int()).Draw(t, "base")
		overrides := rapid.MapOf(keys, rapid.Int()).Draw(t, "overrides")

		baseAny := make(map[string]any, len(base))
		for k, v := range base {
			baseAny[k] = v
		}
		overridesAny := make(map[string]any, len(overrides))
		for k, v := range overrides {
			overridesAny[k] = v
		}

		merged := Merge(baseAny, overridesAny)

		for k, v := range overrides {
			if merged[k] != v {
				t.Fatalf("key %q: overlay value %v not applied, got %v", k, v, merged[k])
			}
		}
		for k, v := range base {
			if _, overridden := overrides[k]; overridden {
				continue
			}
			if merged[k] != v {
				t.Fatalf("key %q: base value %v lost, got %v", k, v, merged[k])
			}
		}
		for k := range merged {
			_, inBase := base[k]
			_, inOverrides := overrides[k]
			if !inBase && !inOverrides {
				t.Fatalf("unexpected key %q in merged mapping", k)
			}
		}
		if len(baseAny) != len(base) || len(overridesAny) != len(overrides) {
			t.Fatalf("inputs were modified")
		}
	})
}
