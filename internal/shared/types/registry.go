package types

import (
	"encoding/json"
	"slices"
)

// Default values applied when a definition omits the field.
const (
	DefaultVersion     = "1.0.0"
	DefaultFramework   = "vllm"
	DefaultParallelism = 1
)

// DefaultSupportedFrameworks is the framework list of a task that declares none.
func DefaultSupportedFrameworks() []string {
	return []string{"vllm", "huggingface", "sglang"}
}

// Entity is implemented by every registry definition.
type Entity interface {
	EntityName() string
	Category() Category
}

// Base holds the fields every registry definition carries.
type Base struct {
	Name        string         `mapstructure:"name" json:"name" validate:"required"`
	Version     string         `mapstructure:"version" json:"version" validate:"required"`
	Description string         `mapstructure:"description" json:"description,omitempty"`
	Metadata    map[string]any `mapstructure:"metadata" json:"metadata,omitempty"`
}

// EntityName returns the registry name of the definition.
func (b Base) EntityName() string { return b.Name }

// Package is an installable dependency (packages/*.yaml).
type Package struct {
	Base        `mapstructure:",squash"`
	Source      DependencySource `mapstructure:"source" json:"source" validate:"required"`
	InstallArgs map[string]any   `mapstructure:"install_args" json:"install_args,omitempty"`
}

// Task is an ML task definition such as VQA or OCR (tasks/*.yaml).
type Task struct {
	Base                `mapstructure:",squash"`
	EntryPoint          string   `mapstructure:"entry_point" json:"entry_point" validate:"required"`
	RequiredPackages    []string `mapstructure:"required_packages" json:"required_packages"`
	SupportedMetrics    []string `mapstructure:"supported_metrics" json:"supported_metrics"`
	SupportedReports    []string `mapstructure:"supported_reports" json:"supported_reports"`
	SupportedFrameworks []string `mapstructure:"supported_frameworks" json:"supported_frameworks"`
}

// SupportsMetric reports whether the task permits the metric instance.
func (t *Task) SupportsMetric(name string) bool {
	return slices.Contains(t.SupportedMetrics, name)
}

// SupportsReport reports whether the task permits the report instance.
func (t *Task) SupportsReport(name string) bool {
	return slices.Contains(t.SupportedReports, name)
}

// SupportsFramework reports whether the task can run on the framework.
func (t *Task) SupportsFramework(framework string) bool {
	return slices.Contains(t.SupportedFrameworks, framework)
}

// Dataset describes a data source and the loader that iterates it (datasets/*.yaml).
type Dataset struct {
	Base    `mapstructure:",squash"`
	Type    string         `mapstructure:"type" json:"type" validate:"required"`
	Path    string         `mapstructure:"path" json:"path" validate:"required"`
	Params  map[string]any `mapstructure:"params" json:"params,omitempty"`
	Package string         `mapstructure:"package" json:"package,omitempty"`
}

// Metric is a metric implementation instance (metrics/*.yaml).
type Metric struct {
	Base      `mapstructure:",squash"`
	ClassPath string         `mapstructure:"class_path" json:"class_path" validate:"required"`
	Params    map[string]any `mapstructure:"params" json:"params,omitempty"`
	Package   string         `mapstructure:"package" json:"package,omitempty"`
}

// Report is a report generator instance (reports/*.yaml).
type Report struct {
	Base      `mapstructure:",squash"`
	ClassPath string         `mapstructure:"class_path" json:"class_path" validate:"required"`
	Params    map[string]any `mapstructure:"params" json:"params,omitempty"`
	Package   string         `mapstructure:"package" json:"package,omitempty"`
}

// PackageManager selects the installer used for a model environment.
type PackageManager string

const (
	PackageManagerPip   PackageManager = "pip"
	PackageManagerUV    PackageManager = "uv"
	PackageManagerConda PackageManager = "conda"
)

// ModelConfig describes the model under test.
type ModelConfig struct {
	Name           string         `mapstructure:"name" json:"name" validate:"required"`
	Framework      string         `mapstructure:"framework" json:"framework" validate:"required"`
	DockerImage    string         `mapstructure:"docker_image" json:"docker_image,omitempty"`
	PackageManager PackageManager `mapstructure:"package_manager" json:"package_manager" validate:"oneof=pip uv conda"`
	Params         map[string]any `mapstructure:"params" json:"params,omitempty"`
}

// CustomPackage is a run-level package addition: either a registry name or
// an inline definition.
type CustomPackage struct {
	Name   string
	Inline *Package
}

// IsInline reports whether the package is defined in place.
func (c CustomPackage) IsInline() bool { return c.Inline != nil }

// MarshalJSON writes a bare name for references and the full definition for
// inline packages.
func (c CustomPackage) MarshalJSON() ([]byte, error) {
	if c.Inline != nil {
		return json.Marshal(c.Inline)
	}
	return json.Marshal(c.Name)
}

// Run is a single benchmark run definition (runs/*.yaml).
//
// Metrics and Reports are not checked against the task here; see
// registry.Manager.ValidateRun.
type Run struct {
	Base           `mapstructure:",squash"`
	MLTask         string          `mapstructure:"ml_task" json:"ml_task" validate:"required"`
	Model          ModelConfig     `mapstructure:"model" json:"model"`
	Dataset        string          `mapstructure:"dataset" json:"dataset" validate:"required"`
	Metrics        []string        `mapstructure:"metrics" json:"metrics"`
	Reports        []string        `mapstructure:"reports" json:"reports"`
	CustomPackages []CustomPackage `mapstructure:"custom_packages" json:"custom_packages,omitempty" validate:"dive"`
}

// RunRef is one experiment task: a run name or an inline run.
type RunRef struct {
	Name   string
	Inline *Run
}

// IsInline reports whether the run is defined in place.
func (r RunRef) IsInline() bool { return r.Inline != nil }

// MarshalJSON writes a bare name for references and the full run for inline entries.
func (r RunRef) MarshalJSON() ([]byte, error) {
	if r.Inline != nil {
		return json.Marshal(r.Inline)
	}
	return json.Marshal(r.Name)
}

// ExperimentPlan groups runs executed together (experiments/*.yaml).
type ExperimentPlan struct {
	Base        `mapstructure:",squash"`
	Parallelism int      `mapstructure:"parallelism" json:"parallelism" validate:"gte=1"`
	Tasks       []RunRef `mapstructure:"tasks" json:"tasks" validate:"dive"`
}

func (*Package) Category() Category        { return CategoryPackages }
func (*Task) Category() Category           { return CategoryTasks }
func (*Dataset) Category() Category        { return CategoryDatasets }
func (*Metric) Category() Category         { return CategoryMetrics }
func (*Report) Category() Category         { return CategoryReports }
func (*Run) Category() Category            { return CategoryRuns }
func (*ExperimentPlan) Category() Category { return CategoryExperiments }
