package registry

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/taskregistry/internal/shared/types"
)

// ValidateRun checks that every metric and report run requests is supported
// by its task. Metrics are checked before reports and the first unsupported
// entry is reported. Errors resolving the task are returned unchanged.
func (m *Manager) ValidateRun(run *types.Run) error {
	task, err := m.GetTask(run.MLTask)
	if err != nil {
		return err
	}

	for _, metric := range run.Metrics {
		if !task.SupportsMetric(metric) {
			return m.violation(run, &ConstraintViolationError{
				Kind: ViolationMetric, Item: metric, Task: task.Name, Supported: task.SupportedMetrics,
			})
		}
	}
	for _, report := range run.Reports {
		if !task.SupportsReport(report) {
			return m.violation(run, &ConstraintViolationError{
				Kind: ViolationReport, Item: report, Task: task.Name, Supported: task.SupportedReports,
			})
		}
	}

	m.metrics.RecordRunValidated()
	return nil
}

func (m *Manager) violation(run *types.Run, err *ConstraintViolationError) error {
	m.metrics.RecordConstraintViolation(string(err.Kind))
	m.logger.Warn("Run failed cross-validation",
		zap.String("run", run.Name),
		zap.String("task", err.Task),
		zap.String("kind", string(err.Kind)),
		zap.String("item", err.Item))
	return err
}

// ExperimentRuns returns the runs of plan in order. Named entries are
// resolved through the registry, inline entries are used as they are.
func (m *Manager) ExperimentRuns(plan *types.ExperimentPlan) ([]*types.Run, error) {
	runs := make([]*types.Run, 0, len(plan.Tasks))
	for i, ref := range plan.Tasks {
		if ref.IsInline() {
			runs = append(runs, ref.Inline)
			continue
		}
		run, err := m.GetRun(ref.Name)
		if err != nil {
			return nil, fmt.Errorf("experiment %s task %d: %w", plan.Name, i, err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// ValidateExperiment cross-validates every run of plan, stopping at the first
// failure.
func (m *Manager) ValidateExperiment(plan *types.ExperimentPlan) error {
	runs, err := m.ExperimentRuns(plan)
	if err != nil {
		return err
	}
	for i, run := range runs {
		if err := m.ValidateRun(run); err != nil {
			return fmt.Errorf("experiment %s task %d (%s): %w", plan.Name, i, run.Name, err)
		}
	}
	return nil
}

// ResolvedPackage is a package under the name the task or run refers to it
// by, which may differ from the name inside its definition.
type ResolvedPackage struct {
	Name    string
	Package *types.Package
}

// RunBundle is a run together with every definition it references
type RunBundle struct {
	Run      *types.Run
	Task     *types.Task
	Dataset  *types.Dataset
	Metrics  []*types.Metric
	Reports  []*types.Report
	Packages []ResolvedPackage
}

// ResolveRun validates run and resolves its task, dataset, metrics, reports
// and packages. The model framework must be one the task supports.
func (m *Manager) ResolveRun(run *types.Run) (*RunBundle, error) {
	if err := m.ValidateRun(run); err != nil {
		return nil, err
	}
	task, err := m.GetTask(run.MLTask)
	if err != nil {
		return nil, err
	}
	if !task.SupportsFramework(run.Model.Framework) {
		return nil, m.violation(run, &ConstraintViolationError{
			Kind: ViolationFramework, Item: run.Model.Framework, Task: task.Name, Supported: task.SupportedFrameworks,
		})
	}

	bundle := &RunBundle{
		Run:     run,
		Task:    task,
		Metrics: make([]*types.Metric, 0, len(run.Metrics)),
		Reports: make([]*types.Report, 0, len(run.Reports)),
	}
	if bundle.Dataset, err = m.GetDataset(run.Dataset); err != nil {
		return nil, err
	}
	for _, name := range run.Metrics {
		metric, err := m.GetMetric(name)
		if err != nil {
			return nil, err
		}
		bundle.Metrics = append(bundle.Metrics, metric)
	}
	for _, name := range run.Reports {
		report, err := m.GetReport(name)
		if err != nil {
			return nil, err
		}
		bundle.Reports = append(bundle.Reports, report)
	}
	if bundle.Packages, err = m.collectPackages(task, run); err != nil {
		return nil, err
	}
	return bundle, nil
}

// collectPackages returns the task's required packages followed by the run's
// custom packages, keyed by reference name. A later package replaces an
// earlier one of the same name in place.
func (m *Manager) collectPackages(task *types.Task, run *types.Run) ([]ResolvedPackage, error) {
	var ordered []ResolvedPackage
	index := make(map[string]int)
	add := func(name string, pkg *types.Package) {
		if i, ok := index[name]; ok {
			ordered[i].Package = pkg
			return
		}
		index[name] = len(ordered)
		ordered = append(ordered, ResolvedPackage{Name: name, Package: pkg})
	}

	for _, name := range task.RequiredPackages {
		pkg, err := m.GetPackage(name)
		if err != nil {
			return nil, err
		}
		add(name, pkg)
	}
	for _, custom := range run.CustomPackages {
		if custom.IsInline() {
			name := custom.Name
			if name == "" {
				name = custom.Inline.Name
			}
			add(name, custom.Inline)
			continue
		}
		pkg, err := m.GetPackage(custom.Name)
		if err != nil {
			return nil, err
		}
		add(custom.Name, pkg)
	}
	if ordered == nil {
		ordered = []ResolvedPackage{}
	}
	return ordered, nil
}
