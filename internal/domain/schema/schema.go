package schema

import (
	"github.com/GriffinCanCode/taskregistry/internal/shared/types"
)

// Constructor builds a typed entity from a raw mapping. name is the registry
// key the mapping was loaded under and is used for error reporting.
type Constructor func(name string, raw map[string]any) (types.Entity, error)

var constructors = map[types.Category]Constructor{
	types.CategoryPackages:    adapt(NewPackage),
	types.CategoryTasks:       adapt(NewTask),
	types.CategoryDatasets:    adapt(NewDataset),
	types.CategoryMetrics:     adapt(NewMetric),
	types.CategoryReports:     adapt(NewReport),
	types.CategoryRuns:        adapt(NewRun),
	types.CategoryExperiments: adapt(NewExperimentPlan),
}

func adapt[T types.Entity](build func(string, map[string]any) (T, error)) Constructor {
	return func(name string, raw map[string]any) (types.Entity, error) {
		entity, err := build(name, raw)
		if err != nil {
			return nil, err
		}
		return entity, nil
	}
}

// Construct builds the entity for category from raw.
func Construct(category types.Category, name string, raw map[string]any) (types.Entity, error) {
	build, ok := constructors[category]
	if !ok {
		return nil, &ValidationError{Category: category, Name: name, Reason: "unknown registry category"}
	}
	return build(name, raw)
}

func newBase() types.Base {
	return types.Base{Version: types.DefaultVersion}
}

// NewPackage builds a Package. The source is required and selected by its
// type discriminant.
func NewPackage(name string, raw map[string]any) (*types.Package, error) {
	pkg := &types.Package{Base: newBase()}
	if err := decode(types.CategoryPackages, name, raw, pkg); err != nil {
		return nil, err
	}
	pkg.Metadata = captureUnknown(pkg.Metadata, raw, pkg)

	if err := check(types.CategoryPackages, name, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// NewTask builds a Task. A task without supported_frameworks supports the
// default framework set.
func NewTask(name string, raw map[string]any) (*types.Task, error) {
	task := &types.Task{Base: newBase()}
	if err := decode(types.CategoryTasks, name, raw, task); err != nil {
		return nil, err
	}
	task.Metadata = captureUnknown(task.Metadata, raw, task)

	if task.RequiredPackages == nil {
		task.RequiredPackages = []string{}
	}
	if task.SupportedMetrics == nil {
		task.SupportedMetrics = []string{}
	}
	if task.SupportedReports == nil {
		task.SupportedReports = []string{}
	}
	if raw["supported_frameworks"] == nil {
		task.SupportedFrameworks = types.DefaultSupportedFrameworks()
	}

	if err := check(types.CategoryTasks, name, task); err != nil {
		return nil, err
	}
	return task, nil
}

// NewDataset builds a Dataset.
func NewDataset(name string, raw map[string]any) (*types.Dataset, error) {
	ds := &types.Dataset{Base: newBase()}
	if err := decode(types.CategoryDatasets, name, raw, ds); err != nil {
		return nil, err
	}
	ds.Metadata = captureUnknown(ds.Metadata, raw, ds)

	if err := check(types.CategoryDatasets, name, ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// NewMetric builds a Metric.
func NewMetric(name string, raw map[string]any) (*types.Metric, error) {
	metric := &types.Metric{Base: newBase()}
	if err := decode(types.CategoryMetrics, name, raw, metric); err != nil {
		return nil, err
	}
	metric.Metadata = captureUnknown(metric.Metadata, raw, metric)

	if err := check(types.CategoryMetrics, name, metric); err != nil {
		return nil, err
	}
	return metric, nil
}

// NewReport builds a Report.
func NewReport(name string, raw map[string]any) (*types.Report, error) {
	report := &types.Report{Base: newBase()}
	if err := decode(types.CategoryReports, name, raw, report); err != nil {
		return nil, err
	}
	report.Metadata = captureUnknown(report.Metadata, raw, report)

	if err := check(types.CategoryReports, name, report); err != nil {
		return nil, err
	}
	return report, nil
}

// NewRun builds a Run. Requested metrics and reports are not checked against
// the task here.
func NewRun(name string, raw map[string]any) (*types.Run, error) {
	run := &types.Run{
		Base: newBase(),
		Model: types.ModelConfig{
			Framework:      types.DefaultFramework,
			PackageManager: types.PackageManagerPip,
		},
	}
	if err := decode(types.CategoryRuns, name, raw, run); err != nil {
		return nil, err
	}
	run.Metadata = captureUnknown(run.Metadata, raw, run)
	if model, ok := asMapping(raw["model"]); ok {
		run.Model.Params = captureUnknown(run.Model.Params, model, run.Model)
	}

	if run.Metrics == nil {
		run.Metrics = []string{}
	}
	if run.Reports == nil {
		run.Reports = []string{}
	}

	if err := check(types.CategoryRuns, name, run); err != nil {
		return nil, err
	}
	return run, nil
}

// NewExperimentPlan builds an ExperimentPlan. Tasks may mix run names and
// inline runs.
func NewExperimentPlan(name string, raw map[string]any) (*types.ExperimentPlan, error) {
	plan := &types.ExperimentPlan{
		Base:        newBase(),
		Parallelism: types.DefaultParallelism,
	}
	if err := decode(types.CategoryExperiments, name, raw, plan); err != nil {
		return nil, err
	}
	plan.Metadata = captureUnknown(plan.Metadata, raw, plan)

	if plan.Tasks == nil {
		plan.Tasks = []types.RunRef{}
	}

	if err := check(types.CategoryExperiments, name, plan); err != nil {
		return nil, err
	}
	return plan, nil
}
