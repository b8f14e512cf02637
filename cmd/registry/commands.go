package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/taskregistry/internal/domain/registry"
	"github.com/GriffinCanCode/taskregistry/internal/shared/id"
	"github.com/GriffinCanCode/taskregistry/internal/shared/types"
	"github.com/GriffinCanCode/taskregistry/internal/shared/utils"
)

var errCheckFailed = errors.New("registry check failed")

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <category> <name>",
		Short: "Resolve a definition and print it as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := types.ParseCategory(args[0])
			if err != nil {
				return err
			}
			entity, err := a.manager.Resolve(category, args[1])
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), entity)
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [category]",
		Short: "List definition names",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				category, err := types.ParseCategory(args[0])
				if err != nil {
					return err
				}
				names, err := a.manager.List(category)
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			all, err := a.manager.ListAll()
			if err != nil {
				return err
			}
			for _, category := range types.Categories() {
				for _, name := range all[category] {
					fmt.Fprintf(out, "%s/%s\n", category, name)
				}
			}
			return nil
		},
	}
}

func newValidateRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-run <name>",
		Short: "Check a run's metrics and reports against its task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := a.manager.GetRun(args[0])
			if err != nil {
				return err
			}
			if err := a.manager.ValidateRun(run); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s is valid for task %s\n", run.Name, run.MLTask)
			return nil
		},
	}
}

func newValidateExperimentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-experiment <name>",
		Short: "Cross-validate every run of an experiment plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := a.manager.GetExperiment(args[0])
			if err != nil {
				return err
			}
			if err := a.manager.ValidateExperiment(plan); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "experiment %s is valid (%d runs, parallelism %d)\n",
				plan.Name, len(plan.Tasks), plan.Parallelism)
			return nil
		},
	}
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Resolve every definition and cross-validate every run",
		Long:  `Resolves every definition and cross-validates every run. With REGISTRY_WATCH=true (or watch: true in the config file) it keeps watching afterwards.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			report, err := registry.NewSeeder(a.manager).Seed(cmd.Context())
			if err != nil {
				return err
			}
			for _, failure := range report.Failed {
				fmt.Fprintf(out, "FAIL %s/%s: %v\n", failure.Category, failure.Name, failure.Err)
			}

			invalid := 0
			runs, err := a.manager.List(types.CategoryRuns)
			if err != nil {
				return err
			}
			for _, name := range runs {
				if !a.manager.Cached(types.CategoryRuns, name) {
					continue // already reported
				}
				run, err := a.manager.GetRun(name)
				if err != nil {
					return err
				}
				if err := a.manager.ValidateRun(run); err != nil {
					fmt.Fprintf(out, "FAIL runs/%s: %v\n", name, err)
					invalid++
				}
			}

			snapshot := a.metrics.Snapshot()
			fmt.Fprintf(out, "%d loaded, %d failed, %d invalid runs (resolve avg %s, p50 %s, p95 %s)\n",
				report.Loaded, len(report.Failed), invalid,
				snapshot.AverageResolveDuration(), report.Quantile(0.5), report.Quantile(0.95))
			if a.cfg.Registry.Watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return a.watch(ctx, cmd)
			}
			if len(report.Failed) > 0 || invalid > 0 {
				return errCheckFailed
			}
			return nil
		},
	}
}

func newManifestCmd(a *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "manifest <run>",
		Short: "Print or save the runtime manifest of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := a.manager.GetRun(args[0])
			if err != nil {
				return err
			}
			manifest, err := a.manager.BuildManifest(run)
			if err != nil {
				return err
			}
			if outPath == "" {
				return a.print(cmd.OutOrStdout(), manifest)
			}

			data, err := encode(manifest, a.format)
			if err != nil {
				return err
			}
			if err := writeOutputFile(outPath, data); err != nil {
				return err
			}
			created, err := id.ManifestID(manifest.ID).Time()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "manifest %s (digest %s, created %s) written to %s\n",
				manifest.ID, utils.ShortHash(manifest.Digest), created.UTC().Format(time.RFC3339), outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file (.gz and .zst are compressed)")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Preload the registry and re-resolve definitions as their files change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, cmd)
		},
	}
}

func (a *app) watch(ctx context.Context, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	if _, err := registry.NewSeeder(a.manager).Seed(ctx); err != nil {
		return err
	}

	w, err := registry.NewWatcher(a.manager)
	if err != nil {
		return err
	}
	defer w.Stop()

	changes, err := w.Start()
	if err != nil {
		return err
	}
	a.logger.Info("Watching registry", zap.String("root", a.manager.Root()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case change := <-changes:
			if _, err := a.manager.Resolve(change.Category, change.Name); err != nil {
				fmt.Fprintf(out, "%s %s/%s: %v\n", change.Op, change.Category, change.Name, err)
				continue
			}
			fmt.Fprintf(out, "%s %s/%s: ok\n", change.Op, change.Category, change.Name)
		}
	}
}
