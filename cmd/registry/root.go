package main

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/taskregistry/internal/domain/registry"
	"github.com/GriffinCanCode/taskregistry/internal/infrastructure/config"
	"github.com/GriffinCanCode/taskregistry/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/taskregistry/internal/logging"
	"github.com/GriffinCanCode/taskregistry/internal/shared/types"
)

// app is the state shared by every subcommand, built in PersistentPreRunE
type app struct {
	v       *viper.Viper
	cfgFile string
	format  string

	cfg     *config.Config
	logger  *logging.Logger
	metrics *monitoring.RegistryMetrics
	manager *registry.Manager
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "registry",
		Short:         "Inspect and validate a benchmark registry",
		Long:          `Resolves packages, tasks, datasets, metrics, reports, runs and experiment plans from a registry tree and cross-checks runs against their tasks.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (YAML)")
	flags.StringP("root", "r", "", "registry root directory")
	flags.StringP("mode", "m", "", "run mode: development or production")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.Bool("log-dev", false, "human-readable log output")
	flags.StringVarP(&a.format, "format", "f", formatJSON, "output format: json, yaml or toml")

	// Bind flags to viper
	_ = a.v.BindPFlag("root", flags.Lookup("root"))
	_ = a.v.BindPFlag("run_mode", flags.Lookup("mode"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log_dev", flags.Lookup("log-dev"))

	rootCmd.AddCommand(
		newGetCmd(a),
		newListCmd(a),
		newValidateRunCmd(a),
		newValidateExperimentCmd(a),
		newCheckCmd(a),
		newManifestCmd(a),
		newWatchCmd(a),
	)
	return rootCmd
}

// init resolves settings (env < config file < flags) and builds the manager.
func (a *app) init() error {
	env, err := config.Load()
	if err != nil {
		return err
	}

	a.v.SetDefault("root", env.Registry.Root)
	a.v.SetDefault("run_mode", env.Registry.RunMode.String())
	a.v.SetDefault("watch", env.Registry.Watch)
	a.v.SetDefault("log_level", env.Logging.Level)
	a.v.SetDefault("log_dev", env.Logging.Development)

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", a.cfgFile, err)
		}
	}

	a.cfg = &config.Config{
		Registry: config.RegistryConfig{
			Root:    a.v.GetString("root"),
			RunMode: types.ParseRunMode(a.v.GetString("run_mode")),
			Watch:   a.v.GetBool("watch"),
		},
		Logging: config.LogConfig{
			Level:       a.v.GetString("log_level"),
			Development: a.v.GetBool("log_dev"),
		},
	}

	logCfg := logging.ForRunMode(a.cfg.Registry.RunMode, a.cfg.Logging.Level)
	if a.cfg.Logging.Development {
		logCfg.Development = true
	}
	a.logger, err = logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	a.metrics = monitoring.NewRegistryMetrics(prometheus.NewRegistry())
	a.manager = registry.NewManager(a.cfg.Registry.Root, a.cfg.Registry.RunMode,
		registry.WithLogger(a.logger.Logger),
		registry.WithMetrics(a.metrics))

	a.logger.Debug("Registry configured",
		zap.String("root", a.cfg.Registry.Root),
		zap.String("mode", a.cfg.Registry.RunMode.String()))
	return nil
}

// print writes v to the command's output in the selected format
func (a *app) print(w io.Writer, v interface{}) error {
	return render(w, v, a.format)
}
